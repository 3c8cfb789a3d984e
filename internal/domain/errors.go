package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrMissingIdentifier       = errors.New("el registro no tiene id")
	ErrUnexpectedResponseShape = errors.New("respuesta inesperada del servidor")
	ErrAuthenticationRejected  = errors.New("sesión rechazada por el servidor")
	ErrRevalidationFailed      = errors.New("no se pudo verificar la sesión")
	ErrNotAuthenticated        = errors.New("no hay sesión activa")
)

// Mensajes por defecto cuando el backend no envía uno propio.
const (
	MsgUnexpectedLogin = "Respuesta inesperada del servidor al iniciar sesión"
	MsgLoginFailed     = "Error al iniciar sesión"
	MsgCurrentUser     = "Error al obtener datos del usuario"
)

// ShapeError indica que el login respondió bien a nivel de transporte pero sin token
// reconocible. Message es body.message si venía, o MsgUnexpectedLogin.
type ShapeError struct {
	Message string
}

func (e *ShapeError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrUnexpectedResponseShape).
func (e *ShapeError) Is(target error) bool { return target == ErrUnexpectedResponseShape }

// AuthError es el error que ve quien llamó a login o a la consulta del usuario actual.
// Message se muestra tal cual; Err conserva la causa.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// HTTPError es una respuesta no 2xx del backend.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string // body.message si el backend lo envió
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
}

// Is hace que un 401 sea errors.Is(err, ErrAuthenticationRejected) y un 404 ErrNotFound.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrAuthenticationRejected:
		return e.Status == 401
	case ErrNotFound:
		return e.Status == 404
	}
	return false
}

// ValidationError lleva los errores por campo que devuelve el backend ({"errors": {...}}).
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	if e.Message != "" {
		return e.Message + " (" + strings.Join(parts, "; ") + ")"
	}
	return "validación: " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// MessageOf devuelve el mensaje para mostrar de err: el del backend si existe, el propio
// mensaje del error si no, o fallback si err es nil.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) && shapeErr.Message != "" {
		return shapeErr.Message
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			return httpErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
