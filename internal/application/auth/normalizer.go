package auth

import (
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
)

// path es una ruta de claves dentro de un cuerpo JSON decodificado (p. ej. data.token).
type path []string

// Rutas de búsqueda, en orden de prioridad. El primer valor presente gana; no se mezclan.
var (
	tokenPaths = []path{
		{"data", "token"},
		{"data", "access_token"},
		{"token"},
		{"access_token"},
		{"accessToken"},
	}
	userPaths = []path{
		{"data", "usuario"},
		{"data", "user"},
		{"usuario"},
		{"user"},
		{"user_data"},
	}

	// Segundo intento cuando el cuerpo trae success + data.
	retryTokenPaths = []path{{"data", "token"}, {"data", "access_token"}}
	retryUserPaths  = []path{{"data", "usuario"}, {"data", "user"}}

	rawTypeKeys = []string{"type", "tipo", "role", "rol"}
	nameKeys    = []string{"nombre", "name", "nombre_completo", "first_name"}
	emailKeys   = []string{"email", "correo", "email_address"}
)

// Claves que el usuario normalizado reescribe; el resto se copia sin cambios.
var canonicalKeys = []string{"type", "_role", "rol", "nombre", "correo"}

// Credentials es el par token + usuario extraído de una respuesta de login.
type Credentials struct {
	Token string
	User  *entity.User
}

// ExtractCredentials obtiene token y usuario de un cuerpo de login con cualquiera de las formas
// conocidas del backend. Sin token devuelve *domain.ShapeError con body.message o el mensaje
// genérico. No tiene efectos secundarios.
func ExtractCredentials(body map[string]any) (Credentials, error) {
	if token, ok := lookupString(body, tokenPaths); ok {
		return Credentials{Token: token, User: NormalizeUser(lookupObject(body, userPaths))}, nil
	}

	if success, _ := entity.StringOf(body["success"]); success != "" {
		if _, hasData := lookupObjectPath(body, path{"data"}); hasData {
			if token, ok := lookupString(body, retryTokenPaths); ok {
				return Credentials{Token: token, User: NormalizeUser(lookupObject(body, retryUserPaths))}, nil
			}
		}
	}

	msg, ok := entity.StringOf(body["message"])
	if !ok {
		msg = domain.MsgUnexpectedLogin
	}
	return Credentials{}, &domain.ShapeError{Message: msg}
}

// NormalizeUser convierte el usuario crudo del backend en la forma canónica.
// Devuelve nil si raw es nil.
func NormalizeUser(raw map[string]any) *entity.User {
	if raw == nil {
		return nil
	}
	rawType := firstString(raw, rawTypeKeys)
	role := entity.ClassifyRole(rawType)

	u := &entity.User{
		RawType:     rawType,
		ShortRole:   role,
		DisplayRole: entity.DisplayRole(role, rawType),
		Name:        firstString(raw, nameKeys),
		Email:       firstString(raw, emailKeys),
	}

	extra := make(map[string]any, len(raw))
	for k, v := range raw {
		extra[k] = v
	}
	for _, k := range canonicalKeys {
		delete(extra, k)
	}
	if len(extra) > 0 {
		u.Extra = extra
	}
	return u
}

// UnwrapData devuelve body.data si es un objeto, o body en otro caso.
func UnwrapData(body map[string]any) map[string]any {
	if data, ok := lookupObjectPath(body, path{"data"}); ok {
		return data
	}
	return body
}

func firstString(obj map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := entity.StringOf(obj[k]); ok {
			return s
		}
	}
	return ""
}

func lookupString(body map[string]any, paths []path) (string, bool) {
	for _, p := range paths {
		v, ok := lookup(body, p)
		if !ok {
			continue
		}
		if s, ok := entity.StringOf(v); ok {
			return s, true
		}
	}
	return "", false
}

func lookupObject(body map[string]any, paths []path) map[string]any {
	for _, p := range paths {
		if obj, ok := lookupObjectPath(body, p); ok {
			return obj
		}
	}
	return nil
}

func lookupObjectPath(body map[string]any, p path) (map[string]any, bool) {
	v, ok := lookup(body, p)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// lookup recorre p dentro de body. Un tramo intermedio que no es objeto corta la búsqueda.
func lookup(body map[string]any, p path) (any, bool) {
	var cur any = body
	for _, key := range p {
		obj, ok := cur.(map[string]any)
		if !ok || obj == nil {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}
