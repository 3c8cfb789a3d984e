package entity

import "strings"

// Role es la clasificación corta del usuario que gobierna todas las decisiones de acceso.
// Los valores conocidos son RoleAdmin y RoleDocente; cualquier otro valor es el tipo
// original en minúsculas. El valor cero significa "sin rol".
type Role string

// Roles conocidos.
const (
	RoleNone    Role = ""
	RoleAdmin   Role = "admin"
	RoleDocente Role = "docente"
)

// Etiquetas legibles para los roles conocidos.
const (
	DisplayAdmin   = "Administrador"
	DisplayDocente = "Docente"
)

// ClassifyRole es la única autoridad sobre la semántica de roles: login, sesión guardada y guard
// la reutilizan. Compara en minúsculas:
//   - "a" o contiene "admin" → admin
//   - "d" o contiene "docen", "teacher" o "prof" → docente
//   - cualquier otro valor → el mismo valor en minúsculas
func ClassifyRole(value string) Role {
	if value == "" {
		return RoleNone
	}
	s := strings.ToLower(value)
	switch {
	case s == "a" || strings.Contains(s, "admin"):
		return RoleAdmin
	case s == "d" || strings.Contains(s, "docen") || strings.Contains(s, "teacher") || strings.Contains(s, "prof"):
		return RoleDocente
	default:
		return Role(s)
	}
}

// IsKnown indica si el rol es admin o docente.
func (r Role) IsKnown() bool {
	return r == RoleAdmin || r == RoleDocente
}

// DisplayRole devuelve la etiqueta legible del rol. Para roles desconocidos se usa rawType tal
// como llegó del backend (sin pasar a minúsculas); si rawType está vacío no hay etiqueta.
func DisplayRole(r Role, rawType string) string {
	switch r {
	case RoleAdmin:
		return DisplayAdmin
	case RoleDocente:
		return DisplayDocente
	}
	return rawType
}

// LandingPath devuelve la ruta a la que se envía al usuario tras iniciar sesión.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleDocente:
		return "/horario"
	default:
		return "/"
	}
}
