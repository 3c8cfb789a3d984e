package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"errors,omitempty"`
}

// ListResponse envuelve los listados del shell.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// ItemResponse envuelve un único registro.
type ItemResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// AccessDeniedView es lo que muestra el guard cuando el rol no coincide: el rol real del
// usuario y las dos salidas posibles.
type AccessDeniedView struct {
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	RequiredRole string       `json:"required_role"`
	ActualRole   string       `json:"actual_role"`
	RoleLabel    string       `json:"role_label"`
	Actions      []ActionLink `json:"actions"`
}

// ActionLink es una acción ofrecida al usuario.
type ActionLink struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Href   string `json:"href"`
}
