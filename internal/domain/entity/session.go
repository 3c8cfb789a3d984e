package entity

// Session es el registro que el cliente mantiene del principal autenticado.
// La presencia de Token implica "autenticado"; sin Token, User se ignora.
type Session struct {
	Token string
	User  *User
}

// Authenticated indica si hay credencial.
func (s Session) Authenticated() bool { return s.Token != "" }

// ClearReason explica por qué se vació la sesión.
type ClearReason string

const (
	ClearLogout             ClearReason = "logout"
	ClearRejected           ClearReason = "rejected"            // 401 de cualquier endpoint
	ClearGuardSignOut       ClearReason = "guard_sign_out"      // "cerrar sesión" desde acceso denegado
	ClearRevalidationFailed ClearReason = "revalidation_failed" // /me falló durante la verificación
)

// ClearEvent se emite cada vez que la sesión se vacía.
type ClearEvent struct {
	Reason ClearReason
	// HadToken indica si había un token antes de limpiar; limpiar dos veces es válido.
	HadToken bool
}
