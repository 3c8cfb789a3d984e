package dto

import "time"

// LoginRequest entrada del formulario de login. Acepta las claves en inglés o en español.
type LoginRequest struct {
	Email      string `json:"email"`
	Correo     string `json:"correo"`
	Password   string `json:"password"`
	Contrasena string `json:"contraseña"`
}

// Identifier devuelve el correo ingresado, en cualquiera de sus dos claves.
func (r LoginRequest) Identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Correo
}

// Secret devuelve la contraseña ingresada, en cualquiera de sus dos claves.
func (r LoginRequest) Secret() string {
	if r.Password != "" {
		return r.Password
	}
	return r.Contrasena
}

// BackendLoginBody es el cuerpo que se envía a POST /login. Lleva ambos pares de claves para
// backends que esperan inglés o español; la clave "contraseña" viaja con su ñ.
type BackendLoginBody struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Correo     string `json:"correo"`
	Contrasena string `json:"contraseña"`
}

// NewBackendLoginBody arma el cuerpo con ambos pares.
func NewBackendLoginBody(identifier, secret string) BackendLoginBody {
	return BackendLoginBody{Email: identifier, Password: secret, Correo: identifier, Contrasena: secret}
}

// UserView es el usuario tal como lo muestra la barra de navegación.
type UserView struct {
	ID          string `json:"id,omitempty"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	RoleLabel   string `json:"role_label,omitempty"`
}

// LoginResponse salida del login: usuario y ruta de destino según el rol.
type LoginResponse struct {
	User     *UserView `json:"user,omitempty"`
	Redirect string    `json:"redirect"`
}

// NavLink enlace de la barra de navegación.
type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// TokenStatus información del token cuando es un JWT. Solo informativa.
type TokenStatus struct {
	Format    string     `json:"format"` // "jwt" | "opaque"
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired,omitempty"`
}

// SessionResponse respuesta de GET /session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *UserView    `json:"user,omitempty"`
	Links         []NavLink    `json:"links,omitempty"`
	Token         *TokenStatus `json:"token,omitempty"`
}
