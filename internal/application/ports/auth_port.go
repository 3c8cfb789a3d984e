package ports

import (
	"context"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
)

// AuthAPI define el puerto de salida hacia los endpoints de autenticación del backend.
// Los cuerpos de respuesta se devuelven crudos: su forma varía entre versiones del backend y
// la normalización es responsabilidad de la capa de aplicación.
type AuthAPI interface {
	// Login envía POST /login sin credencial bearer.
	Login(ctx context.Context, body dto.BackendLoginBody) (map[string]any, error)
	// Logout envía POST /logout; la respuesta se ignora.
	Logout(ctx context.Context) error
	// Me consulta GET /me con el token guardado.
	Me(ctx context.Context) (map[string]any, error)
}
