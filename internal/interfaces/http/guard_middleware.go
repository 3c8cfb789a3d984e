package http

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/gestion-horarios/internal/application/auth"
	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
)

// LocalUser clave de Locals con el *entity.User de la sesión ya revalidada.
const LocalUser = "user"

// SignOutPath es la acción "cerrar sesión" de la vista de acceso denegado.
const SignOutPath = "/acceso-denegado/cerrar-sesion"

// VerdictObserver recibe cada veredicto del guard (métricas).
type VerdictObserver interface {
	ObserveVerdict(required entity.Role, state string)
}

// RequireRole protege las rutas que siguen con el guard indicado. Cada petición se evalúa de
// nuevo contra el backend:
//   - sin sesión o revalidación fallida → 303 al login.
//   - rol distinto del exigido → 403 con la vista de acceso denegado.
//   - permitido → continúa con el usuario en Locals(LocalUser).
func RequireRole(guard *auth.Guard, obs VerdictObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := guard.Evaluate(c.UserContext())
		if err != nil {
			// El cliente se fue durante la revalidación; no hay a quién responder.
			return fiber.NewError(fiber.StatusServiceUnavailable, "verificación de sesión cancelada")
		}
		if obs != nil {
			obs.ObserveVerdict(guard.RequiredRole(), v.State.String())
		}

		switch v.State {
		case auth.StateAllowed:
			c.Locals(LocalUser, v.User)
			return c.Next()
		case auth.StateDenied:
			return c.Status(fiber.StatusForbidden).JSON(accessDeniedView(v))
		default:
			return redirectToLogin(c)
		}
	}
}

// GuardSignOut atiende la acción "cerrar sesión" de la vista de acceso denegado.
func GuardSignOut(guard *auth.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guard.SignOut(c.UserContext())
		return redirectToLogin(c)
	}
}

// GetUser devuelve el usuario puesto por RequireRole, o nil.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// accessDeniedView arma la vista 403: el rol real y las salidas "volver" (sin cambio de
// estado) y "cerrar sesión".
func accessDeniedView(v auth.Verdict) dto.AccessDeniedView {
	return dto.AccessDeniedView{
		Code:         "ACCESS_DENIED",
		Message:      "No tienes permisos para acceder a esta sección",
		RequiredRole: string(v.RequiredRole),
		ActualRole:   string(v.ActualRole),
		RoleLabel:    roleLabel(v.ActualRole, v.User),
		Actions: []dto.ActionLink{
			{Label: "volver", Method: fiber.MethodGet, Href: v.ActualRole.LandingPath()},
			{Label: "cerrar sesión", Method: fiber.MethodPost, Href: SignOutPath},
		},
	}
}

// roleLabel devuelve la etiqueta del rol: la conocida, el tipo que envió el backend o, en
// último caso, el rol corto con mayúscula inicial.
func roleLabel(r entity.Role, u *entity.User) string {
	var raw string
	if u != nil {
		if u.DisplayRole != "" {
			return u.DisplayRole
		}
		raw = u.RawType
	}
	if label := entity.DisplayRole(r, raw); label != "" {
		return label
	}
	// cases.Caser guarda estado; se crea uno por llamada.
	return cases.Title(language.Spanish).String(string(r))
}
