package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-horarios/internal/application/auth"
	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	pkgjwt "github.com/jhoicas/gestion-horarios/pkg/jwt"
)

// LoginObserver recibe cada intento de login (métricas).
type LoginObserver interface {
	ObserveLogin(ok bool, role entity.Role)
}

// AuthHandler maneja login, logout y el estado de la sesión.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	obs LoginObserver
	now func() time.Time
}

// NewAuthHandler construye el handler de auth. obs puede ser nil.
func NewAuthHandler(uc *auth.AuthUseCase, obs LoginObserver) *AuthHandler {
	return &AuthHandler{uc: uc, obs: obs, now: time.Now}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email/correo y password/contraseña"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Identifier() == "" || in.Secret() == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "correo y contraseña son requeridos"})
	}

	creds, err := h.uc.Login(c.UserContext(), in.Identifier(), in.Secret())
	if err != nil {
		h.observe(false, entity.RoleNone)
		return c.Status(loginFailureStatus(err)).JSON(dto.ErrorResponse{
			Code: "LOGIN_FAILED", Message: domain.MessageOf(err, domain.MsgLoginFailed),
		})
	}

	role := entity.RoleNone
	if creds.User != nil {
		role = creds.User.ShortRole
	}
	h.observe(true, role)
	return c.JSON(dto.LoginResponse{User: userView(creds.User), Redirect: role.LandingPath()})
}

// loginFailureStatus: credenciales rechazadas → 401; otro 4xx del backend → 400; el resto
// (red, forma inesperada, 5xx) → 502.
func loginFailureStatus(err error) int {
	if errors.Is(err, domain.ErrAuthenticationRejected) {
		return fiber.StatusUnauthorized
	}
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status >= 400 && httpErr.Status < 500 {
		return fiber.StatusBadRequest
	}
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusBadGateway
}

func (h *AuthHandler) observe(ok bool, role entity.Role) {
	if h.obs != nil {
		h.obs.ObserveLogin(ok, role)
	}
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      303
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.uc.Logout(c.UserContext())
	return redirectToLogin(c)
}

// Session godoc
// @Summary      Estado de la sesión (barra de navegación)
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess, err := h.uc.Session(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if !sess.Authenticated() {
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}
	out := dto.SessionResponse{
		Authenticated: true,
		User:          userView(sess.User),
		Links:         navLinks(h.uc.UserRole(c.UserContext())),
		Token:         h.tokenStatus(sess.Token),
	}
	return c.JSON(out)
}

func (h *AuthHandler) tokenStatus(token string) *dto.TokenStatus {
	info, err := pkgjwt.Inspect(token, h.now())
	if err != nil {
		return &dto.TokenStatus{Format: "opaque"}
	}
	return &dto.TokenStatus{Format: "jwt", ExpiresAt: info.ExpiresAt, Expired: info.Expired}
}

func userView(u *entity.User) *dto.UserView {
	if u == nil {
		return nil
	}
	role := u.ShortRole
	if role == entity.RoleNone {
		role = entity.ClassifyRole(u.RoleSource())
	}
	label := u.DisplayRole
	if label == "" {
		label = entity.DisplayRole(role, u.RawType)
	}
	return &dto.UserView{
		ID:          u.ID(),
		DisplayName: u.DisplayName(),
		Email:       u.Email,
		Role:        string(role),
		RoleLabel:   label,
	}
}

// navLinks enlaces de la barra según el rol: el administrador ve el panel y los catálogos.
func navLinks(r entity.Role) []dto.NavLink {
	switch r {
	case entity.RoleAdmin:
		return []dto.NavLink{
			{Label: "Panel", Href: "/admin"},
			{Label: "Aulas", Href: "/aulas"},
			{Label: "Materias", Href: "/materias"},
			{Label: "Docentes", Href: "/docentes"},
			{Label: "Grupos", Href: "/grupos"},
			{Label: "Horarios", Href: "/horarios"},
			{Label: "Gestiones", Href: "/gestiones"},
		}
	case entity.RoleDocente:
		return []dto.NavLink{{Label: "Mi horario", Href: "/horario"}}
	}
	return nil
}
