package auth

import (
	"context"
	"errors"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/application/ports"
	"github.com/jhoicas/gestion-horarios/internal/application/session"
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

// AuthUseCase casos de uso de autenticación: login, logout, revalidación y consultas de rol.
// No guarda estado propio: todo se lee del session.Store.
type AuthUseCase struct {
	api   ports.AuthAPI
	store *session.Store
	log   *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(api ports.AuthAPI, store *session.Store, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{api: api, store: store, log: log.Component("auth")}
}

// Login envía las credenciales, extrae token y usuario y persiste la sesión en una sola
// escritura. Cualquier fallo devuelve *domain.AuthError y deja la sesión como estaba.
func (uc *AuthUseCase) Login(ctx context.Context, identifier, secret string) (*Credentials, error) {
	body, err := uc.api.Login(ctx, dto.NewBackendLoginBody(identifier, secret))
	if err != nil {
		return nil, &domain.AuthError{Message: domain.MessageOf(err, domain.MsgLoginFailed), Err: err}
	}

	creds, err := ExtractCredentials(body)
	if err != nil {
		return nil, &domain.AuthError{Message: domain.MessageOf(err, domain.MsgUnexpectedLogin), Err: err}
	}

	if err := uc.store.Set(ctx, entity.Session{Token: creds.Token, User: creds.User}); err != nil {
		uc.log.Error().Err(err).Msg("persistir sesión")
		return nil, &domain.AuthError{Message: domain.MsgLoginFailed, Err: err}
	}

	ev := uc.log.Info()
	if creds.User != nil {
		ev = ev.Str("role", string(creds.User.ShortRole))
	}
	ev.Msg("sesión iniciada")
	return &creds, nil
}

// Logout cierra la sesión. Nunca falla.
func (uc *AuthUseCase) Logout(ctx context.Context) {
	uc.LogoutFor(ctx, entity.ClearLogout)
}

// LogoutFor intenta POST /logout y vacía la sesión siempre, con el motivo indicado.
// El error del servidor solo se registra.
func (uc *AuthUseCase) LogoutFor(ctx context.Context, reason entity.ClearReason) {
	if err := uc.api.Logout(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("error al cerrar sesión en el servidor (ignorado)")
	}
	// La limpieza local no depende de que el contexto siga vivo.
	if err := uc.store.Clear(context.WithoutCancel(ctx), reason); err != nil {
		uc.log.Error().Err(err).Str("reason", string(reason)).Msg("limpiar sesión")
	}
}

// CurrentUser consulta GET /me para confirmar que el token sigue siendo aceptado.
// No toca la sesión si falla: decide quien llama.
func (uc *AuthUseCase) CurrentUser(ctx context.Context) (*entity.User, error) {
	body, err := uc.api.Me(ctx)
	if err != nil {
		msg := domain.MsgCurrentUser
		var httpErr *domain.HTTPError
		if errors.As(err, &httpErr) && httpErr.Message != "" {
			msg = httpErr.Message
		}
		return nil, &domain.AuthError{Message: msg, Err: err}
	}
	return NormalizeUser(UnwrapData(body)), nil
}

// IsAuthenticated indica si hay token guardado. No hace llamadas de red.
func (uc *AuthUseCase) IsAuthenticated(ctx context.Context) bool {
	return uc.store.Token(ctx) != ""
}

// UserData devuelve el usuario guardado o nil (sin sesión o datos corruptos).
func (uc *AuthUseCase) UserData(ctx context.Context) *entity.User {
	sess, err := uc.store.Get(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("leer sesión")
		return nil
	}
	return sess.User
}

// UserRole devuelve el rol corto guardado; si falta, lo vuelve a clasificar a partir del
// campo de tipo disponible. RoleNone si no hay usuario o tipo.
func (uc *AuthUseCase) UserRole(ctx context.Context) entity.Role {
	u := uc.UserData(ctx)
	if u == nil {
		return entity.RoleNone
	}
	if u.ShortRole != entity.RoleNone {
		return u.ShortRole
	}
	return entity.ClassifyRole(u.RoleSource())
}

// Session devuelve la sesión guardada.
func (uc *AuthUseCase) Session(ctx context.Context) (entity.Session, error) {
	return uc.store.Get(ctx)
}
