package auth

import (
	"context"
	"sync/atomic"

	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

// State es el estado de render de un guard.
type State int

const (
	StateChecking State = iota
	StateAllowed
	StateRedirecting
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAllowed:
		return "allowed"
	case StateRedirecting:
		return "redirecting"
	case StateDenied:
		return "denied"
	}
	return "unknown"
}

// Verdict es el resultado de evaluar un guard.
type Verdict struct {
	State        State
	RequiredRole entity.Role
	// ActualRole es el rol guardado del usuario; se muestra en la vista de acceso denegado.
	ActualRole entity.Role
	User       *entity.User
}

// Authenticator es lo que el guard necesita de la autenticación. *AuthUseCase lo implementa.
type Authenticator interface {
	IsAuthenticated(ctx context.Context) bool
	UserRole(ctx context.Context) entity.Role
	UserData(ctx context.Context) *entity.User
	CurrentUser(ctx context.Context) (*entity.User, error)
	LogoutFor(ctx context.Context, reason entity.ClearReason)
}

// Guard protege una vista. Con RoleNone solo exige sesión válida.
// No guarda veredictos: cada Evaluate parte de cero.
type Guard struct {
	auth     Authenticator
	required entity.Role
	log      *logger.Logger
}

// NewGuard construye un guard para required.
func NewGuard(auth Authenticator, required entity.Role, log *logger.Logger) *Guard {
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{auth: auth, required: required, log: log.Component("guard")}
}

// RequiredRole devuelve el rol exigido.
func (g *Guard) RequiredRole() entity.Role { return g.required }

// Evaluate recorre Checking hasta un estado terminal. Sin sesión o sin rol redirige al login;
// con sesión revalida el token contra el backend y, si falla, cierra sesión y redirige.
// Si ctx se cancela durante la revalidación devuelve ctx.Err() sin cerrar sesión.
func (g *Guard) Evaluate(ctx context.Context) (Verdict, error) {
	v := Verdict{State: StateChecking, RequiredRole: g.required}

	role := g.auth.UserRole(ctx)
	if !g.auth.IsAuthenticated(ctx) || role == entity.RoleNone {
		v.State = StateRedirecting
		g.log.Debug().Str("state", v.State.String()).Msg("sin sesión")
		return v, nil
	}
	v.ActualRole = role

	_, err := g.auth.CurrentUser(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Verdict{State: StateChecking, RequiredRole: g.required}, ctxErr
	}
	if err != nil {
		g.log.Debug().Err(err).Msg("revalidación fallida; se cierra la sesión")
		g.auth.LogoutFor(ctx, entity.ClearRevalidationFailed)
		v.State = StateRedirecting
		return v, nil
	}

	v.User = g.auth.UserData(ctx)
	if g.required == entity.RoleNone || g.required == role {
		v.State = StateAllowed
	} else {
		v.State = StateDenied
	}
	g.log.Debug().Str("state", v.State.String()).Str("required", string(g.required)).
		Str("role", string(role)).Msg("veredicto")
	return v, nil
}

// SignOut es la acción "cerrar sesión" de la vista de acceso denegado.
func (g *Guard) SignOut(ctx context.Context) Verdict {
	g.auth.LogoutFor(ctx, entity.ClearGuardSignOut)
	return Verdict{State: StateRedirecting, RequiredRole: g.required}
}

// Mount aplica StateChecking de inmediato y evalúa en segundo plano. La función devuelta
// desmonta el guard: cancela la revalidación en curso y descarta cualquier resultado que
// llegue después, sin aplicar estado ni cerrar sesión.
func (g *Guard) Mount(ctx context.Context, apply func(Verdict)) (unmount func()) {
	ctx, cancel := context.WithCancel(ctx)
	var alive atomic.Bool
	alive.Store(true)

	apply(Verdict{State: StateChecking, RequiredRole: g.required})

	go func() {
		v, err := g.Evaluate(ctx)
		if err != nil || !alive.Load() {
			return
		}
		apply(v)
	}()

	return func() {
		alive.Store(false)
		cancel()
	}
}
