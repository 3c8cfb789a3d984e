package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jhoicas/gestion-horarios/internal/application/auth"
	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/application/session"
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	infrasession "github.com/jhoicas/gestion-horarios/internal/infrastructure/session"
	"github.com/jhoicas/gestion-horarios/internal/mocks"
)

type fixture struct {
	api    *mocks.MockAuthAPI
	store  *session.Store
	uc     *auth.AuthUseCase
	events []entity.ClearEvent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		api:   mocks.NewMockAuthAPI(ctrl),
		store: session.NewStore(infrasession.NewMemoryStore(), nil),
	}
	f.uc = auth.NewAuthUseCase(f.api, f.store, nil)
	f.store.Subscribe(func(ev entity.ClearEvent) { f.events = append(f.events, ev) })
	return f
}

func (f *fixture) seed(t *testing.T, token string, u *entity.User) {
	t.Helper()
	require.NoError(t, f.store.Set(context.Background(), entity.Session{Token: token, User: u}))
}

func (f *fixture) session(t *testing.T) entity.Session {
	t.Helper()
	sess, err := f.store.Get(context.Background())
	require.NoError(t, err)
	return sess
}

func TestLogin_PersistsSessionAndSendsBothKeyPairs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.EXPECT().
		Login(gomock.Any(), dto.BackendLoginBody{Email: "ana@uni.edu", Password: "clave", Correo: "ana@uni.edu", Contrasena: "clave"}).
		Return(body(t, `{"success":true,"data":{"access_token":"T1","user":{"rol":"A","nombre":"Ana"}}}`), nil)

	creds, err := f.uc.Login(ctx, "ana@uni.edu", "clave")
	require.NoError(t, err)
	assert.Equal(t, "T1", creds.Token)

	assert.True(t, f.uc.IsAuthenticated(ctx))
	assert.Equal(t, entity.RoleAdmin, f.uc.UserRole(ctx))
	sess := f.session(t)
	assert.Equal(t, "T1", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, "Administrador", sess.User.DisplayRole)
}

func TestLogin_DocenteTopLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(body(t, `{"token":"T2","usuario":{"tipo":"docente"}}`), nil)

	_, err := f.uc.Login(ctx, "d@uni.edu", "x")
	require.NoError(t, err)
	assert.Equal(t, "T2", f.session(t).Token)
	assert.Equal(t, entity.RoleDocente, f.uc.UserRole(ctx))
}

func TestLogin_NoTokenLeavesSessionUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "ANTERIOR", &entity.User{Name: "Prev", ShortRole: entity.RoleDocente})
	f.api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(body(t, `{"message":"bad credentials"}`), nil)

	creds, err := f.uc.Login(ctx, "x", "y")
	require.Error(t, err)
	assert.Nil(t, creds)
	assert.Equal(t, "bad credentials", err.Error())
	assert.ErrorIs(t, err, domain.ErrUnexpectedResponseShape)

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)

	sess := f.session(t)
	assert.Equal(t, "ANTERIOR", sess.Token)
	assert.Equal(t, "Prev", sess.User.Name)
}

func TestLogin_NoTokenFromEmptySession(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(body(t, `{}`), nil)

	_, err := f.uc.Login(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Equal(t, domain.MsgUnexpectedLogin, err.Error())
	assert.False(t, f.session(t).Authenticated())
}

func TestLogin_TransportErrorMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.api.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(nil, &domain.HTTPError{Method: "POST", Path: "/login", Status: 422, Message: "Credenciales inválidas"})
	_, err := f.uc.Login(ctx, "x", "y")
	require.Error(t, err)
	assert.Equal(t, "Credenciales inválidas", err.Error())

	f.api.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(nil, &domain.HTTPError{Method: "POST", Path: "/login", Status: 500})
	_, err = f.uc.Login(ctx, "x", "y")
	require.Error(t, err)
	assert.Equal(t, domain.MsgLoginFailed, err.Error())

	assert.False(t, f.session(t).Authenticated())
}

func TestLogout_SwallowsServerErrorAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "T1", &entity.User{Name: "Ana", ShortRole: entity.RoleAdmin})
	f.api.EXPECT().Logout(gomock.Any()).Return(errors.New("connection refused")).Times(2)

	f.uc.Logout(ctx)
	first := f.session(t)
	f.uc.Logout(ctx)
	second := f.session(t)

	assert.Equal(t, entity.Session{}, first)
	assert.Equal(t, first, second)
	require.Len(t, f.events, 2)
	assert.Equal(t, entity.ClearLogout, f.events[0].Reason)
	assert.True(t, f.events[0].HadToken)
	assert.False(t, f.events[1].HadToken)
}

func TestLogout_ClearsEvenWithCancelledContext(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "T1", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.api.EXPECT().Logout(gomock.Any()).Return(context.Canceled)

	f.uc.Logout(ctx)
	assert.False(t, f.session(t).Authenticated())
}

func TestCurrentUser_UnwrapsAndNormalizes(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().Me(gomock.Any()).Return(body(t, `{"data":{"id":3,"tipo":"Docente","correo":"d@uni.edu"}}`), nil)

	u, err := f.uc.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleDocente, u.ShortRole)
	assert.Equal(t, "d@uni.edu", u.Email)
	assert.Equal(t, "3", u.ID())
}

func TestCurrentUser_FailureDoesNotClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "T1", nil)

	f.api.EXPECT().Me(gomock.Any()).Return(nil, &domain.HTTPError{Method: "GET", Path: "/me", Status: 500, Message: "Servidor caído"})
	_, err := f.uc.CurrentUser(ctx)
	require.Error(t, err)
	assert.Equal(t, "Servidor caído", err.Error())

	f.api.EXPECT().Me(gomock.Any()).Return(nil, errors.New("dial tcp: timeout"))
	_, err = f.uc.CurrentUser(ctx)
	require.Error(t, err)
	assert.Equal(t, domain.MsgCurrentUser, err.Error())

	assert.True(t, f.uc.IsAuthenticated(ctx))
	assert.Empty(t, f.events)
}

func TestUserRole_FallsBackToRawFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, entity.RoleNone, f.uc.UserRole(ctx))

	f.seed(t, "T1", &entity.User{RawType: "Profesor"})
	assert.Equal(t, entity.RoleDocente, f.uc.UserRole(ctx))

	f.seed(t, "T1", &entity.User{DisplayRole: "Administrador"})
	assert.Equal(t, entity.RoleAdmin, f.uc.UserRole(ctx))

	f.seed(t, "T1", &entity.User{Extra: map[string]any{"role": "Bedel"}})
	assert.Equal(t, entity.Role("bedel"), f.uc.UserRole(ctx))

	f.seed(t, "T1", &entity.User{Name: "sin tipo"})
	assert.Equal(t, entity.RoleNone, f.uc.UserRole(ctx))
}

func TestUserData_MalformedStorageIsAbsent(t *testing.T) {
	kv := infrasession.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, kv.Write(ctx, map[string]string{session.KeyToken: "T1", session.KeyUser: "nope"}))

	uc := auth.NewAuthUseCase(mocks.NewMockAuthAPI(gomock.NewController(t)), session.NewStore(kv, nil), nil)
	assert.Nil(t, uc.UserData(ctx))
	assert.True(t, uc.IsAuthenticated(ctx))
	assert.Equal(t, entity.RoleNone, uc.UserRole(ctx))
}
