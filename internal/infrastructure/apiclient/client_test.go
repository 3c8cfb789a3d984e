package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/domain"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/internal/infrastructure/apiclient"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

type staticToken string

func (s staticToken) Token(context.Context) string { return string(s) }

type observation struct {
	method, resource string
	status           int
}

type fakeObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (f *fakeObserver) ObserveBackendRequest(method, resource string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, observation{method, resource, status})
}

type backend struct {
	srv      *httptest.Server
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
}

func newBackend(t *testing.T, h http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.requests = append(b.requests, r.Clone(context.Background()))
		b.bodies = append(b.bodies, string(raw))
		b.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) last() (*http.Request, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1], b.bodies[len(b.bodies)-1]
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestLogin_SendsBilingualBodyWithoutBearer(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"token":"T2","usuario":{"tipo":"docente","id":5}}`)
	})
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL + "/api/", Tokens: staticToken("VIEJO")})

	out, err := apiclient.NewAuthAPI(c).Login(context.Background(), dto.NewBackendLoginBody("d@uni.edu", "contraseña-ñ"))
	require.NoError(t, err)
	assert.Equal(t, "T2", out["token"])

	req, raw := b.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/login", req.URL.Path)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &sent))
	assert.Equal(t, map[string]string{
		"email": "d@uni.edu", "password": "contraseña-ñ",
		"correo": "d@uni.edu", "contraseña": "contraseña-ñ",
	}, sent)
}

func TestMe_SendsBearer(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"data":{"nombre":"Ana"}}`)
	})
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL, Tokens: staticToken("T1")})

	out, err := apiclient.NewAuthAPI(c).Me(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "data")

	req, _ := b.last()
	assert.Equal(t, "Bearer T1", req.Header.Get("Authorization"))
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) { writeJSON(w, 200, `{}`) })
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL, Tokens: staticToken("")})

	require.NoError(t, apiclient.NewAuthAPI(c).Logout(context.Background()))
	req, _ := b.last()
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestUnauthorizedFromAnyEndpointTriggersRejection(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 401, `{"message":"Unauthenticated."}`)
	})
	var rejections int
	obs := &fakeObserver{}
	c := apiclient.New(apiclient.Options{
		BaseURL:    b.srv.URL,
		Tokens:     staticToken("T1"),
		OnRejected: func(context.Context) { rejections++ },
		Observer:   obs,
	})

	_, err := apiclient.NewResource[entity.Aula](c, "aulas").List(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthenticationRejected)

	_, err = apiclient.NewAuthAPI(c).Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthenticationRejected)

	_, err = apiclient.NewAuthAPI(c).Login(context.Background(), dto.NewBackendLoginBody("x", "y"))
	assert.ErrorIs(t, err, domain.ErrAuthenticationRejected)

	assert.Equal(t, 3, rejections)
	require.Len(t, obs.obs, 3)
	assert.Equal(t, observation{"GET", "aulas", 401}, obs.obs[0])
	assert.Equal(t, observation{"GET", "me", 401}, obs.obs[1])
}

func TestErrorMessageAndValidation(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, 422, `{"message":"Datos inválidos","errors":{"codigo":["El código ya existe."],"capacidad":"Requerido"}}`)
		default:
			writeJSON(w, 500, `{"message":"Error interno"}`)
		}
	})
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL})
	aulas := apiclient.NewResource[entity.Aula](c, "aulas")

	_, err := aulas.Create(context.Background(), dto.AulaPayload{Codigo: "A1"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"El código ya existe."}, ve.Fields["codigo"])
	assert.Equal(t, []string{"Requerido"}, ve.Fields["capacidad"])
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = aulas.List(context.Background(), nil)
	var he *domain.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 500, he.Status)
	assert.Equal(t, "Error interno", domain.MessageOf(err, "x"))
}

func TestResource_UnwrapsDataOrBody(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/aulas":
			writeJSON(w, 200, `{"data":[{"id":1,"codigo":"A-1","capacidad":"40"}]}`)
		case "/materias":
			writeJSON(w, 200, `[{"id":"7","sigla":"INF-110"}]`)
		case "/aulas/1":
			writeJSON(w, 200, `{"id":1,"codigo":"A-1"}`)
		case "/aulas/2":
			writeJSON(w, 200, `{"success":true,"data":null}`)
		default:
			writeJSON(w, 404, `{"message":"No encontrado"}`)
		}
	})
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL})
	ctx := context.Background()

	aulas, err := apiclient.NewResource[entity.Aula](c, "aulas").List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, aulas, 1)
	assert.Equal(t, entity.ID("1"), aulas[0].ID)
	assert.Equal(t, entity.FlexInt(40), aulas[0].Capacidad)

	materias, err := apiclient.NewResource[entity.Materia](c, "materias").List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, materias, 1)
	assert.Equal(t, "INF-110", materias[0].Sigla)

	aula, err := apiclient.NewResource[entity.Aula](c, "aulas").GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "A-1", aula.Label())

	_, err = apiclient.NewResource[entity.Aula](c, "aulas").GetByID(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = apiclient.NewResource[entity.Aula](c, "aulas").GetByID(ctx, "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResource_ListQueryAndNonList(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"data":{"total":3}}`)
	})
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL})

	_, err := apiclient.NewResource[entity.Horario](c, "horarios").List(context.Background(), url.Values{"docente_id": {"5"}})
	assert.ErrorIs(t, err, domain.ErrUnexpectedResponseShape)

	req, _ := b.last()
	assert.Equal(t, "5", req.URL.Query().Get("docente_id"))
}

func TestLogin_NonJSONSuccessIsShapeError(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>hola</html>")
	})
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL})

	_, err := apiclient.NewAuthAPI(c).Login(context.Background(), dto.NewBackendLoginBody("x", "y"))
	assert.ErrorIs(t, err, domain.ErrUnexpectedResponseShape)
	assert.Equal(t, domain.MsgUnexpectedLogin, err.Error())
}

func TestTimeout(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, 200, `{}`)
	})
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL, Timeout: 20 * time.Millisecond})

	_, err := apiclient.NewAuthAPI(c).Me(context.Background())
	require.Error(t, err)
}

func TestRequestIDFromContextIsForwarded(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) { writeJSON(w, 200, `{}`) })
	c := apiclient.New(apiclient.Options{BaseURL: b.srv.URL})

	ctx := logger.WithRequestID(context.Background(), "req-abc")
	_, err := apiclient.NewAuthAPI(c).Me(ctx)
	require.NoError(t, err)

	req, _ := b.last()
	assert.Equal(t, "req-abc", req.Header.Get("X-Request-ID"))
}
