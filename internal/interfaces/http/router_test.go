package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/gestion-horarios/internal/application/analytics"
	"github.com/jhoicas/gestion-horarios/internal/application/auth"
	"github.com/jhoicas/gestion-horarios/internal/application/schedule"
	appsession "github.com/jhoicas/gestion-horarios/internal/application/session"
	"github.com/jhoicas/gestion-horarios/internal/application/usecase"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/internal/infrastructure/apiclient"
	"github.com/jhoicas/gestion-horarios/internal/infrastructure/pdf"
	infrasession "github.com/jhoicas/gestion-horarios/internal/infrastructure/session"
	apphttp "github.com/jhoicas/gestion-horarios/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Backend falso
// ──────────────────────────────────────────────────────────────────────────────

var backendUsers = map[string]map[string]any{
	"tok-admin":   {"id": 1, "nombre": "Ana Admin", "correo": "admin@uni.edu", "tipo": "Administrador"},
	"tok-docente": {"id": 7, "nombre": "Luis Docente", "correo": "docente@uni.edu", "tipo": "docente"},
	"tok-otro":    {"id": 9, "nombre": "Eva", "correo": "otro@uni.edu", "tipo": "Estudiante"},
}

var loginTokens = map[string]string{
	"admin@uni.edu":   "tok-admin",
	"docente@uni.edu": "tok-docente",
	"otro@uni.edu":    "tok-otro",
}

type fakeBackend struct {
	srv *httptest.Server
	// revoked hace que /me rechace cualquier token.
	revoked atomic.Bool
	// rejectCatalogs hace que los catálogos respondan 401 aunque /me acepte.
	rejectCatalogs atomic.Bool
	logouts        atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	userFor := func(r *http.Request) map[string]any {
		return backendUsers[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	}

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		tok, ok := loginTokens[body["correo"]]
		if !ok || body["contraseña"] != "secreto" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Credenciales inválidas"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"token": tok, "usuario": backendUsers[tok]},
		})
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		b.logouts.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		u := userFor(r)
		if u == nil || b.revoked.Load() {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token inválido"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": u})
	})

	catalog := func(items ...map[string]any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if userFor(r) == nil || b.rejectCatalogs.Load() {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token inválido"})
				return
			}
			data := items
			if data == nil {
				data = []map[string]any{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": data})
		}
	}
	mux.HandleFunc("GET /aulas", catalog(map[string]any{"id": 1, "codigo": "A-101", "capacidad": "30"}))
	mux.HandleFunc("POST /aulas", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		in["id"] = 2
		writeJSON(w, http.StatusCreated, map[string]any{"data": in})
	})
	mux.HandleFunc("GET /materias", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "caído"})
	})
	mux.HandleFunc("GET /docentes", catalog())
	mux.HandleFunc("GET /grupos", catalog(map[string]any{"id": 1}, map[string]any{"id": 2}))
	mux.HandleFunc("GET /gestiones", catalog())
	mux.HandleFunc("GET /horarios", func(w http.ResponseWriter, r *http.Request) {
		if userFor(r) == nil || b.rejectCatalogs.Load() {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token inválido"})
			return
		}
		rows := []map[string]any{}
		if r.URL.Query().Get("docente_id") == "7" {
			rows = append(rows,
				map[string]any{"id": 10, "dia_semana": "Martes", "hora_inicio": "10:00", "hora_fin": "11:30", "materia_nombre": "Cálculo", "aula_codigo": "A-101"},
				map[string]any{"id": 11, "dia_semana": "Lunes", "hora_inicio": "08:00", "hora_fin": "09:30", "materia": map[string]any{"nombre": "Álgebra"}, "aula_id": 3, "modalidad": "Virtual"},
			)
		}
		writeJSON(w, http.StatusOK, rows)
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

// ──────────────────────────────────────────────────────────────────────────────
// Shell bajo prueba
// ──────────────────────────────────────────────────────────────────────────────

type shell struct {
	app     *fiber.App
	store   *appsession.Store
	backend *fakeBackend
}

func newShell(t *testing.T) *shell {
	t.Helper()
	backend := newFakeBackend(t)
	store := appsession.NewStore(infrasession.NewMemoryStore(), nil)
	client := apiclient.New(apiclient.Options{
		BaseURL: backend.srv.URL,
		Tokens:  store,
		OnRejected: func(ctx context.Context) {
			_ = store.Clear(ctx, entity.ClearRejected)
		},
	})
	authUC := auth.NewAuthUseCase(apiclient.NewAuthAPI(client), store, nil)

	catalogs := usecase.Catalogs{
		Aulas:     usecase.NewCatalogUseCase[entity.Aula]("aulas", apiclient.NewResource[entity.Aula](client, "aulas")),
		Materias:  usecase.NewCatalogUseCase[entity.Materia]("materias", apiclient.NewResource[entity.Materia](client, "materias")),
		Docentes:  usecase.NewCatalogUseCase[entity.Docente]("docentes", apiclient.NewResource[entity.Docente](client, "docentes")),
		Grupos:    usecase.NewCatalogUseCase[entity.Grupo]("grupos", apiclient.NewResource[entity.Grupo](client, "grupos")),
		Horarios:  usecase.NewCatalogUseCase[entity.Horario]("horarios", apiclient.NewResource[entity.Horario](client, "horarios")),
		Gestiones: usecase.NewCatalogUseCase[entity.Gestion]("gestiones", apiclient.NewResource[entity.Gestion](client, "gestiones")),
	}
	nav := apphttp.NewForcedNavigation(store)
	t.Cleanup(nav.Close)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:   authUC,
		Catalogs: catalogs,
		Dashboard: appanalytics.NewDashboardUseCase(
			catalogs.Aulas, catalogs.Materias, catalogs.Docentes, catalogs.Grupos, catalogs.Horarios, nil),
		Schedule:   schedule.NewUseCase(catalogs.Horarios, authUC, pdf.NewMarotoScheduleGenerator(), nil),
		Navigation: nav,
	})
	return &shell{app: app, store: store, backend: backend}
}

func (s *shell) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *shell) login(t *testing.T, correo string) map[string]any {
	t.Helper()
	resp := s.do(t, fiber.MethodPost, "/login", map[string]string{"correo": correo, "contraseña": "secreto"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func assertRedirectToLogin(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, apphttp.LoginPath, resp.Header.Get("Location"))
}

func (s *shell) authenticated(t *testing.T) bool {
	t.Helper()
	return decode(t, s.do(t, fiber.MethodGet, "/session", nil))["authenticated"] == true
}

// ──────────────────────────────────────────────────────────────────────────────
// Login y sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_AdminRedirigeAlPanel(t *testing.T) {
	s := newShell(t)
	out := s.login(t, "admin@uni.edu")

	assert.Equal(t, "/admin", out["redirect"])
	user := out["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
	assert.Equal(t, "Administrador", user["role_label"])
	assert.Equal(t, "Ana Admin", user["display_name"])
}

func TestLogin_DocenteYOtroRol(t *testing.T) {
	s := newShell(t)
	assert.Equal(t, "/horario", s.login(t, "docente@uni.edu")["redirect"])
	assert.Equal(t, "/", s.login(t, "otro@uni.edu")["redirect"])
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := newShell(t)
	resp := s.do(t, fiber.MethodPost, "/login", map[string]string{"email": "admin@uni.edu", "password": "mal"})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Credenciales inválidas", decode(t, resp)["message"])
	assert.False(t, s.authenticated(t))
}

func TestLogin_CamposRequeridos(t *testing.T) {
	s := newShell(t)
	resp := s.do(t, fiber.MethodPost, "/login", map[string]string{"correo": "admin@uni.edu"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSession_DocenteMuestraSuHorario(t *testing.T) {
	s := newShell(t)
	s.login(t, "docente@uni.edu")

	out := decode(t, s.do(t, fiber.MethodGet, "/session", nil))
	assert.Equal(t, true, out["authenticated"])
	assert.Equal(t, "Luis Docente", out["user"].(map[string]any)["display_name"])
	links := out["links"].([]any)
	require.Len(t, links, 1)
	assert.Equal(t, "/horario", links[0].(map[string]any)["href"])
	assert.Equal(t, "opaque", out["token"].(map[string]any)["format"])
}

func TestLogout_LimpiaLaSesion(t *testing.T) {
	s := newShell(t)
	s.login(t, "admin@uni.edu")

	assertRedirectToLogin(t, s.do(t, fiber.MethodPost, "/logout", nil))
	assert.False(t, s.authenticated(t))
	assert.EqualValues(t, 1, s.backend.logouts.Load())

	// Una segunda vez no falla.
	assertRedirectToLogin(t, s.do(t, fiber.MethodPost, "/logout", nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard
// ──────────────────────────────────────────────────────────────────────────────

func TestGuard_SinSesionRedirige(t *testing.T) {
	s := newShell(t)
	assertRedirectToLogin(t, s.do(t, fiber.MethodGet, "/admin", nil))
	assertRedirectToLogin(t, s.do(t, fiber.MethodGet, "/horario", nil))
	assertRedirectToLogin(t, s.do(t, fiber.MethodGet, "/aulas", nil))
}

func TestGuard_DocenteEnRutaAdminVeAccesoDenegado(t *testing.T) {
	s := newShell(t)
	s.login(t, "docente@uni.edu")

	resp := s.do(t, fiber.MethodGet, "/admin", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "ACCESS_DENIED", out["code"])
	assert.Equal(t, "docente", out["actual_role"])
	assert.Equal(t, "Docente", out["role_label"])

	actions := out["actions"].([]any)
	require.Len(t, actions, 2)
	assert.Equal(t, "volver", actions[0].(map[string]any)["label"])
	assert.Equal(t, "/horario", actions[0].(map[string]any)["href"])
	assert.Equal(t, apphttp.SignOutPath, actions[1].(map[string]any)["href"])

	// "volver" no cambia el estado.
	assert.True(t, s.authenticated(t))
}

func TestGuard_RolDesconocidoMuestraSuTipo(t *testing.T) {
	s := newShell(t)
	s.login(t, "otro@uni.edu")

	resp := s.do(t, fiber.MethodGet, "/horario", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "estudiante", out["actual_role"])
	assert.Equal(t, "Estudiante", out["role_label"])
}

func TestGuard_CerrarSesionDesdeAccesoDenegado(t *testing.T) {
	s := newShell(t)
	s.login(t, "docente@uni.edu")

	assertRedirectToLogin(t, s.do(t, fiber.MethodPost, apphttp.SignOutPath, nil))
	assert.False(t, s.authenticated(t))
}

func TestGuard_RevalidacionFallidaCierraSesion(t *testing.T) {
	s := newShell(t)
	s.login(t, "admin@uni.edu")
	s.backend.revoked.Store(true)

	assertRedirectToLogin(t, s.do(t, fiber.MethodGet, "/admin", nil))
	assert.False(t, s.authenticated(t))
}

// ──────────────────────────────────────────────────────────────────────────────
// Rechazo global
// ──────────────────────────────────────────────────────────────────────────────

func TestRechazo_EnCatalogoRedirigeYLimpia(t *testing.T) {
	s := newShell(t)
	s.login(t, "admin@uni.edu")
	s.backend.rejectCatalogs.Store(true)

	assertRedirectToLogin(t, s.do(t, fiber.MethodGet, "/aulas", nil))
	assert.False(t, s.authenticated(t))
}

func TestRechazo_EnHorarioRedirige(t *testing.T) {
	s := newShell(t)
	s.login(t, "docente@uni.edu")
	s.backend.rejectCatalogs.Store(true)

	assertRedirectToLogin(t, s.do(t, fiber.MethodGet, "/horario", nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Vistas
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_PanelConCatalogoCaido(t *testing.T) {
	s := newShell(t)
	s.login(t, "admin@uni.edu")

	resp := s.do(t, fiber.MethodGet, "/admin", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.EqualValues(t, 1, out["aulas"])
	assert.EqualValues(t, 0, out["materias"])
	assert.EqualValues(t, 2, out["grupos"])
	assert.Equal(t, []any{"materias"}, out["unavailable"])
}

func TestCatalogo_ListarYCrear(t *testing.T) {
	s := newShell(t)
	s.login(t, "admin@uni.edu")

	resp := s.do(t, fiber.MethodGet, "/aulas", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.EqualValues(t, 1, out["total"])

	resp = s.do(t, fiber.MethodPost, "/aulas", map[string]any{"codigo": "B-2", "capacidad": "25"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	item := decode(t, resp)["data"].(map[string]any)
	assert.EqualValues(t, 2, item["id"])
	assert.Equal(t, "Teoría", item["tipo"])
	assert.Equal(t, "activo", item["estado"])
}

func TestCatalogo_CapacidadNoNumerica(t *testing.T) {
	s := newShell(t)
	s.login(t, "admin@uni.edu")

	resp := s.do(t, fiber.MethodPost, "/aulas", map[string]any{"codigo": "B-2", "capacidad": "muchos"})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "VALIDATION", out["code"])
	assert.Contains(t, out["errors"], "capacidad")
}

func TestCatalogo_IDUndefined(t *testing.T) {
	s := newShell(t)
	s.login(t, "admin@uni.edu")

	resp := s.do(t, fiber.MethodDelete, "/aulas/undefined", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHorario_DelDocente(t *testing.T) {
	s := newShell(t)
	s.login(t, "docente@uni.edu")

	resp := s.do(t, fiber.MethodGet, "/horario", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "Luis Docente", out["docente"])
	rows := out["rows"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "10:00 - 11:30", first["franja"])
	assert.Equal(t, "Cálculo", first["asignatura"])

	resp = s.do(t, fiber.MethodGet, "/horario/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
