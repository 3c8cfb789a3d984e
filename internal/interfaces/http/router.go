package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/gestion-horarios/internal/application/analytics"
	"github.com/jhoicas/gestion-horarios/internal/application/auth"
	"github.com/jhoicas/gestion-horarios/internal/application/dto"
	"github.com/jhoicas/gestion-horarios/internal/application/schedule"
	"github.com/jhoicas/gestion-horarios/internal/application/usecase"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

// Observer agrupa las observaciones que hace la capa HTTP (lo implementa *metrics.Metrics).
type Observer interface {
	LoginObserver
	VerdictObserver
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Catalogs   usecase.Catalogs
	Dashboard  *appanalytics.DashboardUseCase
	Schedule   *schedule.UseCase
	Navigation *ForcedNavigation
	Observer   Observer // opcional
	Log        *logger.Logger
}

// Router registra las rutas del shell.
func Router(app *fiber.App, deps RouterDeps) {
	var (
		loginObs   LoginObserver
		verdictObs VerdictObserver
	)
	if deps.Observer != nil {
		loginObs, verdictObs = deps.Observer, deps.Observer
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, loginObs)
	app.Post("/login", authHandler.Login)
	app.Post("/logout", authHandler.Logout)

	// Desde aquí, un 401 del backend durante la petición termina en el login.
	shell := app.Group("/", deps.Navigation.Middleware())
	shell.Get("/session", authHandler.Session)

	anyRole := auth.NewGuard(deps.AuthUC, entity.RoleNone, deps.Log)
	shell.Post(SignOutPath, GuardSignOut(anyRole))

	// Administrador: panel y catálogos
	adminGuard := auth.NewGuard(deps.AuthUC, entity.RoleAdmin, deps.Log)
	requireAdmin := RequireRole(adminGuard, verdictObs)

	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	shell.Get("/admin", requireAdmin, dashboardHandler.GetSummary)

	NewCatalogHandler[entity.Aula, dto.AulaRequest](deps.Catalogs.Aulas).
		Register(shell.Group("/aulas", requireAdmin))
	NewCatalogHandler[entity.Materia, dto.MateriaRequest](deps.Catalogs.Materias).
		Register(shell.Group("/materias", requireAdmin))
	NewCatalogHandler[entity.Docente, dto.DocenteRequest](deps.Catalogs.Docentes).
		Register(shell.Group("/docentes", requireAdmin))
	NewCatalogHandler[entity.Grupo, dto.GrupoRequest](deps.Catalogs.Grupos).
		Register(shell.Group("/grupos", requireAdmin))
	NewCatalogHandler[entity.Horario, dto.HorarioRequest](deps.Catalogs.Horarios).
		Register(shell.Group("/horarios", requireAdmin))
	NewCatalogHandler[entity.Gestion, dto.GestionRequest](deps.Catalogs.Gestiones).
		Register(shell.Group("/gestiones", requireAdmin))

	// Docente: horario propio
	docenteGuard := auth.NewGuard(deps.AuthUC, entity.RoleDocente, deps.Log)
	horarioHandler := NewHorarioHandler(deps.Schedule)
	requireDocente := RequireRole(docenteGuard, verdictObs)
	// Rutas sueltas: un Group("/horario") también capturaría el prefijo de "/horarios".
	shell.Get("/horario", requireDocente, horarioHandler.Get)
	shell.Get("/horario/pdf", requireDocente, horarioHandler.PDF)
}
