package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/gestion-horarios/internal/application/analytics"
	"github.com/jhoicas/gestion-horarios/internal/application/auth"
	"github.com/jhoicas/gestion-horarios/internal/application/schedule"
	appsession "github.com/jhoicas/gestion-horarios/internal/application/session"
	"github.com/jhoicas/gestion-horarios/internal/application/usecase"
	"github.com/jhoicas/gestion-horarios/internal/domain/entity"
	"github.com/jhoicas/gestion-horarios/internal/domain/repository"
	"github.com/jhoicas/gestion-horarios/internal/infrastructure/apiclient"
	"github.com/jhoicas/gestion-horarios/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/gestion-horarios/internal/infrastructure/pdf"
	infrasession "github.com/jhoicas/gestion-horarios/internal/infrastructure/session"
	httpRouter "github.com/jhoicas/gestion-horarios/internal/interfaces/http"
	"github.com/jhoicas/gestion-horarios/pkg/config"
	"github.com/jhoicas/gestion-horarios/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Str("session", cfg.Session.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	kv, closeKV, err := newKeyValueStore(ctx, cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de sesión")
	}
	defer closeKV()

	store := appsession.NewStore(kv, log)
	store.Subscribe(func(ev entity.ClearEvent) {
		log.Info().Str("reason", string(ev.Reason)).Bool("had_token", ev.HadToken).Msg("sesión cerrada")
	})

	var (
		m        *metrics.Metrics
		observer apiclient.Observer
		httpObs  httpRouter.Observer
	)
	if cfg.Metrics.Enabled {
		m = metrics.New()
		store.Subscribe(m.ObserveClear)
		observer, httpObs = m, m
	}

	// Cualquier 401 del backend vacía la sesión; ForcedNavigation lo convierte en ir al login.
	client := apiclient.New(apiclient.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Tokens:  store,
		OnRejected: func(ctx context.Context) {
			if err := store.Clear(context.WithoutCancel(ctx), entity.ClearRejected); err != nil {
				log.Error().Err(err).Msg("limpiar sesión rechazada")
			}
		},
		Observer: observer,
		Log:      log,
	})

	authUC := auth.NewAuthUseCase(apiclient.NewAuthAPI(client), store, log)
	catalogs := usecase.Catalogs{
		Aulas:     usecase.NewCatalogUseCase[entity.Aula]("aulas", apiclient.NewResource[entity.Aula](client, "aulas")),
		Materias:  usecase.NewCatalogUseCase[entity.Materia]("materias", apiclient.NewResource[entity.Materia](client, "materias")),
		Docentes:  usecase.NewCatalogUseCase[entity.Docente]("docentes", apiclient.NewResource[entity.Docente](client, "docentes")),
		Grupos:    usecase.NewCatalogUseCase[entity.Grupo]("grupos", apiclient.NewResource[entity.Grupo](client, "grupos")),
		Horarios:  usecase.NewCatalogUseCase[entity.Horario]("horarios", apiclient.NewResource[entity.Horario](client, "horarios")),
		Gestiones: usecase.NewCatalogUseCase[entity.Gestion]("gestiones", apiclient.NewResource[entity.Gestion](client, "gestiones")),
	}
	dashboardUC := appanalytics.NewDashboardUseCase(
		catalogs.Aulas, catalogs.Materias, catalogs.Docentes, catalogs.Grupos, catalogs.Horarios, log,
	)

	// PDF: horario semanal del docente
	pdfGenerator := infrapdf.NewMarotoScheduleGenerator()
	scheduleUC := schedule.NewUseCase(catalogs.Horarios, authUC, pdfGenerator, log)

	navigation := httpRouter.NewForcedNavigation(store)
	defer navigation.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.API.Timeout() + time.Second*10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Swagger.File != "" {
		if _, err := os.Stat(cfg.Swagger.File); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Swagger.File,
				Path:     "docs",
				Title:    "Gestión de Horarios",
			}))
		} else {
			log.Warn().Str("file", cfg.Swagger.File).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Catalogs:   catalogs,
		Dashboard:  dashboardUC,
		Schedule:   scheduleUC,
		Navigation: navigation,
		Observer:   httpObs,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newKeyValueStore abre el almacenamiento de sesión configurado.
func newKeyValueStore(ctx context.Context, cfg config.SessionConfig) (repository.KeyValueStore, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case config.SessionDriverMemory:
		return infrasession.NewMemoryStore(), noop, nil
	case config.SessionDriverRedis:
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("REDIS_URL inválida: %w", err)
		}
		client := redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("conexión a Redis: %w", err)
		}
		return infrasession.NewRedisStore(client, cfg.KeyPrefix), func() { _ = client.Close() }, nil
	default:
		path := cfg.File
		if path == "" {
			p, err := infrasession.DefaultPath()
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		return infrasession.NewFileStore(path), noop, nil
	}
}
