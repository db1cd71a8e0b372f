package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskdesk/docs"
	"taskdesk/internal/auth"
	"taskdesk/internal/config"
	"taskdesk/internal/database"
	"taskdesk/internal/database/migration"
	handlers "taskdesk/internal/http/handler"
	"taskdesk/internal/http/middleware"
	"taskdesk/internal/logger"
	"taskdesk/internal/otel"
	"taskdesk/internal/repository/postgres"
	"taskdesk/internal/service"
	"taskdesk/internal/storage"
)

// @title						Taskdesk API
// @version					1.0
// @description				Tasks, documents, letter recipients and file attachments of a single user.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	log := logger.New(os.Stdout, loc, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error().Err(err).Msg("tracing shutdown failed")
		}
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	signer, err := auth.NewSigner(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid auth configuration")
	}

	userRepo := postgres.NewUserPostgres(db)
	taskRepo := postgres.NewTaskPostgres(db)
	docRepo := postgres.NewDocumentPostgres(db)
	recipientRepo := postgres.NewRecipientPostgres(db)
	attachmentRepo := postgres.NewAttachmentPostgres(db)

	services := handlers.Services{
		Auth:        service.NewAuthService(userRepo, signer),
		Tasks:       service.NewTaskService(taskRepo, loc),
		Documents:   service.NewDocumentService(docRepo, attachmentRepo, objStore),
		Letters:     service.NewLetterService(docRepo, recipientRepo, cfg.Letter.From, loc),
		Recipients:  service.NewRecipientService(recipientRepo),
		Attachments: service.NewAttachmentService(attachmentRepo, taskRepo, docRepo, objStore, cfg.Upload.MaxBytes, cfg.Upload.PresignExpiry),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.Upload.BodyLimit(),
		DisableStartupMessage: true,
	})

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())
	app.Use(middleware.CORS())

	handlers.RegisterRoutes(app, db, services)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info().Str("event", "shutdown").Msg("shutting down http server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("event", "listen").Str("addr", addr).Str("tz", loc.String()).Send()
	if err := app.Listen(addr); err != nil {
		log.Error().Err(err).Msg("failed to start server")
	}
}
