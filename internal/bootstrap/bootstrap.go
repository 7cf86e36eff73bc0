package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/minilms/minilms/internal/app/controllers"
	appMigrations "github.com/minilms/minilms/internal/app/migrations"
	appRepos "github.com/minilms/minilms/internal/app/repositories"
	"github.com/minilms/minilms/internal/app/repositories/memory"
	appRoutes "github.com/minilms/minilms/internal/app/routes"
	appServices "github.com/minilms/minilms/internal/app/services"
	"github.com/minilms/minilms/internal/config"
	"github.com/minilms/minilms/internal/db"
	appMiddleware "github.com/minilms/minilms/internal/middleware"
	"github.com/minilms/minilms/internal/pkg/email"
	"github.com/minilms/minilms/internal/pkg/filestorage"
	"github.com/minilms/minilms/internal/pkg/helpers"
	"github.com/minilms/minilms/internal/pkg/logger"
	"github.com/minilms/minilms/internal/pkg/notify"
	"github.com/minilms/minilms/internal/pkg/pdf"
	"github.com/minilms/minilms/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Database    *db.PostgresDB // nil on the in-memory driver
	Store       appRepos.Store
	FileStorage *filestorage.LocalStorage
	Dispatcher  *notify.Dispatcher
	Services    *appServices.Services
	Controllers appRoutes.Controllers
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  strings.ToLower(cfg.Logging.Format) == "text",
		Service: "minilms",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies pending migrations.
// It returns nil for the in-memory driver.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if strings.ToLower(cfg.Database.Driver) == config.DriverMemory {
		lgr.Warn().Msg("Using the in-memory store; data is lost on shutdown")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// NewEmailSender picks the gateway named by email.provider.
func NewEmailSender(cfg *config.Config, lgr zerolog.Logger) email.Sender {
	switch strings.ToLower(cfg.Email.Provider) {
	case config.EmailProviderSMTP:
		return email.NewSMTPSender(email.SMTPConfig{
			Host:      cfg.Email.Host,
			Port:      cfg.Email.Port,
			Username:  cfg.Email.Username,
			Password:  cfg.Email.Password,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
			TLSMode:   cfg.Email.TLSMode,
		}, lgr)
	case config.EmailProviderSendGrid:
		return email.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, lgr)
	default:
		return email.NewConsoleSender(lgr)
	}
}

// NewRenderer picks the certificate renderer named by certificate.renderer.
func NewRenderer(cfg *config.Config) (pdf.Renderer, error) {
	if strings.ToLower(cfg.Certificate.Renderer) == config.RendererChromeDP {
		return pdf.NewChromeRenderer(cfg.Certificate.Template)
	}
	return pdf.NewFPDFRenderer(cfg.Certificate.Compress), nil
}

// BuildDependencies initializes the store, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Database: database, Logger: lgr}

	if database != nil {
		deps.Store = appRepos.NewPostgresStore(database)
	} else {
		deps.Store = memory.NewStore()
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.BaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	renderer, err := NewRenderer(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize certificate renderer")
		return nil, fmt.Errorf("failed to initialize certificate renderer: %w", err)
	}

	timeout := helpers.ParseDuration(cfg.Notifications.Timeout, 10*time.Second)
	deps.Dispatcher = notify.NewDispatcher(NewEmailSender(cfg, lgr), cfg.Notifications.MaxInFlight, timeout, lgr)

	deps.Services = appServices.NewServices(appServices.Deps{
		Store:         deps.Store,
		Storage:       deps.FileStorage,
		Notifier:      deps.Dispatcher,
		Renderer:      renderer,
		Logger:        lgr,
		BaseURL:       cfg.Server.BaseURL,
		OperatorEmail: cfg.OperatorAddress(),
	})

	var pinger appControllers.Pinger
	if database != nil {
		pinger = database
	}
	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Course:      appControllers.NewCourseController(svc.Courses, deps.FileStorage),
		Student:     appControllers.NewStudentController(svc.Students, deps.FileStorage),
		Lesson:      appControllers.NewLessonController(svc.Lessons, svc.Homework, deps.FileStorage),
		Certificate: appControllers.NewCertificateController(svc.Certificates, svc.Students, deps.FileStorage),
		Health:      appControllers.NewHealthController(pinger),
	}

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(context.Background(), svc, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr), appMiddleware.RequestLogger(lgr))
	router.MaxMultipartMemory = 8 << 20

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers)

	router.Static(filestorage.PublicPrefix, deps.FileStorage.BasePath())
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Static file serving configured for uploads directory")

	return router
}
