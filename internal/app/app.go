package app

import (
	"attendtrack/config"
	"attendtrack/internal/database"
	"attendtrack/internal/events"
	"attendtrack/internal/handlers/middleware"
	"attendtrack/internal/logger"
	"attendtrack/internal/repositories"
	"attendtrack/internal/services"
	"attendtrack/internal/websockets"

	importController "attendtrack/internal/controllers/import"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService *services.TransactionService

	// Repositories
	IdentityRepo        repositories.IdentityRepository
	AttendanceEventRepo repositories.AttendanceEventRepository
	ImportAuditRepo     repositories.ImportAuditRepository

	// Controllers
	ImportController *importController.ImportController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config)
}

func NewWithConfig(config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	logger.Setup(config.LogLevel, config.LogFormat)

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if config.DatabaseAutoMigrate {
		applied, err := db.Migrate()
		if err != nil {
			_ = db.Close()
			return &App{}, log.Err("failed to migrate database", err)
		}
		log.Info("Migrations applied", "count", applied, "dialect", db.Dialect)
	}

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)

	// Initialize repositories
	identityRepo := repositories.NewIdentity(db)
	attendanceEventRepo := repositories.NewAttendanceEvent(db)
	importAuditRepo := repositories.NewImportAudit(db)

	// Initialize controllers with repositories and services
	middleware := middleware.New(db, config, identityRepo)
	importController := importController.New(
		eventBus,
		transactionService,
		identityRepo,
		attendanceEventRepo,
		importAuditRepo,
		config,
	)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		_ = eventBus.Close()
		_ = db.Close()
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:            db,
		Config:              config,
		Middleware:          middleware,
		TransactionService:  transactionService,
		IdentityRepo:        identityRepo,
		AttendanceEventRepo: attendanceEventRepo,
		ImportAuditRepo:     importAuditRepo,
		ImportController:    importController,
		Websocket:           websocket,
		EventBus:            eventBus,
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.TransactionService,
		a.ImportController,
		a.IdentityRepo,
		a.AttendanceEventRepo,
		a.ImportAuditRepo,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
