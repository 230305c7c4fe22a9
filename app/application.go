package app

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"weatherboard.app/api"
	"weatherboard.app/config"
	"weatherboard.app/database"
	"weatherboard.app/identity"
	"weatherboard.app/providers"
	"weatherboard.app/providers/cache"
	"weatherboard.app/repository"
	"weatherboard.app/scheduler"
	"weatherboard.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	server    *api.Server
	refresher *scheduler.Refresher
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...")

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	cityRepo := repository.NewCityRepository(app.db)
	favoriteRepo := repository.NewFavoriteRepository(app.db)

	cacheStore, err := app.createCacheStore()
	if err != nil {
		return fmt.Errorf("create cache store: %w", err)
	}

	gateway := providers.NewBreakerGateway(
		"openweathermap",
		providers.NewOpenWeatherProvider(&app.config.Weather),
	)

	weatherService := service.NewWeatherService(gateway, cityRepo, cacheStore, &app.config.Weather)
	favoritesService := service.NewFavoritesService(cityRepo, favoriteRepo)

	resolver := identity.NewResolver(&app.config.Cookie)

	app.server = api.NewServer(app.config, resolver, weatherService, favoritesService)
	app.refresher = scheduler.NewRefresher(&app.config.Refresher, favoriteRepo, weatherService)

	slog.Info("Services initialized successfully")
	return nil
}

// createCacheStore selects the configured weather cache backend; the durable
// database table is the default
func (app *Application) createCacheStore() (service.CacheStore, error) {
	var store cache.Store
	if app.config.Cache.Type == "database" {
		store = repository.NewWeatherCacheRepository(app.db)
	} else {
		backend, err := cache.NewStore(&app.config.Cache)
		if err != nil {
			return nil, err
		}
		store = backend
	}

	slog.Debug("cache store created", "type", app.config.Cache.Type)
	return cache.NewInstrumentedStore(store, app.config.Cache.Type), nil
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("Starting application...")

	slog.Info("Starting cache refresher...")
	go app.refresher.Start()

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.refresher != nil {
		app.refresher.Stop()
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
