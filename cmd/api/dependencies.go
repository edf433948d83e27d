package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/TienDattttt/Weather-Project/internal/domain/alert"
	"github.com/TienDattttt/Weather-Project/internal/domain/auth"
	"github.com/TienDattttt/Weather-Project/internal/domain/location"
	"github.com/TienDattttt/Weather-Project/internal/domain/news"
	"github.com/TienDattttt/Weather-Project/internal/domain/user"
	"github.com/TienDattttt/Weather-Project/internal/domain/weather"
	"github.com/TienDattttt/Weather-Project/internal/notify"
	"github.com/TienDattttt/Weather-Project/internal/provider/openweather"
	"github.com/TienDattttt/Weather-Project/pkg/config"
	"github.com/TienDattttt/Weather-Project/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	Provider *openweather.Client
	Sender   notify.Sender

	// Repositories
	LocationRepo location.Repository
	WeatherRepo  weather.Repository
	AlertRepo    alert.Repository
	AuthRepo     auth.Repository
	UserRepo     user.Repository
	NewsRepo     news.Repository

	// Services
	TokenManager    auth.TokenManager
	LocationService location.Service
	AlertService    alert.Service
	WeatherService  weather.Service
	AuthService     *auth.Service
	UserService     user.Service
	NewsService     news.Service

	// Handlers
	AuthHandler    *auth.Handler
	WeatherHandler *weather.Handler
	AlertHandler   *alert.Handler
	UserHandler    *user.Handler
	NewsHandler    *news.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() error {
	d.LocationRepo = location.NewRepository(d.DB.Pool, d.Logger)
	d.WeatherRepo = weather.NewRepository(d.DB.Pool, d.Logger)
	d.AlertRepo = alert.NewRepository(d.DB.Pool, d.Logger)
	d.AuthRepo = auth.NewRepository(d.DB.Pool, d.Logger)
	d.UserRepo = user.NewRepository(d.DB.Pool, d.Logger)
	d.NewsRepo = news.NewRepository(d.DB.Pool, d.Logger)

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	d.Provider = openweather.New(
		d.Config.Weather.APIKey,
		d.Config.Weather.BaseURL,
		d.Config.Weather.GeoURL,
		d.Config.Weather.Timeout,
		d.Logger,
	)

	if d.Config.Email.Enabled {
		sender, err := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     d.Config.Email.Host,
			Port:     d.Config.Email.Port,
			Username: d.Config.Email.Username,
			Password: d.Config.Email.Password,
			From:     d.Config.Email.From,
		}, d.Logger)
		if err != nil {
			return fmt.Errorf("failed to init mail sender: %w", err)
		}
		d.Sender = sender
	} else {
		d.Sender = &notify.LogSender{Logger: d.Logger}
	}

	d.TokenManager = auth.NewJWTTokenManager([]byte(d.Config.Auth.JWTSecret), d.Config.Auth.AccessTokenTTL)

	d.LocationService = location.NewService(d.LocationRepo, d.Provider, d.Logger)
	d.AlertService = alert.NewService(d.AlertRepo, d.Logger)
	d.WeatherService = weather.NewService(
		d.WeatherRepo,
		d.Provider,
		d.LocationService,
		d.AlertService,
		clockwork.NewRealClock(),
		d.Logger,
	)
	d.AuthService = auth.NewService(
		d.AuthRepo,
		d.TokenManager,
		d.Sender,
		d.Config.Server.PublicBaseURL,
		d.Config.Auth.ResetTokenTTL,
		d.Logger,
	)
	d.UserService = user.NewService(d.UserRepo, d.LocationService, d.WeatherService, d.Sender, d.Logger)
	d.NewsService = news.NewService(d.NewsRepo, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	d.AuthHandler = auth.NewHandler(d.AuthService, d.Logger)
	d.WeatherHandler = weather.NewHandler(d.WeatherService, d.Logger)
	d.AlertHandler = alert.NewHandler(d.AlertService, d.Logger)
	d.UserHandler = user.NewHandler(d.UserService, d.Logger)
	d.NewsHandler = news.NewHandler(d.NewsService, d.Logger)
	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
