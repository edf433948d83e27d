package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/TienDattttt/Weather-Project/pkg/middleware"
)

// SetupRouter configures all routes and returns the HTTP handler
func SetupRouter(deps *Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID("X-Request-ID"))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Metrics())

	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
		r.Use(middleware.RateLimit(limiter))
	}

	authRequired := middleware.Auth(func(token string) (uuid.UUID, error) {
		claims, err := deps.TokenManager.Validate(token)
		if err != nil {
			return uuid.Nil, err
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
		}
		return userID, nil
	}, deps.Logger)

	registerUtilityRoutes(r, deps)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.AuthHandler.Register)
			r.Post("/login", deps.AuthHandler.Login)
			r.Post("/request_password_reset", deps.AuthHandler.RequestPasswordReset)
			r.Post("/reset-password/{token}", deps.AuthHandler.ResetPassword)
		})

		r.Post("/current/by_location", deps.WeatherHandler.CurrentByLocation)
		r.Post("/alerts/by_location", deps.WeatherHandler.AlertsByLocation)
		r.Get("/alerts/{locationID}", deps.AlertHandler.StoredByLocation)
		r.Get("/forecast/{locationID}", deps.WeatherHandler.ForecastByLocation)
		r.Get("/forecast/{locationID}/all_types", deps.WeatherHandler.ForecastAllKinds)

		r.Route("/user", func(r chi.Router) {
			r.Use(authRequired)
			r.Get("/profile", deps.UserHandler.GetProfile)
			r.Post("/update_profile", deps.UserHandler.UpdateProfile)
			r.Post("/add_favorite_location", deps.UserHandler.AddFavorite)
			r.Post("/remove_favorite_location", deps.UserHandler.RemoveFavorite)
			r.Get("/favorite_locations", deps.UserHandler.ListFavorites)
			r.Get("/notification_settings", deps.UserHandler.GetNotificationSettings)
			r.Post("/update_notification_settings", deps.UserHandler.UpdateNotificationSettings)
			r.Post("/check_notifications", deps.UserHandler.CheckNotifications)
		})

		r.Route("/news", func(r chi.Router) {
			r.Get("/", deps.NewsHandler.List)
			r.Get("/{articleID}", deps.NewsHandler.Get)

			// Write operations require a logged-in user.
			r.Group(func(r chi.Router) {
				r.Use(authRequired)
				r.Post("/", deps.NewsHandler.Create)
				r.Patch("/{articleID}", deps.NewsHandler.Update)
				r.Delete("/{articleID}", deps.NewsHandler.Delete)
			})
		})
	})

	deps.Logger.Info("routes configured")

	// Enable CORS for browser clients (local frontend)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		AllowCredentials: true,
	})

	return corsHandler.Handler(r)
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(r chi.Router, deps *Dependencies) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if err := deps.DB.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	r.Handle("/metrics", promhttp.Handler())
	deps.Logger.Info("registered utility routes")
}
