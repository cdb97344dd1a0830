package router

import (
	"github.com/anonto42/bonfire-demo/backend/internal/gqlapi"
	"github.com/anonto42/bonfire-demo/backend/internal/handlers"
	"github.com/anonto42/bonfire-demo/backend/internal/metrics"
	"github.com/anonto42/bonfire-demo/backend/internal/middleware"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Dependencies are the services the routes are built on. DefaultLoginMode
// applies to logins without ?mode=.
type Dependencies struct {
	Bonfire          services.BonfireService
	Auth             *services.AuthService
	DefaultLoginMode string
	Log              *logrus.Entry
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, log *logrus.Entry) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			if v.Status >= 500 {
				entry.Error("Request failed")
			} else {
				entry.Info("Request handled")
			}
			return nil
		},
	}))
	e.Use(metrics.Middleware())
	log.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	log := deps.Log

	// Health checks - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/api/health", handlers.APIHealth)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Bonfire, deps.DefaultLoginMode)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Info("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(deps.Auth))
	log.Info("JWT authentication middleware applied to /api group.")

	authHandler.RegisterSessionRoutes(api)

	// User profile routes
	userHandler := handlers.NewUserHandler(deps.Bonfire)
	userHandler.RegisterProfileRoutes(api)
	log.Info("User profile routes configured.")

	// Conversation and message routes
	conversationHandler := handlers.NewConversationHandler(deps.Bonfire)
	conversationHandler.RegisterConversationRoutes(api)
	log.Info("Conversation routes configured.")

	// Activity feed routes
	feedHandler := handlers.NewFeedHandler(deps.Bonfire)
	feedHandler.RegisterFeedRoutes(api)
	log.Info("Feed routes configured.")

	// GraphQL - authentication checked per resolver
	gqlHandler, err := gqlapi.NewHandler(deps.Bonfire, deps.Auth, log.WithField("component", "graphql"))
	if err != nil {
		return err
	}
	gqlHandler.RegisterRoutes(e)
	log.Info("GraphQL routes configured.")

	log.Info("All routes configured.")
	return nil
}
