package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"sigeu/internal/cache"
	"sigeu/internal/config"
	"sigeu/internal/handler"
	"sigeu/internal/logger"
	"sigeu/internal/metrics"
	authmw "sigeu/internal/middleware"
	"sigeu/internal/model"
	"sigeu/internal/ratelimit"
)

// Deps are the shared components the middleware chain is built from.
type Deps struct {
	Log           *logger.Logger
	Cache         *cache.Client
	Metrics       *metrics.Metrics
	Authenticator *authmw.Authenticator
}

// Handlers are the endpoint groups mounted under /api.
type Handlers struct {
	Auth         *handler.AuthHandler
	Event        *handler.EventHandler
	Organization *handler.OrganizationHandler
	User         *handler.UserHandler
	Health       *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, deps Deps, h Handlers) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewErrorHandler(log, !cfg.IsProduction())

	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	e.GET("/", h.Health.Index)
	e.GET("/health", h.Health.Health)
	if deps.Metrics != nil {
		e.GET("/metrics", deps.Metrics.Handler())
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api", middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: ratelimit.For(deps.Cache, cfg.RateLimitMax, cfg.RateLimitWindow),
	}))
	authenticated := deps.Authenticator.Middleware()
	organizers := authmw.RequireRole(model.RoleAdmin, model.RoleOrganizador)
	admins := authmw.RequireRole(model.RoleAdmin)

	// Public auth routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
	authGroup.POST("/reset-password", h.Auth.ResetPassword)
	authGroup.GET("/me", h.Auth.Me, authenticated)
	authGroup.PUT("/profile", h.Auth.UpdateProfile, authenticated)
	authGroup.POST("/logout", h.Auth.Logout, authenticated)

	orgs := api.Group("/organizations", authenticated)
	orgs.GET("/search", h.Organization.Search)
	orgs.GET("", h.Organization.List)
	orgs.GET("/:id", h.Organization.Get)
	orgs.POST("", h.Organization.Create, organizers)
	orgs.PUT("/:id", h.Organization.Update, organizers)
	orgs.DELETE("/:id", h.Organization.Delete, admins)

	events := api.Group("/events", authenticated)
	events.GET("", h.Event.List)
	events.GET("/:id", h.Event.Get)
	events.GET("/:id/history", h.Event.History)
	events.POST("", h.Event.Create, organizers)
	events.PUT("/:id", h.Event.Update, organizers)
	events.POST("/:id/submit-validation", h.Event.Submit, organizers)

	users := api.Group("/users", authenticated, admins)
	users.GET("", h.User.ListUsers)
	users.GET("/:id", h.User.GetUser)
	users.PATCH("/:id/status", h.User.SetStatus)
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			default:
				ev = log.Info()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
