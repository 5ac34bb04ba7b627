package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/blogsphere/api/docs"
	"github.com/blogsphere/api/internal/api/handler"
	"github.com/blogsphere/api/internal/api/middleware"
	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
	"github.com/blogsphere/api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router needs. Health handlers may be nil.
type Dependencies struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Categories ports.CategoryService
	Posts      ports.PostService
	Comments   ports.CommentService
	Likes      ports.LikeService
	Sessions   ports.SessionResolver

	Health      *handlers.HealthHandler
	HealthReady *handlers.HealthDependenciesHandler

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blogsphere",
		Subsystem:  "http",
		Registerer: deps.Registerer,
	}))

	// --- Access policies ---
	userWrite := middleware.Authenticate(deps.Sessions, domain.AccessPolicy{Scopes: []string{domain.ScopeUser}})
	adminWrite := middleware.Authenticate(deps.Sessions, domain.AccessPolicy{Scopes: []string{domain.ScopeAdmin}})
	access := middleware.Authenticate(deps.Sessions, domain.AccessPolicy{})
	optional := middleware.Authenticate(deps.Sessions, domain.AccessPolicy{Optional: true})

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/token", authHandler.Token)
	e.POST("/auth/login", authHandler.Token)
	e.POST("/auth/refresh", authHandler.Refresh)

	// --- Users ---
	userHandler := handler.NewUserHandler(deps.Users)
	e.GET("/users/me", userHandler.Me, access)
	e.PATCH("/users/me", userHandler.ChangePassword, userWrite)
	e.DELETE("/users/me", userHandler.DeleteMe, userWrite)
	e.GET("/users", userHandler.List, access, middleware.RBAC(domain.RoleAdmin))
	e.DELETE("/users/:id", userHandler.Delete, adminWrite)

	// --- Categories ---
	categoryHandler := handler.NewCategoryHandler(deps.Categories)
	e.GET("/categories", categoryHandler.List)
	e.GET("/categories/:id/posts", categoryHandler.Posts)
	e.POST("/categories", categoryHandler.Create, adminWrite)
	e.PATCH("/categories/:id", categoryHandler.Rename, adminWrite)
	e.DELETE("/categories/:id", categoryHandler.Delete, adminWrite)

	// --- Posts ---
	postHandler := handler.NewPostHandler(deps.Posts)
	e.GET("/posts", postHandler.List, optional)
	e.GET("/posts/:id", postHandler.Get, optional)
	e.GET("/posts/:id/views", postHandler.Views)
	e.POST("/posts", postHandler.Create, userWrite)
	e.PATCH("/posts/:id", postHandler.Update, userWrite)
	e.DELETE("/posts/:id", postHandler.Delete, userWrite)

	// --- Comments ---
	commentHandler := handler.NewCommentHandler(deps.Comments)
	e.GET("/comments/post/:id", commentHandler.ByPost)
	e.GET("/comments/user/:id", commentHandler.ByUser)
	e.POST("/comments", commentHandler.Create, userWrite)
	e.PATCH("/comments/:id", commentHandler.Update, userWrite)
	e.DELETE("/comments/:id", commentHandler.Delete, userWrite)

	// --- Likes ---
	likeHandler := handler.NewLikeHandler(deps.Likes)
	e.GET("/likes/posts/:id", likeHandler.ForPost)
	e.GET("/likes/users/:id", likeHandler.ByUser)
	e.POST("/likes/posts/:id", likeHandler.Like, userWrite)
	e.DELETE("/likes/posts/:id", likeHandler.Unlike, userWrite)

	// --- Health probes, metrics and docs (no auth required) ---
	if deps.Health == nil {
		deps.Health = handlers.NewHealthHandler()
	}
	e.GET("/health", deps.Health.Liveness)
	if deps.HealthReady != nil {
		e.GET("/health/ready", deps.HealthReady.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
