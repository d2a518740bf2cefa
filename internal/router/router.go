// Package router wires repositories, services and handlers into an echo
// instance and declares every route of the API.
package router

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/config"
	"github.com/combosss/combo-api/internal/handler"
	"github.com/combosss/combo-api/internal/metrics"
	"github.com/combosss/combo-api/internal/middleware"
	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/repository"
	"github.com/combosss/combo-api/internal/service"
	"github.com/combosss/combo-api/internal/validation"
)

// Deps are the process-level resources the router builds on. Redis and
// Publisher may be nil; the features using them are then disabled.
type Deps struct {
	DB           *sql.DB
	Log          *zap.Logger
	Redis        *redis.Client
	RateLimit    config.RateLimitConfig
	Cache        config.CacheConfig
	CookieSecure bool
	Publisher    service.EventPublisher
}

// New returns a fully routed echo instance.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(e, d.Log)
	e.Validator = validation.EchoValidator{}

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			d.Log.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(metrics.Middleware())

	users := repository.NewUserRepo(d.DB)
	sessions := repository.NewSessionRepo(d.DB)
	combos := service.NewComboService(repository.NewComboRepo(d.DB), d.Publisher)

	a := access{
		auth:     middleware.SessionAuth(sessions),
		optional: middleware.OptionalSession(sessions),
		anyRole:  middleware.RequireRole(users, model.RoleAdmin, model.RoleVisitor),
		admin:    middleware.RequireRole(users, model.RoleAdmin),
		limit:    middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log),
	}

	RegisterRoutes(e, d.DB)
	// The limiter keys on the caller, so the session is resolved first.
	v1 := e.Group("/v1", a.optional, a.limit)
	RegisterUsers(v1, handler.NewUserHandler(users, sessions, d.CookieSecure, d.Log), handler.NewSessionHandler(sessions, d.Log), a)
	RegisterCombos(v1, handler.NewComboHandler(combos, d.Log), a)
	RegisterReactions(v1, handler.NewReactionHandler(
		repository.NewReactionRepo(d.DB, repository.Likes),
		repository.NewReactionRepo(d.DB, repository.Favorites),
		combos, d.Log), a)
	RegisterCatalog(v1, handler.NewCatalogHandler(
		repository.NewCharacterRepo(d.DB),
		repository.NewPositionRepo(d.DB),
		repository.NewInputRepo(d.DB), d.Log),
		a,
		middleware.NewRedisCache(d.Cache, d.Redis),
		middleware.PurgeCacheOnWrite(d.Cache, d.Redis, d.Log))
	return e
}

// access bundles the authentication and authorization middlewares that
// route groups pick from.
type access struct {
	auth     echo.MiddlewareFunc // 401 without a live session
	optional echo.MiddlewareFunc // identity when available
	anyRole  echo.MiddlewareFunc // admin or visitor
	admin    echo.MiddlewareFunc
	limit    echo.MiddlewareFunc
}

// RegisterRoutes registers the unversioned operational endpoints.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// errorHandler logs unexpected errors with zap before delegating to
// echo's default rendering. HTTP errors raised on purpose are not logged.
func errorHandler(e *echo.Echo, log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			log.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Error(err))
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
