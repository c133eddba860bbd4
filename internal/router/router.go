package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"modion/internal/auth"
	"modion/internal/cache"
	"modion/internal/config"
	"modion/internal/handler"
	authmw "modion/internal/middleware"
	"modion/internal/service"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Article   *handler.ArticleHandler
	Contact   *handler.ContactHandler
	Subscribe *handler.SubscribeHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	authService service.AuthService,
	h Handlers,
	health func(ctx context.Context) error,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				slog.Error("request", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: service.Validator()}

	e.GET("/healthz", func(c echo.Context) error {
		if health != nil {
			if err := health(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "error": err.Error()})
			}
		}
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireAuth := authmw.RequireAuth(jwtService, authService)

	limited := api.Group("")
	if cfg.RateLimit > 0 {
		limited.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}

	// Auth routes
	limited.POST("/auth/register", h.Auth.Register)
	limited.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/status", h.Auth.Status, requireAuth...)
	api.POST("/auth/logout", h.Auth.Logout, requireAuth...)

	// Article routes
	articles := api.Group("/articles")
	articles.GET("", h.Article.List)
	articles.GET("/featured", h.Article.Featured)
	articles.GET("/search", h.Article.Search)
	articles.GET("/categories", h.Article.Categories)
	articles.GET("/category/:category", h.Article.ByCategory)
	articles.GET("/:id", h.Article.Get)
	articles.POST("", h.Article.Create, requireAuth...)
	articles.PUT("/:id", h.Article.Update, requireAuth...)
	articles.DELETE("/:id", h.Article.Delete, requireAuth...)

	// Contact and newsletter
	limited.POST("/contact", h.Contact.Submit)
	limited.POST("/subscribe", h.Subscribe.Subscribe)
}

// HealthCheck pings the database and redis.
func HealthCheck(gormDB *gorm.DB, cacheClient *cache.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		return errors.Join(sqlDB.PingContext(ctx), cacheClient.Ping(ctx))
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
