package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"

	_ "modion/docs" // swagger docs

	"modion/internal/auth"
	"modion/internal/cache"
	"modion/internal/config"
	"modion/internal/db"
	"modion/internal/handler"
	"modion/internal/logger"
	"modion/internal/mailer"
	"modion/internal/media"
	"modion/internal/repository"
	"modion/internal/router"
	"modion/internal/service"
)

// @title Modion API
// @version 1.0
// @description Blog backend with articles, JWT authentication, contact messages and newsletter subscriptions.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.IsProduction(), cfg.LogLevel, cfg.SentryDSN)
	defer sentry.Flush(2 * time.Second)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database init", "error", err)
		os.Exit(1)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			slog.Error("database migrate", "error", err)
			os.Exit(1)
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "modion:")
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	articleRepo := repository.NewArticleRepository(gormDB)
	subscriberRepo := repository.NewSubscriberRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	store, err := newMediaStore(context.Background(), cfg)
	if err != nil {
		slog.Error("media store init", "driver", cfg.MediaDriver, "error", err)
		os.Exit(1)
	}
	mail := mailer.NewResend(cfg.ResendAPIKey, cfg.EmailFrom, !cfg.IsProduction() && cfg.ResendAPIKey == "")

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cacheClient)
	articleService := service.NewArticleService(articleRepo, store, cfg.MediaFolder)
	contactService := service.NewContactService(contactRepo, mail)
	subscribeService := service.NewSubscribeService(subscriberRepo, mail)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, jwtService, authService, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, jwtService.Expiry(), cfg.IsProduction()),
		Article:   handler.NewArticleHandler(articleService, cfg.MaxUploadBytes),
		Contact:   handler.NewContactHandler(contactService),
		Subscribe: handler.NewSubscribeHandler(subscribeService),
	}, router.HealthCheck(gormDB, cacheClient))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		slog.Info("server starting", "addr", addr, "env", cfg.AppEnv, "swagger", "/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
}

func newMediaStore(ctx context.Context, cfg *config.Config) (media.Store, error) {
	if cfg.MediaDriver == "s3" {
		return media.NewS3(ctx, media.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
	}
	return media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
}
