package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "sigeu/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sigeu/internal/auth"
	"sigeu/internal/cache"
	"sigeu/internal/config"
	"sigeu/internal/db"
	"sigeu/internal/handler"
	"sigeu/internal/logger"
	"sigeu/internal/mailer"
	"sigeu/internal/metrics"
	"sigeu/internal/middleware"
	"sigeu/internal/repository"
	"sigeu/internal/router"
	"sigeu/internal/service"
)

const version = "1.0.0"

// @title SIGEU API
// @version 1.0
// @description University event management: organizers register events and external organizations, submit drafts for validation and manage their accounts.
// @host localhost:3000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		Debug:           cfg.LogLevel == "debug",
		Log:             log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := prepareSchema(gormDB, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("database schema")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if !cacheClient.Enabled() {
		log.Warn().Msg("REDIS_ADDR not set: logout and single-use reset tokens are disabled, rate limiting is per process")
	} else if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, continuing without it")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	orgRepo := repository.NewOrganizationRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	tokenStore := auth.NewTokenStore(cacheClient)
	authenticator := middleware.NewAuthenticator(jwtService, tokenStore, userRepo, log)
	appMetrics := metrics.New()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, service.AuthOptions{
		Mailer:           mailer.NewSMTPMailer(cfg.SMTP, cfg.ResetPasswordURL, log),
		AllowAdminSignup: cfg.AllowAdminSignup,
	})
	orgService := service.NewOrganizationService(orgRepo)
	eventService := service.NewEventService(eventRepo, orgRepo, service.WithTransitionRecorder(appMetrics))
	userService := service.NewUserService(userRepo)

	var redisPing handler.Pinger
	if cacheClient.Enabled() {
		redisPing = cacheClient.Ping
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	router.Register(e, cfg, router.Deps{
		Log:           log,
		Cache:         cacheClient,
		Metrics:       appMetrics,
		Authenticator: authenticator,
	}, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, log, !cfg.IsProduction()),
		Event:        handler.NewEventHandler(eventService),
		Organization: handler.NewOrganizationHandler(orgService),
		User:         handler.NewUserHandler(userService),
		Health: handler.NewHealthHandler(func(ctx context.Context) error {
			return db.Ping(ctx, gormDB)
		}, redisPing, version),
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		log.Info().Msgf("Swagger documentation available at: http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// prepareSchema drops the schema when RESET_DB is set and migrates when
// AUTO_MIGRATE is on.
func prepareSchema(gormDB *gorm.DB, cfg *config.Config, log *logger.Logger) error {
	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if cfg.AutoMigrate || cfg.ResetDB {
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
		log.Info().Msg("database migrations completed")
	}
	return nil
}
