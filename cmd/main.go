package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/suteetoe/cakeorders/internal/auth"
	"github.com/suteetoe/cakeorders/internal/handler"
	"github.com/suteetoe/cakeorders/internal/middleware"
	"github.com/suteetoe/cakeorders/internal/store"
	"github.com/suteetoe/cakeorders/pkg/config"
	"github.com/suteetoe/cakeorders/pkg/database"
	"github.com/suteetoe/cakeorders/pkg/jwtutil"
	"github.com/suteetoe/cakeorders/pkg/logger"
	"github.com/suteetoe/cakeorders/prometheus"
	"go.uber.org/zap"
)

const serviceName = "cakeorders"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()
	log.Info("Starting cake order service...", cfg.LogConfig()...)

	if cfg.Auth.InsecureDefault {
		log.Warn("APP_SECRET_KEY is not set; password hashes use the public default secret. Set APP_SECRET_KEY before storing real accounts.")
	}

	// Initialize database
	db, err := database.Open(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	log.Info("Database connection established")

	hasher, err := auth.NewHasher(cfg.Auth)
	if err != nil {
		log.Fatal("Failed to initialize password hasher", zap.Error(err))
	}

	st := store.New(db, store.WithLogger(log))
	seed := store.DefaultSeed
	seed.Username = cfg.Bootstrap.Username
	seed.Password = cfg.Bootstrap.Password
	if _, err := st.Bootstrap(context.Background(), hasher, seed); err != nil {
		log.Fatal("Failed to bootstrap database", zap.Error(err))
	}

	authSvc := auth.NewService(st.Tenants, hasher, log)
	jwtUtil := jwtutil.NewJWTUtil(&cfg.JWT, cfg.ServiceName)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	handler.New(cfg.ServiceName, db, st, authSvc, jwtUtil).Register(e)

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
