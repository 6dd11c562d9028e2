package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/libreshelf/libreshelf-backend/api/routes"
	"github.com/libreshelf/libreshelf-backend/internal/activity"
	"github.com/libreshelf/libreshelf-backend/internal/auth"
	"github.com/libreshelf/libreshelf-backend/internal/books"
	"github.com/libreshelf/libreshelf-backend/internal/borrowing"
	"github.com/libreshelf/libreshelf-backend/internal/inventory"
	"github.com/libreshelf/libreshelf-backend/internal/libraries"
	"github.com/libreshelf/libreshelf-backend/internal/stats"
	"github.com/libreshelf/libreshelf-backend/internal/users"
	"github.com/libreshelf/libreshelf-backend/pkg/config"
	"github.com/libreshelf/libreshelf-backend/pkg/db"
	"github.com/libreshelf/libreshelf-backend/pkg/logger"
	"github.com/libreshelf/libreshelf-backend/pkg/metrics"
	"github.com/libreshelf/libreshelf-backend/pkg/migrate"
	"github.com/libreshelf/libreshelf-backend/pkg/redis"
	"github.com/libreshelf/libreshelf-backend/pkg/session"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	recorder := activity.NewRecorder()

	userRepo := users.NewRepository(dbClient.DB())
	bookRepo := books.NewRepository(dbClient.DB())
	libraryRepo := libraries.NewRepository(dbClient.DB())
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	borrowRepo := borrowing.NewRepository(dbClient.DB())

	authService, err := auth.NewService(userRepo, sessionManager, recorder, cfg.Session, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	bookService, err := books.NewService(bookRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create book service", err)
		os.Exit(1)
	}
	libraryService, err := libraries.NewService(libraryRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create library service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventoryRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	borrowService, err := borrowing.NewService(borrowRepo, bookRepo, userRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create borrowing service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	statsService, err := stats.NewService(bookRepo, userRepo, borrowRepo, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		Sessions:       sessionManager,
		UserRepo:       userRepo,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:           authService,
		Books:          bookService,
		Libraries:      libraryService,
		Inventory:      inventoryService,
		Borrowing:      borrowService,
		Users:          userService,
		Stats:          statsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeErr := multierr.Combine(
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(ctx, "error closing clients", closeErr)
		os.Exit(1)
	}
}
