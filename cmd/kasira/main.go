package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/kasira/kasira/internal/app"
	"github.com/kasira/kasira/internal/auth"
	"github.com/kasira/kasira/internal/catalog/categories"
	"github.com/kasira/kasira/internal/catalog/products"
	"github.com/kasira/kasira/internal/catalog/units"
	"github.com/kasira/kasira/internal/dashboard"
	"github.com/kasira/kasira/internal/observability"
	"github.com/kasira/kasira/internal/platform/cache"
	"github.com/kasira/kasira/internal/platform/db"
	"github.com/kasira/kasira/internal/reports"
	"github.com/kasira/kasira/internal/salespeople"
	"github.com/kasira/kasira/internal/transactions"
	"github.com/kasira/kasira/internal/users"
	"github.com/kasira/kasira/internal/validate"
	"github.com/kasira/kasira/internal/warehouse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns, cfg.PGTimeout)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	metrics := observability.NewMetrics()
	validator := validate.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	authService := auth.NewService(auth.NewRepository(pool), tokens)
	userService := users.NewService(users.NewRepository(pool), validator)
	productService := products.NewService(products.NewRepository(pool), validator)
	categoryService := categories.NewService(categories.NewRepository(pool), validator)
	unitService := units.NewService(units.NewRepository(pool), validator)
	salesService := salespeople.NewService(salespeople.NewRepository(pool), validator)
	warehouseService := warehouse.NewService(warehouse.NewRepository(pool))
	transactionService := transactions.NewService(transactions.NewStore(pool))
	dashboardService := dashboard.NewService(logger, dashboard.NewRepository(pool), redisClient, cfg.DashboardCacheTTL)
	reportService := reports.NewService(reports.NewRepository(pool))

	router := app.NewRouter(app.RouterConfig{
		Logger:  logger,
		Config:  cfg,
		Metrics: metrics,
		Tokens:  tokens,

		Auth:         auth.NewHandler(logger, authService, tokens, validator),
		Users:        users.NewHandler(logger, userService),
		Products:     products.NewHandler(logger, productService),
		Categories:   categories.NewHandler(logger, categoryService),
		Units:        units.NewHandler(logger, unitService),
		Sales:        salespeople.NewHandler(logger, salesService),
		Warehouse:    warehouse.NewHandler(logger, warehouseService),
		Transactions: transactions.NewHandler(logger, transactionService),
		Dashboard:    dashboard.NewHandler(logger, dashboardService),
		Reports:      reports.NewHandler(logger, reportService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
