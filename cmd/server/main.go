// Package main initializes and starts the finance-tracker HTTP server,
// setting up configuration, logging, the database connection, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/debojyoti/finance-tracker-v2-backend/internal/config"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/db"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/identity"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/logger"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/repository"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/server/handler/http"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/service"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/token"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// shutdownTimeout bounds the drain period for in-flight requests.
const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer func() { _ = postgresDB.Close() }()

	// Session token codec.
	codec, err := token.New(token.Config{Secret: options.JWTSecret})
	if err != nil {
		zapLogger.Fatal("cannot init session tokens", zap.Error(err))
	}

	// Identity-provider bridge. Discovery runs against the issuer at boot.
	bridge, err := identity.New(context.Background(), identity.Config{
		IssuerURL: options.OIDCIssuer,
		Audience:  options.OIDCAudience,
	})
	if err != nil {
		zapLogger.Fatal("cannot init identity provider", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	expenseRepo := repository.NewPostgresExpenseRepository(postgresDB)
	earningRepo := repository.NewPostgresEarningRepository(postgresDB)
	savingRepo := repository.NewPostgresSavingRepository(postgresDB)
	categoryRepo := repository.NewPostgresCategoryRepository(postgresDB)
	typeRepo := repository.NewPostgresTypeRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, bridge, codec)
	expenseService := service.NewExpenseService(expenseRepo)
	earningService := service.NewEarningService(earningRepo)
	savingService := service.NewSavingService(savingRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	typeService := service.NewTypeService(typeRepo)

	// Create the HTTP handlers.
	responder := &http.Responder{
		Logger:       zapLogger,
		ExposeErrors: !options.IsProduction(),
	}
	handlers := http.Handlers{
		Auth:     &http.AuthHandler{AuthService: authService, Responder: responder},
		Expense:  &http.ExpenseHandler{ExpenseService: expenseService, Responder: responder},
		Earning:  &http.EarningHandler{EarningService: earningService, Responder: responder},
		Saving:   &http.SavingHandler{SavingService: savingService, Responder: responder},
		Category: &http.CategoryHandler{CategoryService: categoryService, Responder: responder},
		Type:     &http.TypeHandler{TypeService: typeService, Responder: responder},
		Health:   &http.HealthHandler{DB: postgresDB, Responder: responder},
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(handlers, codec, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	// Drain in-flight requests on SIGINT/SIGTERM.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		zapLogger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zapLogger.Error("shutdown", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
	<-done
}
