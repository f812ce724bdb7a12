// Package main is the entry point for the gudang API server: the FIFO
// inventory ledger, cash opname and reporting backend for the POS.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gudang/internal/core/numerator"
	"gudang/internal/domain/auth"
	"gudang/internal/domain/cashcount"
	"gudang/internal/domain/inventory"
	"gudang/internal/domain/reports"
	v1 "gudang/internal/infrastructure/http/v1"
	"gudang/internal/infrastructure/storage/memory"
	"gudang/internal/infrastructure/storage/postgres"
	"gudang/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting gudang server")

	gen := numerator.NewMemory()

	// Storage: PostgreSQL when DATABASE_URL is set, in-memory otherwise.
	// The in-memory mode keeps the full ledger for the process lifetime
	// and suits demos and tests.
	var (
		ledgerStore inventory.Store
		userRepo    auth.UserRepository
		opnameRepo  cashcount.OpnameRepository
		pool        *postgres.Pool
	)
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		pool, err = postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatalw("failed to migrate database", "error", err)
		}
		log.Info("database connection established")

		pgStore := postgres.NewStore(pool)
		ledgerStore = pgStore
		userRepo = postgres.NewUserRepo(pool)
		opnameRepo = postgres.NewOpnameRepo(pool)

		// Continue nota numbering where the stored history left off.
		year := time.Now().Year()
		seedNumerator(ctx, log, gen, pgStore, "receiving_records", inventory.NotaNumberPrefix, year)
		seedNumerator(ctx, log, gen, pgStore, "cash_opnames", cashcount.OpnameNumberPrefix, year)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
		ledgerStore = memory.NewStore()
		userRepo = memory.NewUserRepo()
		opnameRepo = memory.NewOpnameRepo()
	}

	// Services.
	jwtSecret := getEnv("JWT_SECRET", "change-me-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(userRepo, jwtService, auth.DefaultServiceConfig())
	inventoryService := inventory.NewService(ledgerStore, gen)
	cashCountService := cashcount.NewService(opnameRepo, gen)
	reportsService := reports.NewService(inventoryService)

	if err := authService.EnsureDefaultAdmin(ctx,
		getEnv("ADMIN_USERNAME", "admin"),
		getEnv("ADMIN_PASSWORD", "admin123"),
	); err != nil {
		log.Fatalw("failed to ensure default admin", "error", err)
	}

	router := v1.NewRouter(v1.RouterConfig{
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		InventoryService: inventoryService,
		CashCountService: cashCountService,
		ReportsService:   reportsService,
		Pool:             pool,
	})

	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func seedNumerator(ctx context.Context, log *logger.Logger, gen *numerator.Memory, store *postgres.Store, table, prefix string, year int) {
	max, err := store.MaxNumberValue(ctx, table, prefix, year)
	if err != nil {
		log.Warnw("failed to seed numerator", "table", table, "error", err)
		return
	}
	gen.Seed(numerator.DefaultConfig(prefix), time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), max)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
