package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/prodcat/backend/config"
	httpDelivery "github.com/prodcat/backend/internal/delivery/http"
	"github.com/prodcat/backend/internal/domain"
	"github.com/prodcat/backend/internal/infrastructure/eventlog"
	"github.com/prodcat/backend/internal/infrastructure/memory"
	"github.com/prodcat/backend/internal/infrastructure/postgres"
	"github.com/prodcat/backend/internal/infrastructure/progress"
	"github.com/prodcat/backend/internal/infrastructure/spreadsheet"
	"github.com/prodcat/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Prodcat Backend v1.0.0",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("database", cfg.Database.Driver))

	ctx := context.Background()

	// Initialize infrastructure dependencies
	repo, cleanup, err := newProductRepository(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize product store", zap.Error(err))
	}
	defer cleanup()

	events, err := eventlog.NewFileLog(cfg.Import.LogPath)
	if err != nil {
		logger.Fatal("Failed to initialize event log", zap.Error(err))
	}
	logger.Info("Event log ready", zap.String("path", cfg.Import.LogPath))

	hub := progress.NewHub(logger)
	parser := spreadsheet.NewParser()

	// Initialize usecase layer
	productService := usecase.NewProductService(repo)
	importService := usecase.NewImportService(parser, repo, hub, events, logger,
		usecase.ImportServiceConfig{PreviewRows: cfg.Import.PreviewRows})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(productService, importService, hub, events, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// newLogger builds the application logger for the environment.
func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newProductRepository selects the configured product store. The returned
// cleanup closes any held connections.
func newProductRepository(ctx context.Context, cfg *config.Config) (domain.ProductRepository, func(), error) {
	switch cfg.Database.Driver {
	case "memory":
		return memory.NewProductRepository(), func() {}, nil
	default:
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing database URL: %w", err)
		}
		if cfg.Database.MaxConns > 0 {
			poolCfg.MaxConns = cfg.Database.MaxConns
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pinging database: %w", err)
		}

		repo := postgres.NewProductRepository(pool)
		if err := repo.InitSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	}
}
