package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/metrics"
	"github.com/mamadbah2/stockledger/internal/repository"
	"github.com/mamadbah2/stockledger/internal/repository/memory"
	"github.com/mamadbah2/stockledger/internal/repository/mongodb"
	"github.com/mamadbah2/stockledger/internal/repository/postgres"
	"github.com/mamadbah2/stockledger/internal/repository/sheets"
	"github.com/mamadbah2/stockledger/internal/repository/xlsx"
	"github.com/mamadbah2/stockledger/internal/scheduler"
	"github.com/mamadbah2/stockledger/internal/server/handlers"
	"github.com/mamadbah2/stockledger/internal/server/router"
	exportsvc "github.com/mamadbah2/stockledger/internal/service/export"
	inventorysvc "github.com/mamadbah2/stockledger/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/stockledger/internal/service/reporting"
	"github.com/mamadbah2/stockledger/pkg/clients/notifier"
	"github.com/mamadbah2/stockledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, closeStore, err := openStore(context.Background(), cfg, logger.Named(baseLogger, "repo."+cfg.Store.Backend))
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()

	m := metrics.New()

	inventorySvc := inventorysvc.NewService(store, m, logger.Named(baseLogger, "svc.inventory"))
	exportSvc := exportsvc.NewService(store, m, logger.Named(baseLogger, "svc.export"))
	reportingSvc := reportingsvc.NewService(store, logger.Named(baseLogger, "svc.reporting"))

	inventoryHandler := handlers.NewInventoryHandler(inventorySvc, logger.Named(baseLogger, "handlers.inventory"))
	exportHandler := handlers.NewExportHandler(exportSvc, logger.Named(baseLogger, "handlers.export"))
	engine := router.New(inventoryHandler, exportHandler, m, logger.Named(baseLogger, "router"))

	var notifyClient notifier.Client
	if cfg.Notifier.WebhookURL != "" {
		notifyClient = notifier.NewClient(cfg.Notifier)
		baseLogger.Info("report notifier enabled")
	}

	sched, err := scheduler.NewScheduler(cfg.Schedule, reportingSvc, exportSvc, notifyClient, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore builds the configured backend. The returned func releases its resources.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case config.BackendXLSX:
		store, err := xlsx.NewStore(cfg.Store.DataDir, log)
		return store, noop, err
	case config.BackendSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, log)
		if err != nil {
			return nil, noop, err
		}
		store, err := sheets.NewStore(ctx, repo, log)
		return store, noop, err
	case config.BackendMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() {
			if err := repo.Close(context.Background()); err != nil {
				log.Error("failed to close mongodb connection", zap.Error(err))
			}
		}, nil
	case config.BackendPostgres:
		db, err := postgres.NewDBConn(cfg.Postgres.URL)
		if err != nil {
			return nil, noop, err
		}
		if err := db.MigrateSchema(); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("migrate schema: %w", err)
		}
		return postgres.NewStore(&db), func() {
			if err := db.Close(); err != nil {
				log.Error("failed to close postgres connection", zap.Error(err))
			}
		}, nil
	case config.BackendMemory:
		log.Warn("memory store selected, data is lost on restart")
		return memory.NewStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}
