package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"stayledger/internal/config"
	"stayledger/internal/domain/models"
	"stayledger/internal/repository/mongodb"
	"stayledger/internal/repository/sheets"
	"stayledger/internal/scheduler"
	"stayledger/internal/server/handlers"
	"stayledger/internal/server/router"
	"stayledger/internal/service/assistant"
	"stayledger/internal/service/books"
	"stayledger/internal/service/importer"
	"stayledger/pkg/clients/gemini"
	"stayledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	anchor, err := cfg.Fiscal.Anchor()
	if err != nil {
		baseLogger.Fatal("invalid financial year start", zap.Error(err))
	}
	months := models.FinancialYearMonths(anchor)
	baseLogger.Info("financial year window",
		zap.String("first_month", months[0]),
		zap.String("last_month", months[len(months)-1]))

	mongoRepo, err := mongodb.NewMongoRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	booksSvc := books.NewService(mongoRepo, cfg.Owner.ID, months, logger.Named(baseLogger, "svc.books"))
	importerSvc := importer.NewService(booksSvc, logger.Named(baseLogger, "svc.importer"))

	projectionBuffer := books.NewProjectionBuffer(booksSvc, books.DefaultFlushDelay, logger.Named(baseLogger, "svc.projections"))
	liveView := books.NewLiveView(mongoRepo, booksSvc, logger.Named(baseLogger, "svc.view"))
	defer liveView.Close()

	// Initialize AI client
	var aiClient gemini.Client
	if cfg.AI.GeminiKey != "" {
		aiClient = gemini.NewClient(cfg.AI.GeminiKey)
		baseLogger.Info("gemini ai client enabled")
	} else {
		baseLogger.Warn("gemini api key missing, financial assistant disabled")
	}
	assistantSvc := assistant.NewService(aiClient, booksSvc, logger.Named(baseLogger, "svc.assistant"))

	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheets summary export enabled")
	}

	apiHandler := handlers.NewAPIHandler(booksSvc, importerSvc, assistantSvc, projectionBuffer, liveView, logger.Named(baseLogger, "handlers.api"))
	engine := router.New(apiHandler, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Snapshots, booksSvc, mongoRepo, exporter, logger.Named(baseLogger, "scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := projectionBuffer.Flush(shutdownCtx); err != nil {
		baseLogger.Error("failed to flush pending projection edits", zap.Error(err))
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
