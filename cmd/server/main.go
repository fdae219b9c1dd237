package main

import (
	"context"
	"ieltsprep/internal/app"
	"ieltsprep/internal/config"
	"ieltsprep/internal/service"
	"ieltsprep/pkg/logger"
	"ieltsprep/pkg/monitoring"
	"ieltsprep/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// @title IELTS Prep API
// @version 1.0
// @description Classes, assignment authoring, submissions, grading and analytics for IELTS practice
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("load config: " + err.Error())
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("tracing disabled", zap.Error(err))
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	ai := service.NewAIService(cfg.AI)
	logger.Log.Info("AI config",
		zap.String("provider", ai.Provider()),
		zap.String("transcribe", cfg.AI.Models.Transcribe),
		zap.String("writing", cfg.AI.Models.Writing),
		zap.String("extract", cfg.AI.Models.Extract))

	storage, err := service.NewStorageProvider(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Fatal("failed to init storage", zap.Error(err))
	}

	var stores *app.Stores
	if cfg.Server.Store == "memory" {
		logger.Log.Warn("using in-memory store, data is lost on restart")
		stores = app.MemoryStores()
	} else {
		stores, err = app.ConnectStores(ctx, cfg)
		if err != nil {
			logger.Log.Fatal("failed to connect stores", zap.Error(err))
		}
	}

	a := app.New(cfg, stores, ai, service.NewMediaService(storage))
	a.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("mode", cfg.Server.Mode),
			zap.String("store", cfg.Server.Store))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server forced to shutdown", zap.Error(err))
	}

	stop()
	a.Close(shutdownCtx)
	logger.Log.Info("server exited")
}
