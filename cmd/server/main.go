package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/app"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/config"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/server/handlers"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/server/router"
	"github.com/Mohan-0108/KSM-ENTERPRIES/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	application, err := app.New(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to initialize application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close storage", zap.Error(err))
		}
	}()

	h := router.Handlers{
		Inventory: handlers.NewInventoryHandler(application.Ledger, application.Reporting, application.Checkout, baseLogger.Named("handlers.inventory")),
		Cart:      handlers.NewCartHandler(application.Checkout, baseLogger.Named("handlers.cart")),
		Insights:  handlers.NewInsightsHandler(application.Tracker, application.Ledger, baseLogger.Named("handlers.insights")),
	}
	if application.Messaging != nil {
		h.Webhook = handlers.NewWebhookHandler(application.Messaging, baseLogger.Named("handlers.whatsapp"))
	}
	engine := router.New(h, baseLogger.Named("router"))

	sched, err := application.NewScheduler()
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
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
