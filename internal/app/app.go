// Package app assembles the services shared by the HTTP server and the command line tool.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/config"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/ledger"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository/file"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository/mongodb"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository/sheets"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository/sqlstore"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/scheduler"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/checkout"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/export"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/insights"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/reporting"
	whatsappsvc "github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/whatsapp"
	"github.com/Mohan-0108/KSM-ENTERPRIES/pkg/clients/anthropic"
	"github.com/Mohan-0108/KSM-ENTERPRIES/pkg/clients/gemini"
	whatsappclient "github.com/Mohan-0108/KSM-ENTERPRIES/pkg/clients/whatsapp"
)

// App holds the wired services. Messaging and Exporter are nil when their integration is not
// configured.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Ledger    *ledger.Store
	Reporting *reporting.Service
	Checkout  *checkout.Service
	Insights  *insights.Service
	Tracker   *insights.Tracker
	Messaging *whatsappsvc.MetaWhatsAppService
	Notifier  whatsappsvc.Notifier
	Exporter  *export.Exporter

	closers []func(context.Context) error
}

// New opens the configured storage, loads the state and wires every service.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Notifier: whatsappsvc.NopNotifier{}}

	repo, err := a.openRepository(ctx)
	if err != nil {
		return nil, err
	}

	a.Ledger, err = ledger.NewStore(ctx, repo, logger.Named("ledger"))
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("load state: %w", err)
	}

	a.Reporting = reporting.NewService(a.Ledger, cfg.Server.DisplayCurrency, logger.Named("svc.reporting"))
	a.Checkout = checkout.NewService(a.Ledger, logger.Named("svc.checkout"))

	summarizer, err := newSummarizer(ctx, cfg.AI, logger)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Insights = insights.NewService(summarizer, logger.Named("svc.insights"))
	a.Tracker = insights.NewTracker(a.Insights)

	if cfg.WhatsApp.Enabled() {
		client := whatsappclient.NewClient(cfg.WhatsApp)
		a.Messaging = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, client, a.Reporting, logger.Named("svc.whatsapp"))
		a.Notifier = a.Messaging
		logger.Info("whatsapp channel enabled")
	} else {
		logger.Warn("whatsapp credentials missing, notifications disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.Exporter = export.NewExporter(sheetsRepo, logger.Named("svc.export"))
		logger.Info("sheets export enabled")
	}

	return a, nil
}

func (a *App) openRepository(ctx context.Context) (repository.StateRepository, error) {
	storage := a.Config.Storage
	log := a.Logger.With(zap.String("driver", storage.Driver))

	switch storage.Driver {
	case config.DriverFile:
		store, err := file.NewStore(storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		log.Info("storage ready", zap.String("path", store.Path()))
		return store, nil
	case config.DriverSQLite, config.DriverPostgres:
		store, err := sqlstore.Open(storage.Driver, storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", storage.Driver, err)
		}
		a.closers = append(a.closers, store.Close)
		log.Info("storage ready")
		return store, nil
	case config.DriverMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, storage.MongoURI, storage.MongoDBName)
		if err != nil {
			return nil, fmt.Errorf("open mongodb storage: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		log.Info("storage ready", zap.String("database", storage.MongoDBName))
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", storage.Driver)
	}
}

// newSummarizer returns nil when the selected provider has no key.
func newSummarizer(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (insights.Summarizer, error) {
	if cfg.APIKey() == "" {
		logger.Warn("ai api key missing, business summary disabled", zap.String("provider", cfg.Provider))
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		logger.Info("anthropic ai client enabled")
		return anthropic.NewClient(cfg.AnthropicKey), nil
	default:
		client, err := gemini.NewClient(ctx, cfg.GeminiKey)
		if err != nil {
			return nil, err
		}
		logger.Info("gemini ai client enabled", zap.String("model", gemini.DefaultModel))
		return client, nil
	}
}

// NewScheduler builds the cron jobs over the wired services.
func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	var exporter scheduler.Exporter
	if a.Exporter != nil {
		exporter = a.Exporter
	}
	return scheduler.NewScheduler(a.Config.Reporting, a.Reporting, a.Notifier, exporter, a.Logger.Named("scheduler"))
}

// Close releases the storage connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn(ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
