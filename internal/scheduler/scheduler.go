package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/config"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Reports is the reporting surface the jobs read from.
type Reports interface {
	Snapshot() models.AppData
	LowStockAlert() (string, bool)
	WeeklyReport() string
}

// Notifier delivers a text to the owner.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Exporter mirrors transactions to an external sheet.
type Exporter interface {
	ExportTransactions(ctx context.Context, data models.AppData) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ReportingConfig
	reports  Reports
	notifier Notifier
	exporter Exporter
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. A nil exporter disables the export job.
func NewScheduler(cfg config.ReportingConfig, reports Reports, notifier Notifier, exporter Exporter, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		reports:  reports,
		notifier: notifier,
		exporter: exporter,
		logger:   logger,
	}, nil
}

type job struct {
	name string
	spec string
	fn   func()
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	jobs := []job{
		{name: "low_stock_alert", spec: s.cfg.LowStockCron, fn: s.run(s.sendLowStockAlert)},
		{name: "weekly_report", spec: s.cfg.ReportCron, fn: s.run(s.sendWeeklyReport)},
	}
	if s.exporter != nil {
		jobs = append(jobs, job{name: "sheets_export", spec: s.cfg.ExportCron, fn: s.run(s.exportTransactions)})
	}

	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, j.fn); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", j.name, j.spec, err)
		}
		s.logger.Info("job scheduled", zap.String("job", j.name), zap.String("spec", j.spec))
	}

	s.logger.Info("starting scheduler")
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(task func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := task(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.Error(err))
		}
	}
}

func (s *Scheduler) sendLowStockAlert(ctx context.Context) error {
	text, ok := s.reports.LowStockAlert()
	if !ok {
		s.logger.Debug("no low stock products")
		return nil
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		return fmt.Errorf("send low stock alert: %w", err)
	}
	s.logger.Info("low stock alert sent")
	return nil
}

func (s *Scheduler) sendWeeklyReport(ctx context.Context) error {
	s.logger.Info("generating weekly report")
	if err := s.notifier.Notify(ctx, s.reports.WeeklyReport()); err != nil {
		return fmt.Errorf("send weekly report: %w", err)
	}
	s.logger.Info("weekly report sent successfully")
	return nil
}

func (s *Scheduler) exportTransactions(ctx context.Context) error {
	_, err := s.exporter.ExportTransactions(ctx, s.reports.Snapshot())
	return err
}
