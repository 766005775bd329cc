package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/config"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

type fakeReports struct {
	alert string
}

func (f fakeReports) Snapshot() models.AppData      { return models.Seed(time.Now()) }
func (f fakeReports) LowStockAlert() (string, bool) { return f.alert, f.alert != "" }
func (f fakeReports) WeeklyReport() string          { return "weekly" }

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

type fakeExporter struct {
	calls int
}

func (f *fakeExporter) ExportTransactions(context.Context, models.AppData) (int, error) {
	f.calls++
	return 2, nil
}

var defaultCfg = config.ReportingConfig{
	LowStockCron: "0 8 * * *",
	ReportCron:   "0 20 * * 5",
	ExportCron:   "0 * * * *",
	Timezone:     "UTC",
}

func TestJobs(t *testing.T) {
	notifier := &fakeNotifier{}
	exporter := &fakeExporter{}
	s, err := NewScheduler(defaultCfg, fakeReports{alert: "chairs low"}, notifier, exporter, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.sendLowStockAlert(ctx))
	require.NoError(t, s.sendWeeklyReport(ctx))
	require.NoError(t, s.exportTransactions(ctx))

	assert.Equal(t, []string{"chairs low", "weekly"}, notifier.texts)
	assert.Equal(t, 1, exporter.calls)
}

func TestLowStockAlertSkippedWhenNothingLow(t *testing.T) {
	notifier := &fakeNotifier{}
	s, err := NewScheduler(defaultCfg, fakeReports{}, notifier, nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.sendLowStockAlert(context.Background()))
	assert.Empty(t, notifier.texts)
}

func TestNotifierFailureIsReturned(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("offline")}
	s, err := NewScheduler(defaultCfg, fakeReports{}, notifier, nil, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.sendWeeklyReport(context.Background()), notifier.err)
}

func TestStartValidatesSpecs(t *testing.T) {
	cfg := defaultCfg
	cfg.ReportCron = "every friday"
	s, err := NewScheduler(cfg, fakeReports{}, &fakeNotifier{}, nil, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())

	s, err = NewScheduler(defaultCfg, fakeReports{}, &fakeNotifier{}, &fakeExporter{}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 3)
	s.Stop()

	cfg = defaultCfg
	cfg.Timezone = "Mars/Olympus"
	_, err = NewScheduler(cfg, fakeReports{}, &fakeNotifier{}, nil, nil)
	assert.Error(t, err)
}
