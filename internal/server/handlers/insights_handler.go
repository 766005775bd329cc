package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/insights"
)

// AnalysisTracker runs the business summary in the background.
type AnalysisTracker interface {
	Start(data models.AppData) <-chan struct{}
	Status() insights.Status
}

// SnapshotSource provides the state to analyse.
type SnapshotSource interface {
	Snapshot() models.AppData
}

// InsightsHandler starts and reports on the business summary.
type InsightsHandler struct {
	tracker AnalysisTracker
	source  SnapshotSource
	logger  *zap.Logger
}

// NewInsightsHandler constructs the HTTP handler adapter.
func NewInsightsHandler(tracker AnalysisTracker, source SnapshotSource, logger *zap.Logger) *InsightsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsHandler{tracker: tracker, source: source, logger: logger}
}

// Start launches an analysis of the current state.
func (h *InsightsHandler) Start(c *gin.Context) {
	h.tracker.Start(h.source.Snapshot())
	h.logger.Info("analysis started")
	c.JSON(http.StatusAccepted, h.tracker.Status())
}

// Status reports the latest analysis.
func (h *InsightsHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Status())
}
