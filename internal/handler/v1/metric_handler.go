package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/metric"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/metrics"
)

type MetricHandler struct {
	svc *service.MetricService
	col *metrics.Collector
	log *zap.Logger
}

func NewMetricHandler(svc *service.MetricService, col *metrics.Collector, log *zap.Logger) *MetricHandler {
	return &MetricHandler{svc: svc, col: col, log: log}
}

type addMetricRequest struct {
	Type       string  `json:"type" binding:"required"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	RecordedAt string  `json:"recorded_at" binding:"required"`
	Notes      string  `json:"notes"`
	Category   string  `json:"category"`
}

func (h *MetricHandler) Add(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req addMetricRequest
	if !bindJSON(c, &req) {
		return
	}

	recordedAt, err := parseTimestamp(req.RecordedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "recorded_at must be RFC3339 or YYYY-MM-DD"})
		return
	}

	m, err := h.svc.Add(c.Request.Context(), &metric.AddMetricCommand{
		PatientID:  patientID,
		Type:       req.Type,
		Value:      req.Value,
		Unit:       req.Unit,
		RecordedAt: recordedAt,
		Notes:      req.Notes,
		Category:   req.Category,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.MetricsRecordedTotal.Inc()
	h.col.ActivityEntriesTotal.Inc()
	respondCreated(c, m)
}

func (h *MetricHandler) List(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	q := &metric.ListQuery{
		Type:        c.Query("type"),
		From:        parseQueryTime(c, "from"),
		To:          parseQueryTime(c, "to"),
		RecentFirst: c.Query("order") == "recent",
		Limit:       parseQueryInt(c, "limit", 0),
	}

	out, err := h.svc.ListForPatient(c.Request.Context(), patientID, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

func (h *MetricHandler) Stats(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), patientID, c.Query("type"),
		parseQueryTime(c, "from"), parseQueryTime(c, "to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

func (h *MetricHandler) Latest(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	out, err := h.svc.LatestPerType(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
