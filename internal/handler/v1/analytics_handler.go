package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
	log *zap.Logger
}

func NewAnalyticsHandler(svc *service.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	o, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, o)
}

func (h *AnalyticsHandler) Demographics(c *gin.Context) {
	d, err := h.svc.Demographics(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *AnalyticsHandler) Usage(c *gin.Context) {
	u, err := h.svc.Usage(c.Request.Context(), parseQueryInt(c, "limit", 5))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, u)
}

func (h *AnalyticsHandler) Export(c *gin.Context) {
	ds, err := h.svc.Export(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, ds)
}
