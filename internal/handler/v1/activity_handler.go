package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/service"
)

type ActivityHandler struct {
	svc *service.ActivityService
	log *zap.Logger
}

func NewActivityHandler(svc *service.ActivityService, log *zap.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: log}
}

func (h *ActivityHandler) ListRecent(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 10)

	var patientID *uuid.UUID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid patient_id: must be a valid UUID"})
			return
		}
		patientID = &id
	}

	out, err := h.svc.ListRecent(c.Request.Context(), limit, patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}
