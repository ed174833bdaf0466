package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/record"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/metrics"
)

type RecordHandler struct {
	svc *service.RecordService
	col *metrics.Collector
	log *zap.Logger
}

func NewRecordHandler(svc *service.RecordService, col *metrics.Collector, log *zap.Logger) *RecordHandler {
	return &RecordHandler{svc: svc, col: col, log: log}
}

type addRecordRequest struct {
	Type         string `json:"type" binding:"required"`
	Description  string `json:"description"`
	DoctorName   string `json:"doctor_name"`
	FacilityName string `json:"facility_name"`
	RecordDate   string `json:"record_date" binding:"required"`
	FilePath     string `json:"file_path"`
	FileName     string `json:"file_name"`
	FileType     string `json:"file_type"`
	FileSize     int64  `json:"file_size"`
}

// Add inserts metadata only; use Upload for multipart file submission.
func (h *RecordHandler) Add(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req addRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	recordDate, err := parseTimestamp(req.RecordDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "record_date must be RFC3339 or YYYY-MM-DD"})
		return
	}

	rec, err := h.svc.Add(c.Request.Context(), &record.AddRecordCommand{
		PatientID:    patientID,
		Type:         req.Type,
		Description:  req.Description,
		DoctorName:   req.DoctorName,
		FacilityName: req.FacilityName,
		RecordDate:   recordDate,
		FilePath:     req.FilePath,
		FileName:     req.FileName,
		FileType:     req.FileType,
		FileSize:     req.FileSize,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.RecordsUploadedTotal.Inc()
	h.col.ActivityEntriesTotal.Inc()
	respondCreated(c, rec)
}

// Upload accepts a multipart form: metadata fields plus a "file" part whose
// bytes land in the document store.
func (h *RecordHandler) Upload(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	recordDate, err := parseTimestamp(c.PostForm("record_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "record_date must be RFC3339 or YYYY-MM-DD"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file part is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read uploaded file"})
		return
	}
	defer f.Close()

	cmd := &record.AddRecordCommand{
		PatientID:    patientID,
		Type:         c.PostForm("type"),
		Description:  c.PostForm("description"),
		DoctorName:   c.PostForm("doctor_name"),
		FacilityName: c.PostForm("facility_name"),
		RecordDate:   recordDate,
		FileType:     fh.Header.Get("Content-Type"),
	}

	rec, err := h.svc.Upload(c.Request.Context(), cmd, fh.Filename, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.RecordsUploadedTotal.Inc()
	h.col.ActivityEntriesTotal.Inc()
	h.col.FilesStoredBytes.Add(float64(rec.FileSize))
	respondCreated(c, rec)
}

func (h *RecordHandler) List(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	out, err := h.svc.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	fileRemoved, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.ActivityEntriesTotal.Inc()
	respondOK(c, gin.H{"file_removed": fileRemoved})
}
