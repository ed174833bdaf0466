package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/pkg/metrics"
)

type PatientHandler struct {
	svc *service.PatientService
	col *metrics.Collector
	log *zap.Logger
}

func NewPatientHandler(svc *service.PatientService, col *metrics.Collector, log *zap.Logger) *PatientHandler {
	return &PatientHandler{svc: svc, col: col, log: log}
}

type createPatientRequest struct {
	FirstName             string `json:"first_name" binding:"required"`
	LastName              string `json:"last_name" binding:"required"`
	DateOfBirth           string `json:"date_of_birth" binding:"required"`
	Gender                string `json:"gender" binding:"required"`
	BloodType             string `json:"blood_type"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	Address               string `json:"address"`
	Allergies             string `json:"allergies"`
	MedicalHistory        string `json:"medical_history"`
	CurrentMedications    string `json:"current_medications"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date_of_birth must be YYYY-MM-DD"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), &patient.CreatePatientCommand{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           dob,
		Gender:                patient.Gender(strings.ToLower(req.Gender)),
		BloodType:             patient.BloodType(req.BloodType),
		Phone:                 req.Phone,
		Email:                 req.Email,
		Address:               req.Address,
		Allergies:             req.Allergies,
		MedicalHistory:        req.MedicalHistory,
		CurrentMedications:    req.CurrentMedications,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.PatientsCreatedTotal.Inc()
	h.col.ActivityEntriesTotal.Inc()
	respondCreated(c, p)
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type updatePatientRequest struct {
	FirstName             *string `json:"first_name"`
	LastName              *string `json:"last_name"`
	Gender                *string `json:"gender"`
	BloodType             *string `json:"blood_type"`
	Phone                 *string `json:"phone"`
	Email                 *string `json:"email"`
	Address               *string `json:"address"`
	Allergies             *string `json:"allergies"`
	MedicalHistory        *string `json:"medical_history"`
	CurrentMedications    *string `json:"current_medications"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &patient.UpdatePatientCommand{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Phone:                 req.Phone,
		Email:                 req.Email,
		Address:               req.Address,
		Allergies:             req.Allergies,
		MedicalHistory:        req.MedicalHistory,
		CurrentMedications:    req.CurrentMedications,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	}
	if req.Gender != nil {
		g := patient.Gender(strings.ToLower(*req.Gender))
		cmd.Gender = &g
	}
	if req.BloodType != nil {
		b := patient.BloodType(*req.BloodType)
		cmd.BloodType = &b
	}

	p, err := h.svc.Update(c.Request.Context(), id, cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.ActivityEntriesTotal.Inc()
	respondOK(c, p)
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.PatientsDeletedTotal.Inc()
	h.col.ActivityEntriesTotal.Inc()
	c.JSON(http.StatusOK, APIResponse[any]{Message: "patient deleted"})
}

func (h *PatientHandler) Search(c *gin.Context) {
	q := &patient.SearchQuery{
		Query:      c.Query("q"),
		BornAfter:  parseQueryTime(c, "born_after"),
		BornBefore: parseQueryTime(c, "born_before"),
		Limit:      parseQueryInt(c, "limit", 100),
	}
	if g := c.Query("gender"); g != "" {
		gender := patient.Gender(strings.ToLower(g))
		q.Gender = &gender
	}

	out, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, out)
}
