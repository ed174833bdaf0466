package domain

import (
	"context"

	"github.com/google/uuid"
)

// PatientActivityCount ranks patients by ledger entries for the dashboard.
type PatientActivityCount struct {
	PatientName string `json:"patient_name"`
	Count       int64  `json:"count"`
}

// ActivityRepository is append-only by contract: there is deliberately no
// update method, and the only delete is the patient cascade.
type ActivityRepository interface {
	Create(ctx context.Context, a *Activity) error

	// ListRecent returns entries newest first, id-descending on timestamp
	// ties. A non-nil patientID scopes the listing to one patient.
	ListRecent(ctx context.Context, limit int, patientID *uuid.UUID) ([]*Activity, error)

	MostActivePatients(ctx context.Context, limit int) ([]PatientActivityCount, error)

	// DeleteByPatient removes a patient's ledger entries (cascade path).
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
