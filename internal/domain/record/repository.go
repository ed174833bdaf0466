package record

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error

	// GetByID retrieves a record by primary key. Returns ErrRecordNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error)

	// ListForPatient returns a patient's records, record date descending.
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalRecord, error)

	// Delete removes a single record row.
	Delete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	TotalFileSize(ctx context.Context) (int64, error)
	CommonTypes(ctx context.Context, limit int) ([]TypeCount, error)

	// CountActivePatients counts distinct patients with an upload since the
	// cutoff.
	CountActivePatients(ctx context.Context, since time.Time) (int64, error)

	// DeleteByPatient removes all of a patient's records (cascade path).
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
