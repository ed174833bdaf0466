package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// Update persists the full state of an already-loaded patient.
	Update(ctx context.Context, p *Patient) error

	// Delete removes the patient row only; child rows are the caller's
	// responsibility (the service deletes them in the same transaction).
	Delete(ctx context.Context, id uuid.UUID) error

	// Search returns patients matching the query, newest first.
	Search(ctx context.Context, q *SearchQuery) ([]*Patient, error)

	// List returns all patients, newest first.
	List(ctx context.Context) ([]*Patient, error)

	Count(ctx context.Context) (int64, error)

	// GenderCounts groups patients by gender for the dashboard.
	GenderCounts(ctx context.Context) (map[Gender]int64, error)
}
