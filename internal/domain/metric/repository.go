package metric

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *HealthMetric) error

	// ListForPatient returns a patient's metrics filtered and ordered per q.
	ListForPatient(ctx context.Context, patientID uuid.UUID, q *ListQuery) ([]*HealthMetric, error)

	// Stats aggregates min/max/avg over one metric type and date range.
	Stats(ctx context.Context, patientID uuid.UUID, metricType string, from, to *time.Time) (*TypeStats, error)

	// LatestPerType returns the most recent measurement of each type the
	// patient has recorded.
	LatestPerType(ctx context.Context, patientID uuid.UUID) ([]*HealthMetric, error)

	Count(ctx context.Context) (int64, error)
	DistinctTypes(ctx context.Context) ([]string, error)
	CommonTypes(ctx context.Context, limit int) ([]TypeCount, error)

	// CountActivePatients counts distinct patients with a metric recorded
	// since the cutoff.
	CountActivePatients(ctx context.Context, since time.Time) (int64, error)

	// DeleteByPatient removes all of a patient's metrics (cascade path).
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
