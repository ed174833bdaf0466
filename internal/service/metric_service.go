package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/metric"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
)

// futureSlack tolerates small clock skew on measurement timestamps while
// still rejecting genuinely future-dated entries.
const futureSlack = time.Minute

type MetricService struct {
	repo       metric.Repository
	patients   patient.Repository
	activities domain.ActivityRepository
	tx         Transactor
	log        *zap.Logger
}

func NewMetricService(
	repo metric.Repository,
	patients patient.Repository,
	activities domain.ActivityRepository,
	tx Transactor,
	log *zap.Logger,
) *MetricService {
	return &MetricService{
		repo:       repo,
		patients:   patients,
		activities: activities,
		tx:         tx,
		log:        log,
	}
}

func (s *MetricService) Add(ctx context.Context, cmd *metric.AddMetricCommand) (*metric.HealthMetric, error) {
	if err := validateAddMetric(cmd); err != nil {
		return nil, err
	}

	m := &metric.HealthMetric{
		PatientID:  cmd.PatientID,
		Type:       strings.TrimSpace(cmd.Type),
		Value:      cmd.Value,
		Unit:       strings.TrimSpace(cmd.Unit),
		RecordedAt: cmd.RecordedAt,
		Notes:      cmd.Notes,
		Category:   cmd.Category,
	}

	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		// Parent must exist inside the transaction so no orphan can slip in.
		p, err := s.patients.GetByID(ctx, cmd.PatientID)
		if err != nil {
			return err
		}

		if err := s.repo.Create(ctx, m); err != nil {
			return err
		}
		return s.activities.Create(ctx, &domain.Activity{
			PatientID:   &p.ID,
			PatientName: p.FullName(),
			Type:        domain.ActivityMetricAdded,
			Description: fmt.Sprintf("%s: %g %s", m.Type, m.Value, m.Unit),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("health metric recorded",
		zap.String("patient_id", m.PatientID.String()),
		zap.String("type", m.Type),
	)
	return m, nil
}

func (s *MetricService) ListForPatient(ctx context.Context, patientID uuid.UUID, q *metric.ListQuery) ([]*metric.HealthMetric, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListForPatient(ctx, patientID, q)
}

func (s *MetricService) ListByType(ctx context.Context, patientID uuid.UUID, metricType string) ([]*metric.HealthMetric, error) {
	return s.ListForPatient(ctx, patientID, &metric.ListQuery{Type: metricType})
}

func (s *MetricService) Stats(ctx context.Context, patientID uuid.UUID, metricType string, from, to *time.Time) (*metric.TypeStats, error) {
	if strings.TrimSpace(metricType) == "" {
		return nil, &ValidationError{Fields: []string{"type is required"}}
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, patientID, metricType, from, to)
}

func (s *MetricService) LatestPerType(ctx context.Context, patientID uuid.UUID) ([]*metric.HealthMetric, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.LatestPerType(ctx, patientID)
}

func validateAddMetric(cmd *metric.AddMetricCommand) error {
	var errs []string

	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if strings.TrimSpace(cmd.Type) == "" {
		errs = append(errs, "type is required")
	}
	if math.IsNaN(cmd.Value) || math.IsInf(cmd.Value, 0) {
		errs = append(errs, "value must be a finite number")
	}
	if cmd.RecordedAt.IsZero() {
		errs = append(errs, "recorded_at is required")
	}
	if !cmd.RecordedAt.IsZero() && cmd.RecordedAt.After(time.Now().Add(futureSlack)) {
		errs = append(errs, "recorded_at cannot be in the future")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
