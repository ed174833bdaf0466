package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/metric"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
)

func knownPatientRepo(id uuid.UUID) *mockPatientRepo {
	return &mockPatientRepo{
		GetByIDFunc: func(ctx context.Context, got uuid.UUID) (*patient.Patient, error) {
			if got == id {
				return &patient.Patient{ID: id, FirstName: "Jane", LastName: "Doe"}, nil
			}
			return nil, patient.ErrPatientNotFound
		},
	}
}

func validAddMetricCommand(patientID uuid.UUID) *metric.AddMetricCommand {
	return &metric.AddMetricCommand{
		PatientID:  patientID,
		Type:       "Weight",
		Value:      70.5,
		Unit:       "kg",
		RecordedAt: time.Now().Add(-time.Hour),
	}
}

func TestMetricServiceAdd(t *testing.T) {
	patientID := uuid.New()
	repo := &mockMetricRepo{
		CreateFunc: func(ctx context.Context, m *metric.HealthMetric) error {
			m.ID = uuid.New()
			return nil
		},
	}
	activities := &mockActivityRepo{}
	svc := NewMetricService(repo, knownPatientRepo(patientID), activities, &mockTx{activities: activities}, zap.NewNop())

	m, err := svc.Add(context.Background(), validAddMetricCommand(patientID))
	require.NoError(t, err)
	assert.Equal(t, patientID, m.PatientID)
	assert.Equal(t, "Weight", m.Type)

	require.Len(t, activities.Entries, 1)
	entry := activities.Entries[0]
	assert.Equal(t, domain.ActivityMetricAdded, entry.Type)
	assert.Equal(t, "Weight: 70.5 kg", entry.Description)
}

func TestMetricServiceAddUnknownPatient(t *testing.T) {
	repo := &mockMetricRepo{
		CreateFunc: func(ctx context.Context, m *metric.HealthMetric) error {
			t.Fatal("no metric may be created for an unknown patient")
			return nil
		},
	}
	activities := &mockActivityRepo{}
	svc := NewMetricService(repo, knownPatientRepo(uuid.New()), activities, &mockTx{activities: activities}, zap.NewNop())

	_, err := svc.Add(context.Background(), validAddMetricCommand(uuid.New()))
	require.ErrorIs(t, err, patient.ErrPatientNotFound)
	assert.Empty(t, activities.Entries)
}

func TestMetricServiceAddValidation(t *testing.T) {
	patientID := uuid.New()

	tests := []struct {
		name   string
		mutate func(cmd *metric.AddMetricCommand)
		field  string
	}{
		{
			name:   "missing patient id",
			mutate: func(cmd *metric.AddMetricCommand) { cmd.PatientID = uuid.Nil },
			field:  "patient_id is required",
		},
		{
			name:   "missing type",
			mutate: func(cmd *metric.AddMetricCommand) { cmd.Type = "  " },
			field:  "type is required",
		},
		{
			name:   "NaN value",
			mutate: func(cmd *metric.AddMetricCommand) { cmd.Value = math.NaN() },
			field:  "value must be a finite number",
		},
		{
			name:   "infinite value",
			mutate: func(cmd *metric.AddMetricCommand) { cmd.Value = math.Inf(1) },
			field:  "value must be a finite number",
		},
		{
			name:   "zero timestamp",
			mutate: func(cmd *metric.AddMetricCommand) { cmd.RecordedAt = time.Time{} },
			field:  "recorded_at is required",
		},
		{
			name:   "future timestamp",
			mutate: func(cmd *metric.AddMetricCommand) { cmd.RecordedAt = time.Now().Add(time.Hour) },
			field:  "recorded_at cannot be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activities := &mockActivityRepo{}
			svc := NewMetricService(&mockMetricRepo{}, knownPatientRepo(patientID), activities, &mockTx{activities: activities}, zap.NewNop())

			cmd := validAddMetricCommand(patientID)
			tt.mutate(cmd)

			_, err := svc.Add(context.Background(), cmd)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestMetricServiceAddToleratesClockSkew(t *testing.T) {
	patientID := uuid.New()
	activities := &mockActivityRepo{}
	svc := NewMetricService(&mockMetricRepo{}, knownPatientRepo(patientID), activities, &mockTx{activities: activities}, zap.NewNop())

	cmd := validAddMetricCommand(patientID)
	cmd.RecordedAt = time.Now().Add(10 * time.Second)

	_, err := svc.Add(context.Background(), cmd)
	assert.NoError(t, err, "a few seconds ahead is clock skew, not a future date")
}

func TestMetricServiceAddRollsBackActivity(t *testing.T) {
	patientID := uuid.New()
	repo := &mockMetricRepo{
		CreateFunc: func(ctx context.Context, m *metric.HealthMetric) error {
			return errBoom
		},
	}
	activities := &mockActivityRepo{}
	svc := NewMetricService(repo, knownPatientRepo(patientID), activities, &mockTx{activities: activities}, zap.NewNop())

	_, err := svc.Add(context.Background(), validAddMetricCommand(patientID))
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, activities.Entries)
}

func TestMetricServiceListRequiresPatient(t *testing.T) {
	svc := NewMetricService(&mockMetricRepo{}, knownPatientRepo(uuid.New()), &mockActivityRepo{}, &mockTx{}, zap.NewNop())

	_, err := svc.ListForPatient(context.Background(), uuid.New(), &metric.ListQuery{})
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestMetricServiceListByType(t *testing.T) {
	patientID := uuid.New()
	var seen *metric.ListQuery
	repo := &mockMetricRepo{
		ListForPatientFunc: func(ctx context.Context, pid uuid.UUID, q *metric.ListQuery) ([]*metric.HealthMetric, error) {
			seen = q
			return nil, nil
		},
	}
	svc := NewMetricService(repo, knownPatientRepo(patientID), &mockActivityRepo{}, &mockTx{}, zap.NewNop())

	_, err := svc.ListByType(context.Background(), patientID, "Heart Rate")
	require.NoError(t, err)
	require.NotNil(t, seen)
	assert.Equal(t, "Heart Rate", seen.Type)
}

func TestMetricServiceStatsRequiresType(t *testing.T) {
	patientID := uuid.New()
	svc := NewMetricService(&mockMetricRepo{}, knownPatientRepo(patientID), &mockActivityRepo{}, &mockTx{}, zap.NewNop())

	_, err := svc.Stats(context.Background(), patientID, "  ", nil, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Stats(context.Background(), patientID, "Weight", nil, nil)
	assert.NoError(t, err)
}
