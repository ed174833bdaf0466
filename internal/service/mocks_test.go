package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/metric"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/record"
)

var _ patient.Repository = (*mockPatientRepo)(nil)

type mockPatientRepo struct {
	CreateFunc       func(ctx context.Context, p *patient.Patient) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	UpdateFunc       func(ctx context.Context, p *patient.Patient) error
	DeleteFunc       func(ctx context.Context, id uuid.UUID) error
	SearchFunc       func(ctx context.Context, q *patient.SearchQuery) ([]*patient.Patient, error)
	ListFunc         func(ctx context.Context) ([]*patient.Patient, error)
	CountFunc        func(ctx context.Context) (int64, error)
	GenderCountsFunc func(ctx context.Context) (map[patient.Gender]int64, error)
}

func (m *mockPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, patient.ErrPatientNotFound
}

func (m *mockPatientRepo) Update(ctx context.Context, p *patient.Patient) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockPatientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockPatientRepo) Search(ctx context.Context, q *patient.SearchQuery) ([]*patient.Patient, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockPatientRepo) List(ctx context.Context) ([]*patient.Patient, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockPatientRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockPatientRepo) GenderCounts(ctx context.Context) (map[patient.Gender]int64, error) {
	if m.GenderCountsFunc != nil {
		return m.GenderCountsFunc(ctx)
	}
	return nil, nil
}

var _ metric.Repository = (*mockMetricRepo)(nil)

type mockMetricRepo struct {
	CreateFunc              func(ctx context.Context, m *metric.HealthMetric) error
	ListForPatientFunc      func(ctx context.Context, patientID uuid.UUID, q *metric.ListQuery) ([]*metric.HealthMetric, error)
	StatsFunc               func(ctx context.Context, patientID uuid.UUID, metricType string, from, to *time.Time) (*metric.TypeStats, error)
	LatestPerTypeFunc       func(ctx context.Context, patientID uuid.UUID) ([]*metric.HealthMetric, error)
	CountFunc               func(ctx context.Context) (int64, error)
	DistinctTypesFunc       func(ctx context.Context) ([]string, error)
	CommonTypesFunc         func(ctx context.Context, limit int) ([]metric.TypeCount, error)
	CountActivePatientsFunc func(ctx context.Context, since time.Time) (int64, error)
	DeleteByPatientFunc     func(ctx context.Context, patientID uuid.UUID) error

	DeleteByPatientCalls int
}

func (m *mockMetricRepo) Create(ctx context.Context, hm *metric.HealthMetric) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, hm)
	}
	return nil
}

func (m *mockMetricRepo) ListForPatient(ctx context.Context, patientID uuid.UUID, q *metric.ListQuery) ([]*metric.HealthMetric, error) {
	if m.ListForPatientFunc != nil {
		return m.ListForPatientFunc(ctx, patientID, q)
	}
	return nil, nil
}

func (m *mockMetricRepo) Stats(ctx context.Context, patientID uuid.UUID, metricType string, from, to *time.Time) (*metric.TypeStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, patientID, metricType, from, to)
	}
	return &metric.TypeStats{Type: metricType}, nil
}

func (m *mockMetricRepo) LatestPerType(ctx context.Context, patientID uuid.UUID) ([]*metric.HealthMetric, error) {
	if m.LatestPerTypeFunc != nil {
		return m.LatestPerTypeFunc(ctx, patientID)
	}
	return nil, nil
}

func (m *mockMetricRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockMetricRepo) DistinctTypes(ctx context.Context) ([]string, error) {
	if m.DistinctTypesFunc != nil {
		return m.DistinctTypesFunc(ctx)
	}
	return nil, nil
}

func (m *mockMetricRepo) CommonTypes(ctx context.Context, limit int) ([]metric.TypeCount, error) {
	if m.CommonTypesFunc != nil {
		return m.CommonTypesFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockMetricRepo) CountActivePatients(ctx context.Context, since time.Time) (int64, error) {
	if m.CountActivePatientsFunc != nil {
		return m.CountActivePatientsFunc(ctx, since)
	}
	return 0, nil
}

func (m *mockMetricRepo) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	m.DeleteByPatientCalls++
	if m.DeleteByPatientFunc != nil {
		return m.DeleteByPatientFunc(ctx, patientID)
	}
	return nil
}

var _ record.Repository = (*mockRecordRepo)(nil)

type mockRecordRepo struct {
	CreateFunc              func(ctx context.Context, r *record.MedicalRecord) error
	GetByIDFunc             func(ctx context.Context, id uuid.UUID) (*record.MedicalRecord, error)
	ListForPatientFunc      func(ctx context.Context, patientID uuid.UUID) ([]*record.MedicalRecord, error)
	DeleteFunc              func(ctx context.Context, id uuid.UUID) error
	CountFunc               func(ctx context.Context) (int64, error)
	CountSinceFunc          func(ctx context.Context, since time.Time) (int64, error)
	TotalFileSizeFunc       func(ctx context.Context) (int64, error)
	CommonTypesFunc         func(ctx context.Context, limit int) ([]record.TypeCount, error)
	CountActivePatientsFunc func(ctx context.Context, since time.Time) (int64, error)
	DeleteByPatientFunc     func(ctx context.Context, patientID uuid.UUID) error

	DeleteByPatientCalls int
}

func (m *mockRecordRepo) Create(ctx context.Context, r *record.MedicalRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	return nil
}

func (m *mockRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*record.MedicalRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, record.ErrRecordNotFound
}

func (m *mockRecordRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*record.MedicalRecord, error) {
	if m.ListForPatientFunc != nil {
		return m.ListForPatientFunc(ctx, patientID)
	}
	return nil, nil
}

func (m *mockRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRecordRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *mockRecordRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	if m.CountSinceFunc != nil {
		return m.CountSinceFunc(ctx, since)
	}
	return 0, nil
}

func (m *mockRecordRepo) TotalFileSize(ctx context.Context) (int64, error) {
	if m.TotalFileSizeFunc != nil {
		return m.TotalFileSizeFunc(ctx)
	}
	return 0, nil
}

func (m *mockRecordRepo) CommonTypes(ctx context.Context, limit int) ([]record.TypeCount, error) {
	if m.CommonTypesFunc != nil {
		return m.CommonTypesFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockRecordRepo) CountActivePatients(ctx context.Context, since time.Time) (int64, error) {
	if m.CountActivePatientsFunc != nil {
		return m.CountActivePatientsFunc(ctx, since)
	}
	return 0, nil
}

func (m *mockRecordRepo) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	m.DeleteByPatientCalls++
	if m.DeleteByPatientFunc != nil {
		return m.DeleteByPatientFunc(ctx, patientID)
	}
	return nil
}

var _ domain.ActivityRepository = (*mockActivityRepo)(nil)

// mockActivityRepo records every entry so tests can assert exactly one
// ledger write per mutation.
type mockActivityRepo struct {
	CreateFunc          func(ctx context.Context, a *domain.Activity) error
	ListRecentFunc      func(ctx context.Context, limit int, patientID *uuid.UUID) ([]*domain.Activity, error)
	MostActiveFunc      func(ctx context.Context, limit int) ([]domain.PatientActivityCount, error)
	DeleteByPatientFunc func(ctx context.Context, patientID uuid.UUID) error

	Entries              []*domain.Activity
	DeleteByPatientCalls int
}

func (m *mockActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, a); err != nil {
			return err
		}
	}
	m.Entries = append(m.Entries, a)
	return nil
}

func (m *mockActivityRepo) ListRecent(ctx context.Context, limit int, patientID *uuid.UUID) ([]*domain.Activity, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit, patientID)
	}
	return m.Entries, nil
}

func (m *mockActivityRepo) MostActivePatients(ctx context.Context, limit int) ([]domain.PatientActivityCount, error) {
	if m.MostActiveFunc != nil {
		return m.MostActiveFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockActivityRepo) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	m.DeleteByPatientCalls++
	if m.DeleteByPatientFunc != nil {
		return m.DeleteByPatientFunc(ctx, patientID)
	}
	return nil
}

// mockTx runs the unit directly; a failing unit discards the activity
// entries appended during it, mimicking rollback.
type mockTx struct {
	activities *mockActivityRepo
}

func (m *mockTx) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	var before int
	if m.activities != nil {
		before = len(m.activities.Entries)
	}
	if err := fn(ctx); err != nil {
		if m.activities != nil {
			m.activities.Entries = m.activities.Entries[:before]
		}
		return err
	}
	return nil
}

var _ FileStore = (*mockFileStore)(nil)

type mockFileStore struct {
	ResolvePathFunc func(patientID uuid.UUID, originalName string) string
	StoreFunc       func(relPath string, r io.Reader) (int64, error)
	DeleteFunc      func(relPath string) (bool, error)

	StoredPaths    []string
	DeletedPaths   []string
	RemovedDirs    []uuid.UUID
	RemoveDirError error
}

func (m *mockFileStore) ResolvePath(patientID uuid.UUID, originalName string) string {
	if m.ResolvePathFunc != nil {
		return m.ResolvePathFunc(patientID, originalName)
	}
	return "patient_" + patientID.String() + "/" + originalName
}

func (m *mockFileStore) Store(relPath string, r io.Reader) (int64, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(relPath, r)
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return 0, err
	}
	m.StoredPaths = append(m.StoredPaths, relPath)
	return n, nil
}

func (m *mockFileStore) Delete(relPath string) (bool, error) {
	m.DeletedPaths = append(m.DeletedPaths, relPath)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(relPath)
	}
	return false, nil
}

func (m *mockFileStore) RemovePatientDir(patientID uuid.UUID) error {
	m.RemovedDirs = append(m.RemovedDirs, patientID)
	return m.RemoveDirError
}

var errBoom = errors.New("boom")
