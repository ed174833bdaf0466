package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/metric"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/record"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/filestore"
)

// activityWindow is the lookback for "recent" and "active" dashboard counts.
const activityWindow = 30 * 24 * time.Hour

type Overview struct {
	TotalPatients  int64           `json:"total_patients"`
	TotalMetrics   int64           `json:"total_metrics"`
	TotalRecords   int64           `json:"total_records"`
	RecentRecords  int64           `json:"recent_records"`
	ActivePatients int64           `json:"active_patients"`
	TotalFileBytes int64           `json:"total_file_bytes"`
	Storage        filestore.Stats `json:"storage"`
}

type Demographics struct {
	GenderCounts    map[patient.Gender]int64 `json:"gender_counts"`
	AverageAge      float64                  `json:"average_age"`
	AgeDistribution []int                    `json:"age_distribution"`
}

type Usage struct {
	MostActivePatients []domain.PatientActivityCount `json:"most_active_patients"`
	CommonMetricTypes  []metric.TypeCount            `json:"common_metric_types"`
	CommonRecordTypes  []record.TypeCount            `json:"common_record_types"`
	AllMetricTypes     []string                      `json:"all_metric_types"`
}

// Dataset is a complete detached export of the system's rows.
type Dataset struct {
	Patients   []*patient.Patient      `json:"patients"`
	Metrics    []*metric.HealthMetric  `json:"health_metrics"`
	Records    []*record.MedicalRecord `json:"medical_records"`
	Activities []*domain.Activity      `json:"activity_log"`
	ExportedAt time.Time               `json:"exported_at"`
}

type statsFS interface {
	Stats() (filestore.Stats, error)
}

type AnalyticsService struct {
	patients   patient.Repository
	metrics    metric.Repository
	records    record.Repository
	activities domain.ActivityRepository
	files      statsFS
	log        *zap.Logger
}

func NewAnalyticsService(
	patients patient.Repository,
	metrics metric.Repository,
	records record.Repository,
	activities domain.ActivityRepository,
	files statsFS,
	log *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		patients:   patients,
		metrics:    metrics,
		records:    records,
		activities: activities,
		files:      files,
		log:        log,
	}
}

func (s *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	o := &Overview{}
	var err error

	if o.TotalPatients, err = s.patients.Count(ctx); err != nil {
		return nil, err
	}
	if o.TotalMetrics, err = s.metrics.Count(ctx); err != nil {
		return nil, err
	}
	if o.TotalRecords, err = s.records.Count(ctx); err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-activityWindow)
	if o.RecentRecords, err = s.records.CountSince(ctx, cutoff); err != nil {
		return nil, err
	}

	// A patient counts as active when they have either a metric or an
	// upload inside the window. The two counts overlap, so take the larger
	// rather than the sum.
	byMetrics, err := s.metrics.CountActivePatients(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	byRecords, err := s.records.CountActivePatients(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	o.ActivePatients = byMetrics
	if byRecords > o.ActivePatients {
		o.ActivePatients = byRecords
	}

	if o.TotalFileBytes, err = s.records.TotalFileSize(ctx); err != nil {
		return nil, err
	}

	if st, err := s.files.Stats(); err != nil {
		s.log.Warn("failed to read storage stats", zap.Error(err))
	} else {
		o.Storage = st
	}

	return o, nil
}

func (s *AnalyticsService) Demographics(ctx context.Context) (*Demographics, error) {
	counts, err := s.patients.GenderCounts(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}

	d := &Demographics{GenderCounts: counts, AgeDistribution: make([]int, 0, len(all))}
	var sum int
	for _, p := range all {
		age := p.Age()
		d.AgeDistribution = append(d.AgeDistribution, age)
		sum += age
	}
	if len(all) > 0 {
		d.AverageAge = float64(sum) / float64(len(all))
	}
	return d, nil
}

func (s *AnalyticsService) Usage(ctx context.Context, limit int) (*Usage, error) {
	if limit <= 0 {
		limit = 5
	}

	u := &Usage{}
	var err error

	if u.MostActivePatients, err = s.activities.MostActivePatients(ctx, limit); err != nil {
		return nil, err
	}
	if u.CommonMetricTypes, err = s.metrics.CommonTypes(ctx, limit); err != nil {
		return nil, err
	}
	if u.CommonRecordTypes, err = s.records.CommonTypes(ctx, limit); err != nil {
		return nil, err
	}
	if u.AllMetricTypes, err = s.metrics.DistinctTypes(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AnalyticsService) Export(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{ExportedAt: time.Now()}
	var err error

	if ds.Patients, err = s.patients.List(ctx); err != nil {
		return nil, err
	}

	ds.Metrics = make([]*metric.HealthMetric, 0)
	ds.Records = make([]*record.MedicalRecord, 0)
	for _, p := range ds.Patients {
		ms, err := s.metrics.ListForPatient(ctx, p.ID, nil)
		if err != nil {
			return nil, err
		}
		ds.Metrics = append(ds.Metrics, ms...)

		rs, err := s.records.ListForPatient(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rs...)
	}

	if ds.Activities, err = s.activities.ListRecent(ctx, 1000, nil); err != nil {
		return nil, err
	}
	return ds, nil
}
