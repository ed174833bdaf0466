package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/metric"
)

type MetricRepository struct {
	db *gorm.DB
}

var _ metric.Repository = (*MetricRepository)(nil)

func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

func (r *MetricRepository) Create(ctx context.Context, m *metric.HealthMetric) error {
	if err := dbFrom(ctx, r.db).Create(m).Error; err != nil {
		return fmt.Errorf("inserting health metric: %w", err)
	}
	return nil
}

func (r *MetricRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, q *metric.ListQuery) ([]*metric.HealthMetric, error) {
	tx := dbFrom(ctx, r.db).Where("patient_id = ?", patientID)

	if q != nil {
		if q.Type != "" {
			tx = tx.Where("type = ?", q.Type)
		}
		if q.From != nil {
			tx = tx.Where("recorded_at >= ?", *q.From)
		}
		if q.To != nil {
			tx = tx.Where("recorded_at <= ?", *q.To)
		}
		if q.Limit > 0 {
			tx = tx.Limit(q.Limit)
		}
	}

	// Ascending by observation date unless a recent-first listing was
	// requested, in which case the id tie-break keeps equal dates stable.
	order := "recorded_at ASC"
	if q != nil && q.RecentFirst {
		order = "recorded_at DESC, id DESC"
	}

	var out []*metric.HealthMetric
	if err := tx.Order(order).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing health metrics: %w", err)
	}
	return out, nil
}

func (r *MetricRepository) Stats(ctx context.Context, patientID uuid.UUID, metricType string, from, to *time.Time) (*metric.TypeStats, error) {
	tx := dbFrom(ctx, r.db).Model(&metric.HealthMetric{}).
		Where("patient_id = ? AND type = ?", patientID, metricType)
	if from != nil {
		tx = tx.Where("recorded_at >= ?", *from)
	}
	if to != nil {
		tx = tx.Where("recorded_at <= ?", *to)
	}

	var row struct {
		Count int64
		Min   *float64
		Max   *float64
		Avg   *float64
	}
	err := tx.Select("COUNT(*) AS count, MIN(value) AS min, MAX(value) AS max, AVG(value) AS avg").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating health metrics: %w", err)
	}

	stats := &metric.TypeStats{Type: metricType, Count: row.Count}
	if row.Count > 0 {
		stats.Min = *row.Min
		stats.Max = *row.Max
		stats.Avg = *row.Avg
	}
	return stats, nil
}

func (r *MetricRepository) LatestPerType(ctx context.Context, patientID uuid.UUID) ([]*metric.HealthMetric, error) {
	// Load newest-first and keep the first hit per type. Metric volumes per
	// patient are small, so reducing in Go beats an engine-specific window
	// query and behaves the same on sqlite and postgres.
	var all []*metric.HealthMetric
	err := dbFrom(ctx, r.db).
		Where("patient_id = ?", patientID).
		Order("recorded_at DESC, id DESC").
		Find(&all).Error
	if err != nil {
		return nil, fmt.Errorf("listing health metrics: %w", err)
	}

	seen := make(map[string]bool, len(all))
	var out []*metric.HealthMetric
	for _, m := range all {
		if !seen[m.Type] {
			seen[m.Type] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MetricRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := dbFrom(ctx, r.db).Model(&metric.HealthMetric{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting health metrics: %w", err)
	}
	return n, nil
}

func (r *MetricRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := dbFrom(ctx, r.db).Model(&metric.HealthMetric{}).
		Distinct("type").Order("type ASC").Pluck("type", &types).Error
	if err != nil {
		return nil, fmt.Errorf("listing metric types: %w", err)
	}
	return types, nil
}

func (r *MetricRepository) CommonTypes(ctx context.Context, limit int) ([]metric.TypeCount, error) {
	var out []metric.TypeCount
	err := dbFrom(ctx, r.db).Model(&metric.HealthMetric{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Order("count DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("ranking metric types: %w", err)
	}
	return out, nil
}

func (r *MetricRepository) CountActivePatients(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := dbFrom(ctx, r.db).Model(&metric.HealthMetric{}).
		Where("recorded_at >= ?", since).
		Distinct("patient_id").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting active patients by metrics: %w", err)
	}
	return n, nil
}

func (r *MetricRepository) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	if err := dbFrom(ctx, r.db).Delete(&metric.HealthMetric{}, "patient_id = ?", patientID).Error; err != nil {
		return fmt.Errorf("deleting patient metrics: %w", err)
	}
	return nil
}
