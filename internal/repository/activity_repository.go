package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

var _ domain.ActivityRepository = (*ActivityRepository)(nil)

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	if err := dbFrom(ctx, r.db).Create(a).Error; err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListRecent(ctx context.Context, limit int, patientID *uuid.UUID) ([]*domain.Activity, error) {
	tx := dbFrom(ctx, r.db).Order("occurred_at DESC, id DESC")
	if patientID != nil {
		tx = tx.Where("patient_id = ?", *patientID)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var out []*domain.Activity
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return out, nil
}

func (r *ActivityRepository) MostActivePatients(ctx context.Context, limit int) ([]domain.PatientActivityCount, error) {
	var out []domain.PatientActivityCount
	err := dbFrom(ctx, r.db).Model(&domain.Activity{}).
		Select("patient_name, COUNT(*) AS count").
		Where("patient_name <> ''").
		Group("patient_name").
		Order("count DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("ranking active patients: %w", err)
	}
	return out, nil
}

func (r *ActivityRepository) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	if err := dbFrom(ctx, r.db).Delete(&domain.Activity{}, "patient_id = ?", patientID).Error; err != nil {
		return fmt.Errorf("deleting patient activities: %w", err)
	}
	return nil
}
