package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/record"
)

type RecordRepository struct {
	db *gorm.DB
}

var _ record.Repository = (*RecordRepository)(nil)

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Create(ctx context.Context, rec *record.MedicalRecord) error {
	if err := dbFrom(ctx, r.db).Create(rec).Error; err != nil {
		return fmt.Errorf("inserting medical record: %w", err)
	}
	return nil
}

func (r *RecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*record.MedicalRecord, error) {
	var rec record.MedicalRecord
	err := dbFrom(ctx, r.db).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, record.ErrRecordNotFound
		}
		return nil, fmt.Errorf("fetching medical record: %w", err)
	}
	return &rec, nil
}

func (r *RecordRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*record.MedicalRecord, error) {
	var out []*record.MedicalRecord
	err := dbFrom(ctx, r.db).
		Where("patient_id = ?", patientID).
		Order("record_date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing medical records: %w", err)
	}
	return out, nil
}

func (r *RecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := dbFrom(ctx, r.db).Delete(&record.MedicalRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting medical record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return record.ErrRecordNotFound
	}
	return nil
}

func (r *RecordRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := dbFrom(ctx, r.db).Model(&record.MedicalRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting medical records: %w", err)
	}
	return n, nil
}

func (r *RecordRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := dbFrom(ctx, r.db).Model(&record.MedicalRecord{}).
		Where("uploaded_at >= ?", since).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting recent medical records: %w", err)
	}
	return n, nil
}

func (r *RecordRepository) TotalFileSize(ctx context.Context) (int64, error) {
	var row struct{ Total *int64 }
	err := dbFrom(ctx, r.db).Model(&record.MedicalRecord{}).
		Select("SUM(file_size) AS total").
		Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("summing file sizes: %w", err)
	}
	if row.Total == nil {
		return 0, nil
	}
	return *row.Total, nil
}

func (r *RecordRepository) CommonTypes(ctx context.Context, limit int) ([]record.TypeCount, error) {
	var out []record.TypeCount
	err := dbFrom(ctx, r.db).Model(&record.MedicalRecord{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Order("count DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("ranking record types: %w", err)
	}
	return out, nil
}

func (r *RecordRepository) CountActivePatients(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := dbFrom(ctx, r.db).Model(&record.MedicalRecord{}).
		Where("uploaded_at >= ?", since).
		Distinct("patient_id").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting active patients by records: %w", err)
	}
	return n, nil
}

func (r *RecordRepository) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	if err := dbFrom(ctx, r.db).Delete(&record.MedicalRecord{}, "patient_id = ?", patientID).Error; err != nil {
		return fmt.Errorf("deleting patient records: %w", err)
	}
	return nil
}
