package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
)

type PatientRepository struct {
	db *gorm.DB
}

var _ patient.Repository = (*PatientRepository)(nil)

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	if err := dbFrom(ctx, r.db).Create(p).Error; err != nil {
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := dbFrom(ctx, r.db).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, fmt.Errorf("fetching patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) Update(ctx context.Context, p *patient.Patient) error {
	res := dbFrom(ctx, r.db).Model(&patient.Patient{}).Where("id = ?", p.ID).Select("*").
		Omit("id", "created_at").Updates(p)
	if res.Error != nil {
		return fmt.Errorf("updating patient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := dbFrom(ctx, r.db).Delete(&patient.Patient{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting patient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return patient.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) Search(ctx context.Context, q *patient.SearchQuery) ([]*patient.Patient, error) {
	tx := dbFrom(ctx, r.db).Model(&patient.Patient{})

	if s := strings.TrimSpace(q.Query); s != "" {
		term := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", term, term)
	}
	if q.Gender != nil {
		tx = tx.Where("gender = ?", *q.Gender)
	}
	if q.BornAfter != nil {
		tx = tx.Where("date_of_birth >= ?", *q.BornAfter)
	}
	if q.BornBefore != nil {
		tx = tx.Where("date_of_birth <= ?", *q.BornBefore)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var out []*patient.Patient
	if err := tx.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("searching patients: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) List(ctx context.Context) ([]*patient.Patient, error) {
	var out []*patient.Patient
	if err := dbFrom(ctx, r.db).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := dbFrom(ctx, r.db).Model(&patient.Patient{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting patients: %w", err)
	}
	return n, nil
}

func (r *PatientRepository) GenderCounts(ctx context.Context) (map[patient.Gender]int64, error) {
	var rows []struct {
		Gender patient.Gender
		Count  int64
	}
	err := dbFrom(ctx, r.db).Model(&patient.Patient{}).
		Select("gender, COUNT(*) AS count").
		Group("gender").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("grouping patients by gender: %w", err)
	}

	out := make(map[patient.Gender]int64, len(rows))
	for _, row := range rows {
		out[row.Gender] = row.Count
	}
	return out, nil
}
