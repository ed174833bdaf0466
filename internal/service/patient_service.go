package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/metric"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/record"
)

type PatientService struct {
	repo       patient.Repository
	metrics    metric.Repository
	records    record.Repository
	activities domain.ActivityRepository
	files      FileStore
	tx         Transactor
	log        *zap.Logger
}

func NewPatientService(
	repo patient.Repository,
	metrics metric.Repository,
	records record.Repository,
	activities domain.ActivityRepository,
	files FileStore,
	tx Transactor,
	log *zap.Logger,
) *PatientService {
	return &PatientService{
		repo:       repo,
		metrics:    metrics,
		records:    records,
		activities: activities,
		files:      files,
		tx:         tx,
		log:        log,
	}
}

func (s *PatientService) Create(ctx context.Context, cmd *patient.CreatePatientCommand) (*patient.Patient, error) {
	if err := validateCreatePatient(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		FirstName:   strings.TrimSpace(cmd.FirstName),
		LastName:    strings.TrimSpace(cmd.LastName),
		DateOfBirth: cmd.DateOfBirth,
		Gender:      cmd.Gender,
		BloodType:   cmd.BloodType,
		ContactInfo: patient.ContactInfo{
			Phone:   strings.TrimSpace(cmd.Phone),
			Email:   strings.ToLower(strings.TrimSpace(cmd.Email)),
			Address: cmd.Address,
		},
		Allergies:             cmd.Allergies,
		MedicalHistory:        cmd.MedicalHistory,
		CurrentMedications:    cmd.CurrentMedications,
		EmergencyContactName:  cmd.EmergencyContactName,
		EmergencyContactPhone: cmd.EmergencyContactPhone,
	}

	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.activities.Create(ctx, &domain.Activity{
			PatientID:   &p.ID,
			PatientName: p.FullName(),
			Type:        domain.ActivityPatientCreated,
			Description: fmt.Sprintf("Registered patient %s", p.FullName()),
		})
	})
	if err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.log.Info("patient created", zap.String("patient_id", p.ID.String()))
	return p, nil
}

func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	if err := validateUpdatePatient(cmd); err != nil {
		return nil, err
	}

	var p *patient.Patient
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		applyPatientUpdate(p, cmd)

		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		return s.activities.Create(ctx, &domain.Activity{
			PatientID:   &p.ID,
			PatientName: p.FullName(),
			Type:        domain.ActivityPatientUpdated,
			Description: fmt.Sprintf("Updated patient %s", p.FullName()),
		})
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Delete cascades: all of the patient's metrics, records, and ledger entries
// go in the same transaction as the patient row, so no orphan can survive a
// partial failure. The closing ledger entry is system-wide (nil patient id)
// because the patient it describes no longer exists.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	var name string
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		name = p.FullName()

		if err := s.metrics.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		if err := s.records.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		if err := s.activities.DeleteByPatient(ctx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.activities.Create(ctx, &domain.Activity{
			PatientName: name,
			Type:        domain.ActivityPatientDeleted,
			Description: fmt.Sprintf("Deleted patient %s and all associated data", name),
		})
	})
	if err != nil {
		return err
	}

	// File cleanup is best-effort and outside the transaction; metadata rows
	// are already gone and dangling files are tolerated.
	if err := s.files.RemovePatientDir(id); err != nil {
		s.log.Warn("failed to remove patient files", zap.String("patient_id", id.String()), zap.Error(err))
	}

	s.log.Info("patient deleted", zap.String("patient_id", id.String()))
	return nil
}

func (s *PatientService) Search(ctx context.Context, q *patient.SearchQuery) ([]*patient.Patient, error) {
	// An exact identifier wins over fuzzy name matching.
	if id, err := uuid.Parse(strings.TrimSpace(q.Query)); err == nil {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if err == patient.ErrPatientNotFound {
				return []*patient.Patient{}, nil
			}
			return nil, err
		}
		return []*patient.Patient{p}, nil
	}

	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 100
	}
	return s.repo.Search(ctx, q)
}

func (s *PatientService) List(ctx context.Context) ([]*patient.Patient, error) {
	return s.repo.List(ctx)
}

func applyPatientUpdate(p *patient.Patient, cmd *patient.UpdatePatientCommand) {
	if cmd.FirstName != nil {
		p.FirstName = strings.TrimSpace(*cmd.FirstName)
	}
	if cmd.LastName != nil {
		p.LastName = strings.TrimSpace(*cmd.LastName)
	}
	if cmd.Gender != nil {
		p.Gender = *cmd.Gender
	}
	if cmd.BloodType != nil {
		p.BloodType = *cmd.BloodType
	}
	if cmd.Phone != nil {
		p.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*cmd.Email))
	}
	if cmd.Address != nil {
		p.Address = *cmd.Address
	}
	if cmd.Allergies != nil {
		p.Allergies = *cmd.Allergies
	}
	if cmd.MedicalHistory != nil {
		p.MedicalHistory = *cmd.MedicalHistory
	}
	if cmd.CurrentMedications != nil {
		p.CurrentMedications = *cmd.CurrentMedications
	}
	if cmd.EmergencyContactName != nil {
		p.EmergencyContactName = *cmd.EmergencyContactName
	}
	if cmd.EmergencyContactPhone != nil {
		p.EmergencyContactPhone = *cmd.EmergencyContactPhone
	}
}

func validateCreatePatient(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	}
	if cmd.DateOfBirth.After(time.Now()) {
		errs = append(errs, "date_of_birth cannot be in the future")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if !cmd.BloodType.IsValid() {
		errs = append(errs, "blood_type is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validateUpdatePatient(cmd *patient.UpdatePatientCommand) error {
	var errs []string

	if cmd.FirstName != nil && strings.TrimSpace(*cmd.FirstName) == "" {
		errs = append(errs, "first_name must not be empty")
	}
	if cmd.LastName != nil && strings.TrimSpace(*cmd.LastName) == "" {
		errs = append(errs, "last_name must not be empty")
	}
	if cmd.Gender != nil && !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if cmd.BloodType != nil && !cmd.BloodType.IsValid() {
		errs = append(errs, "blood_type is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
