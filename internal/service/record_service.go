package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/record"
)

type RecordService struct {
	repo       record.Repository
	patients   patient.Repository
	activities domain.ActivityRepository
	files      FileStore
	tx         Transactor
	log        *zap.Logger
}

func NewRecordService(
	repo record.Repository,
	patients patient.Repository,
	activities domain.ActivityRepository,
	files FileStore,
	tx Transactor,
	log *zap.Logger,
) *RecordService {
	return &RecordService{
		repo:       repo,
		patients:   patients,
		activities: activities,
		files:      files,
		tx:         tx,
		log:        log,
	}
}

// Add inserts record metadata. A record without any file reference is valid,
// and a FilePath pointing at a nonexistent file is tolerated too.
func (s *RecordService) Add(ctx context.Context, cmd *record.AddRecordCommand) (*record.MedicalRecord, error) {
	if err := validateAddRecord(cmd); err != nil {
		return nil, err
	}

	rec := &record.MedicalRecord{
		PatientID:    cmd.PatientID,
		Type:         strings.TrimSpace(cmd.Type),
		Description:  cmd.Description,
		DoctorName:   cmd.DoctorName,
		FacilityName: cmd.FacilityName,
		RecordDate:   cmd.RecordDate,
		FilePath:     cmd.FilePath,
		FileName:     cmd.FileName,
		FileType:     cmd.FileType,
		FileSize:     cmd.FileSize,
	}

	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		p, err := s.patients.GetByID(ctx, cmd.PatientID)
		if err != nil {
			return err
		}

		if err := s.repo.Create(ctx, rec); err != nil {
			return err
		}
		return s.activities.Create(ctx, &domain.Activity{
			PatientID:   &p.ID,
			PatientName: p.FullName(),
			Type:        domain.ActivityRecordAdded,
			Description: recordDescription(rec),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("medical record added",
		zap.String("patient_id", rec.PatientID.String()),
		zap.String("record_id", rec.ID.String()),
	)
	return rec, nil
}

// Upload stores the document stream first, then inserts the metadata row.
// If the transaction fails the freshly stored file is removed again, so a
// failed upload leaves neither a row nor an unreferenced file behind.
func (s *RecordService) Upload(ctx context.Context, cmd *record.AddRecordCommand, originalName string, r io.Reader) (*record.MedicalRecord, error) {
	if strings.TrimSpace(originalName) == "" {
		return nil, &ValidationError{Fields: []string{"file_name is required"}}
	}

	relPath := s.files.ResolvePath(cmd.PatientID, originalName)
	size, err := s.files.Store(relPath, r)
	if err != nil {
		return nil, err
	}

	cmd.FilePath = relPath
	cmd.FileName = originalName
	cmd.FileSize = size

	rec, err := s.Add(ctx, cmd)
	if err != nil {
		if _, delErr := s.files.Delete(relPath); delErr != nil {
			s.log.Warn("failed to clean up stored file after rollback",
				zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, err
	}
	return rec, nil
}

func (s *RecordService) Get(ctx context.Context, id uuid.UUID) (*record.MedicalRecord, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RecordService) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*record.MedicalRecord, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListForPatient(ctx, patientID)
}

// Delete removes the metadata row and its audit entry atomically, then
// deletes the referenced file best-effort. It reports whether a file was
// actually present; an absent file is not an error (seeded data dangles on
// purpose).
func (s *RecordService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var rec *record.MedicalRecord
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		var err error
		rec, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.activities.Create(ctx, &domain.Activity{
			PatientID:   &rec.PatientID,
			Type:        domain.ActivityRecordDeleted,
			Description: fmt.Sprintf("Deleted %s record %s", rec.Type, rec.FileName),
		})
	})
	if err != nil {
		return false, err
	}

	removed, err := s.files.Delete(rec.FilePath)
	if err != nil {
		s.log.Warn("failed to delete record file",
			zap.String("record_id", id.String()),
			zap.String("path", rec.FilePath),
			zap.Error(err),
		)
		return false, nil
	}
	return removed, nil
}

func recordDescription(rec *record.MedicalRecord) string {
	if rec.FileName != "" {
		return fmt.Sprintf("%s: %s", rec.Type, rec.FileName)
	}
	return fmt.Sprintf("%s record added", rec.Type)
}

func validateAddRecord(cmd *record.AddRecordCommand) error {
	var errs []string

	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if strings.TrimSpace(cmd.Type) == "" {
		errs = append(errs, "type is required")
	}
	if cmd.RecordDate.IsZero() {
		errs = append(errs, "record_date is required")
	}
	if cmd.FileSize < 0 {
		errs = append(errs, "file_size must not be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
