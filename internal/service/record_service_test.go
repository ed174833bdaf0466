package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/record"
)

func validAddRecordCommand(patientID uuid.UUID) *record.AddRecordCommand {
	return &record.AddRecordCommand{
		PatientID:  patientID,
		Type:       "Lab Report",
		RecordDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		DoctorName: "Dr. House",
	}
}

func TestRecordServiceAddMetadataOnly(t *testing.T) {
	patientID := uuid.New()
	repo := &mockRecordRepo{
		CreateFunc: func(ctx context.Context, r *record.MedicalRecord) error {
			r.ID = uuid.New()
			return nil
		},
	}
	activities := &mockActivityRepo{}
	svc := NewRecordService(repo, knownPatientRepo(patientID), activities, &mockFileStore{}, &mockTx{activities: activities}, zap.NewNop())

	rec, err := svc.Add(context.Background(), validAddRecordCommand(patientID))
	require.NoError(t, err)
	assert.Empty(t, rec.FilePath, "a record without a document is valid")

	require.Len(t, activities.Entries, 1)
	assert.Equal(t, domain.ActivityRecordAdded, activities.Entries[0].Type)
	assert.Equal(t, "Lab Report record added", activities.Entries[0].Description)
}

func TestRecordServiceAddDanglingPathTolerated(t *testing.T) {
	patientID := uuid.New()
	activities := &mockActivityRepo{}
	svc := NewRecordService(&mockRecordRepo{}, knownPatientRepo(patientID), activities, &mockFileStore{}, &mockTx{activities: activities}, zap.NewNop())

	cmd := validAddRecordCommand(patientID)
	cmd.FilePath = "patient_x/never_written.pdf"
	cmd.FileName = "never_written.pdf"

	rec, err := svc.Add(context.Background(), cmd)
	require.NoError(t, err, "a path with no file behind it is accepted as-is")
	assert.Equal(t, "patient_x/never_written.pdf", rec.FilePath)
}

func TestRecordServiceAddValidation(t *testing.T) {
	patientID := uuid.New()

	tests := []struct {
		name   string
		mutate func(cmd *record.AddRecordCommand)
		field  string
	}{
		{
			name:   "missing patient id",
			mutate: func(cmd *record.AddRecordCommand) { cmd.PatientID = uuid.Nil },
			field:  "patient_id is required",
		},
		{
			name:   "missing type",
			mutate: func(cmd *record.AddRecordCommand) { cmd.Type = "" },
			field:  "type is required",
		},
		{
			name:   "missing record date",
			mutate: func(cmd *record.AddRecordCommand) { cmd.RecordDate = time.Time{} },
			field:  "record_date is required",
		},
		{
			name:   "negative file size",
			mutate: func(cmd *record.AddRecordCommand) { cmd.FileSize = -1 },
			field:  "file_size must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRecordService(&mockRecordRepo{}, knownPatientRepo(patientID), &mockActivityRepo{}, &mockFileStore{}, &mockTx{}, zap.NewNop())

			cmd := validAddRecordCommand(patientID)
			tt.mutate(cmd)

			_, err := svc.Add(context.Background(), cmd)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestRecordServiceUpload(t *testing.T) {
	patientID := uuid.New()
	activities := &mockActivityRepo{}
	files := &mockFileStore{}
	svc := NewRecordService(&mockRecordRepo{}, knownPatientRepo(patientID), activities, files, &mockTx{activities: activities}, zap.NewNop())

	rec, err := svc.Upload(context.Background(), validAddRecordCommand(patientID), "scan.pdf", strings.NewReader("not really a pdf"))
	require.NoError(t, err)

	assert.Equal(t, "scan.pdf", rec.FileName)
	assert.Equal(t, int64(len("not really a pdf")), rec.FileSize)
	require.Len(t, files.StoredPaths, 1)
	assert.Equal(t, files.StoredPaths[0], rec.FilePath)
	assert.Empty(t, files.DeletedPaths)

	require.Len(t, activities.Entries, 1)
	assert.Equal(t, "Lab Report: scan.pdf", activities.Entries[0].Description)
}

func TestRecordServiceUploadRequiresName(t *testing.T) {
	files := &mockFileStore{}
	svc := NewRecordService(&mockRecordRepo{}, knownPatientRepo(uuid.New()), &mockActivityRepo{}, files, &mockTx{}, zap.NewNop())

	_, err := svc.Upload(context.Background(), validAddRecordCommand(uuid.New()), "  ", strings.NewReader("x"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, files.StoredPaths, "nothing is written without a usable name")
}

func TestRecordServiceUploadCleansUpOnFailure(t *testing.T) {
	patientID := uuid.New()
	repo := &mockRecordRepo{
		CreateFunc: func(ctx context.Context, r *record.MedicalRecord) error {
			return errBoom
		},
	}
	activities := &mockActivityRepo{}
	files := &mockFileStore{}
	svc := NewRecordService(repo, knownPatientRepo(patientID), activities, files, &mockTx{activities: activities}, zap.NewNop())

	_, err := svc.Upload(context.Background(), validAddRecordCommand(patientID), "scan.pdf", strings.NewReader("bytes"))
	require.ErrorIs(t, err, errBoom)

	require.Len(t, files.StoredPaths, 1)
	require.Len(t, files.DeletedPaths, 1)
	assert.Equal(t, files.StoredPaths[0], files.DeletedPaths[0], "the stored file is removed when the row insert fails")
	assert.Empty(t, activities.Entries)
}

func TestRecordServiceDelete(t *testing.T) {
	recID := uuid.New()
	patientID := uuid.New()
	stored := &record.MedicalRecord{
		ID:        recID,
		PatientID: patientID,
		Type:      "Imaging",
		FileName:  "xray.png",
		FilePath:  "patient_1/xray.png",
	}

	repo := &mockRecordRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*record.MedicalRecord, error) {
			if id == recID {
				return stored, nil
			}
			return nil, record.ErrRecordNotFound
		},
	}
	activities := &mockActivityRepo{}
	files := &mockFileStore{
		DeleteFunc: func(relPath string) (bool, error) { return true, nil },
	}
	svc := NewRecordService(repo, knownPatientRepo(patientID), activities, files, &mockTx{activities: activities}, zap.NewNop())

	removed, err := svc.Delete(context.Background(), recID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"patient_1/xray.png"}, files.DeletedPaths)

	require.Len(t, activities.Entries, 1)
	assert.Equal(t, domain.ActivityRecordDeleted, activities.Entries[0].Type)
}

func TestRecordServiceDeleteAbsentFile(t *testing.T) {
	recID := uuid.New()
	repo := &mockRecordRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*record.MedicalRecord, error) {
			return &record.MedicalRecord{ID: recID, PatientID: uuid.New(), Type: "Lab Report", FilePath: "gone.pdf"}, nil
		},
	}
	activities := &mockActivityRepo{}
	svc := NewRecordService(repo, knownPatientRepo(uuid.New()), activities, &mockFileStore{}, &mockTx{activities: activities}, zap.NewNop())

	removed, err := svc.Delete(context.Background(), recID)
	require.NoError(t, err, "a dangling reference deletes cleanly")
	assert.False(t, removed)
	require.Len(t, activities.Entries, 1)
}

func TestRecordServiceDeleteStorageFailureIsNotFatal(t *testing.T) {
	recID := uuid.New()
	repo := &mockRecordRepo{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*record.MedicalRecord, error) {
			return &record.MedicalRecord{ID: recID, PatientID: uuid.New(), Type: "Lab Report", FilePath: "locked.pdf"}, nil
		},
	}
	files := &mockFileStore{
		DeleteFunc: func(relPath string) (bool, error) { return false, errBoom },
	}
	activities := &mockActivityRepo{}
	svc := NewRecordService(repo, knownPatientRepo(uuid.New()), activities, files, &mockTx{activities: activities}, zap.NewNop())

	removed, err := svc.Delete(context.Background(), recID)
	assert.NoError(t, err, "the row is already gone; a storage failure only downgrades the report")
	assert.False(t, removed)
}

func TestRecordServiceDeleteNotFound(t *testing.T) {
	activities := &mockActivityRepo{}
	svc := NewRecordService(&mockRecordRepo{}, knownPatientRepo(uuid.New()), activities, &mockFileStore{}, &mockTx{activities: activities}, zap.NewNop())

	_, err := svc.Delete(context.Background(), uuid.New())
	require.ErrorIs(t, err, record.ErrRecordNotFound)
	assert.Empty(t, activities.Entries)
}
