package record

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicalRecord holds document metadata for a patient. FilePath is a
// reference only: the row existing does not guarantee the file exists on
// disk (seeded development data intentionally dangles), and metadata-only
// rows with no file at all are valid.
type MedicalRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UploadedAt time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`

	Type         string    `gorm:"column:type;type:varchar(100);not null;index" json:"type"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	DoctorName   string    `gorm:"column:doctor_name;type:varchar(100)" json:"doctor_name"`
	FacilityName string    `gorm:"column:facility_name;type:varchar(200)" json:"facility_name"`
	RecordDate   time.Time `gorm:"column:record_date;not null;index" json:"record_date"`

	FilePath string `gorm:"column:file_path;type:varchar(500)" json:"file_path"`
	FileName string `gorm:"column:file_name;type:varchar(200)" json:"file_name"`
	FileType string `gorm:"column:file_type;type:varchar(100)" json:"file_type"`
	FileSize int64  `gorm:"column:file_size" json:"file_size"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}

func (r *MedicalRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type AddRecordCommand struct {
	PatientID    uuid.UUID
	Type         string
	Description  string
	DoctorName   string
	FacilityName string
	RecordDate   time.Time

	// File metadata; all optional for metadata-only inserts.
	FilePath string
	FileName string
	FileType string
	FileSize int64
}

// TypeCount is a (record type, occurrences) pair for dashboard rankings.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}
