package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityPatientCreated ActivityType = "patient_created"
	ActivityPatientUpdated ActivityType = "patient_updated"
	ActivityPatientDeleted ActivityType = "patient_deleted"
	ActivityMetricAdded    ActivityType = "metric_added"
	ActivityRecordAdded    ActivityType = "record_added"
	ActivityRecordDeleted  ActivityType = "record_deleted"
	ActivitySystem         ActivityType = "system"
)

func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityPatientCreated, ActivityPatientUpdated, ActivityPatientDeleted,
		ActivityMetricAdded, ActivityRecordAdded, ActivityRecordDeleted, ActivitySystem:
		return true
	}
	return false
}

// Activity is the append-only audit ledger. Every mutating service operation
// writes exactly one entry inside the same transaction as the data change.
// No update or delete path exists; rows only disappear when their patient is
// cascade-deleted.
type Activity struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OccurredAt time.Time `gorm:"autoCreateTime;index" json:"occurred_at"`

	// Nil for system-wide events (e.g. a patient deletion, which outlives
	// the patient row itself).
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index" json:"patient_id,omitempty"`

	// Snapshot of the patient name at write time, so the ledger stays
	// readable after the patient row is gone.
	PatientName string `gorm:"column:patient_name;type:varchar(200)" json:"patient_name,omitempty"`

	Type        ActivityType `gorm:"column:type;type:varchar(50);not null;index" json:"type"`
	Description string       `gorm:"column:description;type:text" json:"description"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
