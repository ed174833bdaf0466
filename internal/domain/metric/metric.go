package metric

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HealthMetric is a single measurement for a patient. Metrics are immutable
// once recorded; corrections are new entries.
type HealthMetric struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patient_id"`

	// Type is a free-form category string, e.g. "Blood Pressure", "Weight".
	Type       string    `gorm:"column:type;type:varchar(100);not null;index" json:"type"`
	Value      float64   `gorm:"column:value;not null" json:"value"`
	Unit       string    `gorm:"column:unit;type:varchar(50)" json:"unit"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null;index" json:"recorded_at"`
	Notes      string    `gorm:"column:notes;type:text" json:"notes"`
	Category   string    `gorm:"column:category;type:varchar(100)" json:"category"`
}

func (HealthMetric) TableName() string {
	return "health_metrics"
}

func (m *HealthMetric) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type AddMetricCommand struct {
	PatientID  uuid.UUID
	Type       string
	Value      float64
	Unit       string
	RecordedAt time.Time
	Notes      string
	Category   string
}

// ListQuery filters a patient's metrics. Default ordering is recorded-at
// ascending; RecentFirst flips to descending with an id tie-break so equal
// timestamps still order deterministically.
type ListQuery struct {
	Type        string
	From        *time.Time
	To          *time.Time
	RecentFirst bool
	Limit       int
}

// TypeStats summarizes one metric type over a date range.
type TypeStats struct {
	Type  string  `json:"type"`
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

// TypeCount is a (metric type, occurrences) pair for dashboard rankings.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}
