package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

type BloodType string

const (
	BloodTypeAPos    BloodType = "A+"
	BloodTypeANeg    BloodType = "A-"
	BloodTypeBPos    BloodType = "B+"
	BloodTypeBNeg    BloodType = "B-"
	BloodTypeABPos   BloodType = "AB+"
	BloodTypeABNeg   BloodType = "AB-"
	BloodTypeOPos    BloodType = "O+"
	BloodTypeONeg    BloodType = "O-"
	BloodTypeUnknown BloodType = "unknown"
)

func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg,
		BloodTypeUnknown, "":
		return true
	}
	return false
}

type ContactInfo struct {
	Phone   string `gorm:"column:phone;type:varchar(50)" json:"phone"`
	Email   string `gorm:"column:email;type:varchar(255)" json:"email"`
	Address string `gorm:"column:address;type:text" json:"address"`
}

// Patient is the relational root. Its ID is system-generated, immutable,
// and the foreign key for all child rows (metrics, records, activities).
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Gender      Gender    `gorm:"column:gender;type:varchar(20);not null;index" json:"gender"`
	BloodType   BloodType `gorm:"column:blood_type;type:varchar(10)" json:"blood_type"`

	ContactInfo

	Allergies          string `gorm:"column:allergies;type:text" json:"allergies"`
	MedicalHistory     string `gorm:"column:medical_history;type:text" json:"medical_history"`
	CurrentMedications string `gorm:"column:current_medications;type:text" json:"current_medications"`

	EmergencyContactName  string `gorm:"column:emergency_contact_name;type:varchar(100)" json:"emergency_contact_name"`
	EmergencyContactPhone string `gorm:"column:emergency_contact_phone;type:varchar(50)" json:"emergency_contact_phone"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

type CreatePatientCommand struct {
	FirstName             string
	LastName              string
	DateOfBirth           time.Time
	Gender                Gender
	BloodType             BloodType
	Phone                 string
	Email                 string
	Address               string
	Allergies             string
	MedicalHistory        string
	CurrentMedications    string
	EmergencyContactName  string
	EmergencyContactPhone string
}

// UpdatePatientCommand applies partial updates; nil fields are left as-is.
// DateOfBirth and the generated ID are immutable after registration.
type UpdatePatientCommand struct {
	FirstName             *string
	LastName              *string
	Gender                *Gender
	BloodType             *BloodType
	Phone                 *string
	Email                 *string
	Address               *string
	Allergies             *string
	MedicalHistory        *string
	CurrentMedications    *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
}

// SearchQuery filters patients. Query matches case-insensitively against
// first name, last name, and the string form of the identifier.
type SearchQuery struct {
	Query      string
	Gender     *Gender
	BornAfter  *time.Time
	BornBefore *time.Time
	Limit      int
}
