package database

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/metric"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/healthtrack/internal/domain/record"
)

var (
	seedFirstNames = []string{
		"James", "John", "Robert", "Michael", "David",
		"Mary", "Patricia", "Jennifer", "Linda", "Elizabeth",
	}
	seedLastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones",
		"Garcia", "Miller", "Davis", "Wilson", "Taylor",
	}
	seedBloodTypes = []patient.BloodType{
		patient.BloodTypeAPos, patient.BloodTypeANeg, patient.BloodTypeBPos,
		patient.BloodTypeOPos, patient.BloodTypeONeg, patient.BloodTypeABPos,
	}
	seedAllergies = []string{
		"Penicillin", "Peanuts, Tree nuts", "Shellfish", "Latex", "None known",
	}
	seedMetricTypes = []struct {
		name, unit, category string
		min, max             float64
	}{
		{"Weight", "kg", "Body", 50, 110},
		{"Heart Rate", "bpm", "Cardiovascular", 55, 100},
		{"Blood Glucose", "mg/dL", "Metabolic", 70, 180},
		{"Temperature", "°C", "Vitals", 36.1, 37.8},
	}
	seedRecordTypes = []string{"Lab Report", "Imaging", "Consultation Notes", "Vaccination"}
)

// Seed populates representative development data: patients, metrics spread
// over the last 90 days, medical records, and matching ledger entries. The
// seeded record rows reference file paths that intentionally do not exist on
// disk; list and delete must cope with dangling references, and seeding them
// keeps that path exercised.
func Seed(db *gorm.DB, patients int, log *zap.Logger) error {
	log.Info("seeding database", zap.Int("patients", patients))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < patients; i++ {
			p := seedPatient(rng, i)
			if err := tx.Create(p).Error; err != nil {
				return fmt.Errorf("seeding patient: %w", err)
			}
			if err := logSeedActivity(tx, &p.ID, p.FullName(), domain.ActivityPatientCreated,
				fmt.Sprintf("Registered patient %s", p.FullName())); err != nil {
				return err
			}

			for j := 0; j < 3+rng.Intn(8); j++ {
				m := seedMetric(rng, p.ID)
				if err := tx.Create(m).Error; err != nil {
					return fmt.Errorf("seeding metric: %w", err)
				}
				if err := logSeedActivity(tx, &p.ID, p.FullName(), domain.ActivityMetricAdded,
					fmt.Sprintf("%s: %g %s", m.Type, m.Value, m.Unit)); err != nil {
					return err
				}
			}

			for j := 0; j < 1+rng.Intn(3); j++ {
				r := seedRecord(rng, p.ID)
				if err := tx.Create(r).Error; err != nil {
					return fmt.Errorf("seeding record: %w", err)
				}
				if err := logSeedActivity(tx, &p.ID, p.FullName(), domain.ActivityRecordAdded,
					fmt.Sprintf("%s: %s", r.Type, r.FileName)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func seedPatient(rng *rand.Rand, i int) *patient.Patient {
	first := seedFirstNames[rng.Intn(len(seedFirstNames))]
	last := seedLastNames[rng.Intn(len(seedLastNames))]
	gender := patient.GenderMale
	if rng.Intn(2) == 1 {
		gender = patient.GenderFemale
	}

	dob := time.Date(1940+rng.Intn(65), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC)

	return &patient.Patient{
		FirstName:   first,
		LastName:    last,
		DateOfBirth: dob,
		Gender:      gender,
		BloodType:   seedBloodTypes[rng.Intn(len(seedBloodTypes))],
		ContactInfo: patient.ContactInfo{
			Phone:   fmt.Sprintf("+1-555-%04d", rng.Intn(10000)),
			Email:   fmt.Sprintf("%s.%s%d@example.com", first, last, i),
			Address: fmt.Sprintf("%d Main Street", 1+rng.Intn(999)),
		},
		Allergies:             seedAllergies[rng.Intn(len(seedAllergies))],
		MedicalHistory:        "No significant medical history",
		EmergencyContactName:  seedFirstNames[rng.Intn(len(seedFirstNames))] + " " + last,
		EmergencyContactPhone: fmt.Sprintf("+1-555-%04d", rng.Intn(10000)),
	}
}

func seedMetric(rng *rand.Rand, patientID uuid.UUID) *metric.HealthMetric {
	t := seedMetricTypes[rng.Intn(len(seedMetricTypes))]
	return &metric.HealthMetric{
		PatientID:  patientID,
		Type:       t.name,
		Value:      t.min + rng.Float64()*(t.max-t.min),
		Unit:       t.unit,
		Category:   t.category,
		RecordedAt: time.Now().Add(-time.Duration(rng.Intn(90*24)) * time.Hour),
	}
}

func seedRecord(rng *rand.Rand, patientID uuid.UUID) *record.MedicalRecord {
	recType := seedRecordTypes[rng.Intn(len(seedRecordTypes))]
	fileName := fmt.Sprintf("%s_%d.pdf", recType, rng.Intn(1000))
	return &record.MedicalRecord{
		PatientID:    patientID,
		Type:         recType,
		Description:  fmt.Sprintf("Seeded %s record", recType),
		DoctorName:   "Dr. " + seedLastNames[rng.Intn(len(seedLastNames))],
		FacilityName: "General Hospital",
		RecordDate:   time.Now().AddDate(0, 0, -rng.Intn(365)),
		// Deliberately dangling; no file is written for seeded rows.
		FilePath: fmt.Sprintf("patient_%s/%s", patientID, fileName),
		FileName: fileName,
		FileType: "application/pdf",
		FileSize: int64(10_000 + rng.Intn(2_000_000)),
	}
}

func logSeedActivity(tx *gorm.DB, patientID *uuid.UUID, name string, t domain.ActivityType, desc string) error {
	a := &domain.Activity{
		PatientID:   patientID,
		PatientName: name,
		Type:        t,
		Description: desc,
	}
	if err := tx.Create(a).Error; err != nil {
		return fmt.Errorf("seeding activity: %w", err)
	}
	return nil
}
