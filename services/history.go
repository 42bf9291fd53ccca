package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/arogyam/health-portal/models"
)

// AppointmentLookup resolves appointments for ownership validation.
type AppointmentLookup interface {
	GetAppointment(id uint) (*models.Appointment, error)
}

// HistoryWriter persists interpreted scans.
type HistoryWriter interface {
	CreateRecord(record *models.MedicalHistoryRecord) error
}

// RecordInterpretation links an interpreted scan to the patient's medical
// history. When an appointment id is supplied it must belong to the same
// patient; otherwise nothing is stored.
func RecordInterpretation(lookup AppointmentLookup, writer HistoryWriter, patientID uint, scanRef, modelName string, interpretation models.Interpretation, appointmentID *uint) (*models.MedicalHistoryRecord, error) {
	if appointmentID != nil {
		appointment, err := lookup.GetAppointment(*appointmentID)
		if err != nil {
			return nil, err
		}
		if appointment.PatientID != patientID {
			return nil, models.ErrAppointmentOwnershipMismatch
		}
	}

	record := &models.MedicalHistoryRecord{
		PatientID:      patientID,
		ScanRef:        scanRef,
		ModelName:      modelName,
		Interpretation: interpretation,
		AppointmentID:  appointmentID,
	}
	if err := writer.CreateRecord(record); err != nil {
		return nil, err
	}
	return record, nil
}

// GormHistoryStore backs the linker with Postgres.
type GormHistoryStore struct {
	DB *gorm.DB
}

var (
	_ AppointmentLookup = (*GormHistoryStore)(nil)
	_ HistoryWriter     = (*GormHistoryStore)(nil)
)

func NewGormHistoryStore(db *gorm.DB) *GormHistoryStore {
	return &GormHistoryStore{DB: db}
}

func (s *GormHistoryStore) GetAppointment(id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.DB.First(&appointment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A dangling reference is treated the same as someone else's record
		return nil, models.ErrAppointmentOwnershipMismatch
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *GormHistoryStore) CreateRecord(record *models.MedicalHistoryRecord) error {
	return s.DB.Create(record).Error
}
