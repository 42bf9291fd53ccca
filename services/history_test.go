package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arogyam/health-portal/models"
)

var (
	_ AppointmentLookup = (*MockHistoryStore)(nil)
	_ HistoryWriter     = (*MockHistoryStore)(nil)
)

// MockHistoryStore is a mock implementation of the linker's contracts.
type MockHistoryStore struct {
	GetAppointmentFunc func(id uint) (*models.Appointment, error)

	Created []*models.MedicalHistoryRecord
}

func (m *MockHistoryStore) GetAppointment(id uint) (*models.Appointment, error) {
	if m.GetAppointmentFunc != nil {
		return m.GetAppointmentFunc(id)
	}
	return nil, errors.New("GetAppointmentFunc not implemented in mock")
}

func (m *MockHistoryStore) CreateRecord(record *models.MedicalHistoryRecord) error {
	m.Created = append(m.Created, record)
	return nil
}

func TestRecordInterpretationWithoutAppointment(t *testing.T) {
	store := &MockHistoryStore{}

	record, err := RecordInterpretation(store, store, 3, "scans/abc", "chest-xray-v2",
		models.TextInterpretation("clear"), nil)

	assert.NoError(t, err)
	assert.Len(t, store.Created, 1)
	assert.EqualValues(t, 3, record.PatientID)
	assert.Nil(t, record.AppointmentID)
	assert.Equal(t, models.InterpretationText, record.Interpretation.Kind)
}

func TestRecordInterpretationLinksOwnAppointment(t *testing.T) {
	store := &MockHistoryStore{
		GetAppointmentFunc: func(id uint) (*models.Appointment, error) {
			return &models.Appointment{PatientID: 3}, nil
		},
	}

	appointmentID := uint(42)
	record, err := RecordInterpretation(store, store, 3, "scans/abc", "chest-xray-v2",
		models.DiagnosisInterpretation("pneumonia", 0.9), &appointmentID)

	assert.NoError(t, err)
	assert.Len(t, store.Created, 1)
	assert.Equal(t, &appointmentID, record.AppointmentID)
}

func TestRecordInterpretationRejectsForeignAppointment(t *testing.T) {
	store := &MockHistoryStore{
		GetAppointmentFunc: func(id uint) (*models.Appointment, error) {
			return &models.Appointment{PatientID: 99}, nil
		},
	}

	appointmentID := uint(42)
	record, err := RecordInterpretation(store, store, 3, "scans/abc", "chest-xray-v2",
		models.TextInterpretation("clear"), &appointmentID)

	assert.ErrorIs(t, err, models.ErrAppointmentOwnershipMismatch)
	assert.Nil(t, record)
	// Nothing must be stored on a rejected link
	assert.Empty(t, store.Created)
}

func TestRecordInterpretationRejectsDanglingAppointment(t *testing.T) {
	store := &MockHistoryStore{
		GetAppointmentFunc: func(id uint) (*models.Appointment, error) {
			return nil, models.ErrAppointmentOwnershipMismatch
		},
	}

	appointmentID := uint(404)
	_, err := RecordInterpretation(store, store, 3, "scans/abc", "chest-xray-v2",
		models.TextInterpretation("clear"), &appointmentID)

	assert.ErrorIs(t, err, models.ErrAppointmentOwnershipMismatch)
	assert.Empty(t, store.Created)
}
