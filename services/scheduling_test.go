package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arogyam/health-portal/models"
)

// Compile-time check to ensure MockSlotStore implements SlotStore
var _ SlotStore = (*MockSlotStore)(nil)

// MockSlotStore is a mock implementation of SlotStore.
type MockSlotStore struct {
	LockPatientFunc        func(patientID uint) error
	ActiveAppointmentsFunc func(patientID uint, excludeID uint) ([]models.Appointment, error)

	LockCallCount int32
	ListCallCount int32
}

func (m *MockSlotStore) LockPatient(patientID uint) error {
	atomic.AddInt32(&m.LockCallCount, 1)
	if m.LockPatientFunc != nil {
		return m.LockPatientFunc(patientID)
	}
	return nil
}

func (m *MockSlotStore) ActiveAppointments(patientID uint, excludeID uint) ([]models.Appointment, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	if m.ActiveAppointmentsFunc != nil {
		return m.ActiveAppointmentsFunc(patientID, excludeID)
	}
	return nil, errors.New("ActiveAppointmentsFunc not implemented in mock")
}

func newTestSlotGuard(store SlotStore) *SlotGuard {
	return &SlotGuard{store: store, slot: 30 * time.Minute}
}

func TestSlotsConflict(t *testing.T) {
	slot := 30 * time.Minute
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, SlotsConflict(base, base, slot))
	assert.True(t, SlotsConflict(base, base.Add(15*time.Minute), slot))
	assert.True(t, SlotsConflict(base.Add(15*time.Minute), base, slot))
	assert.True(t, SlotsConflict(base, base.Add(29*time.Minute), slot))

	// Exactly one slot apart is the first non-conflicting distance
	assert.False(t, SlotsConflict(base, base.Add(30*time.Minute), slot))
	assert.False(t, SlotsConflict(base, base.Add(2*time.Hour), slot))
	assert.False(t, SlotsConflict(base.Add(-time.Hour), base, slot))
}

func TestReserveOccupiedSlotRejected(t *testing.T) {
	taken := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	store := &MockSlotStore{
		ActiveAppointmentsFunc: func(patientID uint, excludeID uint) ([]models.Appointment, error) {
			return []models.Appointment{{PatientID: patientID, ScheduledAt: taken, Status: models.StatusConfirmed}}, nil
		},
	}
	guard := newTestSlotGuard(store)

	assert.ErrorIs(t, guard.Reserve(7, taken, 0), models.ErrSlotConflict)
	assert.ErrorIs(t, guard.Reserve(7, taken.Add(15*time.Minute), 0), models.ErrSlotConflict)
	assert.NoError(t, guard.Reserve(7, taken.Add(30*time.Minute), 0))
}

func TestReserveLocksBeforeReading(t *testing.T) {
	var order []string
	store := &MockSlotStore{
		LockPatientFunc: func(patientID uint) error {
			order = append(order, "lock")
			return nil
		},
		ActiveAppointmentsFunc: func(patientID uint, excludeID uint) ([]models.Appointment, error) {
			order = append(order, "list")
			return nil, nil
		},
	}
	guard := newTestSlotGuard(store)

	assert.NoError(t, guard.Reserve(7, time.Now(), 0))
	assert.Equal(t, []string{"lock", "list"}, order)
}

func TestReserveLockFailureShortCircuits(t *testing.T) {
	store := &MockSlotStore{
		LockPatientFunc: func(patientID uint) error {
			return errors.New("lock wait timeout")
		},
	}
	guard := newTestSlotGuard(store)

	assert.Error(t, guard.Reserve(7, time.Now(), 0))
	assert.EqualValues(t, 0, store.ListCallCount)
}

func TestReserveSkipsRecordBeingRescheduled(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	own := models.Appointment{PatientID: 7, ScheduledAt: at, Status: models.StatusPending}
	own.ID = 42
	store := &MockSlotStore{
		ActiveAppointmentsFunc: func(patientID uint, excludeID uint) ([]models.Appointment, error) {
			if excludeID == own.ID {
				return nil, nil
			}
			return []models.Appointment{own}, nil
		},
	}
	guard := newTestSlotGuard(store)

	// Moving the appointment within its own window is fine; a new booking
	// into that window is not.
	assert.NoError(t, guard.Reserve(7, at.Add(10*time.Minute), own.ID))
	assert.ErrorIs(t, guard.Reserve(7, at.Add(10*time.Minute), 0), models.ErrSlotConflict)
}

// Concurrent bookings into the same empty window admit exactly one. The mutex
// plays the patient row lock: each reservation holds it from Reserve until its
// insert lands, which is the transaction scope in production.
func TestConcurrentReservesAdmitExactlyOne(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var mu sync.Mutex
	var booked []models.Appointment
	store := &MockSlotStore{
		LockPatientFunc: func(patientID uint) error {
			mu.Lock()
			return nil
		},
		ActiveAppointmentsFunc: func(patientID uint, excludeID uint) ([]models.Appointment, error) {
			return append([]models.Appointment(nil), booked...), nil
		},
	}
	guard := newTestSlotGuard(store)

	var admitted int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := guard.Reserve(7, at, 0)
			if err == nil {
				booked = append(booked, models.Appointment{PatientID: 7, ScheduledAt: at, Status: models.StatusPending})
				atomic.AddInt32(&admitted, 1)
			} else {
				assert.ErrorIs(t, err, models.ErrSlotConflict)
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, admitted)
	assert.Len(t, booked, 1)
	assert.EqualValues(t, 8, store.LockCallCount)
}
