package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/arogyam/health-portal/config"
	"github.com/arogyam/health-portal/models"
)

// SlotStore is the persistence contract the slot guard needs. The production
// implementation is GORM-backed; tests substitute a mock.
type SlotStore interface {
	// LockPatient takes an exclusive lock on the patient for the duration of
	// the surrounding transaction, serializing all scheduling for that patient.
	LockPatient(patientID uint) error
	// ActiveAppointments returns the patient's pending and confirmed
	// appointments, skipping excludeID (0 skips nothing).
	ActiveAppointments(patientID uint, excludeID uint) ([]models.Appointment, error)
}

// SlotsConflict reports whether two scheduling intents fall inside the same
// slot window.
func SlotsConflict(a, b time.Time, slot time.Duration) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < slot
}

// SlotGuard decides whether a patient may occupy a time slot. It holds the
// per-patient lock while deciding, so of two concurrent bookings into the same
// empty window exactly one is admitted.
type SlotGuard struct {
	store SlotStore
	slot  time.Duration
}

func NewSlotGuard(store SlotStore) *SlotGuard {
	return &SlotGuard{store: store, slot: config.SlotDuration()}
}

// Reserve authorizes occupying the slot at scheduledAt. excludeID skips the
// record being rescheduled (0 for a new booking). Must run inside the same
// transaction as the insert or update it protects; the patient lock is
// released when that transaction ends. Returns ErrSlotConflict when any
// non-terminal appointment already sits inside the window.
func (g *SlotGuard) Reserve(patientID uint, scheduledAt time.Time, excludeID uint) error {
	if err := g.store.LockPatient(patientID); err != nil {
		return err
	}
	existing, err := g.store.ActiveAppointments(patientID, excludeID)
	if err != nil {
		return err
	}
	for i := range existing {
		if SlotsConflict(existing[i].ScheduledAt, scheduledAt, g.slot) {
			return models.ErrSlotConflict
		}
	}
	return nil
}

// GormSlotStore backs the guard with the transaction it is constructed from.
// Row-locking the patient is what excludes two concurrent inserts into an
// empty window; locking appointment rows alone cannot, there is nothing to
// lock yet.
type GormSlotStore struct {
	tx *gorm.DB
}

func NewGormSlotStore(tx *gorm.DB) *GormSlotStore {
	return &GormSlotStore{tx: tx}
}

var _ SlotStore = (*GormSlotStore)(nil)

func (s *GormSlotStore) LockPatient(patientID uint) error {
	var user models.User
	if err := s.tx.Raw(`SELECT * FROM users WHERE id = ? FOR UPDATE`, patientID).Scan(&user).Error; err != nil {
		return err
	}
	if user.ID == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GormSlotStore) ActiveAppointments(patientID uint, excludeID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.tx.
		Where("patient_id = ? AND id <> ? AND status IN (?, ?)",
			patientID, excludeID, models.StatusPending, models.StatusConfirmed).
		Find(&appointments).Error
	return appointments, err
}
