package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusMissed    AppointmentStatus = "missed"
)

// NormalizeStatus maps a wire-level status label onto the internal tag set.
// Admin tooling historically used "finished" and "completed" interchangeably;
// both collapse to the single terminal done state here.
func NormalizeStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusMissed:
		return AppointmentStatus(s), true
	case "finished":
		return StatusCompleted, true
	}
	return "", false
}

// IsTerminal reports whether no further transitions are permitted.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusMissed:
		return true
	}
	return false
}

type Appointment struct {
	gorm.Model
	PatientID   uint              `json:"patient_id"`
	Patient     User              `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Reason      string            `json:"reason"`
	Status      AppointmentStatus `json:"status"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}

// CanTransition reports whether newStatus is reachable from the current
// status. pending -> confirmed|completed|cancelled|missed, confirmed ->
// completed|cancelled|missed; terminal states have no outgoing edges.
func (a *Appointment) CanTransition(newStatus AppointmentStatus) bool {
	switch a.Status {
	case StatusPending:
		return newStatus == StatusConfirmed || newStatus == StatusCompleted ||
			newStatus == StatusCancelled || newStatus == StatusMissed
	case StatusConfirmed:
		return newStatus == StatusCompleted || newStatus == StatusCancelled || newStatus == StatusMissed
	}
	return false
}

// UpdateStatus moves the appointment along the status graph and saves it.
// The scheduled time is never touched by a transition. Off-graph moves
// return ErrIllegalTransition and leave the record unchanged.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	if !a.CanTransition(newStatus) {
		return ErrIllegalTransition
	}
	a.Status = newStatus
	return tx.Model(a).Update("status", newStatus).Error
}

// StatusMessage is the patient-facing description emitted with the
// notification for each transition.
func StatusMessage(s AppointmentStatus, scheduledAt time.Time) string {
	when := scheduledAt.Format("2006-01-02 15:04")
	switch s {
	case StatusPending:
		return "Your booking for " + when + " was received and is pending review."
	case StatusConfirmed:
		return "Your appointment on " + when + " has been confirmed."
	case StatusCompleted:
		return "Your appointment on " + when + " is completed. Thank you for visiting."
	case StatusCancelled:
		return "Your appointment on " + when + " has been cancelled."
	case StatusMissed:
		return "You missed your appointment scheduled for " + when + "."
	}
	return "Your appointment on " + when + " was updated."
}
