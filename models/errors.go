package models

// AppError is a stable, user-visible failure: a machine-readable code plus a
// human-readable reason. Domain rule violations are returned as these values,
// never as panics.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrUnauthenticated = &AppError{Code: "UNAUTHENTICATED", Message: "A valid session is required", Status: 401}
	ErrForbidden       = &AppError{Code: "FORBIDDEN", Message: "You are not allowed to perform this action", Status: 403}

	ErrInvalidSchedule   = &AppError{Code: "INVALID_SCHEDULE", Message: "Scheduled time must be in the future", Status: 400}
	ErrInvalidStatus     = &AppError{Code: "INVALID_STATUS", Message: "Unknown status value", Status: 400}
	ErrSlotConflict      = &AppError{Code: "SLOT_CONFLICT", Message: "You already have an appointment in this time slot", Status: 409}
	ErrIllegalTransition = &AppError{Code: "ILLEGAL_TRANSITION", Message: "Status change is not allowed from the current status", Status: 409}
	ErrNotReschedulable  = &AppError{Code: "NOT_RESCHEDULABLE", Message: "Only pending appointments can be rescheduled", Status: 409}

	ErrQuotaExhausted        = &AppError{Code: "QUOTA_EXHAUSTED", Message: "No AI tries left. Upgrade to premium or redeem a coupon", Status: 429}
	ErrCouponNotFound        = &AppError{Code: "COUPON_NOT_FOUND", Message: "Coupon code does not exist", Status: 404}
	ErrCouponExpired         = &AppError{Code: "COUPON_EXPIRED", Message: "Coupon code has expired", Status: 400}
	ErrCouponAlreadyRedeemed = &AppError{Code: "COUPON_ALREADY_REDEEMED", Message: "Coupon code was already redeemed on this account", Status: 409}

	ErrAppointmentOwnershipMismatch = &AppError{Code: "APPOINTMENT_OWNERSHIP_MISMATCH", Message: "Appointment does not belong to this patient", Status: 403}
	ErrSyncUnavailable              = &AppError{Code: "SYNC_UNAVAILABLE", Message: "Doctor directory is unreachable", Status: 503}
)
