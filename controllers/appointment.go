package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/services"
	"github.com/arogyam/health-portal/utils"
)

// lockAppointment loads the row under FOR UPDATE so a concurrent transition
// on the same record waits for this transaction.
func lockAppointment(tx *gorm.DB, id int) (*models.Appointment, error) {
	var appointment models.Appointment
	err := tx.Raw(`
		SELECT * FROM appointments
		WHERE id = ? AND deleted_at IS NULL
		FOR UPDATE
	`, id).Scan(&appointment).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// BookAppointment creates a pending appointment for the logged-in patient.
func BookAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type BookingInput struct {
		ScheduledAt time.Time `json:"scheduled_at"`
		Reason      string    `json:"reason"`
	}
	input := new(BookingInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_SCHEDULE",
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if !input.ScheduledAt.After(time.Now()) {
		return utils.Fail(c, models.ErrInvalidSchedule)
	}

	appointment := models.Appointment{
		PatientID:   userID,
		ScheduledAt: input.ScheduledAt,
		Reason:      input.Reason,
		Status:      models.StatusPending,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		guard := services.NewSlotGuard(services.NewGormSlotStore(tx))
		if err := guard.Reserve(userID, input.ScheduledAt, 0); err != nil {
			return err
		}
		return tx.Create(&appointment).Error
	})
	if err != nil {
		return utils.Fail(c, err)
	}

	// Notification only after the booking is durably committed
	utils.NotifyWithEmail(userID, models.NotificationInfo, "Appointment Received",
		models.StatusMessage(models.StatusPending, appointment.ScheduledAt))

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// ListMyAppointments returns the patient's own appointments, most recent
// scheduled time first, optionally filtered by status.
func ListMyAppointments(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	query := db.DB.Where("patient_id = ?", userID)
	if status := c.Query("status"); status != "" {
		normalized, ok := models.NormalizeStatus(status)
		if !ok {
			return utils.Fail(c, models.ErrInvalidStatus)
		}
		query = query.Where("status = ?", normalized)
	}

	var appointments []models.Appointment
	if err := query.Order("scheduled_at desc").Find(&appointments).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(appointments)
}

// CancelAppointment lets a patient cancel their own pending or confirmed
// appointment. Cancellation is a status, the record is never removed.
func CancelAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_SCHEDULE",
			Message: "Invalid appointment ID",
		})
	}

	var cancelled models.Appointment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		appointment, err := lockAppointment(tx, id)
		if err != nil {
			return err
		}
		if appointment.ID == 0 {
			return gorm.ErrRecordNotFound
		}
		if appointment.PatientID != userID {
			return models.ErrForbidden
		}
		if err := appointment.UpdateStatus(tx, models.StatusCancelled); err != nil {
			return err
		}
		cancelled = *appointment
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Appointment not found",
		})
	}
	if err != nil {
		return utils.Fail(c, err)
	}

	utils.NotifyWithEmail(userID, models.NotificationInfo, "Appointment Cancelled",
		models.StatusMessage(models.StatusCancelled, cancelled.ScheduledAt))

	return c.JSON(cancelled)
}

// RescheduleAppointment moves a pending appointment of the logged-in patient
// to a new time slot. The same record is updated; no cancel-and-rebook.
func RescheduleAppointment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_SCHEDULE",
			Message: "Invalid appointment ID",
		})
	}

	type RescheduleInput struct {
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	input := new(RescheduleInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_SCHEDULE",
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if !input.ScheduledAt.After(time.Now()) {
		return utils.Fail(c, models.ErrInvalidSchedule)
	}

	var rescheduled models.Appointment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		appointment, err := lockAppointment(tx, id)
		if err != nil {
			return err
		}
		if appointment.ID == 0 {
			return gorm.ErrRecordNotFound
		}
		if appointment.PatientID != userID {
			return models.ErrForbidden
		}
		if appointment.Status != models.StatusPending {
			return models.ErrNotReschedulable
		}

		guard := services.NewSlotGuard(services.NewGormSlotStore(tx))
		if err := guard.Reserve(userID, input.ScheduledAt, appointment.ID); err != nil {
			return err
		}

		if err := tx.Model(appointment).Update("scheduled_at", input.ScheduledAt).Error; err != nil {
			return err
		}
		appointment.ScheduledAt = input.ScheduledAt
		rescheduled = *appointment
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Appointment not found",
		})
	}
	if err != nil {
		return utils.Fail(c, err)
	}

	utils.NotifyWithEmail(userID, models.NotificationInfo, "Appointment Rescheduled",
		"Your appointment has been moved to "+rescheduled.ScheduledAt.Format("2006-01-02 15:04")+" and is pending review.")

	return c.JSON(rescheduled)
}

// ListAppointments returns all appointments for administrative staff, with
// optional status filter and paging.
func ListAppointments(c *fiber.Ctx) error {
	page := 1
	limit := 20
	if c.Query("page") != "" {
		if parsedPage := c.QueryInt("page"); parsedPage > 0 {
			page = parsedPage
		}
	}
	if c.Query("limit") != "" {
		if parsedLimit := c.QueryInt("limit"); parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	offset := (page - 1) * limit

	query := db.DB.Model(&models.Appointment{})
	if status := c.Query("status"); status != "" {
		normalized, ok := models.NormalizeStatus(status)
		if !ok {
			return utils.Fail(c, models.ErrInvalidStatus)
		}
		query = query.Where("status = ?", normalized)
	}

	var total int64
	query.Count(&total)

	var appointments []models.Appointment
	if err := query.Preload("Patient").
		Order("scheduled_at desc").
		Offset(offset).
		Limit(limit).
		Find(&appointments).Error; err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"total":        total,
		"page":         page,
		"limit":        limit,
		"pages":        (total + int64(limit) - 1) / int64(limit), // Ceiling division
	})
}

// UpdateAppointmentStatus applies an administrative status transition.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "ILLEGAL_TRANSITION",
			Message: "Invalid appointment ID",
		})
	}

	type StatusInput struct {
		Status string `json:"status"`
	}
	input := new(StatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "ILLEGAL_TRANSITION",
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	// Unknown label is a validation failure; a known label that is off-graph
	// for this appointment surfaces as ILLEGAL_TRANSITION below.
	newStatus, ok := models.NormalizeStatus(input.Status)
	if !ok {
		return utils.Fail(c, models.ErrInvalidStatus)
	}

	var updated models.Appointment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		appointment, err := lockAppointment(tx, id)
		if err != nil {
			return err
		}
		if appointment.ID == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := appointment.UpdateStatus(tx, newStatus); err != nil {
			return err
		}
		updated = *appointment
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Appointment not found",
		})
	}
	if err != nil {
		return utils.Fail(c, err)
	}

	utils.NotifyWithEmail(updated.PatientID, models.NotificationInfo, "Appointment Update",
		models.StatusMessage(updated.Status, updated.ScheduledAt))

	return c.JSON(updated)
}

// SweepMissedAppointments marks past-due pending and confirmed appointments
// as missed. Triggered explicitly by administrative staff, never by a timer.
func SweepMissedAppointments(c *fiber.Ctx) error {
	now := time.Now()

	var swept []models.Appointment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Raw(`
			SELECT * FROM appointments
			WHERE deleted_at IS NULL
				AND status IN (?, ?)
				AND scheduled_at < ?
			FOR UPDATE
		`, models.StatusPending, models.StatusConfirmed, now).Scan(&swept).Error; err != nil {
			return err
		}
		for i := range swept {
			if err := swept[i].UpdateStatus(tx, models.StatusMissed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.Fail(c, err)
	}

	for i := range swept {
		utils.Notify(swept[i].PatientID, models.NotificationWarning,
			models.StatusMessage(models.StatusMissed, swept[i].ScheduledAt))
	}

	return c.JSON(fiber.Map{
		"swept": len(swept),
	})
}
