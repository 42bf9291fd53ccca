package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/services"
	"github.com/arogyam/health-portal/utils"
)

// InferScan runs one diagnostic inference for the logged-in patient: quota
// gate first, then scan upload to blob storage, then the scoring call, and
// finally the history record. The quota try is spent at the gate; failures
// after that point surface as infrastructure errors.
func InferScan(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("scan")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_SCAN",
			Message: "A scan file is required",
		})
	}

	modelID, err := strconv.ParseUint(c.FormValue("model_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_MODEL",
			Message: "A valid model_id is required",
		})
	}

	var aiModel models.AIModel
	if err := db.DB.Where("is_active = true").First(&aiModel, modelID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    "INVALID_MODEL",
			Message: "AI model not found",
		})
	}

	// Ownership is settled before the gate so a rejected link never costs a
	// quota try or an inference round-trip.
	var appointmentID *uint
	if raw := c.FormValue("appointment_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.Fail(c, models.ErrAppointmentOwnershipMismatch)
		}
		var appointment models.Appointment
		if err := db.DB.First(&appointment, uint(parsed)).Error; err != nil {
			return utils.Fail(c, models.ErrAppointmentOwnershipMismatch)
		}
		if appointment.PatientID != userID {
			return utils.Fail(c, models.ErrAppointmentOwnershipMismatch)
		}
		id := uint(parsed)
		appointmentID = &id
	}

	if err := entitlementGate().CheckInferenceQuota(userID); err != nil {
		return utils.Fail(c, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.Fail(c, err)
	}
	defer file.Close()

	scanRef, err := utils.UploadToCloudinary(file, uuid.NewString(), "scans")
	if err != nil {
		return utils.Fail(c, err)
	}

	interpretation, err := services.NewInferenceClient().
		Interpret(c.UserContext(), scanRef, aiModel.ModelName)
	if err != nil {
		return utils.Fail(c, err)
	}

	store := services.NewGormHistoryStore(db.DB)
	record, err := services.RecordInterpretation(store, store, userID, scanRef, aiModel.ModelName, interpretation, appointmentID)
	if err != nil {
		return utils.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

// ListMyHistory returns the patient's own records, newest first.
func ListMyHistory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var records []models.MedicalHistoryRecord
	if err := db.DB.Where("patient_id = ?", userID).
		Order("recorded_at desc").
		Find(&records).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(records)
}

// ListHistory returns all history records for administrative staff.
func ListHistory(c *fiber.Ctx) error {
	var records []models.MedicalHistoryRecord
	if err := db.DB.Preload("Patient").
		Order("recorded_at desc").
		Find(&records).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(records)
}

// ListHistoryByUser returns one patient's records for administrative staff.
func ListHistoryByUser(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Invalid user ID",
		})
	}

	var records []models.MedicalHistoryRecord
	if err := db.DB.Where("patient_id = ?", id).
		Order("recorded_at desc").
		Find(&records).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(records)
}
