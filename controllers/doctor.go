package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/services"
	"github.com/arogyam/health-portal/utils"
)

// SyncDoctors pulls the full external directory and upserts it. On failure
// the local snapshot stays authoritative and listings carry a sync_failed
// flag instead of erroring out.
func SyncDoctors(c *fiber.Ctx) error {
	client := services.NewDirectoryClient()
	count, err := services.SyncDoctors(c.UserContext(), db.DB, client)
	if err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Doctor directory synced",
		"synced":  count,
	})
}

// ListDoctors serves the current local snapshot of the directory.
func ListDoctors(c *fiber.Ctx) error {
	query := db.DB.Order("name asc")
	if specialty := c.Query("specialty"); specialty != "" {
		query = query.Where("specialty = ?", specialty)
	}
	if status := c.Query("status"); status != "" {
		if status != models.DoctorActive && status != models.DoctorInactive {
			return utils.Fail(c, models.ErrInvalidStatus)
		}
		query = query.Where("status = ?", status)
	}

	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		return utils.Fail(c, err)
	}

	resp := fiber.Map{
		"doctors":     doctors,
		"sync_failed": services.SyncFailed(),
	}
	if last := services.LastSyncedAt(); !last.IsZero() {
		resp["last_synced_at"] = last
	}
	return c.JSON(resp)
}
