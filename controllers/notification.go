package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/utils"
)

// ListNotifications returns the user's notifications, most recent first,
// together with the unread count.
func ListNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

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

	var unread int64
	db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&unread)

	var notifications []models.Notification
	if err := db.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread":        unread,
		"page":          page,
		"limit":         limit,
	})
}

// MarkNotificationRead flips IsRead on a notification owned by the caller.
func MarkNotificationRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "Invalid notification ID",
		})
	}

	var notification models.Notification
	if err := db.DB.First(&notification, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Code:    "NOT_FOUND",
				Message: "Notification not found",
			})
		}
		return utils.Fail(c, err)
	}
	if notification.UserID != userID {
		return utils.Fail(c, models.ErrForbidden)
	}

	if err := db.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		return utils.Fail(c, err)
	}
	notification.IsRead = true
	return c.JSON(notification)
}
