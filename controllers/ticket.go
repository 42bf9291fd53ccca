package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/utils"
)

// OpenTicket creates a support ticket for the logged-in user.
func OpenTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	ticket := new(models.Ticket)
	if err := c.BodyParser(ticket); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_TICKET",
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if ticket.Subject == "" || ticket.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_TICKET",
			Message: "Subject and description are required",
		})
	}

	ticket.ReportedBy = userID
	ticket.Status = models.TicketOpen
	ticket.Response = nil

	if err := db.DB.Create(ticket).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// ListMyTickets returns the caller's tickets, newest first.
func ListMyTickets(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var tickets []models.Ticket
	if err := db.DB.Where("reported_by = ?", userID).
		Order("created_at desc").
		Find(&tickets).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.JSON(tickets)
}

// ListTickets returns all tickets for administrative staff, optionally
// filtered by status.
func ListTickets(c *fiber.Ctx) error {
	query := db.DB.Preload("Reporter").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		normalized, ok := models.NormalizeTicketStatus(status)
		if !ok {
			return utils.Fail(c, models.ErrInvalidStatus)
		}
		query = query.Where("status = ?", normalized)
	}

	var tickets []models.Ticket
	if err := query.Find(&tickets).Error; err != nil {
		return utils.Fail(c, err)
	}
	for i := range tickets {
		tickets[i].Reporter.Password = ""
	}
	return c.JSON(tickets)
}

// RespondTicket attaches an admin response and closes the ticket. A closed
// ticket is terminal; responding again is rejected.
func RespondTicket(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_TICKET",
			Message: "Invalid ticket ID",
		})
	}

	type RespondInput struct {
		Response string `json:"response"`
	}
	input := new(RespondInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_TICKET",
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.Response == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "INVALID_TICKET",
			Message: "A non-empty response is required to close a ticket",
		})
	}

	var responded models.Ticket
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var ticket models.Ticket
		if err := tx.Raw(`
			SELECT * FROM tickets
			WHERE id = ? AND deleted_at IS NULL
			FOR UPDATE
		`, id).Scan(&ticket).Error; err != nil {
			return err
		}
		if ticket.ID == 0 {
			return gorm.ErrRecordNotFound
		}
		if ticket.Status == models.TicketClosed {
			return models.ErrIllegalTransition
		}

		if err := tx.Model(&ticket).Updates(map[string]interface{}{
			"status":   models.TicketClosed,
			"response": input.Response,
		}).Error; err != nil {
			return err
		}
		ticket.Status = models.TicketClosed
		ticket.Response = &input.Response
		responded = ticket
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Ticket not found",
		})
	}
	if err != nil {
		return utils.Fail(c, err)
	}

	utils.Notify(responded.ReportedBy, models.NotificationInfo,
		"Your support ticket \""+responded.Subject+"\" has been answered and closed.")

	return c.JSON(responded)
}
