package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arogyam/health-portal/controllers"
	"github.com/arogyam/health-portal/middleware"
)

// SetupTicketRoutes configures the support ticket surface.
func SetupTicketRoutes(app *fiber.App) {
	tickets := app.Group("/tickets", middleware.Protected())
	tickets.Post("/", controllers.OpenTicket)
	tickets.Get("/", controllers.ListMyTickets)
}
