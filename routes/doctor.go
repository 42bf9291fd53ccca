package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arogyam/health-portal/controllers"
)

// SetupDoctorRoutes configures the public doctor directory listing.
func SetupDoctorRoutes(app *fiber.App) {
	app.Get("/doctors", controllers.ListDoctors)
}
