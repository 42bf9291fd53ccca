package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arogyam/health-portal/controllers"
	"github.com/arogyam/health-portal/middleware"
)

// SetupUserRoutes configures the patient-facing surface.
func SetupUserRoutes(app *fiber.App) {
	users := app.Group("/users", middleware.Protected())

	users.Get("/me", controllers.GetUserProfile)
	users.Patch("/me", controllers.UpdateProfile)
	users.Patch("/me/password", controllers.ChangePassword)

	users.Get("/appointments", controllers.ListMyAppointments)
	users.Post("/appointments", controllers.BookAppointment)
	users.Patch("/appointments/:id", controllers.RescheduleAppointment)
	users.Post("/appointments/:id/cancel", controllers.CancelAppointment)

	users.Post("/redeem", controllers.RedeemCoupon)

	users.Get("/notifications", controllers.ListNotifications)
	users.Patch("/notifications/:id/read", controllers.MarkNotificationRead)

	users.Get("/ai", controllers.ListAIModels)
	users.Post("/ai/infer", controllers.InferScan)
	users.Get("/history", controllers.ListMyHistory)
}
