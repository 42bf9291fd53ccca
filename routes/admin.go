package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arogyam/health-portal/controllers"
	"github.com/arogyam/health-portal/middleware"
)

// SetupAdminRoutes configures the administrative surface.
func SetupAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.Protected(), middleware.RequireAdmin())

	admin.Get("/appointments", controllers.ListAppointments)
	admin.Patch("/appointments/:id", controllers.UpdateAppointmentStatus)
	admin.Post("/appointments/sweep-missed", controllers.SweepMissedAppointments)

	admin.Get("/users", controllers.ListUsers)
	admin.Post("/users/:id/revoke-premium", controllers.RevokePremium)

	admin.Get("/coupons", controllers.ListCoupons)
	admin.Post("/coupons", controllers.CreateCoupon)

	admin.Post("/sync-doctors", controllers.SyncDoctors)
	admin.Get("/list-doctors", controllers.ListDoctors)

	admin.Get("/history", controllers.ListHistory)
	admin.Get("/history/user/:id", controllers.ListHistoryByUser)

	admin.Get("/ai", controllers.ListAIModels)
	admin.Post("/ai/upload", controllers.UploadAIModel)
	admin.Patch("/ai/:id", controllers.UpdateAIModel)

	admin.Get("/tickets", controllers.ListTickets)
	admin.Patch("/tickets/:id/respond", controllers.RespondTicket)
}
