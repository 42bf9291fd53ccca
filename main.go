package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/arogyam/health-portal/config"
	"github.com/arogyam/health-portal/cron"
	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/redis"
	"github.com/arogyam/health-portal/routes"
)

func main() {
	config.Load()

	app := fiber.New()
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		db.Migrate()
	} else {
		db.Init()
		db.SeedRoles()
	}
	redis.InitRedis()
	cron.StartCronJobs()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Health Portal API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupUserRoutes(app)
	routes.SetupAdminRoutes(app)
	routes.SetupTicketRoutes(app)
	routes.SetupDoctorRoutes(app)

	log.Fatal(app.Listen(":8000"))
}
