package db

import (
	"fmt"
	"log"

	"github.com/arogyam/health-portal/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	// Run AutoMigrate only when explicitly called
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Appointment{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.Notification{},
		&models.Doctor{},
		&models.MedicalHistoryRecord{},
		&models.Ticket{},
		&models.AIModel{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	SeedRoles()

	fmt.Println("✅ Migrations applied successfully!")
}
