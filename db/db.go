package db

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/arogyam/health-portal/models"
)

var DB *gorm.DB

func GetDB() *gorm.DB {
	return DB
}

// Init establishes the DB connection without running migrations
func Init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	DB = db
	log.Println("✅ Database connection established successfully!")
}

// SeedRoles creates the two fixed roles if they do not exist yet.
func SeedRoles() {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Administrative staff with full access"},
		{Name: models.RolePatient, Description: "Patient who can book appointments"},
	}

	for _, role := range roles {
		var existingRole models.Role
		if DB.Where("name = ?", role.Name).First(&existingRole).RowsAffected == 0 {
			DB.Create(&role)
		}
	}
}
