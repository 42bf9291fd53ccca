package models

import (
	"time"
)

type User struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Name          string        `json:"name"`
	Email         string        `json:"email" gorm:"unique"`
	Password      string        `json:"password,omitempty"`
	RoleID        uint          `json:"role_id"`
	Role          Role          `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	PremiumStatus bool          `json:"premium_status" gorm:"column:premium_status"`
	AITries       int           `json:"ai_tries" gorm:"column:ai_tries"`
	Appointments  []Appointment `json:"appointments,omitempty" gorm:"foreignKey:PatientID"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
