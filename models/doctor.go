package models

import (
	"strings"
	"time"
)

const (
	DoctorActive   = "active"
	DoctorInactive = "inactive"
)

// NormalizeDoctorStatus maps a directory feed label onto the local vocabulary.
// Anything other than active is treated as inactive, so an unknown upstream
// label never surfaces a doctor as available.
func NormalizeDoctorStatus(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), DoctorActive) {
		return DoctorActive
	}
	return DoctorInactive
}

// Doctor rows are created and updated only by the directory sync; end users
// never write them.
type Doctor struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ExternalID    string    `json:"external_id" gorm:"uniqueIndex;not null"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
	Specialty     string    `json:"specialty"`
	Status        string    `json:"status"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
