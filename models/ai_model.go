package models

import (
	"time"

	"gorm.io/gorm"
)

// AIModel is an admin-managed entry in the inference model registry. The
// weights live in blob storage; only the reference is kept here.
type AIModel struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ModelName   string         `json:"model_name" gorm:"unique;not null"`
	Description string         `json:"description"`
	FileRef     string         `json:"file_ref"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
