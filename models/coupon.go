package models

import (
	"time"

	"gorm.io/gorm"
)

type Coupon struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Code        string         `json:"coupon_code" gorm:"uniqueIndex;not null"`
	Description string         `json:"description"`
	ValidUntil  time.Time      `json:"valid_until"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Expired reports whether the coupon can no longer be redeemed. Codes stay
// usable through the whole of their validity date.
func (c *Coupon) Expired(now time.Time) bool {
	return now.After(c.ValidUntil)
}

// CouponRedemption records one user consuming one code. The unique index is
// what makes redemption idempotent per (user, code) under concurrent retries.
type CouponRedemption struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_user_coupon"`
	CouponCode string    `json:"coupon_code" gorm:"uniqueIndex:idx_user_coupon"`
	CreatedAt  time.Time `json:"created_at"`
}
