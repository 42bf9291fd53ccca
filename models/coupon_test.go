package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponExpired(t *testing.T) {
	validUntil := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	coupon := Coupon{Code: "SUMMER25", ValidUntil: validUntil}

	// Usable right up to and including the deadline
	assert.False(t, coupon.Expired(validUntil.Add(-24*time.Hour)))
	assert.False(t, coupon.Expired(validUntil))

	// One tick past the deadline it is gone
	assert.True(t, coupon.Expired(validUntil.Add(time.Second)))
	assert.True(t, coupon.Expired(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
}
