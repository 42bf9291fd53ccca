package services

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arogyam/health-portal/models"
)

// Compile-time check to ensure MockEntitlementStore implements EntitlementStore
var _ EntitlementStore = (*MockEntitlementStore)(nil)

// MockEntitlementStore is a mock implementation of EntitlementStore.
type MockEntitlementStore struct {
	GetUserFunc    func(userID uint) (*models.User, error)
	ConsumeTryFunc func(userID uint) (bool, error)
	GetCouponFunc  func(code string) (*models.Coupon, error)
	RedeemFunc     func(userID uint, code string) error
	RevokeFunc     func(userID uint, clawback int) error

	ConsumeTryCallCount int32
	RedeemCallCount     int32
}

func (m *MockEntitlementStore) GetUser(userID uint) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(userID)
	}
	return nil, errors.New("GetUserFunc not implemented in mock")
}

func (m *MockEntitlementStore) ConsumeTry(userID uint) (bool, error) {
	atomic.AddInt32(&m.ConsumeTryCallCount, 1)
	if m.ConsumeTryFunc != nil {
		return m.ConsumeTryFunc(userID)
	}
	return false, errors.New("ConsumeTryFunc not implemented in mock")
}

func (m *MockEntitlementStore) GetCoupon(code string) (*models.Coupon, error) {
	if m.GetCouponFunc != nil {
		return m.GetCouponFunc(code)
	}
	return nil, errors.New("GetCouponFunc not implemented in mock")
}

func (m *MockEntitlementStore) Redeem(userID uint, code string) error {
	atomic.AddInt32(&m.RedeemCallCount, 1)
	if m.RedeemFunc != nil {
		return m.RedeemFunc(userID, code)
	}
	return errors.New("RedeemFunc not implemented in mock")
}

func (m *MockEntitlementStore) Revoke(userID uint, clawback int) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(userID, clawback)
	}
	return errors.New("RevokeFunc not implemented in mock")
}

type recordedNotification struct {
	userID  uint
	typ     string
	message string
}

func collectNotifications(sink *[]recordedNotification) Notifier {
	return func(userID uint, notifType, message string) {
		*sink = append(*sink, recordedNotification{userID, notifType, message})
	}
}

func TestCheckInferenceQuotaPremiumBypassesQuota(t *testing.T) {
	store := &MockEntitlementStore{
		GetUserFunc: func(userID uint) (*models.User, error) {
			return &models.User{ID: userID, PremiumStatus: true, AITries: 0}, nil
		},
	}
	gate := NewEntitlementGate(store, func(uint, string, string) {})

	err := gate.CheckInferenceQuota(7)
	assert.NoError(t, err)
	// Premium never touches the counter
	assert.EqualValues(t, 0, store.ConsumeTryCallCount)
}

func TestCheckInferenceQuotaExhausted(t *testing.T) {
	store := &MockEntitlementStore{
		GetUserFunc: func(userID uint) (*models.User, error) {
			return &models.User{ID: userID, PremiumStatus: false, AITries: 0}, nil
		},
		ConsumeTryFunc: func(userID uint) (bool, error) {
			return false, nil
		},
	}
	gate := NewEntitlementGate(store, func(uint, string, string) {})

	err := gate.CheckInferenceQuota(7)
	assert.ErrorIs(t, err, models.ErrQuotaExhausted)
}

func TestCheckInferenceQuotaConsumesOneTry(t *testing.T) {
	remaining := int32(2)
	store := &MockEntitlementStore{
		GetUserFunc: func(userID uint) (*models.User, error) {
			return &models.User{ID: userID, PremiumStatus: false}, nil
		},
		ConsumeTryFunc: func(userID uint) (bool, error) {
			// Mirror the conditional decrement the SQL performs
			for {
				cur := atomic.LoadInt32(&remaining)
				if cur <= 0 {
					return false, nil
				}
				if atomic.CompareAndSwapInt32(&remaining, cur, cur-1) {
					return true, nil
				}
			}
		},
	}
	gate := NewEntitlementGate(store, func(uint, string, string) {})

	assert.NoError(t, gate.CheckInferenceQuota(7))
	assert.NoError(t, gate.CheckInferenceQuota(7))
	assert.ErrorIs(t, gate.CheckInferenceQuota(7), models.ErrQuotaExhausted)
	assert.EqualValues(t, 0, remaining)
}

func TestRedeemCouponUnknownCode(t *testing.T) {
	store := &MockEntitlementStore{
		GetCouponFunc: func(code string) (*models.Coupon, error) {
			return nil, models.ErrCouponNotFound
		},
	}
	gate := NewEntitlementGate(store, func(uint, string, string) {})

	err := gate.RedeemCoupon(1, "NOPE")
	assert.ErrorIs(t, err, models.ErrCouponNotFound)
	assert.EqualValues(t, 0, store.RedeemCallCount)
}

func TestRedeemCouponExpired(t *testing.T) {
	store := &MockEntitlementStore{
		GetCouponFunc: func(code string) (*models.Coupon, error) {
			return &models.Coupon{
				Code:       code,
				ValidUntil: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	gate := NewEntitlementGate(store, func(uint, string, string) {})
	gate.now = func() time.Time {
		return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	}

	err := gate.RedeemCoupon(1, "SUMMER25")
	assert.ErrorIs(t, err, models.ErrCouponExpired)
	assert.EqualValues(t, 0, store.RedeemCallCount)
}

func TestRedeemCouponIdempotentPerUser(t *testing.T) {
	redeemed := map[string]bool{}
	store := &MockEntitlementStore{
		GetCouponFunc: func(code string) (*models.Coupon, error) {
			return &models.Coupon{
				Code:       code,
				ValidUntil: time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
		RedeemFunc: func(userID uint, code string) error {
			if redeemed[code] {
				return models.ErrCouponAlreadyRedeemed
			}
			redeemed[code] = true
			return nil
		},
	}
	var notifications []recordedNotification
	gate := NewEntitlementGate(store, collectNotifications(&notifications))

	assert.NoError(t, gate.RedeemCoupon(1, "WELCOME"))
	assert.ErrorIs(t, gate.RedeemCoupon(1, "WELCOME"), models.ErrCouponAlreadyRedeemed)

	// Exactly one success, exactly one success notification
	assert.True(t, redeemed["WELCOME"])
	assert.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationSuccess, notifications[0].typ)
}

func TestRevokePremiumPassesClawbackAndNotifies(t *testing.T) {
	var gotClawback int
	store := &MockEntitlementStore{
		RevokeFunc: func(userID uint, clawback int) error {
			gotClawback = clawback
			return nil
		},
	}
	var notifications []recordedNotification
	gate := NewEntitlementGate(store, collectNotifications(&notifications))

	assert.NoError(t, gate.RevokePremium(9))
	assert.Equal(t, 5, gotClawback) // default bonus grant
	assert.Len(t, notifications, 1)
	assert.EqualValues(t, 9, notifications[0].userID)
}
