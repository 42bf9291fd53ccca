package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/arogyam/health-portal/config"
	"github.com/arogyam/health-portal/models"
)

// EntitlementStore is the persistence contract the gate needs. The production
// implementation is GORM-backed; tests substitute a mock.
type EntitlementStore interface {
	GetUser(userID uint) (*models.User, error)
	// ConsumeTry atomically decrements the user's AI tries if any are left and
	// reports whether a try was consumed.
	ConsumeTry(userID uint) (bool, error)
	GetCoupon(code string) (*models.Coupon, error)
	// Redeem records the redemption and grants premium in one transaction.
	// Returns models.ErrCouponAlreadyRedeemed for a repeated (user, code) pair.
	Redeem(userID uint, code string) error
	// Revoke clears premium and claws back the bonus quota, floored at zero.
	Revoke(userID uint, clawback int) error
}

// Notifier emits a best-effort notification to a user.
type Notifier func(userID uint, notifType, message string)

// EntitlementGate answers who may run inference and who holds premium status.
// Booking authorization is session validity and is enforced in middleware;
// booking never consumes quota.
type EntitlementGate struct {
	store  EntitlementStore
	notify Notifier
	now    func() time.Time
}

func NewEntitlementGate(store EntitlementStore, notify Notifier) *EntitlementGate {
	return &EntitlementGate{store: store, notify: notify, now: time.Now}
}

// CheckInferenceQuota authorizes one inference run. Premium users are always
// authorized and never decremented; everyone else spends one try atomically,
// so N concurrent calls against K remaining tries admit exactly K.
func (g *EntitlementGate) CheckInferenceQuota(userID uint) error {
	user, err := g.store.GetUser(userID)
	if err != nil {
		return err
	}
	if user.PremiumStatus {
		return nil
	}
	consumed, err := g.store.ConsumeTry(userID)
	if err != nil {
		return err
	}
	if !consumed {
		return models.ErrQuotaExhausted
	}
	return nil
}

// RedeemCoupon applies a coupon code to the user's account. Validation order:
// unknown code, expired code, already redeemed. On success the account holds
// premium status and the code can never be redeemed again by this user.
func (g *EntitlementGate) RedeemCoupon(userID uint, code string) error {
	coupon, err := g.store.GetCoupon(code)
	if err != nil {
		return err
	}
	if coupon.Expired(g.now()) {
		return models.ErrCouponExpired
	}
	if err := g.store.Redeem(userID, code); err != nil {
		return err
	}
	g.notify(userID, models.NotificationSuccess, "Coupon "+code+" redeemed. Your account is now premium.")
	return nil
}

// RevokePremium removes premium status and claws back the premium bonus
// quota. The decrement floors at zero, it never drives tries negative.
func (g *EntitlementGate) RevokePremium(userID uint) error {
	if err := g.store.Revoke(userID, config.PremiumBonusTries()); err != nil {
		return err
	}
	g.notify(userID, models.NotificationWarning, "Your premium status has been revoked.")
	return nil
}

// GormEntitlementStore backs the gate with Postgres. All mutual exclusion is
// transactional so multiple service instances stay correct.
type GormEntitlementStore struct {
	DB *gorm.DB
}

func NewGormEntitlementStore(db *gorm.DB) *GormEntitlementStore {
	return &GormEntitlementStore{DB: db}
}

var _ EntitlementStore = (*GormEntitlementStore)(nil)

func (s *GormEntitlementStore) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormEntitlementStore) ConsumeTry(userID uint) (bool, error) {
	// Conditional decrement: a stale read can never oversell the quota
	res := s.DB.Exec(`UPDATE users SET ai_tries = ai_tries - 1 WHERE id = ? AND ai_tries > 0`, userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormEntitlementStore) GetCoupon(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.DB.Where("code = ?", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (s *GormEntitlementStore) Redeem(userID uint, code string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the user row so concurrent retries serialize here
		var user models.User
		if err := tx.Raw(`SELECT * FROM users WHERE id = ? FOR UPDATE`, userID).Scan(&user).Error; err != nil {
			return err
		}
		if user.ID == 0 {
			return gorm.ErrRecordNotFound
		}

		var count int64
		if err := tx.Model(&models.CouponRedemption{}).
			Where("user_id = ? AND coupon_code = ?", userID, code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrCouponAlreadyRedeemed
		}

		if err := tx.Create(&models.CouponRedemption{UserID: userID, CouponCode: code}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("premium_status", true).Error
	})
}

func (s *GormEntitlementStore) Revoke(userID uint, clawback int) error {
	return s.DB.Exec(
		`UPDATE users SET premium_status = false, ai_tries = GREATEST(ai_tries - ?, 0) WHERE id = ?`,
		clawback, userID,
	).Error
}
