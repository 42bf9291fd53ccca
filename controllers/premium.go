package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arogyam/health-portal/db"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/services"
	"github.com/arogyam/health-portal/utils"
)

func entitlementGate() *services.EntitlementGate {
	return services.NewEntitlementGate(
		services.NewGormEntitlementStore(db.DB),
		utils.Notify,
	)
}

// RedeemCoupon upgrades the logged-in user to premium with a coupon code.
func RedeemCoupon(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	type RedeemInput struct {
		CouponCode string `json:"coupon_code"`
	}
	input := new(RedeemInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "COUPON_NOT_FOUND",
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if input.CouponCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "COUPON_NOT_FOUND",
			Message: "Coupon code is required",
		})
	}

	if err := entitlementGate().RedeemCoupon(userID, input.CouponCode); err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":        "Coupon redeemed successfully",
		"premium_status": true,
	})
}

// RevokePremium removes premium from a user account and claws back the
// premium bonus quota.
func RevokePremium(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "Invalid user ID",
		})
	}

	var user models.User
	if db.DB.First(&user, id).RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "User not found",
		})
	}

	if err := entitlementGate().RevokePremium(uint(id)); err != nil {
		return utils.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Premium revoked",
	})
}

// CreateCoupon registers a new coupon code.
func CreateCoupon(c *fiber.Ctx) error {
	coupon := new(models.Coupon)
	if err := c.BodyParser(coupon); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "COUPON_NOT_FOUND",
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if coupon.Code == "" || coupon.ValidUntil.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Code:    "COUPON_NOT_FOUND",
			Message: "Coupon code and validity date are required",
		})
	}

	var existing models.Coupon
	if db.DB.Where("code = ?", coupon.Code).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Code:    "COUPON_EXISTS",
			Message: "Coupon code already exists",
		})
	}

	if err := db.DB.Create(coupon).Error; err != nil {
		return utils.Fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// ListCoupons returns all coupons with a derived expired flag.
func ListCoupons(c *fiber.Ctx) error {
	var coupons []models.Coupon
	if err := db.DB.Order("valid_until desc").Find(&coupons).Error; err != nil {
		return utils.Fail(c, err)
	}

	now := time.Now()
	out := make([]fiber.Map, 0, len(coupons))
	for _, coupon := range coupons {
		out = append(out, fiber.Map{
			"id":          coupon.ID,
			"coupon_code": coupon.Code,
			"description": coupon.Description,
			"valid_until": coupon.ValidUntil,
			"expired":     coupon.Expired(now),
		})
	}
	return c.JSON(out)
}

// ListUsers gives administrative staff the entitlement overview.
func ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := db.DB.Preload("Role").Order("created_at desc").Find(&users).Error; err != nil {
		return utils.Fail(c, err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(users)
}
