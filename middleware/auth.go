package middleware

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/arogyam/health-portal/config"
	"github.com/arogyam/health-portal/models"
	"github.com/arogyam/health-portal/utils"
)

// unauthenticated rejects the request with the session error code and a
// short detail for the caller's logs.
func unauthenticated(c *fiber.Ctx, detail string) error {
	return c.Status(models.ErrUnauthenticated.Status).JSON(utils.ErrorResponse{
		Code:    models.ErrUnauthenticated.Code,
		Message: models.ErrUnauthenticated.Message,
		Error:   detail,
	})
}

// Protected validates the bearer token and sets userID and role locals.
// Handlers read identity from these locals only, never from shared state.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.JWTSecret()),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			userToken := c.Locals("user")
			if userToken == nil {
				return unauthenticated(c, "no authentication token")
			}

			token, ok := userToken.(*jwt.Token)
			if !ok {
				return unauthenticated(c, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthenticated(c, "invalid token claims")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return unauthenticated(c, "invalid user ID in token")
			}

			role, err := extractRole(claims)
			if err != nil {
				return unauthenticated(c, "invalid role in token")
			}

			c.Locals("userID", userID)
			c.Locals("role", role)

			return c.Next()
		},
	})
}

// extractUserID handles multiple potential formats of user ID in token
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	case uint:
		return v, nil
	case int:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

// extractRole handles multiple potential formats of role in token
func extractRole(claims jwt.MapClaims) (string, error) {
	roleVal := claims["role"]
	if roleVal == nil {
		return "", fmt.Errorf("no role found in claims")
	}

	switch v := roleVal.(type) {
	case string:
		return v, nil
	case map[string]interface{}:
		if roleName, ok := v["name"].(string); ok {
			return roleName, nil
		}
		return "", fmt.Errorf("could not extract role name")
	default:
		return "", fmt.Errorf("unsupported role type: %T", v)
	}
}

// jwtError handles JWT errors
func jwtError(c *fiber.Ctx, err error) error {
	return unauthenticated(c, "invalid or expired token")
}
