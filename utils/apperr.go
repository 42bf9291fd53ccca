package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/arogyam/health-portal/models"
)

// ErrorResponse is the shape of every rejected request: a stable code plus a
// human-readable reason.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Fail writes a typed domain failure to the response. Anything that is not an
// AppError is treated as an infrastructure failure.
func Fail(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Code:    "INTERNAL",
		Message: "Something went wrong",
		Error:   err.Error(),
	})
}
