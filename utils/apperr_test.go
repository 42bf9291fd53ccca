package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/arogyam/health-portal/models"
)

func failWith(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Fail(c, err)
	})

	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, reqErr)
	defer resp.Body.Close()

	var body ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestFailMapsDomainErrors(t *testing.T) {
	cases := []struct {
		err    *models.AppError
		status int
	}{
		{models.ErrInvalidStatus, http.StatusBadRequest},
		{models.ErrInvalidSchedule, http.StatusBadRequest},
		{models.ErrSlotConflict, http.StatusConflict},
		{models.ErrIllegalTransition, http.StatusConflict},
		{models.ErrQuotaExhausted, http.StatusTooManyRequests},
		{models.ErrSyncUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		status, body := failWith(t, tc.err)
		assert.Equal(t, tc.status, status, tc.err.Code)
		assert.Equal(t, tc.err.Code, body.Code)
		assert.Equal(t, tc.err.Message, body.Message)
	}
}

func TestFailTreatsUnknownErrorsAsInternal(t *testing.T) {
	status, body := failWith(t, errors.New("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.Equal(t, "connection refused", body.Error)
}
