package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"EstateHub/internal/services"
)

var validate = validator.New()

// serviceError maps service sentinels onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, services.ErrMissingReference),
		errors.Is(err, services.ErrMissingUser):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrPaymentNotFound):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// idParam parses a positive numeric route parameter.
func idParam(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// optionalID parses an optional positive numeric query parameter.
func optionalID(c *fiber.Ctx, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil, false
	}
	id := uint(n)
	return &id, true
}
