package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// cityRequest is the body of search and favorite requests. The city is validated by the
// controller.
type cityRequest struct {
	City string `json:"city"`
}

type credentialRequest struct {
	APIKey string `json:"api_key" validate:"required"`
}

type unitsRequest struct {
	Units string `json:"units" validate:"required,oneof=metric imperial"`
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type colorRequest struct {
	Theme   string `json:"theme" validate:"required,oneof=light dark"`
	Element string `json:"element" validate:"required,oneof=bg_color fg_color accent_color highlight_color"`
	Color   string `json:"color" validate:"required,hexcolor"`
}

// refreshRequest carries the interval as typed by the user so non-numeric input can be
// rejected with a validation message.
type refreshRequest struct {
	Enabled  bool   `json:"enabled"`
	Interval string `json:"interval"`
}

// bind parses the JSON body into v and validates it.
func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func contextWithTimeout(c *fiber.Ctx, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), d)
}
