package handler

import (
	"go-stock-ledger/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// respondError formats any service error as a single user-facing message with
// the taxonomy-driven status code.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
