package handler

import (
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SalesHandler struct {
	service service.SalesService
}

func NewSalesHandler(s service.SalesService) *SalesHandler {
	return &SalesHandler{service: s}
}

type saleRequest struct {
	Header model.SalesHeader `json:"header"`
	Items  []model.SalesItem `json:"items"`
}

func (h *SalesHandler) UpdateSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	var req saleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.Header.ID = id

	if err := h.service.UpdateSale(&req.Header, req.Items); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale updated"})
}

func (h *SalesHandler) DeleteSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	if err := h.service.DeleteSale(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale deleted"})
}

func (h *SalesHandler) GetSalesHistory(c *fiber.Ctx) error {
	headers, err := h.service.GetSalesHistory()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(headers)
}

func (h *SalesHandler) GetSalesItems(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	items, err := h.service.GetSalesItems(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
