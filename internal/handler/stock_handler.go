package handler

import (
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

type stockBatchRequest struct {
	Changes    []model.StockChange `json:"changes"`
	MarkAsSale bool                `json:"mark_as_sale"`
}

type editStockRequest struct {
	Name     string `json:"name"`
	Expiry   string `json:"expiry_date"`
	Quantity int64  `json:"quantity"`
}

func (h *StockHandler) AddStock(c *fiber.Ctx) error {
	var req stockBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.AddStock(req.Changes); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock added"})
}

func (h *StockHandler) RemoveStock(c *fiber.Ctx) error {
	var req stockBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.RemoveStock(req.Changes, req.MarkAsSale); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock removed"})
}

func (h *StockHandler) EditStock(c *fiber.Ctx) error {
	var req editStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.EditStock(req.Name, req.Expiry, req.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock updated"})
}

func (h *StockHandler) GetStockLots(c *fiber.Ctx) error {
	lots, err := h.service.GetStockLots(c.Params("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lots)
}

func (h *StockHandler) GetInStockProducts(c *fiber.Ctx) error {
	names, err := h.service.GetInStockProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(names)
}

func (h *StockHandler) GetStockOverview(c *fiber.Ctx) error {
	overview, err := h.service.GetStockOverview()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}

func (h *StockHandler) GetStockHistogram(c *fiber.Ctx) error {
	buckets, err := h.service.GetStockHistogram(c.Params("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(buckets)
}
