package handler

import (
	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type LoanHandler struct {
	service service.LoanService
}

func NewLoanHandler(s service.LoanService) *LoanHandler {
	return &LoanHandler{service: s}
}

type loanRequest struct {
	Header      model.LoanHeader `json:"header"`
	Items       []model.LoanItem `json:"items"`
	AdjustStock *bool            `json:"adjust_stock"`
}

func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	var req loanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateLoan(&req.Header, req.Items, req.AdjustStock); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Loan recorded", "id": req.Header.ID})
}

func (h *LoanHandler) UpdateLoan(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	var req loanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.Header.ID = id

	if err := h.service.UpdateLoan(&req.Header, req.Items); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Loan updated"})
}

func (h *LoanHandler) DeleteLoan(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	if err := h.service.DeleteLoan(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Loan deleted"})
}

func (h *LoanHandler) GetLoanHistory(c *fiber.Ctx) error {
	headers, err := h.service.GetLoanHistory()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(headers)
}

func (h *LoanHandler) GetLoanItems(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	items, err := h.service.GetLoanItems(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *LoanHandler) GetTransactionDetails(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid loan ID"})
	}

	details, err := h.service.GetTransactionDetails(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(details)
}

func (h *LoanHandler) GetLoanSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetLoanSummary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
