package handler

import (
	"errors"

	"go-kasir-pos/internal/model"
	"go-kasir-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.CheckoutService
}

func NewTransactionHandler(s service.CheckoutService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

// CheckoutRequest is the request body for committing a cart.
type CheckoutRequest struct {
	Items []CheckoutItem `json:"items"`

	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes"`
}

type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Checkout commits a cart as one atomic sale.
// POST /api/v1/transactions
func (h *TransactionHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	lines := make([]service.CartLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = service.CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	result, err := h.service.Commit(lines, service.PaymentInfo{
		Method: req.PaymentMethod,
		Notes:  req.Notes,
	}, getUserID(c), getUserName(c))
	if err != nil {
		return c.Status(checkoutStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction completed", "data": result})
}

// checkoutStatus maps commit errors onto HTTP statuses so the client can
// distinguish "insufficient stock" from "try again".
func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrDuplicateCartLine),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.GetAllTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	trx, err := h.service.GetTransaction(txID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}

	details, err := h.service.GetDetails(txID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch transaction details"})
	}
	trx.Details = details

	return c.JSON(trx)
}

// GetTransactionDetails returns only the line items, in insertion order.
// GET /api/v1/transactions/:id/details
func (h *TransactionHandler) GetTransactionDetails(c *fiber.Ctx) error {
	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	details, err := h.service.GetDetails(txID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch transaction details"})
	}
	return c.JSON(details)
}
