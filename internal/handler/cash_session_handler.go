package handler

import (
	"errors"

	"go-kasir-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CashSessionHandler struct {
	service service.CashSessionService
}

func NewCashSessionHandler(s service.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{service: s}
}

func currentUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(getUserID(c))
}

type OpenSessionRequest struct {
	OpeningCash int64  `json:"opening_cash"`
	Note        string `json:"note"`
}

type CloseSessionRequest struct {
	ClosingCash int64 `json:"closing_cash"`
}

// Open starts a cash session for the authenticated cashier
// POST /api/v1/cash-sessions/open
func (h *CashSessionHandler) Open(c *fiber.Ctx) error {
	userID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.service.Open(userID, req.OpeningCash, req.Note)
	if err != nil {
		status := 400
		if errors.Is(err, service.ErrSessionAlreadyOpen) {
			status = 409
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Cash session opened", "data": session})
}

// Close reconciles and closes the open cash session
// POST /api/v1/cash-sessions/close
func (h *CashSessionHandler) Close(c *fiber.Ctx) error {
	userID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req CloseSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.service.Close(userID, req.ClosingCash)
	if err != nil {
		status := 400
		if errors.Is(err, service.ErrNoOpenSession) {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Cash session closed", "data": session})
}

// Current returns the open session for the authenticated cashier
// GET /api/v1/cash-sessions/current
func (h *CashSessionHandler) Current(c *fiber.Ctx) error {
	userID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	session, err := h.service.Current(userID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(session)
}

// History returns the authenticated cashier's past sessions
// GET /api/v1/cash-sessions
func (h *CashSessionHandler) History(c *fiber.Ctx) error {
	userID, err := currentUserUUID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	sessions, err := h.service.History(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch cash sessions"})
	}
	return c.JSON(sessions)
}
