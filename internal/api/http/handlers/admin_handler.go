package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lkn-labs/supportbot/internal/auth"
	"github.com/lkn-labs/supportbot/internal/config"
	"github.com/lkn-labs/supportbot/internal/domain"
	"github.com/lkn-labs/supportbot/internal/service"
	apperrors "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// AdminHandler exposes the privileged operator surface over HTTP.
type AdminHandler struct {
	operator *service.OperatorService
	tokens   *auth.TokenManager
	authCfg  config.AuthConfig
	dialog   config.DialogConfig
}

// NewAdminHandler constructs handler.
func NewAdminHandler(operator *service.OperatorService, tokens *auth.TokenManager, authCfg config.AuthConfig, dialog config.DialogConfig) *AdminHandler {
	return &AdminHandler{operator: operator, tokens: tokens, authCfg: authCfg, dialog: dialog}
}

type loginRequest struct {
	ManagerID  int64  `json:"manager_id"`
	Passphrase string `json:"passphrase"`
}

// Login POST /v1/admin/login issues a manager token.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !h.dialog.IsManager(req.ManagerID) {
		return apperrors.NewForbidden("caller is not a manager")
	}
	if h.authCfg.ManagerPassphraseHash == "" {
		return apperrors.NewUnauthorized("manager login not configured")
	}
	if err := auth.ComparePassphrase(h.authCfg.ManagerPassphraseHash, req.Passphrase); err != nil {
		return apperrors.NewUnauthorized("invalid passphrase")
	}

	token, expiresAt, err := h.tokens.GenerateToken(req.ManagerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	}})
}

// ListTickets GET /v1/admin/tickets.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	managerID, ok := auth.ManagerIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	tickets, err := h.operator.ListRecentTickets(c.UserContext(), managerID, limit)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /v1/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	managerID, ok := auth.ManagerIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	stats, err := h.operator.Stats(c.UserContext(), managerID)
	if err != nil {
		return err
	}
	top := make([]fiber.Map, 0, len(stats.TopFeedback))
	for _, entry := range stats.TopFeedback {
		top = append(top, fiber.Map{
			"description": entry.Description,
			"count":       entry.Count,
		})
	}
	payload := fiber.Map{
		"total_tickets": stats.TotalTickets,
		"rating_count":  stats.RatingCount,
		"top_feedback":  top,
	}
	if stats.HasRatings {
		payload["average_rating"] = stats.AverageRating
	}
	return c.JSON(fiber.Map{"data": payload})
}

type answerRequest struct {
	Text string `json:"text"`
}

// AnswerTicket POST /v1/admin/tickets/:code/answer.
func (h *AdminHandler) AnswerTicket(c *fiber.Ctx) error {
	managerID, ok := auth.ManagerIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	var req answerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.operator.AnswerTicket(c.UserContext(), managerID, c.Params("code"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListIdeas GET /v1/admin/ideas.
func (h *AdminHandler) ListIdeas(c *fiber.Ctx) error {
	managerID, ok := auth.ManagerIDFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	ideas, err := h.operator.ListRecentIdeas(c.UserContext(), managerID, limit)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(ideas))
	for _, idea := range ideas {
		items = append(items, fiber.Map{
			"id":         idea.ID,
			"user_id":    idea.UserID,
			"text":       idea.Text,
			"created_at": idea.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func ticketSummary(ticket *domain.Ticket) fiber.Map {
	return fiber.Map{
		"code":       ticket.Code,
		"user_id":    ticket.UserID,
		"problem":    ticket.Problem,
		"status":     ticket.Status,
		"created_at": ticket.CreatedAt.Format(time.RFC3339),
	}
}
