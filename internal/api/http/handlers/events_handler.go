package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lkn-labs/supportbot/internal/dialog"
	apperrors "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// EventsHandler is the inbound surface for the presentation/transport
// collaborator: one endpoint in, one intent out.
type EventsHandler struct {
	engine *dialog.Engine
}

// NewEventsHandler constructs handler.
func NewEventsHandler(engine *dialog.Engine) *EventsHandler {
	return &EventsHandler{engine: engine}
}

type inboundEventRequest struct {
	UserID    int64  `json:"user_id"`
	Kind      string `json:"kind"`
	Selection string `json:"selection"`
	Value     string `json:"value"`
	Text      string `json:"text"`
	Score     int    `json:"score"`
}

// HandleEvent POST /v1/events.
func (h *EventsHandler) HandleEvent(c *fiber.Ctx) error {
	var req inboundEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == 0 {
		return apperrors.NewValidationError("user_id required", nil)
	}

	var event dialog.Event
	switch dialog.EventKind(req.Kind) {
	case dialog.EventMenuSelection:
		event = dialog.Event{Kind: dialog.EventMenuSelection, Selection: req.Selection, Value: req.Value}
	case dialog.EventTextMessage:
		event = dialog.Event{Kind: dialog.EventTextMessage, Text: req.Text}
	case dialog.EventRatingSelection:
		event = dialog.Event{Kind: dialog.EventRatingSelection, Score: req.Score}
	default:
		return apperrors.NewValidationError("unknown event kind", map[string]any{"kind": req.Kind})
	}

	intent, err := h.engine.HandleEvent(c.UserContext(), req.UserID, event)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": intent})
}
