package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lkn-labs/supportbot/internal/events"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// Sender delivers one message to one recipient. Implemented by the
// presentation/transport collaborator (chat API, webhook, ...).
type Sender interface {
	Send(ctx context.Context, recipientID int64, text string) error
}

// ManagerNotifier fans events out to the fixed manager recipient set. Every
// delivery is best effort: individual failures are logged and swallowed, and
// the triggering operation never observes them.
type ManagerNotifier struct {
	sender     Sender
	managerIDs []int64
	logger     *zap.Logger
}

// NewManagerNotifier creates the notifier over an immutable recipient set.
func NewManagerNotifier(sender Sender, managerIDs []int64, logger *zap.Logger) *ManagerNotifier {
	ids := make([]int64, len(managerIDs))
	copy(ids, managerIDs)
	return &ManagerNotifier{sender: sender, managerIDs: ids, logger: logger}
}

// Notify attempts delivery to each manager. A failed recipient never aborts
// delivery to the rest.
func (n *ManagerNotifier) Notify(ctx context.Context, text string) {
	if n.sender == nil {
		return
	}
	for _, id := range n.managerIDs {
		if err := n.sender.Send(ctx, id, text); err != nil {
			deliveryErr := util.NewDeliveryError(fmt.Sprintf("manager %d", id), err)
			n.logger.Error("manager notification failed",
				zap.Int64("manager_id", id),
				zap.Error(deliveryErr))
		}
	}
}

// NotifyUser sends one message to a user, best effort.
func (n *ManagerNotifier) NotifyUser(ctx context.Context, userID int64, text string) {
	if n.sender == nil {
		return
	}
	if err := n.sender.Send(ctx, userID, text); err != nil {
		deliveryErr := util.NewDeliveryError(fmt.Sprintf("user %d", userID), err)
		n.logger.Error("user dispatch failed",
			zap.Int64("user_id", userID),
			zap.Error(deliveryErr))
	}
}

// RegisterHandlers subscribes the notifier to dispatcher events.
func (n *ManagerNotifier) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
}

func (n *ManagerNotifier) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	text := fmt.Sprintf("New ticket #%s from user %d:\n%s", payload.Code, event.UserID, payload.Problem)
	n.Notify(ctx, text)
	return nil
}

// LogSender is a Sender that only logs, used when no transport is wired.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(ctx context.Context, recipientID int64, text string) error {
	s.Logger.Info("outbound message",
		zap.Int64("recipient_id", recipientID),
		zap.String("text", text))
	return nil
}
