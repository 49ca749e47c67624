package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lkn-labs/supportbot/internal/events"
)

type recordingSender struct {
	mu      sync.Mutex
	sent    []int64
	failFor map[int64]bool
}

func (s *recordingSender) Send(ctx context.Context, recipientID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, recipientID)
	if s.failFor[recipientID] {
		return errors.New("unreachable")
	}
	return nil
}

func TestNotifyAttemptsAllRecipients(t *testing.T) {
	sender := &recordingSender{failFor: map[int64]bool{1: true, 2: true}}
	notifier := NewManagerNotifier(sender, []int64{1, 2, 3}, zap.NewNop())

	notifier.Notify(context.Background(), "new ticket")

	assert.Equal(t, []int64{1, 2, 3}, sender.sent)
}

func TestNotifyWithoutSenderIsNoop(t *testing.T) {
	notifier := NewManagerNotifier(nil, []int64{1}, zap.NewNop())
	notifier.Notify(context.Background(), "text")
	notifier.NotifyUser(context.Background(), 1, "text")
}

func TestNotifyUserSwallowsFailure(t *testing.T) {
	sender := &recordingSender{failFor: map[int64]bool{5: true}}
	notifier := NewManagerNotifier(sender, nil, zap.NewNop())

	notifier.NotifyUser(context.Background(), 5, "reply")

	assert.Equal(t, []int64{5}, sender.sent)
}

func TestTicketCreatedEventFansOut(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewManagerNotifier(sender, []int64{10, 20}, zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher()
	notifier.RegisterHandlers(dispatcher)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventTicketCreated,
		UserID:  7,
		Payload: events.TicketCreatedPayload{Code: "ABC123", Problem: "no connection"},
	})
	assert.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, sender.sent)
}

func TestRecipientSetIsImmutable(t *testing.T) {
	ids := []int64{1, 2}
	sender := &recordingSender{}
	notifier := NewManagerNotifier(sender, ids, zap.NewNop())

	ids[0] = 99
	notifier.Notify(context.Background(), "text")

	assert.Equal(t, []int64{1, 2}, sender.sent)
}
