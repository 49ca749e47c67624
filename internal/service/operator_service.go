package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lkn-labs/supportbot/internal/config"
	"github.com/lkn-labs/supportbot/internal/domain"
	"github.com/lkn-labs/supportbot/internal/events"
	"github.com/lkn-labs/supportbot/internal/notify"
	"github.com/lkn-labs/supportbot/internal/repository"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// OperatorService is the privileged surface: ticket review, statistics, and
// replying to users. Every operation requires the caller to be a member of
// the fixed manager identity set.
type OperatorService struct {
	cfg        config.DialogConfig
	tickets    repository.TicketRepository
	ratings    repository.RatingRepository
	feedback   repository.FeedbackRepository
	ideas      repository.IdeaRepository
	notifier   *notify.ManagerNotifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// OperatorDependencies bundles collaborators for the operator service.
type OperatorDependencies struct {
	TicketRepo   repository.TicketRepository
	RatingRepo   repository.RatingRepository
	FeedbackRepo repository.FeedbackRepository
	IdeaRepo     repository.IdeaRepository
	Notifier     *notify.ManagerNotifier
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// Stats aggregates operator-facing numbers.
type Stats struct {
	TotalTickets  int64
	AverageRating float64
	HasRatings    bool
	RatingCount   int64
	TopFeedback   []domain.FeedbackEntry
}

// NewOperatorService constructs the service.
func NewOperatorService(cfg config.DialogConfig, deps OperatorDependencies) *OperatorService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OperatorService{
		cfg:        cfg,
		tickets:    deps.TicketRepo,
		ratings:    deps.RatingRepo,
		feedback:   deps.FeedbackRepo,
		ideas:      deps.IdeaRepo,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListRecentTickets returns the newest tickets for operator review.
func (s *OperatorService) ListRecentTickets(ctx context.Context, managerID int64, limit int) ([]domain.Ticket, error) {
	if err := s.requireManager(managerID); err != nil {
		return nil, err
	}
	return s.tickets.Recent(ctx, limit)
}

// ListRecentIdeas returns the newest user suggestions.
func (s *OperatorService) ListRecentIdeas(ctx context.Context, managerID int64, limit int) ([]domain.Idea, error) {
	if err := s.requireManager(managerID); err != nil {
		return nil, err
	}
	return s.ideas.Recent(ctx, limit)
}

// Stats returns ticket totals, rating average, and top recurring complaints.
func (s *OperatorService) Stats(ctx context.Context, managerID int64) (*Stats, error) {
	if err := s.requireManager(managerID); err != nil {
		return nil, err
	}
	total, err := s.tickets.Count(ctx)
	if err != nil {
		return nil, err
	}
	avg, hasRatings, err := s.ratings.Average(ctx)
	if err != nil {
		return nil, err
	}
	ratingCount, err := s.ratings.Count(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.feedback.Top(ctx, 10)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalTickets:  total,
		AverageRating: avg,
		HasRatings:    hasRatings,
		RatingCount:   ratingCount,
		TopFeedback:   top,
	}, nil
}

// AnswerTicket dispatches a manager reply to the ticket's user and moves the
// ticket to answered. User delivery is best effort; a failed send is logged
// but the status change still commits.
func (s *OperatorService) AnswerTicket(ctx context.Context, managerID int64, code, text string) (*domain.Ticket, error) {
	if err := s.requireManager(managerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, util.NewValidationError("answer text is empty", nil)
	}
	ticket, err := s.tickets.Find(ctx, code)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusAnswered {
		if !domain.ValidStatusTransition(ticket.Status, domain.TicketStatusAnswered) {
			return nil, util.NewValidationError("ticket cannot be answered in current status",
				map[string]any{"status": ticket.Status})
		}
		if err := s.tickets.SetStatus(ctx, code, domain.TicketStatusAnswered); err != nil {
			return nil, err
		}
		ticket.Status = domain.TicketStatusAnswered
	}

	if s.notifier != nil {
		s.notifier.NotifyUser(ctx, ticket.UserID,
			fmt.Sprintf("Reply to ticket #%s:\n%s", ticket.Code, text))
	}
	s.publish(ctx, events.Event{
		Type:   events.EventTicketAnswered,
		UserID: ticket.UserID,
		Payload: events.TicketAnsweredPayload{
			Code:      ticket.Code,
			ManagerID: managerID,
		},
	})
	return ticket, nil
}

// ResolveTicket records the final outcome reported for a ticket.
func (s *OperatorService) ResolveTicket(ctx context.Context, managerID int64, code string, resolved bool) (*domain.Ticket, error) {
	if err := s.requireManager(managerID); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.Find(ctx, code)
	if err != nil {
		return nil, err
	}
	next := domain.TicketStatusResolved
	if !resolved {
		next = domain.TicketStatusUnresolvedClosed
	}
	if !domain.ValidStatusTransition(ticket.Status, next) {
		return nil, util.NewValidationError("invalid ticket status transition",
			map[string]any{"from": ticket.Status, "to": next})
	}
	if err := s.tickets.SetStatus(ctx, code, next); err != nil {
		return nil, err
	}
	ticket.Status = next
	return ticket, nil
}

func (s *OperatorService) requireManager(callerID int64) error {
	if !s.cfg.IsManager(callerID) {
		return util.NewForbidden("caller is not a manager")
	}
	return nil
}

func (s *OperatorService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
