package dialog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lkn-labs/supportbot/internal/config"
	"github.com/lkn-labs/supportbot/internal/domain"
	"github.com/lkn-labs/supportbot/internal/events"
	"github.com/lkn-labs/supportbot/internal/observability"
	"github.com/lkn-labs/supportbot/internal/repository"
	"github.com/lkn-labs/supportbot/internal/session"
)

// Engine is the dialog state machine. It consumes inbound events, applies the
// transition for the user's current state, persists side effects, and returns
// the intent the presentation layer should render. Side effects are persisted
// before the session advances, so a storage failure leaves the session in its
// prior state and a retry is safe.
type Engine struct {
	cfg        config.DialogConfig
	sessions   session.Store
	tickets    repository.TicketRepository
	feedback   repository.FeedbackRepository
	ratings    repository.RatingRepository
	ideas      repository.IdeaRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	locks      *userLocks
}

// Dependencies bundles collaborators for the engine.
type Dependencies struct {
	Sessions     session.Store
	TicketRepo   repository.TicketRepository
	FeedbackRepo repository.FeedbackRepository
	RatingRepo   repository.RatingRepository
	IdeaRepo     repository.IdeaRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewEngine constructs the engine over immutable dialog configuration.
func NewEngine(cfg config.DialogConfig, deps Dependencies) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:        cfg,
		sessions:   deps.Sessions,
		tickets:    deps.TicketRepo,
		feedback:   deps.FeedbackRepo,
		ratings:    deps.RatingRepo,
		ideas:      deps.IdeaRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		locks:      newUserLocks(),
	}
}

// lowRatingThreshold routes scores below it to the feedback branch.
const lowRatingThreshold = 2

// HandleEvent processes one inbound event for one user. Events for the same
// user are serialized; the returned error is reserved for storage failures.
// Input that is invalid for the current state yields IntentInvalidChoice and
// leaves the session untouched.
func (e *Engine) HandleEvent(ctx context.Context, userID int64, event Event) (Intent, error) {
	lock := e.locks.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		return Intent{}, err
	}

	switch sess.State {
	case domain.StateInitial:
		return e.handleInitial(ctx, sess, event)
	case domain.StateAwaitingCodewordOne:
		return e.handleCodewordOne(ctx, sess, event)
	case domain.StateAwaitingCodewordTwo:
		return e.handleCodewordTwo(ctx, sess, event)
	case domain.StateAwaitingDevice:
		return e.handleDevice(ctx, sess, event)
	case domain.StateAwaitingServer:
		return e.handleServer(ctx, sess, event)
	case domain.StateAwaitingCountry:
		return e.handleCountry(ctx, sess, event)
	case domain.StateAwaitingResolution:
		return e.handleResolution(ctx, sess, event)
	case domain.StateAwaitingProblemDesc:
		return e.handleProblemDescription(ctx, sess, event)
	case domain.StateAwaitingRating:
		return e.handleRating(ctx, sess, event)
	case domain.StateAwaitingLowRatingFeedback:
		return e.handleLowRatingFeedback(ctx, sess, event)
	case domain.StateAwaitingIdea:
		return e.handleIdea(ctx, sess, event)
	default:
		// Unknown persisted state, e.g. after a rollout removed one.
		if err := e.sessions.Clear(ctx, sess.UserID); err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentShowMainMenu}, nil
	}
}

func (e *Engine) handleInitial(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventMenuSelection {
		return e.reject(sess, event), nil
	}

	if event.Selection == MenuStart {
		if e.gateEnabled() {
			if err := e.transition(ctx, sess, domain.StateAwaitingCodewordOne); err != nil {
				return Intent{}, err
			}
			return Intent{Kind: IntentShowGreeting}, nil
		}
		return Intent{Kind: IntentShowMainMenu}, nil
	}

	if e.gateEnabled() && !sess.Verified() {
		return e.reject(sess, event), nil
	}

	switch event.Selection {
	case MenuConnectHelp:
		if err := e.transition(ctx, sess, domain.StateAwaitingDevice); err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentShowDeviceMenu}, nil
	case MenuNotWorking:
		if err := e.transition(ctx, sess, domain.StateAwaitingServer); err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentShowServerMenu}, nil
	case MenuIdeas:
		if err := e.transition(ctx, sess, domain.StateAwaitingIdea); err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentPromptIdea}, nil
	case MenuLogs, MenuSubscription, MenuServerInfo:
		return Intent{Kind: IntentShowInfo, Topic: event.Selection}, nil
	case MenuAdminPanel:
		if !e.cfg.IsManager(sess.UserID) {
			return Intent{Kind: IntentAccessDenied}, nil
		}
		return Intent{Kind: IntentShowAdminMenu}, nil
	default:
		return e.reject(sess, event), nil
	}
}

func (e *Engine) handleCodewordOne(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventTextMessage {
		return e.reject(sess, event), nil
	}
	if !codewordMatches(event.Text, e.cfg.CodewordOne) {
		return e.reject(sess, event), nil
	}
	if err := e.transition(ctx, sess, domain.StateAwaitingCodewordTwo); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentPromptSecondCodeword}, nil
}

func (e *Engine) handleCodewordTwo(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventTextMessage {
		return e.reject(sess, event), nil
	}
	if !codewordMatches(event.Text, e.cfg.CodewordTwo) {
		return e.reject(sess, event), nil
	}
	if err := e.sessions.UpdateContext(ctx, sess.UserID, domain.ContextVerified, "true"); err != nil {
		return Intent{}, err
	}
	if err := e.transition(ctx, sess, domain.StateInitial); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentShowMainMenu}, nil
}

func (e *Engine) handleDevice(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventMenuSelection || event.Selection != MenuDevice {
		return e.reject(sess, event), nil
	}
	if !contains(e.cfg.KnownDevices, event.Value) {
		return e.reject(sess, event), nil
	}
	if err := e.transition(ctx, sess, domain.StateAwaitingResolution); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentShowDeviceInstructions, Device: event.Value}, nil
}

func (e *Engine) handleServer(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventMenuSelection || event.Selection != MenuServer {
		return e.reject(sess, event), nil
	}
	if !contains(e.cfg.KnownServers, event.Value) {
		return e.reject(sess, event), nil
	}
	if err := e.sessions.UpdateContext(ctx, sess.UserID, domain.ContextChosenServer, event.Value); err != nil {
		return Intent{}, err
	}
	if err := e.transition(ctx, sess, domain.StateAwaitingCountry); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentShowCountryMenu}, nil
}

func (e *Engine) handleCountry(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventMenuSelection || event.Selection != MenuCountry {
		return e.reject(sess, event), nil
	}
	if !contains(e.cfg.Countries, event.Value) {
		return e.reject(sess, event), nil
	}
	server := sess.ContextValue(domain.ContextChosenServer)
	if err := e.transition(ctx, sess, domain.StateAwaitingResolution); err != nil {
		return Intent{}, err
	}
	return Intent{
		Kind:            IntentShowCountryAdvice,
		Server:          server,
		Country:         event.Value,
		RegionalWarning: server == e.cfg.WarnServer && event.Value == e.cfg.WarnCountry,
	}, nil
}

func (e *Engine) handleResolution(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventMenuSelection {
		return e.reject(sess, event), nil
	}
	switch event.Selection {
	case MenuResolved:
		if err := e.transition(ctx, sess, domain.StateAwaitingRating); err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentPromptRating}, nil
	case MenuNotResolved:
		if err := e.transition(ctx, sess, domain.StateAwaitingProblemDesc); err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentPromptProblemDescription}, nil
	default:
		return e.reject(sess, event), nil
	}
}

func (e *Engine) handleProblemDescription(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventTextMessage || strings.TrimSpace(event.Text) == "" {
		return e.reject(sess, event), nil
	}
	ticket, err := e.tickets.Issue(ctx, sess.UserID, strings.TrimSpace(event.Text))
	if err != nil {
		return Intent{}, err
	}
	e.metrics.RecordTicketIssued()
	e.publish(ctx, events.Event{
		Type:   events.EventTicketCreated,
		UserID: sess.UserID,
		Payload: events.TicketCreatedPayload{
			Code:    ticket.Code,
			Problem: ticket.Problem,
		},
	})
	if err := e.transition(ctx, sess, domain.StateAwaitingRating); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentAckTicket, TicketCode: ticket.Code}, nil
}

func (e *Engine) handleRating(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventRatingSelection {
		return e.reject(sess, event), nil
	}
	if !domain.ValidRating(event.Score) {
		return e.reject(sess, event), nil
	}
	if err := e.ratings.Record(ctx, sess.UserID, event.Score); err != nil {
		return Intent{}, err
	}
	e.publish(ctx, events.Event{
		Type:    events.EventRatingRecorded,
		UserID:  sess.UserID,
		Payload: events.RatingRecordedPayload{Score: event.Score},
	})
	if event.Score < lowRatingThreshold {
		if err := e.transition(ctx, sess, domain.StateAwaitingLowRatingFeedback); err != nil {
			return Intent{}, err
		}
		return Intent{Kind: IntentPromptLowRatingFeedback}, nil
	}
	if err := e.resetDialog(ctx, sess); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentFarewell}, nil
}

func (e *Engine) handleLowRatingFeedback(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventTextMessage || strings.TrimSpace(event.Text) == "" {
		return e.reject(sess, event), nil
	}
	entry, created, err := e.feedback.Record(ctx, event.Text)
	if err != nil {
		return Intent{}, err
	}
	e.publish(ctx, events.Event{
		Type:   events.EventFeedbackRecorded,
		UserID: sess.UserID,
		Payload: events.FeedbackRecordedPayload{
			Description: entry.Description,
			Count:       entry.Count,
			Created:     created,
		},
	})
	if err := e.resetDialog(ctx, sess); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentAckFeedback}, nil
}

func (e *Engine) handleIdea(ctx context.Context, sess *domain.Session, event Event) (Intent, error) {
	if event.Kind != EventTextMessage || strings.TrimSpace(event.Text) == "" {
		return e.reject(sess, event), nil
	}
	if err := e.ideas.Record(ctx, sess.UserID, strings.TrimSpace(event.Text)); err != nil {
		return Intent{}, err
	}
	if err := e.resetDialog(ctx, sess); err != nil {
		return Intent{}, err
	}
	return Intent{Kind: IntentAckIdea}, nil
}

func (e *Engine) transition(ctx context.Context, sess *domain.Session, next domain.DialogState) error {
	if err := e.sessions.SetState(ctx, sess.UserID, next); err != nil {
		return err
	}
	e.metrics.RecordTransition(sess.State, next)
	return nil
}

// resetDialog terminates a dialog: state back to initial, context discarded.
// Codeword verification survives the reset so the user is not re-gated.
func (e *Engine) resetDialog(ctx context.Context, sess *domain.Session) error {
	verified := sess.Verified()
	if err := e.sessions.Clear(ctx, sess.UserID); err != nil {
		return err
	}
	e.metrics.RecordTransition(sess.State, domain.StateInitial)
	if verified {
		return e.sessions.UpdateContext(ctx, sess.UserID, domain.ContextVerified, "true")
	}
	return nil
}

func (e *Engine) reject(sess *domain.Session, event Event) Intent {
	e.metrics.RecordRejection(sess.State)
	e.logger.Debug("event invalid for current state",
		zap.Int64("user_id", sess.UserID),
		zap.String("state", string(sess.State)),
		zap.String("event_kind", string(event.Kind)),
		zap.String("selection", event.Selection))
	return Intent{Kind: IntentInvalidChoice}
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if e.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = e.dispatcher.Publish(ctx, event)
}

func (e *Engine) gateEnabled() bool {
	return e.cfg.CodewordOne != ""
}

func codewordMatches(input, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(input), expected)
}

func contains(set []string, value string) bool {
	for _, item := range set {
		if item == value {
			return true
		}
	}
	return false
}
