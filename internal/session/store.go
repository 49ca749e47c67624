package session

import (
	"context"

	"github.com/lkn-labs/supportbot/internal/domain"
)

// Store holds per-user dialog sessions. Loss of session state on restart is
// acceptable; the dialog engine falls back to the initial state.
type Store interface {
	// Get returns the user's session, or a fresh one in the initial state.
	Get(ctx context.Context, userID int64) (*domain.Session, error)
	// SetState overwrites the current state. Validation is the engine's job.
	SetState(ctx context.Context, userID int64, state domain.DialogState) error
	// UpdateContext merges one key, preserving the rest of the context.
	UpdateContext(ctx context.Context, userID int64, key, value string) error
	// Clear resets to the initial state with empty context.
	Clear(ctx context.Context, userID int64) error
}
