package domain

// DialogState identifies where a user is in the support dialog. The zero
// value is not valid; fresh sessions start at StateInitial.
type DialogState string

const (
	StateInitial                   DialogState = "initial"
	StateAwaitingCodewordOne       DialogState = "awaiting_codeword_one"
	StateAwaitingCodewordTwo       DialogState = "awaiting_codeword_two"
	StateAwaitingDevice            DialogState = "awaiting_device"
	StateAwaitingServer            DialogState = "awaiting_server"
	StateAwaitingCountry           DialogState = "awaiting_country"
	StateAwaitingResolution        DialogState = "awaiting_resolution"
	StateAwaitingProblemDesc       DialogState = "awaiting_problem_description"
	StateAwaitingRating            DialogState = "awaiting_rating"
	StateAwaitingLowRatingFeedback DialogState = "awaiting_low_rating_feedback"
	StateAwaitingIdea              DialogState = "awaiting_idea"
)

// Context keys stored on a session between dialog steps.
const (
	// ContextChosenServer holds the server picked during the
	// not-working triage, consumed by the country step.
	ContextChosenServer = "chosen_server"
	// ContextVerified marks a user who passed the codeword gate.
	// Survives dialog resets.
	ContextVerified = "verified"
)

// Session is the per-user dialog state. Context carries small string
// values between steps and is discarded when the dialog ends.
type Session struct {
	UserID  int64             `json:"user_id"`
	State   DialogState       `json:"state"`
	Context map[string]string `json:"context,omitempty"`
}

// NewSession returns a fresh session at the initial state.
func NewSession(userID int64) *Session {
	return &Session{
		UserID:  userID,
		State:   StateInitial,
		Context: map[string]string{},
	}
}

// ContextValue returns the stored value for key, or "" when absent.
func (s *Session) ContextValue(key string) string {
	if s == nil || s.Context == nil {
		return ""
	}
	return s.Context[key]
}

// Verified reports whether the user has passed the codeword gate.
func (s *Session) Verified() bool {
	return s.ContextValue(ContextVerified) == "true"
}
