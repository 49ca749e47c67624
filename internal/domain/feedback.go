package domain

import "strings"

// FeedbackEntry is a deduplicated, counted complaint.
type FeedbackEntry struct {
	ID          int64
	Description string
	Count       int64
}

// NormalizeFeedback maps complaint text to its dedup key: trimmed,
// case-folded, internal whitespace runs collapsed to single spaces.
// Applied identically on write and lookup.
func NormalizeFeedback(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
