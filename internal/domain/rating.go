package domain

import "time"

// Rating bounds for satisfaction scores.
const (
	MinRating = 1
	MaxRating = 5
)

// RatingRecord is one appended satisfaction score.
type RatingRecord struct {
	ID        int64
	UserID    int64
	Score     int
	CreatedAt time.Time
}

// ValidRating reports whether score is inside the accepted range.
func ValidRating(score int) bool {
	return score >= MinRating && score <= MaxRating
}

// Idea is a free-form user suggestion.
type Idea struct {
	ID        int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}
