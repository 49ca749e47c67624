package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFeedback(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Slow speed", "slow speed"},
		{" slow speed ", "slow speed"},
		{"SLOW   SPEED", "slow speed"},
		{"slow\tspeed\n", "slow speed"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeFeedback(tc.in), "input %q", tc.in)
	}
}

func TestTicketStatusTransitions(t *testing.T) {
	assert.True(t, ValidStatusTransition(TicketStatusNew, TicketStatusAnswered))
	assert.True(t, ValidStatusTransition(TicketStatusNew, TicketStatusUnresolvedClosed))
	assert.True(t, ValidStatusTransition(TicketStatusAnswered, TicketStatusResolved))
	assert.True(t, ValidStatusTransition(TicketStatusAnswered, TicketStatusUnresolvedClosed))

	assert.False(t, ValidStatusTransition(TicketStatusNew, TicketStatusResolved))
	assert.False(t, ValidStatusTransition(TicketStatusResolved, TicketStatusAnswered))
	assert.False(t, ValidStatusTransition(TicketStatusUnresolvedClosed, TicketStatusAnswered))
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.False(t, ValidRating(6))
	for score := MinRating; score <= MaxRating; score++ {
		assert.True(t, ValidRating(score))
	}
}

func TestSessionVerified(t *testing.T) {
	sess := NewSession(1)
	assert.False(t, sess.Verified())
	sess.Context[ContextVerified] = "true"
	assert.True(t, sess.Verified())

	var nilSess *Session
	assert.False(t, nilSess.Verified())
}
