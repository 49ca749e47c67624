package repository

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkn-labs/supportbot/internal/domain"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

func TestTicketCodesAreUnique(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	const n = 500
	codes := make(map[string]bool, n)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			ticket, err := repo.Issue(ctx, userID, "it is broken")
			assert.NoError(t, err)
			mu.Lock()
			codes[ticket.Code] = true
			mu.Unlock()
		}(int64(i))
	}
	wg.Wait()

	assert.Len(t, codes, n)
	for code := range codes {
		assert.Len(t, code, domain.CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(domain.CodeAlphabet, r), "unexpected rune %q", r)
		}
	}
}

func TestTicketFindAndStatus(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	ticket, err := repo.Issue(ctx, 7, "cannot connect")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusNew, ticket.Status)

	found, err := repo.Find(ctx, ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, ticket.Code, found.Code)
	assert.Equal(t, int64(7), found.UserID)

	require.NoError(t, repo.SetStatus(ctx, ticket.Code, domain.TicketStatusAnswered))
	found, err = repo.Find(ctx, ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAnswered, found.Status)
}

func TestTicketNotFoundIsDistinct(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	_, err := repo.Find(ctx, "NOPE99")
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeNotFound))
	assert.False(t, util.IsCode(err, util.CodeStorage))

	err = repo.SetStatus(ctx, "NOPE99", domain.TicketStatusAnswered)
	assert.True(t, util.IsCode(err, util.CodeNotFound))
}

func TestTicketRecentNewestFirst(t *testing.T) {
	repo := NewMemoryTicketRepository()
	ctx := context.Background()

	first, err := repo.Issue(ctx, 1, "first")
	require.NoError(t, err)
	second, err := repo.Issue(ctx, 2, "second")
	require.NoError(t, err)
	third, err := repo.Issue(ctx, 3, "third")
	require.NoError(t, err)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, third.Code, recent[0].Code)
	assert.Equal(t, second.Code, recent[1].Code)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	_ = first
}

func TestFeedbackDeduplicates(t *testing.T) {
	repo := NewMemoryFeedbackRepository()
	ctx := context.Background()

	entry, created, err := repo.Record(ctx, "Slow speed")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "slow speed", entry.Description)
	assert.Equal(t, int64(1), entry.Count)

	entry, created, err = repo.Record(ctx, " slow   speed ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(2), entry.Count)

	entry, created, err = repo.Record(ctx, "SLOW SPEED")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(3), entry.Count)

	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(3), top[0].Count)
}

func TestFeedbackConcurrentIdenticalSubmissions(t *testing.T) {
	repo := NewMemoryFeedbackRepository()
	ctx := context.Background()

	const k = 100
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.Record(ctx, "connection drops")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(k), top[0].Count)
}

func TestFeedbackTopOrdering(t *testing.T) {
	repo := NewMemoryFeedbackRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := repo.Record(ctx, "no internet")
		require.NoError(t, err)
	}
	_, _, err := repo.Record(ctx, "slow speed")
	require.NoError(t, err)
	_, _, err = repo.Record(ctx, "app crashes")
	require.NoError(t, err)

	top, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "no internet", top[0].Description)
	// Equal counts keep earlier-seen entries first.
	assert.Equal(t, "slow speed", top[1].Description)
	assert.Equal(t, "app crashes", top[2].Description)
}

func TestFeedbackRejectsEmptyText(t *testing.T) {
	repo := NewMemoryFeedbackRepository()
	_, _, err := repo.Record(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeValidation))
}

func TestRatingBounds(t *testing.T) {
	repo := NewMemoryRatingRepository()
	ctx := context.Background()

	err := repo.Record(ctx, 1, 0)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeValidation))

	err = repo.Record(ctx, 1, 6)
	require.Error(t, err)
	assert.True(t, util.IsCode(err, util.CodeValidation))

	for score := domain.MinRating; score <= domain.MaxRating; score++ {
		require.NoError(t, repo.Record(ctx, 1, score))
	}

	avg, ok, err := repo.Average(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 3.0, avg, 0.001)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestRatingAverageNoData(t *testing.T) {
	repo := NewMemoryRatingRepository()
	_, ok, err := repo.Average(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIdeaRecentNewestFirst(t *testing.T) {
	repo := NewMemoryIdeaRepository()
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, 1, "dark mode"))
	require.NoError(t, repo.Record(ctx, 2, "more servers"))

	ideas, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, "more servers", ideas[0].Text)
	assert.Equal(t, "dark mode", ideas[1].Text)
}
