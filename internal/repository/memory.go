package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lkn-labs/supportbot/internal/domain"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// Memory-backed implementations enforcing the same uniqueness constraints as
// the SQL schema. Used in tests and when no POSTGRES_DSN is configured.

type memoryTicketRepository struct {
	mu      sync.Mutex
	byCode  map[string]*domain.Ticket
	ordered []string
}

// NewMemoryTicketRepository returns an in-memory TicketRepository.
func NewMemoryTicketRepository() TicketRepository {
	return &memoryTicketRepository{byCode: map[string]*domain.Ticket{}}
}

func (r *memoryTicketRepository) Issue(ctx context.Context, userID int64, problem string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		code := GenerateTicketCode()
		if _, taken := r.byCode[code]; taken {
			continue
		}
		ticket := &domain.Ticket{
			Code:      code,
			UserID:    userID,
			Problem:   problem,
			Status:    domain.TicketStatusNew,
			CreatedAt: time.Now(),
		}
		r.byCode[code] = ticket
		r.ordered = append(r.ordered, code)
		copied := *ticket
		return &copied, nil
	}
}

func (r *memoryTicketRepository) Find(ctx context.Context, code string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.byCode[code]
	if !ok {
		return nil, util.NewNotFound("ticket", map[string]any{"code": code})
	}
	copied := *ticket
	return &copied, nil
}

func (r *memoryTicketRepository) SetStatus(ctx context.Context, code string, status domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.byCode[code]
	if !ok {
		return util.NewNotFound("ticket", map[string]any{"code": code})
	}
	ticket.Status = status
	return nil
}

func (r *memoryTicketRepository) Recent(ctx context.Context, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 10
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Ticket, 0, limit)
	for i := len(r.ordered) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, *r.byCode[r.ordered[i]])
	}
	return result, nil
}

func (r *memoryTicketRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byCode)), nil
}

type memoryFeedbackRepository struct {
	mu     sync.Mutex
	byText map[string]*domain.FeedbackEntry
	nextID int64
}

// NewMemoryFeedbackRepository returns an in-memory FeedbackRepository.
func NewMemoryFeedbackRepository() FeedbackRepository {
	return &memoryFeedbackRepository{byText: map[string]*domain.FeedbackEntry{}}
}

func (r *memoryFeedbackRepository) Record(ctx context.Context, description string) (*domain.FeedbackEntry, bool, error) {
	normalized := domain.NormalizeFeedback(description)
	if strings.TrimSpace(normalized) == "" {
		return nil, false, util.NewValidationError("feedback description is empty", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.byText[normalized]; ok {
		entry.Count++
		copied := *entry
		return &copied, false, nil
	}
	r.nextID++
	entry := &domain.FeedbackEntry{ID: r.nextID, Description: normalized, Count: 1}
	r.byText[normalized] = entry
	copied := *entry
	return &copied, true, nil
}

func (r *memoryFeedbackRepository) Top(ctx context.Context, n int) ([]domain.FeedbackEntry, error) {
	if n <= 0 {
		n = 10
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]domain.FeedbackEntry, 0, len(r.byText))
	for _, entry := range r.byText {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].ID < entries[j].ID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

type memoryRatingRepository struct {
	mu      sync.Mutex
	records []domain.RatingRecord
}

// NewMemoryRatingRepository returns an in-memory RatingRepository.
func NewMemoryRatingRepository() RatingRepository {
	return &memoryRatingRepository{}
}

func (r *memoryRatingRepository) Record(ctx context.Context, userID int64, score int) error {
	if !domain.ValidRating(score) {
		return util.NewValidationError("rating out of range", map[string]any{"score": score})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, domain.RatingRecord{
		ID:        int64(len(r.records) + 1),
		UserID:    userID,
		Score:     score,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *memoryRatingRepository) Average(ctx context.Context) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return 0, false, nil
	}
	var sum int
	for _, record := range r.records {
		sum += record.Score
	}
	return float64(sum) / float64(len(r.records)), true, nil
}

func (r *memoryRatingRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

type memoryIdeaRepository struct {
	mu    sync.Mutex
	ideas []domain.Idea
}

// NewMemoryIdeaRepository returns an in-memory IdeaRepository.
func NewMemoryIdeaRepository() IdeaRepository {
	return &memoryIdeaRepository{}
}

func (r *memoryIdeaRepository) Record(ctx context.Context, userID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ideas = append(r.ideas, domain.Idea{
		ID:        int64(len(r.ideas) + 1),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *memoryIdeaRepository) Recent(ctx context.Context, limit int) ([]domain.Idea, error) {
	if limit <= 0 {
		limit = 10
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Idea, 0, limit)
	for i := len(r.ideas) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.ideas[i])
	}
	return result, nil
}
