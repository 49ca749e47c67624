package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lkn-labs/supportbot/internal/domain"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// FeedbackRepository deduplicates free-text complaints into counted entries.
type FeedbackRepository interface {
	// Record normalizes the description and upserts it atomically. The
	// returned bool is true when a new entry was created.
	Record(ctx context.Context, description string) (*domain.FeedbackEntry, bool, error)
	// Top returns entries ordered by count descending, earlier-seen first on ties.
	Top(ctx context.Context, n int) ([]domain.FeedbackEntry, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Record(ctx context.Context, description string) (*domain.FeedbackEntry, bool, error) {
	normalized := domain.NormalizeFeedback(description)
	if strings.TrimSpace(normalized) == "" {
		return nil, false, util.NewValidationError("feedback description is empty", nil)
	}

	// Single atomic upsert keyed by the unique normalized text; two
	// concurrent identical submissions both land on the same row.
	// xmax = 0 distinguishes a fresh insert from a conflict update.
	const query = `
        INSERT INTO feedback (description, count) VALUES ($1, 1)
        ON CONFLICT (description) DO UPDATE SET count = feedback.count + 1
        RETURNING id, description, count, (xmax = 0) AS created`
	var entry domain.FeedbackEntry
	var created bool
	err := r.pool.QueryRow(ctx, query, normalized).Scan(
		&entry.ID,
		&entry.Description,
		&entry.Count,
		&created,
	)
	if err != nil {
		return nil, false, util.NewStorageError(err)
	}
	return &entry, created, nil
}

func (r *feedbackRepository) Top(ctx context.Context, n int) ([]domain.FeedbackEntry, error) {
	if n <= 0 {
		n = 10
	}
	const query = `
        SELECT id, description, count
        FROM feedback ORDER BY count DESC, id ASC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, n)
	if err != nil {
		return nil, util.NewStorageError(err)
	}
	defer rows.Close()

	var result []domain.FeedbackEntry
	for rows.Next() {
		var entry domain.FeedbackEntry
		if err := rows.Scan(&entry.ID, &entry.Description, &entry.Count); err != nil {
			return nil, util.NewStorageError(err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewStorageError(err)
	}
	return result, nil
}
