package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lkn-labs/supportbot/internal/domain"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// RatingRepository is the append-only satisfaction log.
type RatingRepository interface {
	Record(ctx context.Context, userID int64, score int) error
	// Average returns the mean score; ok is false when no ratings exist.
	Average(ctx context.Context) (avg float64, ok bool, err error)
	Count(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository instantiates repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Record(ctx context.Context, userID int64, score int) error {
	if !domain.ValidRating(score) {
		return util.NewValidationError("rating out of range", map[string]any{"score": score})
	}
	const query = `INSERT INTO ratings (user_id, score) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, query, userID, score); err != nil {
		return util.NewStorageError(err)
	}
	return nil
}

func (r *ratingRepository) Average(ctx context.Context) (float64, bool, error) {
	var avg *float64
	if err := r.pool.QueryRow(ctx, `SELECT AVG(score) FROM ratings`).Scan(&avg); err != nil {
		return 0, false, util.NewStorageError(err)
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&count); err != nil {
		return 0, util.NewStorageError(err)
	}
	return count, nil
}
