package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lkn-labs/supportbot/internal/domain"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

// IdeaRepository is the append-only suggestion box.
type IdeaRepository interface {
	Record(ctx context.Context, userID int64, text string) error
	Recent(ctx context.Context, limit int) ([]domain.Idea, error)
}

type ideaRepository struct {
	pool *pgxpool.Pool
}

// NewIdeaRepository instantiates repository.
func NewIdeaRepository(pool *pgxpool.Pool) IdeaRepository {
	return &ideaRepository{pool: pool}
}

func (r *ideaRepository) Record(ctx context.Context, userID int64, text string) error {
	const query = `INSERT INTO ideas (user_id, idea) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, query, userID, text); err != nil {
		return util.NewStorageError(err)
	}
	return nil
}

func (r *ideaRepository) Recent(ctx context.Context, limit int) ([]domain.Idea, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT id, user_id, idea, created_at
        FROM ideas ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, util.NewStorageError(err)
	}
	defer rows.Close()

	var result []domain.Idea
	for rows.Next() {
		var idea domain.Idea
		if err := rows.Scan(&idea.ID, &idea.UserID, &idea.Text, &idea.CreatedAt); err != nil {
			return nil, util.NewStorageError(err)
		}
		result = append(result, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewStorageError(err)
	}
	return result, nil
}
