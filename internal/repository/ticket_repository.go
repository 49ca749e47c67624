package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lkn-labs/supportbot/internal/domain"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

const uniqueViolation = "23505"

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	// Issue atomically claims a unique code and inserts a new ticket.
	Issue(ctx context.Context, userID int64, problem string) (*domain.Ticket, error)
	Find(ctx context.Context, code string) (*domain.Ticket, error)
	SetStatus(ctx context.Context, code string, status domain.TicketStatus) error
	Recent(ctx context.Context, limit int) ([]domain.Ticket, error)
	Count(ctx context.Context) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Issue(ctx context.Context, userID int64, problem string) (*domain.Ticket, error) {
	const query = `
        INSERT INTO tickets (code, user_id, problem, status)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`

	// The keyspace (36^6) dwarfs any plausible ticket volume, so looping
	// until the primary key accepts a draw terminates in practice on the
	// first or second attempt.
	for {
		ticket := &domain.Ticket{
			Code:    GenerateTicketCode(),
			UserID:  userID,
			Problem: problem,
			Status:  domain.TicketStatusNew,
		}
		err := r.pool.QueryRow(ctx, query,
			ticket.Code,
			ticket.UserID,
			ticket.Problem,
			ticket.Status,
		).Scan(&ticket.CreatedAt)
		if err == nil {
			return ticket, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			continue
		}
		return nil, util.NewStorageError(err)
	}
}

func (r *ticketRepository) Find(ctx context.Context, code string) (*domain.Ticket, error) {
	const query = `
        SELECT code, user_id, problem, status, created_at
        FROM tickets WHERE code = $1`
	var ticket domain.Ticket
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&ticket.Code,
		&ticket.UserID,
		&ticket.Problem,
		&ticket.Status,
		&ticket.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket", map[string]any{"code": code})
	}
	if err != nil {
		return nil, util.NewStorageError(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) SetStatus(ctx context.Context, code string, status domain.TicketStatus) error {
	const query = `UPDATE tickets SET status = $1 WHERE code = $2`
	cmd, err := r.pool.Exec(ctx, query, status, code)
	if err != nil {
		return util.NewStorageError(err)
	}
	if cmd.RowsAffected() == 0 {
		return util.NewNotFound("ticket", map[string]any{"code": code})
	}
	return nil
}

func (r *ticketRepository) Recent(ctx context.Context, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT code, user_id, problem, status, created_at
        FROM tickets ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, util.NewStorageError(err)
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.Code,
			&ticket.UserID,
			&ticket.Problem,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, util.NewStorageError(err)
		}
		result = append(result, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewStorageError(err)
	}
	return result, nil
}

func (r *ticketRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count); err != nil {
		return 0, util.NewStorageError(err)
	}
	return count, nil
}
