package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uzulab/soudanin/internal/repository"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) InsertMeeting(ctx context.Context, input repository.InsertMeetingInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO meetings (counterpart_id, title, join_link, start_at, end_at, booked_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		input.CounterpartID, input.Title, input.JoinLink, input.StartAt, input.EndAt, input.BookedAt)
	return err
}

func (r *PostgresRepository) InsertTurn(ctx context.Context, input repository.InsertTurnInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO conversation_turns (counterpart_id, role, content, occurred_at)
		 VALUES ($1, $2, $3, $4)`,
		input.CounterpartID, input.Role, input.Content, input.OccurredAt)
	return err
}
