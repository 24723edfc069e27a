package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS meetings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		counterpart_id TEXT NOT NULL,
		title TEXT NOT NULL,
		join_link TEXT NOT NULL,
		start_at TIMESTAMPTZ NOT NULL,
		end_at TIMESTAMPTZ NOT NULL,
		booked_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meetings_counterpart ON meetings (counterpart_id, start_at)`,
	`CREATE TABLE IF NOT EXISTS conversation_turns (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		counterpart_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_conversation_turns_counterpart ON conversation_turns (counterpart_id, occurred_at)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
