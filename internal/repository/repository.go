package repository

import (
	"context"
	"time"
)

type InsertMeetingInput struct {
	CounterpartID string
	Title         string
	JoinLink      string
	StartAt       time.Time
	EndAt         time.Time
	BookedAt      time.Time
}

type InsertTurnInput struct {
	CounterpartID string
	Role          string
	Content       string
	OccurredAt    time.Time
}

// Repository is a write-only audit log. Conversation state is never
// reconstructed from it; sessions live in memory for the process lifetime.
type Repository interface {
	InsertMeeting(ctx context.Context, input InsertMeetingInput) error
	InsertTurn(ctx context.Context, input InsertTurnInput) error
}
