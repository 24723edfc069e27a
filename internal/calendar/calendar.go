package calendar

import (
	"context"
	"time"

	"github.com/uzulab/soudanin/internal/schedule"
)

// MeetingRequest describes the event to create. The interval always comes
// from a slot the client explicitly selected.
type MeetingRequest struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

type Client interface {
	// ListBusyIntervals returns the busy events between from and to,
	// grouped by local calendar day.
	ListBusyIntervals(ctx context.Context, from, to time.Time) (schedule.BusyMap, error)
	// CreateMeeting books the meeting and returns the video join link.
	CreateMeeting(ctx context.Context, req MeetingRequest) (string, error)
}
