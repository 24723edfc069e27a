package webhook

import "context"

const BookingWebhookSchemaVersion = 1

// BookingNotification is the payload posted when a meeting is booked.
type BookingNotification struct {
	SchemaVersion int    `json:"schema_version"`
	CounterpartID string `json:"counterpart_id"`
	Title         string `json:"title"`
	JoinLink      string `json:"join_link"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
}

type Sender interface {
	SendBookingNotification(ctx context.Context, notification BookingNotification) error
}
