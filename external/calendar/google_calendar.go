package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/auth/credentials"
	internalcalendar "github.com/uzulab/soudanin/internal/calendar"
	"github.com/uzulab/soudanin/internal/schedule"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const videoEntryPointType = "video"

type GoogleCalendarConfig struct {
	CredentialsJSON string
	CalendarID      string
	Timezone        string
	Location        *time.Location
}

// GoogleCalendar books meetings and lists busy events through the Calendar
// v3 API. Created events request a Meet conference; the video entry point
// URI is returned as the join link.
type GoogleCalendar struct {
	service    *gcalendar.Service
	calendarID string
	timezone   string
	location   *time.Location
}

func NewGoogleCalendar(ctx context.Context, cfg GoogleCalendarConfig) (internalcalendar.Client, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(cfg.CredentialsJSON),
		Scopes:          []string{gcalendar.CalendarScope},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}

	service, err := gcalendar.NewService(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &GoogleCalendar{
		service:    service,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		location:   loc,
	}, nil
}

func (g *GoogleCalendar) ListBusyIntervals(ctx context.Context, from, to time.Time) (schedule.BusyMap, error) {
	events, err := g.service.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	busy := make(schedule.BusyMap)
	for _, event := range events.Items {
		if event.Start == nil || event.End == nil {
			continue
		}
		// All-day events carry only a date; they do not block time slots,
		// matching how the busy map is built from timed events only.
		if event.Start.DateTime == "" || event.End.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			slog.Warn("skipping event with unparseable start", "event_id", event.Id, "error", err)
			continue
		}
		end, err := time.Parse(time.RFC3339, event.End.DateTime)
		if err != nil {
			slog.Warn("skipping event with unparseable end", "event_id", event.Id, "error", err)
			continue
		}
		busy.Add(schedule.TimeInterval{Start: start.In(g.location), End: end.In(g.location)}, g.location)
	}
	return busy, nil
}

func (g *GoogleCalendar) CreateMeeting(ctx context.Context, req internalcalendar.MeetingRequest) (string, error) {
	event := &gcalendar.Event{
		Summary:     req.Title,
		Description: req.Description,
		Start: &gcalendar.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		End: &gcalendar.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		ConferenceData: &gcalendar.ConferenceData{
			CreateRequest: &gcalendar.CreateConferenceRequest{
				RequestId: fmt.Sprintf("meeting-%d", req.Start.Unix()),
			},
		},
	}

	created, err := g.service.Events.Insert(g.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}

	if created.ConferenceData != nil {
		for _, entry := range created.ConferenceData.EntryPoints {
			if entry.EntryPointType == videoEntryPointType && entry.Uri != "" {
				return entry.Uri, nil
			}
		}
	}
	if created.HangoutLink != "" {
		return created.HangoutLink, nil
	}
	return "", fmt.Errorf("created event %s has no video entry point", created.Id)
}
