package calendar

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	internalcalendar "github.com/uzulab/soudanin/internal/calendar"
	"github.com/uzulab/soudanin/internal/config"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (internalcalendar.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		location, err := c.Location()
		if err != nil {
			return nil, fmt.Errorf("failed to load meeting timezone: %w", err)
		}
		// The service context outlives construction (token refresh), so it
		// must not carry a deadline.
		return NewGoogleCalendar(context.Background(), GoogleCalendarConfig{
			CredentialsJSON: c.GoogleCloudCredentialsJSON,
			CalendarID:      c.GoogleCalendarID,
			Timezone:        c.MeetingTimezone,
			Location:        location,
		})
	})
}
