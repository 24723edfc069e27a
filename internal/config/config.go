package config

import (
	"fmt"
	"time"

	"github.com/uzulab/soudanin/internal/schedule"
)

type Config struct {
	Env                        string
	ConsultationTopic          string
	DiscordToken               string
	DiscordClientUserID        string
	OpenAIAPIKey               string
	OpenAIBaseURL              string
	OpenAIModel                string
	GoogleCloudCredentialsJSON string
	GoogleCalendarID           string
	DatabaseURL                string
	BookingWebhookURL          string
	MeetingTimezone            string
	MeetingDurationMin         int
	ScheduleHorizonDays        int
	SlotStepMin                int
	WorkdayStart               string
	WorkdayEnd                 string
	MaxOfferedSlots            int
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.MeetingDurationMin <= 0 {
		return fmt.Errorf("MEETING_DURATION_MIN must be positive, got %d", c.MeetingDurationMin)
	}
	if c.ScheduleHorizonDays <= 0 {
		return fmt.Errorf("SCHEDULE_HORIZON_DAYS must be positive, got %d", c.ScheduleHorizonDays)
	}
	if c.SlotStepMin <= 0 {
		return fmt.Errorf("SLOT_STEP_MIN must be positive, got %d", c.SlotStepMin)
	}
	if c.MaxOfferedSlots <= 0 {
		return fmt.Errorf("MAX_OFFERED_SLOTS must be positive, got %d", c.MaxOfferedSlots)
	}
	if _, err := time.LoadLocation(c.MeetingTimezone); err != nil {
		return fmt.Errorf("MEETING_TIMEZONE is invalid: %w", err)
	}
	workStart, err := schedule.ParseTimeOfDay(c.WorkdayStart)
	if err != nil {
		return fmt.Errorf("WORKDAY_START is invalid: %w", err)
	}
	workEnd, err := schedule.ParseTimeOfDay(c.WorkdayEnd)
	if err != nil {
		return fmt.Errorf("WORKDAY_END is invalid: %w", err)
	}
	if !workStart.Before(workEnd) {
		return fmt.Errorf("WORKDAY_START %s must be before WORKDAY_END %s", c.WorkdayStart, c.WorkdayEnd)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "CONSULTATION_TOPIC", value: c.ConsultationTopic},
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_CLIENT_USER_ID", value: c.DiscordClientUserID},
		{name: "OPENAI_API_KEY", value: c.OpenAIAPIKey},
		{name: "OPENAI_MODEL", value: c.OpenAIModel},
		{name: "GOOGLE_CLOUD_CREDENTIALS_JSON", value: c.GoogleCloudCredentialsJSON},
		{name: "GOOGLE_CALENDAR_ID", value: c.GoogleCalendarID},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "MEETING_TIMEZONE", value: c.MeetingTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resolves the configured meeting timezone. Validate guarantees it
// parses, so callers after startup may treat an error as a bug.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.MeetingTimezone)
}

func (c *Config) MeetingDuration() time.Duration {
	return time.Duration(c.MeetingDurationMin) * time.Minute
}

func (c *Config) SlotStep() time.Duration {
	return time.Duration(c.SlotStepMin) * time.Minute
}

// WorkHours returns the validated working-hours window.
func (c *Config) WorkHours() (schedule.TimeOfDay, schedule.TimeOfDay, error) {
	start, err := schedule.ParseTimeOfDay(c.WorkdayStart)
	if err != nil {
		return schedule.TimeOfDay{}, schedule.TimeOfDay{}, err
	}
	end, err := schedule.ParseTimeOfDay(c.WorkdayEnd)
	if err != nil {
		return schedule.TimeOfDay{}, schedule.TimeOfDay{}, err
	}
	return start, end, nil
}
