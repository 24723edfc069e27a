package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/uzulab/soudanin/internal/config"
)

type envConfig struct {
	Env                        string `env:"ENV" envDefault:"production"`
	ConsultationTopic          string `env:"CONSULTATION_TOPIC,required"`
	DiscordToken               string `env:"DISCORD_TOKEN,required"`
	DiscordClientUserID        string `env:"DISCORD_CLIENT_USER_ID,required"`
	OpenAIAPIKey               string `env:"OPENAI_API_KEY,required"`
	OpenAIBaseURL              string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIModel                string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON,required"`
	GoogleCalendarID           string `env:"GOOGLE_CALENDAR_ID" envDefault:"primary"`
	DatabaseURL                string `env:"DATABASE_URL,required"`
	BookingWebhookURL          string `env:"BOOKING_WEBHOOK_URL"`
	MeetingTimezone            string `env:"MEETING_TIMEZONE" envDefault:"UTC"`
	MeetingDurationMin         int    `env:"MEETING_DURATION_MIN" envDefault:"30"`
	ScheduleHorizonDays        int    `env:"SCHEDULE_HORIZON_DAYS" envDefault:"5"`
	SlotStepMin                int    `env:"SLOT_STEP_MIN" envDefault:"30"`
	WorkdayStart               string `env:"WORKDAY_START" envDefault:"09:00"`
	WorkdayEnd                 string `env:"WORKDAY_END" envDefault:"18:00"`
	MaxOfferedSlots            int    `env:"MAX_OFFERED_SLOTS" envDefault:"10"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		ConsultationTopic:          raw.ConsultationTopic,
		DiscordToken:               raw.DiscordToken,
		DiscordClientUserID:        raw.DiscordClientUserID,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIBaseURL:              raw.OpenAIBaseURL,
		OpenAIModel:                raw.OpenAIModel,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCalendarID:           raw.GoogleCalendarID,
		DatabaseURL:                raw.DatabaseURL,
		BookingWebhookURL:          raw.BookingWebhookURL,
		MeetingTimezone:            raw.MeetingTimezone,
		MeetingDurationMin:         raw.MeetingDurationMin,
		ScheduleHorizonDays:        raw.ScheduleHorizonDays,
		SlotStepMin:                raw.SlotStepMin,
		WorkdayStart:               raw.WorkdayStart,
		WorkdayEnd:                 raw.WorkdayEnd,
		MaxOfferedSlots:            raw.MaxOfferedSlots,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
