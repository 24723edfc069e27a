package conversation

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/uzulab/soudanin/internal/assistant"
	"github.com/uzulab/soudanin/internal/calendar"
	"github.com/uzulab/soudanin/internal/config"
	"github.com/uzulab/soudanin/internal/messenger"
	"github.com/uzulab/soudanin/internal/repository"
	"github.com/uzulab/soudanin/internal/schedule"
	"github.com/uzulab/soudanin/internal/webhook"
)

// Each collaborator call is bounded; expiry is handled the same way as a
// collaborator failure and degrades to the fallback reply for that turn.
const collaboratorCallTimeout = 60 * time.Second

// Engine drives one conversation turn per inbound message: intent
// detection, slot offers, selection validation, booking, and reply
// delivery. A session is either idle or awaiting a slot selection; every
// transition happens here.
type Engine struct {
	cfg       *config.Config
	store     *Store
	assistant assistant.Assistant
	calendar  calendar.Client
	messenger messenger.Client
	repo      repository.Repository
	webhook   webhook.Sender
	location  *time.Location
	now       func() time.Time
}

func NewEngine(
	cfg *config.Config,
	as assistant.Assistant,
	cal calendar.Client,
	mc messenger.Client,
	repo repository.Repository,
	wh webhook.Sender,
	location *time.Location,
) *Engine {
	return &Engine{
		cfg:       cfg,
		store:     NewStore(),
		assistant: as,
		calendar:  cal,
		messenger: mc,
		repo:      repo,
		webhook:   wh,
		location:  location,
		now:       time.Now,
	}
}

// SendOpeningMessage generates and delivers the first message to the
// configured client. Generation failure degrades to a static greeting;
// only delivery failure is returned.
func (e *Engine) SendOpeningMessage(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, collaboratorCallTimeout)
	opening, err := e.assistant.OpeningMessage(callCtx)
	cancel()
	if err != nil {
		slog.Error("opening message generation failed; using static greeting", "error", err)
		opening = staticGreeting(e.cfg.ConsultationTopic)
	}

	sess := e.store.GetOrCreate(e.cfg.DiscordClientUserID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := e.messenger.SendDirectMessage(e.cfg.DiscordClientUserID, opening); err != nil {
		return err
	}
	sess.appendTurn(assistant.RoleAssistant, opening)
	e.auditTurn(sess.CounterpartID, assistant.RoleAssistant, opening)
	slog.Info("opening message sent", "counterpart_id", sess.CounterpartID)
	return nil
}

// HandleInboundMessage processes one inbound direct message. It is the
// single entry point for conversation state transitions; the session
// mutex is held for the whole turn, including collaborator calls.
func (e *Engine) HandleInboundMessage(msg messenger.InboundMessage) {
	if msg.UserID != e.cfg.DiscordClientUserID {
		slog.Debug("ignoring message from non-client user", "user_id", msg.UserID)
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		return
	}
	slog.Info("inbound message received", "counterpart_id", msg.UserID, "length", len(msg.Content))

	sess := e.store.GetOrCreate(msg.UserID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.appendTurn(assistant.RoleUser, msg.Content)
	e.auditTurn(sess.CounterpartID, assistant.RoleUser, msg.Content)

	ctx := context.Background()
	var reply string
	if sess.AwaitingSelection {
		reply = e.handleSelectionTurn(ctx, sess, msg.Content)
	} else {
		reply = e.handleIdleTurn(ctx, sess, msg.Content)
	}

	sess.appendTurn(assistant.RoleAssistant, reply)
	e.auditTurn(sess.CounterpartID, assistant.RoleAssistant, reply)
	if err := e.messenger.SendDirectMessage(sess.CounterpartID, reply); err != nil {
		slog.Error("failed to deliver reply", "error", err, "counterpart_id", sess.CounterpartID)
	}
}

// handleSelectionTurn runs while an offer is outstanding. An invalid
// selection keeps the offer and re-prompts; no intent detection or reply
// generation runs on that turn. A booking failure also keeps the offer so
// the client can pick again.
func (e *Engine) handleSelectionTurn(ctx context.Context, sess *Session, text string) string {
	idx, ok := parseSlotSelection(text, len(sess.OfferedSlots))
	if !ok {
		slog.Info("no valid slot selection in message", "counterpart_id", sess.CounterpartID, "offered", len(sess.OfferedSlots))
		return selectionRetryMessage(len(sess.OfferedSlots))
	}
	slot := sess.OfferedSlots[idx]

	callCtx, cancel := context.WithTimeout(ctx, collaboratorCallTimeout)
	defer cancel()
	joinLink, err := e.calendar.CreateMeeting(callCtx, calendar.MeetingRequest{
		Title:       meetingTitle(e.cfg.ConsultationTopic),
		Description: meetingDescription(e.cfg.ConsultationTopic),
		Start:       slot.Start,
		End:         slot.End,
	})
	if err != nil {
		slog.Error("meeting creation failed; offer retained", "error", err, "counterpart_id", sess.CounterpartID, "slot_start", slot.Start)
		return messageProcessingFailure
	}

	sess.clearOffer()
	slog.Info("meeting booked", "counterpart_id", sess.CounterpartID, "slot_start", slot.Start, "join_link", joinLink)
	e.recordMeeting(sess.CounterpartID, slot, joinLink)
	e.notifyBooking(sess.CounterpartID, slot, joinLink)
	return bookingConfirmation(slot, joinLink)
}

// handleIdleTurn runs intent detection and either offers slots or falls
// back to conversational reply generation.
func (e *Engine) handleIdleTurn(ctx context.Context, sess *Session, text string) string {
	intentCtx, cancel := context.WithTimeout(ctx, collaboratorCallTimeout)
	wantsMeeting, err := e.assistant.DetectSchedulingIntent(intentCtx, text)
	cancel()
	if err != nil {
		slog.Error("intent detection failed; treating as no intent", "error", err, "counterpart_id", sess.CounterpartID)
		wantsMeeting = false
	}

	if wantsMeeting {
		return e.offerSlots(ctx, sess)
	}

	replyCtx, cancel := context.WithTimeout(ctx, collaboratorCallTimeout)
	defer cancel()
	reply, err := e.assistant.Reply(replyCtx, sess.Transcript)
	if err != nil {
		slog.Error("reply generation failed", "error", err, "counterpart_id", sess.CounterpartID)
		return messageProcessingFailure
	}
	return reply
}

func (e *Engine) offerSlots(ctx context.Context, sess *Session) string {
	now := e.now().In(e.location)
	from := now
	to := now.AddDate(0, 0, e.cfg.ScheduleHorizonDays+1)

	callCtx, cancel := context.WithTimeout(ctx, collaboratorCallTimeout)
	defer cancel()
	busy, err := e.calendar.ListBusyIntervals(callCtx, from, to)
	if err != nil {
		slog.Error("busy interval lookup failed; reporting no availability", "error", err, "counterpart_id", sess.CounterpartID)
		return messageNoAvailability
	}

	workStart, workEnd, err := e.cfg.WorkHours()
	if err != nil {
		slog.Error("work hours misconfigured", "error", err)
		return messageProcessingFailure
	}
	slots := schedule.FindAvailableSlots(busy, schedule.SearchParams{
		Now:          now,
		HorizonDays:  e.cfg.ScheduleHorizonDays,
		SlotDuration: e.cfg.MeetingDuration(),
		Step:         e.cfg.SlotStep(),
		WorkStart:    workStart,
		WorkEnd:      workEnd,
		MaxSlots:     e.cfg.MaxOfferedSlots,
		Location:     e.location,
	})
	if len(slots) == 0 {
		slog.Info("no available slots in horizon", "counterpart_id", sess.CounterpartID, "horizon_days", e.cfg.ScheduleHorizonDays)
		return messageNoAvailability
	}

	sess.setOffer(slots)
	slog.Info("slots offered", "counterpart_id", sess.CounterpartID, "count", len(slots))
	return slotOfferMessage(slots)
}

// parseSlotSelection scans whitespace-delimited tokens and returns the
// zero-based index of the first token that is an integer within [1,
// slotCount]. Non-numeric and out-of-range tokens are ignored.
func parseSlotSelection(text string, slotCount int) (int, bool) {
	for _, token := range strings.Fields(text) {
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if n >= 1 && n <= slotCount {
			return n - 1, true
		}
	}
	return 0, false
}

// Audit writes are best-effort: a storage failure never affects the
// conversation protocol.
func (e *Engine) auditTurn(counterpartID, role, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), collaboratorCallTimeout)
	defer cancel()
	err := e.repo.InsertTurn(ctx, repository.InsertTurnInput{
		CounterpartID: counterpartID,
		Role:          role,
		Content:       content,
		OccurredAt:    e.now(),
	})
	if err != nil {
		slog.Error("failed to audit conversation turn", "error", err, "counterpart_id", counterpartID, "role", role)
	}
}

func (e *Engine) recordMeeting(counterpartID string, slot schedule.Slot, joinLink string) {
	ctx, cancel := context.WithTimeout(context.Background(), collaboratorCallTimeout)
	defer cancel()
	err := e.repo.InsertMeeting(ctx, repository.InsertMeetingInput{
		CounterpartID: counterpartID,
		Title:         meetingTitle(e.cfg.ConsultationTopic),
		JoinLink:      joinLink,
		StartAt:       slot.Start,
		EndAt:         slot.End,
		BookedAt:      e.now(),
	})
	if err != nil {
		slog.Error("failed to record booked meeting", "error", err, "counterpart_id", counterpartID)
	}
}

func (e *Engine) notifyBooking(counterpartID string, slot schedule.Slot, joinLink string) {
	ctx, cancel := context.WithTimeout(context.Background(), collaboratorCallTimeout)
	defer cancel()
	err := e.webhook.SendBookingNotification(ctx, webhook.BookingNotification{
		SchemaVersion: webhook.BookingWebhookSchemaVersion,
		CounterpartID: counterpartID,
		Title:         meetingTitle(e.cfg.ConsultationTopic),
		JoinLink:      joinLink,
		StartAt:       slot.Start.Format(time.RFC3339),
		EndAt:         slot.End.Format(time.RFC3339),
	})
	if err != nil {
		slog.Error("failed to send booking webhook", "error", err, "counterpart_id", counterpartID)
	}
}
