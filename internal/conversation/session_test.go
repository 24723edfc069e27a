package conversation

import (
	"testing"
	"time"

	"github.com/uzulab/soudanin/internal/schedule"
)

func TestStoreGetOrCreate(t *testing.T) {
	store := NewStore()
	first := store.GetOrCreate("user-1")
	if first == nil || first.CounterpartID != "user-1" {
		t.Fatalf("unexpected session: %+v", first)
	}
	second := store.GetOrCreate("user-1")
	if first != second {
		t.Fatal("expected the same session instance for the same counterpart")
	}
	other := store.GetOrCreate("user-2")
	if other == first {
		t.Fatal("expected distinct sessions per counterpart")
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
}

func TestSessionOfferInvariant(t *testing.T) {
	s := &Session{CounterpartID: "user-1"}
	if s.AwaitingSelection {
		t.Fatal("new session must be idle")
	}

	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	slots := []schedule.Slot{{
		TimeInterval: schedule.TimeInterval{Start: start, End: start.Add(30 * time.Minute)},
		Label:        "02.03.2026 09:00",
	}}
	s.setOffer(slots)
	if !s.AwaitingSelection || len(s.OfferedSlots) != 1 {
		t.Fatal("setOffer must enter awaiting state with slots stored")
	}

	s.setOffer(nil)
	if s.AwaitingSelection {
		t.Fatal("empty offer must not enter awaiting state")
	}

	s.setOffer(slots)
	s.clearOffer()
	if s.AwaitingSelection || s.OfferedSlots != nil {
		t.Fatal("clearOffer must return the session to idle")
	}
}
