package schedule

import (
	"sort"
	"time"
)

const slotLabelLayout = "02.01.2006 15:04"

// SearchParams bounds one availability search. All emitted slots share the
// same duration and are aligned to Step from the sweep cursor.
type SearchParams struct {
	// Now marks the earliest bookable moment; slots are never emitted
	// before it.
	Now time.Time
	// HorizonDays is the number of days searched after Now's day, so the
	// search covers HorizonDays+1 calendar days in total.
	HorizonDays  int
	SlotDuration time.Duration
	Step         time.Duration
	WorkStart    TimeOfDay
	WorkEnd      TimeOfDay
	// MaxSlots caps the result; zero or negative means no cap.
	MaxSlots int
	Location *time.Location
}

// FindAvailableSlots sweeps the working hours of each day in the horizon
// and returns the free windows that fit a meeting, in chronological order.
// Busy intervals may overlap each other; the sweep cursor never moves
// backwards, so overlapping busy blocks collapse naturally. The output is
// deterministic for identical inputs.
func FindAvailableSlots(busy BusyMap, params SearchParams) []Slot {
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now.In(loc)
	firstDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var slots []Slot
	for d := 0; d <= params.HorizonDays; d++ {
		day := firstDay.AddDate(0, 0, d)
		windowStart := params.WorkStart.On(day)
		windowEnd := params.WorkEnd.On(day)
		if d == 0 {
			// Today starts no earlier than "now" rounded up to the
			// next step boundary, so an in-progress or imminent
			// window is never offered.
			earliest := roundUpToStep(now, day, params.Step)
			if earliest.After(windowStart) {
				windowStart = earliest
			}
		}

		dayBusy := append([]TimeInterval(nil), busy[DayKey(day, loc)]...)
		sort.Slice(dayBusy, func(i, j int) bool { return dayBusy[i].Start.Before(dayBusy[j].Start) })

		cursor := windowStart
		for _, b := range dayBusy {
			for !cursor.Add(params.SlotDuration).After(b.Start) {
				slots = append(slots, newSlot(cursor, params.SlotDuration))
				cursor = cursor.Add(params.Step)
			}
			if b.End.After(cursor) {
				cursor = b.End
			}
		}
		for !cursor.Add(params.SlotDuration).After(windowEnd) {
			slots = append(slots, newSlot(cursor, params.SlotDuration))
			cursor = cursor.Add(params.Step)
		}
	}

	if params.MaxSlots > 0 && len(slots) > params.MaxSlots {
		slots = slots[:params.MaxSlots]
	}
	return slots
}

func newSlot(start time.Time, duration time.Duration) Slot {
	return Slot{
		TimeInterval: TimeInterval{Start: start, End: start.Add(duration)},
		Label:        start.Format(slotLabelLayout),
	}
}

func roundUpToStep(now, midnight time.Time, step time.Duration) time.Time {
	if step <= 0 {
		return now
	}
	elapsed := now.Sub(midnight)
	steps := elapsed / step
	if elapsed%step != 0 {
		steps++
	}
	return midnight.Add(steps * step)
}
