package trigger

import (
	"testing"
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
)

// singleSlotSettings enables only Helltide with one slot at the given lead.
func singleSlotSettings(leadMinutes int) models.Settings {
	s := models.DefaultSettings()
	for i := range s.Categories {
		s.Categories[i].Enabled = false
	}
	s.Categories[models.Helltide] = models.CategoryConfig{
		Enabled:    true,
		TimerCount: 1,
		Slots: [models.MaxTimerSlots]models.TimerSlot{
			{LeadMinutes: leadMinutes, BeepPattern: models.BeepSingle, PitchHz: 880},
		},
	}
	return s
}

func occsFor(start time.Time) map[models.Category][]models.Occurrence {
	return map[models.Category][]models.Occurrence{
		models.Helltide: {{ID: "occ1", Category: models.Helltide, StartTime: start}},
	}
}

func TestTickFiresInsideWindow(t *testing.T) {
	e := NewEvaluator(NewRegistry(nil))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := singleSlotSettings(10)

	// 5s into the 10-minute slot's fire window.
	now := start.Add(-10*time.Minute + 5*time.Second)
	fires := e.Tick(s, occsFor(start), now)
	if len(fires) != 1 {
		t.Fatalf("expected exactly one fire, got %d", len(fires))
	}
	ev := fires[0]
	if ev.Category != models.Helltide || ev.SlotIndex != 0 {
		t.Fatalf("wrong fire event: %+v", ev)
	}
	if ev.Remaining != 10*time.Minute-5*time.Second {
		t.Fatalf("wrong remaining at fire: %v", ev.Remaining)
	}
}

func TestTickDoesNotFirePastWindow(t *testing.T) {
	e := NewEvaluator(NewRegistry(nil))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := singleSlotSettings(10)

	// 40s after the trigger instant, past the 30s window.
	now := start.Add(-10*time.Minute + 40*time.Second)
	if fires := e.Tick(s, occsFor(start), now); len(fires) != 0 {
		t.Fatalf("expected no fire past the window, got %d", len(fires))
	}
}

func TestTickFiresAtMostOncePerKey(t *testing.T) {
	e := NewEvaluator(NewRegistry(nil))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := singleSlotSettings(10)

	total := 0
	// Tick once a second through the whole window.
	for now := start.Add(-10 * time.Minute); !now.After(start.Add(-10*time.Minute + FireWindow)); now = now.Add(time.Second) {
		total += len(e.Tick(s, occsFor(start), now))
	}
	if total != 1 {
		t.Fatalf("slot fired %d times across the window, want 1", total)
	}
}

func TestSkippedWindowIsMissedSilently(t *testing.T) {
	e := NewEvaluator(NewRegistry(nil))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := singleSlotSettings(10)

	// Tick before the window, then simulate a suspended process: the next
	// tick lands well past triggerAt+FireWindow.
	before := start.Add(-11 * time.Minute)
	if fires := e.Tick(s, occsFor(start), before); len(fires) != 0 {
		t.Fatal("fired before the window opened")
	}
	after := start.Add(-10*time.Minute + 2*time.Minute)
	if fires := e.Tick(s, occsFor(start), after); len(fires) != 0 {
		t.Fatal("missed window must not backfill")
	}
}

func TestTickSkipsDisabledCategory(t *testing.T) {
	e := NewEvaluator(NewRegistry(nil))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := singleSlotSettings(10)
	s.Categories[models.Helltide].Enabled = false

	now := start.Add(-10*time.Minute + 5*time.Second)
	if fires := e.Tick(s, occsFor(start), now); len(fires) != 0 {
		t.Fatal("disabled category fired")
	}
}

func TestTickNoNextOccurrence(t *testing.T) {
	e := NewEvaluator(NewRegistry(nil))
	s := singleSlotSettings(10)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if fires := e.Tick(s, nil, now); len(fires) != 0 {
		t.Fatal("fired with no schedule data")
	}
	empty := map[models.Category][]models.Occurrence{models.Helltide: {}}
	if fires := e.Tick(s, empty, now); len(fires) != 0 {
		t.Fatal("fired with empty occurrence list")
	}
}

func TestRestartDoesNotRefire(t *testing.T) {
	store := &memStore{}
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := singleSlotSettings(10)
	now := start.Add(-10*time.Minute + 5*time.Second)

	e1 := NewEvaluator(NewRegistry(store))
	if fires := e1.Tick(s, occsFor(start), now); len(fires) != 1 {
		t.Fatalf("expected initial fire, got %d", len(fires))
	}

	// New process, same persisted registry, tick still inside the window.
	e2 := NewEvaluator(NewRegistry(store))
	if fires := e2.Tick(s, occsFor(start), now.Add(5*time.Second)); len(fires) != 0 {
		t.Fatal("restart caused a duplicate fire")
	}
}

func TestTickMultipleSlots(t *testing.T) {
	e := NewEvaluator(NewRegistry(nil))
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := singleSlotSettings(10)
	cfg := s.Categories[models.Helltide]
	cfg.TimerCount = 2
	cfg.Slots[1] = models.TimerSlot{LeadMinutes: 5, BeepPattern: models.BeepSingle, PitchHz: 880}
	s.Categories[models.Helltide] = cfg

	if fires := e.Tick(s, occsFor(start), start.Add(-10*time.Minute+time.Second)); len(fires) != 1 {
		t.Fatalf("10m slot: got %d fires", len(fires))
	}
	if fires := e.Tick(s, occsFor(start), start.Add(-5*time.Minute+time.Second)); len(fires) != 1 {
		t.Fatalf("5m slot: got %d fires", len(fires))
	}
}
