package models

import "testing"

func TestNormalizeClampsRanges(t *testing.T) {
	s := DefaultSettings()
	s.Categories[Helltide].TimerCount = 7
	s.Categories[Helltide].Slots[0].LeadMinutes = 0
	s.Categories[Helltide].Slots[1].LeadMinutes = 600
	s.Categories[Helltide].Slots[2].PitchHz = 10
	s.OverlayOpacity = 3
	s.OverlayScale = 0
	s.RefreshMinutes = -1

	s = s.Normalize()

	cfg := s.Category(Helltide)
	if cfg.TimerCount != MaxTimerSlots {
		t.Fatalf("TimerCount = %d", cfg.TimerCount)
	}
	if cfg.Slots[0].LeadMinutes != 1 || cfg.Slots[1].LeadMinutes != 60 {
		t.Fatalf("lead minutes not clamped: %d, %d", cfg.Slots[0].LeadMinutes, cfg.Slots[1].LeadMinutes)
	}
	if cfg.Slots[2].PitchHz != 200 {
		t.Fatalf("pitch not clamped: %d", cfg.Slots[2].PitchHz)
	}
	if s.OverlayOpacity != 1.0 || s.OverlayScale != 0.5 {
		t.Fatalf("overlay values not clamped: %v, %v", s.OverlayOpacity, s.OverlayScale)
	}
	if s.RefreshMinutes != 1 {
		t.Fatalf("refresh not clamped: %d", s.RefreshMinutes)
	}
}

func TestActiveSlots(t *testing.T) {
	cfg := CategoryConfig{TimerCount: 2}
	if n := len(cfg.ActiveSlots()); n != 2 {
		t.Fatalf("ActiveSlots len = %d", n)
	}
	cfg.TimerCount = 0
	if n := len(cfg.ActiveSlots()); n != 1 {
		t.Fatalf("zero count should still expose one slot, got %d", n)
	}
}

func TestOverlaySnapshotIsValueCopy(t *testing.T) {
	s := DefaultSettings()
	snap := s.OverlaySnapshot()

	s.OverlayShows[Legion] = false
	if !snap.Shows[Legion] {
		t.Fatal("snapshot shares state with settings")
	}
}
