package models

// BeepPattern selects how many tone bursts an alert plays.
type BeepPattern string

const (
	BeepSingle BeepPattern = "single"
	BeepDouble BeepPattern = "double"
	BeepTriple BeepPattern = "triple"
)

// Repeats returns the number of tone bursts for the pattern.
func (p BeepPattern) Repeats() int {
	switch p {
	case BeepDouble:
		return 2
	case BeepTriple:
		return 3
	default:
		return 1
	}
}

// TimerSlot is one configured lead-time alert for a category.
type TimerSlot struct {
	LeadMinutes   int         `json:"lead_minutes"` // 1-60 minutes before start
	SpeechEnabled bool        `json:"speech_enabled"`
	BeepPattern   BeepPattern `json:"beep_pattern"`
	PitchHz       int         `json:"pitch_hz"`
}

// MaxTimerSlots is the fixed slot capacity per category.
const MaxTimerSlots = 3

// CategoryConfig holds the per-category reminder settings. Slots is fixed
// capacity; only the first TimerCount entries are active.
type CategoryConfig struct {
	Enabled    bool                     `json:"enabled"`
	TimerCount int                      `json:"timer_count"` // 1-3
	Slots      [MaxTimerSlots]TimerSlot `json:"slots"`
	SpeechName string                   `json:"speech_name"` // optional template, %s = event name
}

// ActiveSlots returns the active prefix of the slot list.
func (c CategoryConfig) ActiveSlots() []TimerSlot {
	n := c.TimerCount
	if n < 1 {
		n = 1
	}
	if n > MaxTimerSlots {
		n = MaxTimerSlots
	}
	return c.Slots[:n]
}

// OverlayDisplayMode selects how the overlay lays out its category rows.
type OverlayDisplayMode string

const (
	OverlayModeStacked OverlayDisplayMode = "stacked"
	OverlayModeCompact OverlayDisplayMode = "compact"
)

// Settings is the complete user configuration. Treated as a value snapshot:
// updates build a new Settings rather than mutating one shared by components.
type Settings struct {
	Categories [3]CategoryConfig `json:"categories"` // indexed by Category

	OverlayEnabled  bool               `json:"overlay_enabled"`
	OverlayMode     OverlayDisplayMode `json:"overlay_mode"`
	OverlayOpacity  float64            `json:"overlay_opacity"` // 0.1-1.0
	OverlayScale    float64            `json:"overlay_scale"`   // 0.5-2.0
	OverlayShows    [3]bool            `json:"overlay_shows"`   // per-category visibility
	SoundEnabled    bool               `json:"sound_enabled"`
	RefreshMinutes  int                `json:"refresh_minutes"` // schedule poll interval
	AutoStart       bool               `json:"auto_start"`
	RemindersPaused bool               `json:"reminders_paused"` // tray "Reminders" toggle
}

// Category returns the config for a category.
func (s Settings) Category(c Category) CategoryConfig {
	return s.Categories[c]
}

// DefaultSettings returns the configuration used when storage is empty or
// unreadable.
func DefaultSettings() Settings {
	slot := func(lead int) TimerSlot {
		return TimerSlot{LeadMinutes: lead, BeepPattern: BeepDouble, PitchHz: 880}
	}
	cat := CategoryConfig{
		Enabled:    true,
		TimerCount: 2,
		Slots:      [MaxTimerSlots]TimerSlot{slot(10), slot(5), slot(1)},
	}
	s := Settings{
		OverlayEnabled: true,
		OverlayMode:    OverlayModeStacked,
		OverlayOpacity: 0.85,
		OverlayScale:   1.0,
		SoundEnabled:   true,
		RefreshMinutes: 5,
	}
	for i := range s.Categories {
		s.Categories[i] = cat
	}
	for i := range s.OverlayShows {
		s.OverlayShows[i] = true
	}
	return s
}

// Normalize clamps out-of-range values into their documented bounds and
// returns the adjusted copy.
func (s Settings) Normalize() Settings {
	clampInt := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	clampF := func(v, lo, hi float64) float64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	for i := range s.Categories {
		c := &s.Categories[i]
		c.TimerCount = clampInt(c.TimerCount, 1, MaxTimerSlots)
		for j := range c.Slots {
			c.Slots[j].LeadMinutes = clampInt(c.Slots[j].LeadMinutes, 1, 60)
			c.Slots[j].PitchHz = clampInt(c.Slots[j].PitchHz, 200, 4000)
			if c.Slots[j].BeepPattern == "" {
				c.Slots[j].BeepPattern = BeepSingle
			}
		}
	}
	if s.OverlayMode == "" {
		s.OverlayMode = OverlayModeStacked
	}
	s.OverlayOpacity = clampF(s.OverlayOpacity, 0.1, 1.0)
	s.OverlayScale = clampF(s.OverlayScale, 0.5, 2.0)
	s.RefreshMinutes = clampInt(s.RefreshMinutes, 1, 60)
	return s
}

// OverlaySnapshot is the subset of settings an overlay surface renders from.
// It is broadcast by value; surfaces never share a reference with the core.
type OverlaySnapshot struct {
	Enabled  bool               `json:"enabled"`
	Mode     OverlayDisplayMode `json:"mode"`
	Opacity  float64            `json:"opacity"`
	Scale    float64            `json:"scale"`
	Shows    [3]bool            `json:"shows"`
	Paused   bool               `json:"paused"`
}

// OverlaySnapshot extracts the overlay-relevant view of the settings.
func (s Settings) OverlaySnapshot() OverlaySnapshot {
	return OverlaySnapshot{
		Enabled: s.OverlayEnabled,
		Mode:    s.OverlayMode,
		Opacity: s.OverlayOpacity,
		Scale:   s.OverlayScale,
		Shows:   s.OverlayShows,
		Paused:  s.RemindersPaused,
	}
}
