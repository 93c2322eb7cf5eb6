package models

import "time"

// Occurrence is one concrete future instance of a category's event as
// reported by the schedule API. Occurrences are immutable; every successful
// fetch replaces the per-category list wholesale.
type Occurrence struct {
	ID        string    // schedule source identifier (stable per occurrence)
	Category  Category  // which event type this belongs to
	StartTime time.Time // absolute start time
	BossName  string    // world boss name, empty for other categories
}
