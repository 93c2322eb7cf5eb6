package trigger

import (
	"fmt"

	"github.com/hellwatch/hellwatch/pkg/models"
)

// FiredKey identifies one (category, occurrence, slot) alert. A key is
// recorded in the registry at most once; re-checking a recorded key never
// re-fires.
type FiredKey struct {
	Category     models.Category
	OccurrenceID string
	SlotIndex    int
}

// String renders the persisted key format "<category>:<occurrenceId>:<slot>".
func (k FiredKey) String() string {
	return fmt.Sprintf("%s:%s:%d", k.Category, k.OccurrenceID, k.SlotIndex)
}

// legacyString renders the pre-category key format "<occurrenceId>:<slot>"
// written by old releases. Still honored on lookup so an upgrade never
// duplicates an already-sent alert.
func (k FiredKey) legacyString() string {
	return fmt.Sprintf("%s:%d", k.OccurrenceID, k.SlotIndex)
}
