package schedule

import (
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
)

// SelectNext picks the soonest strictly-future occurrence from the list.
// Occurrences with a zero start time are treated as absent. ok is false when
// no future occurrence exists, which is a normal outcome (empty schedule or
// horizon exhausted), not an error.
func SelectNext(occs []models.Occurrence, now time.Time) (models.Occurrence, bool) {
	var best models.Occurrence
	found := false
	for _, occ := range occs {
		if occ.StartTime.IsZero() || !occ.StartTime.After(now) {
			continue
		}
		if !found || occ.StartTime.Before(best.StartTime) {
			best = occ
			found = true
		}
	}
	return best, found
}
