package trigger

import (
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
	"github.com/hellwatch/hellwatch/pkg/schedule"
)

// CatchUp handles a category being enabled mid-countdown. Among the active
// slots whose normal trigger point has already passed, it fires the one with
// the smallest lead time (the most recently due) that has not fired for the
// current occurrence, recording it so the periodic tick cannot fire it again.
// Slot configuration order is deliberately not consulted; the smallest
// overdue lead wins even if slots are configured out of order.
func (e *Evaluator) CatchUp(cat models.Category, cfg models.CategoryConfig, occs []models.Occurrence, now time.Time) (models.FireEvent, bool) {
	if !cfg.Enabled {
		return models.FireEvent{}, false
	}
	next, ok := schedule.SelectNext(occs, now)
	if !ok {
		return models.FireEvent{}, false
	}
	remaining := next.StartTime.Sub(now)
	if remaining <= 0 {
		return models.FireEvent{}, false
	}

	bestIdx := -1
	bestLead := 0
	for i, slot := range cfg.ActiveSlots() {
		lead := time.Duration(slot.LeadMinutes) * time.Minute
		if lead < remaining {
			continue // slot hasn't come due yet; the tick will handle it
		}
		key := FiredKey{Category: cat, OccurrenceID: next.ID, SlotIndex: i}
		if e.reg.Has(key) {
			continue
		}
		if bestIdx == -1 || slot.LeadMinutes < bestLead {
			bestIdx = i
			bestLead = slot.LeadMinutes
		}
	}
	if bestIdx == -1 {
		return models.FireEvent{}, false
	}

	e.reg.Record(FiredKey{Category: cat, OccurrenceID: next.ID, SlotIndex: bestIdx}, now)
	return models.FireEvent{
		Category:   cat,
		Occurrence: next,
		SlotIndex:  bestIdx,
		Remaining:  remaining,
	}, true
}
