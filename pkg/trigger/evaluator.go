package trigger

import (
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
	"github.com/hellwatch/hellwatch/pkg/schedule"
)

// FireWindow is the tolerance band after a slot's ideal trigger instant. A
// tick landing anywhere inside it counts as on-time; past it the slot is
// permanently missed for that occurrence. This survives tick jitter and
// transient fetch failures without producing stale alerts.
const FireWindow = 30 * time.Second

// Evaluator decides, once per tick, which configured timer slots fire. All
// dedup state lives in the registry, so the evaluator itself is stateless
// across ticks and restarts.
type Evaluator struct {
	reg *Registry
}

func NewEvaluator(reg *Registry) *Evaluator {
	return &Evaluator{reg: reg}
}

// Registry exposes the backing registry, mainly for startup wiring.
func (e *Evaluator) Registry() *Registry { return e.reg }

// Tick evaluates every enabled category against the current occurrence lists
// and returns the fire events due this tick, each recorded in the registry
// before being returned. The registry is pruned first.
func (e *Evaluator) Tick(s models.Settings, occs map[models.Category][]models.Occurrence, now time.Time) []models.FireEvent {
	e.reg.Prune(now)

	var fires []models.FireEvent
	for _, cat := range models.Categories {
		cfg := s.Category(cat)
		if !cfg.Enabled {
			continue
		}
		next, ok := schedule.SelectNext(occs[cat], now)
		if !ok {
			continue
		}
		remaining := next.StartTime.Sub(now)
		for i, slot := range cfg.ActiveSlots() {
			triggerAt := next.StartTime.Add(-time.Duration(slot.LeadMinutes) * time.Minute)
			if now.Before(triggerAt) || now.After(triggerAt.Add(FireWindow)) {
				continue
			}
			key := FiredKey{Category: cat, OccurrenceID: next.ID, SlotIndex: i}
			if e.reg.Has(key) {
				continue
			}
			e.reg.Record(key, now)
			fires = append(fires, models.FireEvent{
				Category:   cat,
				Occurrence: next,
				SlotIndex:  i,
				Remaining:  remaining,
			})
		}
	}
	return fires
}
