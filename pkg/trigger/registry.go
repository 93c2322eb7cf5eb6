package trigger

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Retention is how long fired entries are kept before pruning. Old entries
// must outlive the occurrence's alert windows so a restart cannot re-fire
// them, but not so long that a reused occurrence id collides.
const Retention = 12 * time.Hour

// Persister stores the serialized registry. Load returning an error or
// garbage is never fatal; the registry falls back to empty.
type Persister interface {
	Load() ([]byte, error)
	Save([]byte) error
}

// Registry is the restart-durable map from FiredKey to the time it fired.
// Every mutation is persisted immediately.
type Registry struct {
	mu      sync.Mutex
	entries map[string]time.Time
	store   Persister
}

// NewRegistry loads the persisted registry through p. A nil persister gives
// an in-memory registry.
func NewRegistry(p Persister) *Registry {
	r := &Registry{entries: make(map[string]time.Time), store: p}
	if p == nil {
		return r
	}
	data, err := p.Load()
	if err != nil || len(data) == 0 {
		return r
	}
	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("trigger: corrupt fired registry, starting empty: %v", err)
		return r
	}
	for k, millis := range raw {
		r.entries[k] = time.UnixMilli(millis)
	}
	return r
}

// Has reports whether the key has already fired. Legacy-format entries
// (written before keys were category-scoped) count as fired too.
func (r *Registry) Has(key FiredKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key.String()]; ok {
		return true
	}
	_, ok := r.entries[key.legacyString()]
	return ok
}

// Record marks the key as fired at the given time. Recording an existing key
// is a no-op, keeping the original fire time.
func (r *Registry) Record(key FiredKey, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key.String()]; ok {
		return
	}
	r.entries[key.String()] = now
	r.persistLocked()
}

// Prune drops entries older than the retention window and returns how many
// were removed.
func (r *Registry) Prune(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := now.Add(-Retention)
	removed := 0
	for k, firedAt := range r.entries {
		if firedAt.Before(cutoff) {
			delete(r.entries, k)
			removed++
		}
	}
	if removed > 0 {
		r.persistLocked()
	}
	return removed
}

// Len returns the number of recorded entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) persistLocked() {
	if r.store == nil {
		return
	}
	raw := make(map[string]int64, len(r.entries))
	for k, t := range r.entries {
		raw[k] = t.UnixMilli()
	}
	data, err := json.Marshal(raw)
	if err != nil {
		log.Printf("trigger: marshal fired registry: %v", err)
		return
	}
	if err := r.store.Save(data); err != nil {
		log.Printf("trigger: persist fired registry: %v", err)
	}
}
