// Package overlay synchronizes core state to independently rendered overlay
// surfaces. Delivery is best-effort: a surface that does not exist yet, or
// cannot keep up, simply misses messages; the next settings broadcast
// re-delivers current state, so surfaces converge without a queue.
package overlay

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/hellwatch/hellwatch/pkg/models"
)

// Surface is one rendering destination. Both methods are called from the
// hub's delivery goroutine for that surface, in per-surface order.
type Surface interface {
	// ApplySettings reconciles the surface's presentation state against the
	// snapshot. Called with a value copy; the surface owns it.
	ApplySettings(models.OverlaySnapshot)
	// ShowToast displays a toast. No acknowledgement; at-least-once at best.
	ShowToast(models.ToastEvent)
}

// message is one broadcast unit; exactly one field is set.
type message struct {
	snapshot *models.OverlaySnapshot
	toast    *models.ToastEvent
}

type subscriber struct {
	ch   chan message
	done chan struct{}
}

// Hub fans settings snapshots and toast events out to zero or more
// subscribed surfaces. Broadcasting with no subscribers is a silent no-op.
type Hub struct {
	mu   sync.Mutex
	subs map[string]*subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]*subscriber)}
}

// Subscribe registers a surface and returns its subscription id. Delivery
// happens on a dedicated goroutine until Unsubscribe.
func (h *Hub) Subscribe(s Surface) string {
	id := uuid.New().String()
	sub := &subscriber{
		ch:   make(chan message, 16),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case msg := <-sub.ch:
				if msg.snapshot != nil {
					s.ApplySettings(*msg.snapshot)
				}
				if msg.toast != nil {
					s.ShowToast(*msg.toast)
				}
			case <-sub.done:
				return
			}
		}
	}()

	return id
}

// Unsubscribe removes a surface. Safe to call with an unknown id.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()
	if ok {
		close(sub.done)
	}
}

// BroadcastSettings pushes the snapshot to every subscribed surface.
func (h *Hub) BroadcastSettings(snap models.OverlaySnapshot) {
	h.send(message{snapshot: &snap})
}

// SendToast pushes a toast to every subscribed surface.
func (h *Hub) SendToast(ev models.ToastEvent) {
	h.send(message{toast: &ev})
}

// SubscriberCount returns the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) send(msg message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		select {
		case sub.ch <- msg:
		default:
			// Surface is not draining; drop rather than block or queue.
			log.Printf("overlay: dropping message for slow surface %s", id)
		}
	}
}
