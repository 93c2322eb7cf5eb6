package overlay

import (
	"sync"
	"testing"
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
)

type recordingSurface struct {
	mu        sync.Mutex
	snapshots []models.OverlaySnapshot
	toasts    []models.ToastEvent
	block     chan struct{} // when set, ShowToast blocks until closed
}

func (r *recordingSurface) ApplySettings(s models.OverlaySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recordingSurface) ShowToast(ev models.ToastEvent) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, ev)
}

func (r *recordingSurface) lastSnapshot() (models.OverlaySnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return models.OverlaySnapshot{}, false
	}
	return r.snapshots[len(r.snapshots)-1], true
}

func (r *recordingSurface) toastCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.toasts)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestBroadcastWithZeroSurfaces(t *testing.T) {
	h := NewHub()
	// Must complete silently with nobody listening.
	h.BroadcastSettings(models.OverlaySnapshot{Enabled: true})
	h.SendToast(models.ToastEvent{Title: "lost"})
	if h.SubscriberCount() != 0 {
		t.Fatal("phantom subscriber")
	}
}

func TestLateSubscriberReconcilesOnNextBroadcast(t *testing.T) {
	h := NewHub()

	// This broadcast is legitimately lost; no surface exists yet.
	h.BroadcastSettings(models.OverlaySnapshot{Enabled: true, Opacity: 0.5})

	surf := &recordingSurface{}
	h.Subscribe(surf)

	want := models.OverlaySnapshot{Enabled: true, Opacity: 0.9, Scale: 1.5}
	h.BroadcastSettings(want)

	if !waitFor(t, time.Second, func() bool {
		got, ok := surf.lastSnapshot()
		return ok && got == want
	}) {
		got, _ := surf.lastSnapshot()
		t.Fatalf("surface state %+v never converged to %+v", got, want)
	}
}

func TestToastDeliveredToAllSurfaces(t *testing.T) {
	h := NewHub()
	a := &recordingSurface{}
	b := &recordingSurface{}
	h.Subscribe(a)
	h.Subscribe(b)

	h.SendToast(models.ToastEvent{Title: "Helltide", Category: models.Helltide})

	if !waitFor(t, time.Second, func() bool { return a.toastCount() == 1 && b.toastCount() == 1 }) {
		t.Fatalf("toast counts a=%d b=%d, want 1/1", a.toastCount(), b.toastCount())
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	surf := &recordingSurface{}
	id := h.Subscribe(surf)
	h.Unsubscribe(id)

	h.SendToast(models.ToastEvent{Title: "after"})
	time.Sleep(50 * time.Millisecond)
	if surf.toastCount() != 0 {
		t.Fatal("unsubscribed surface still received a toast")
	}
	h.Unsubscribe("no-such-id") // must not panic
}

func TestSlowSurfaceDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	block := make(chan struct{})
	slow := &recordingSurface{block: block}
	h.Subscribe(slow)

	// First toast parks the delivery goroutine; overflow the buffer on top.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 40; i++ {
			h.SendToast(models.ToastEvent{Title: "burst"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send blocked on a slow surface")
	}
	close(block)
}
