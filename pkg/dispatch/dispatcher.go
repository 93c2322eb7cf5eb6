package dispatch

import (
	"log"
	"sync"
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
)

// speechPause is how long after the beep finishes before speech starts, so
// the two cues do not overlap.
const speechPause = 300 * time.Millisecond

// defaultToastDuration is how long overlay toasts stay visible.
const defaultToastDuration = 8 * time.Second

// Beeper plays an alert tone pattern and reports how long it lasts.
type Beeper interface {
	Beep(pattern models.BeepPattern, pitchHz int) (time.Duration, error)
}

// Speaker voices a short phrase. Available reports whether speech can work
// in the current environment at all.
type Speaker interface {
	Speak(text string) error
	Available() bool
}

// Toaster receives overlay toast events. Typically the overlay hub.
type Toaster interface {
	SendToast(models.ToastEvent)
}

// Dispatcher fans a fired trigger out to the overlay, audio, and speech
// channels. Channels are independent: one failing never suppresses the
// others. The Suppressed gate (panic-stop) silences everything.
type Dispatcher struct {
	Toasts     Toaster
	Beep       Beeper
	Speech     Speaker
	Suppressed func() bool // nil means never suppressed

	mu      sync.Mutex
	pending []*Task
}

// Dispatch delivers one fire event according to the current settings.
func (d *Dispatcher) Dispatch(ev models.FireEvent, s models.Settings) {
	if d.Suppressed != nil && d.Suppressed() {
		log.Printf("dispatch: suppressed fire for %s slot %d", ev.Category, ev.SlotIndex)
		return
	}

	cfg := s.Category(ev.Category)
	name := eventName(ev, cfg)
	when := humanRemaining(ev.Remaining)

	if s.OverlayEnabled && d.Toasts != nil {
		d.Toasts.SendToast(models.ToastEvent{
			Title:    name,
			Body:     when,
			Category: ev.Category,
			Duration: defaultToastDuration,
		})
	}

	var beepDur time.Duration
	if s.SoundEnabled && d.Beep != nil {
		slot := cfg.Slots[ev.SlotIndex]
		dur, err := d.Beep.Beep(slot.BeepPattern, slot.PitchHz)
		if err != nil {
			log.Printf("dispatch: beep failed: %v", err)
		} else {
			beepDur = dur
		}
	}

	if s.SoundEnabled && cfg.Slots[ev.SlotIndex].SpeechEnabled && d.Speech != nil && d.Speech.Available() {
		text := name + " " + when
		task := Schedule(time.Now().Add(beepDur+speechPause), func() {
			if d.Suppressed != nil && d.Suppressed() {
				return
			}
			if err := d.Speech.Speak(text); err != nil {
				log.Printf("dispatch: speech failed: %v", err)
			}
		})
		d.track(task)
	}
}

// CancelPending cancels speech tasks that have not run yet. Called when
// panic-stop trips so no queued cue escapes the suppression.
func (d *Dispatcher) CancelPending() {
	d.mu.Lock()
	tasks := d.pending
	d.pending = nil
	d.mu.Unlock()
	for _, t := range tasks {
		t.Cancel()
	}
}

func (d *Dispatcher) track(t *Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// Drop references to tasks that already fired.
	kept := d.pending[:0]
	now := time.Now()
	for _, p := range d.pending {
		if p.FireAt.After(now) {
			kept = append(kept, p)
		}
	}
	d.pending = append(kept, t)
}
