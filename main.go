package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/hellwatch/hellwatch/pkg/audio"
	"github.com/hellwatch/hellwatch/pkg/dispatch"
	"github.com/hellwatch/hellwatch/pkg/models"
	"github.com/hellwatch/hellwatch/pkg/overlay"
	"github.com/hellwatch/hellwatch/pkg/schedule"
	"github.com/hellwatch/hellwatch/pkg/speech"
	"github.com/hellwatch/hellwatch/pkg/trigger"
	"github.com/hellwatch/hellwatch/pkg/watchdog"
)

const (
	tickInterval     = 1 * time.Second
	watchdogGrace    = 10 * time.Second
	watchdogInterval = 5 * time.Second
)

type Hellwatch struct {
	app fyne.App

	mu       sync.Mutex
	settings models.Settings

	client     *schedule.Client
	evaluator  *trigger.Evaluator
	dispatcher *dispatch.Dispatcher
	hub        *overlay.Hub
	panicStop  *watchdog.State
	dog        *watchdog.Watchdog

	tickTicker  *time.Ticker
	refreshStop chan struct{}

	overlayWin *OverlayWindow
	configWin  *ConfigWindow
}

func main() {
	hw := &Hellwatch{
		app: app.NewWithID("io.hellwatch.app"),
		hub: overlay.NewHub(),
	}

	if err := hw.initialize(); err != nil {
		log.Fatal(err)
	}

	hw.app.Run()
}

func (hw *Hellwatch) initialize() error {
	hw.settings = loadSettings(hw.app)
	hw.panicStop = watchdog.NewState(loadPanicStop(hw.app), func(tripped bool) {
		savePanicStop(hw.app, tripped)
	})

	registry := trigger.NewRegistry(&prefsPersister{app: hw.app})
	hw.evaluator = trigger.NewEvaluator(registry)
	hw.client = schedule.NewClient("")
	hw.dispatcher = &dispatch.Dispatcher{
		Toasts:     hw.hub,
		Beep:       audio.NewTonePlayer(),
		Speech:     speech.NewCommandSpeaker(),
		Suppressed: hw.panicStop.Tripped,
	}

	// Sync autostart state with settings on startup
	if err := setupAutostart(hw.settings.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	saveSettings(hw.app, hw.settings)

	hw.setupSystemTray()
	hw.startRefreshLoop()
	hw.startTickLoop()
	hw.startWatchdog()
	hw.ensureOverlay()
	hw.hub.BroadcastSettings(hw.settings.OverlaySnapshot())

	return nil
}

// currentSettings returns the live settings snapshot by value.
func (hw *Hellwatch) currentSettings() models.Settings {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	return hw.settings
}

// tick is the 1 Hz heart of the reminder engine: prune, evaluate, dispatch.
func (hw *Hellwatch) tick() {
	if hw.panicStop.Tripped() {
		return
	}
	s := hw.currentSettings()
	if s.RemindersPaused {
		return
	}

	snap := hw.client.Snapshot()
	fires := hw.evaluator.Tick(s, snap.Occurrences, time.Now())
	for _, ev := range fires {
		log.Printf("firing %s slot %d (%s remaining)", ev.Category, ev.SlotIndex, ev.Remaining.Round(time.Second))
		hw.dispatcher.Dispatch(ev, s)
	}
	if len(fires) > 0 {
		hw.updateSystemTrayMenu()
	}
}

func (hw *Hellwatch) startTickLoop() {
	hw.tickTicker = time.NewTicker(tickInterval)
	go func() {
		for range hw.tickTicker.C {
			watchdog.Guard(hw.panicStop, "tick", hw.tick)
		}
	}()
}

// startRefreshLoop fetches the schedule now and then on the configured
// interval. The client itself drops overlapping refreshes.
func (hw *Hellwatch) startRefreshLoop() {
	stop := make(chan struct{})
	hw.refreshStop = stop

	interval := time.Duration(hw.currentSettings().RefreshMinutes) * time.Minute
	go func() {
		hw.refreshSchedule()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !hw.panicStop.Tripped() {
					hw.refreshSchedule()
				}
			case <-stop:
				return
			}
		}
	}()
}

func (hw *Hellwatch) restartRefreshLoop() {
	if hw.refreshStop != nil {
		close(hw.refreshStop)
	}
	hw.startRefreshLoop()
}

func (hw *Hellwatch) refreshSchedule() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := hw.client.Refresh(ctx); err != nil {
		// Previous snapshot stays in place; error surfaces in the tray.
		hw.updateSystemTrayMenu()
		return
	}
	hw.updateSystemTrayMenu()
}

// startWatchdog observes the overlay surface after a grace period. Three
// consecutive implausible observations latch panic-stop.
func (hw *Hellwatch) startWatchdog() {
	hw.dog = watchdog.New(hw.probeUI, hw.panicStop)
	go func() {
		time.Sleep(watchdogGrace)
		ticker := time.NewTicker(watchdogInterval)
		defer ticker.Stop()
		for range ticker.C {
			wasTripped := hw.panicStop.Tripped()
			hw.dog.Observe()
			if !wasTripped && hw.panicStop.Tripped() {
				hw.onPanicStop()
			}
		}
	}()
}

// probeUI reports whether the root overlay surface renders with plausible
// dimensions. With the overlay disabled there is nothing to misrender.
func (hw *Hellwatch) probeUI() (bool, string) {
	s := hw.currentSettings()
	if !s.OverlayEnabled || hw.overlayWin == nil {
		return true, ""
	}
	size := hw.overlayWin.CanvasSize()
	if size.Width < 10 || size.Height < 10 {
		return false, fmt.Sprintf("overlay canvas %v", size)
	}
	return true, ""
}

// onPanicStop suppresses everything already in flight once the latch trips.
func (hw *Hellwatch) onPanicStop() {
	hw.dispatcher.CancelPending()
	hw.hub.BroadcastSettings(models.OverlaySnapshot{}) // all-off snapshot hides surfaces
	hw.updateSystemTrayMenu()
}

// resetPanicStop is the explicit user escape hatch.
func (hw *Hellwatch) resetPanicStop() {
	hw.panicStop.Reset()
	hw.hub.BroadcastSettings(hw.currentSettings().OverlaySnapshot())
	hw.updateSystemTrayMenu()
}

// applySettings installs a new settings snapshot and propagates every
// side effect: persistence, autostart, refresh cadence, catch-up fires for
// newly enabled categories, and the overlay broadcast.
func (hw *Hellwatch) applySettings(next models.Settings) {
	next = next.Normalize()

	hw.mu.Lock()
	prev := hw.settings
	hw.settings = next
	hw.mu.Unlock()

	saveSettings(hw.app, next)

	if prev.AutoStart != next.AutoStart {
		if err := setupAutostart(next.AutoStart); err != nil {
			log.Printf("Warning: failed to update autostart: %v", err)
		}
	}
	if prev.RefreshMinutes != next.RefreshMinutes {
		hw.restartRefreshLoop()
	}

	hw.runCatchUps(prev, next)

	hw.ensureOverlay()
	hw.hub.BroadcastSettings(next.OverlaySnapshot())
	hw.updateSystemTrayMenu()
}

// runCatchUps fires the most urgent overdue slot for every category that
// just flipped from disabled to enabled.
func (hw *Hellwatch) runCatchUps(prev, next models.Settings) {
	if hw.panicStop.Tripped() || next.RemindersPaused {
		return
	}
	snap := hw.client.Snapshot()
	now := time.Now()
	for _, cat := range models.Categories {
		if prev.Category(cat).Enabled || !next.Category(cat).Enabled {
			continue
		}
		ev, ok := hw.evaluator.CatchUp(cat, next.Category(cat), snap.Occurrences[cat], now)
		if !ok {
			continue
		}
		log.Printf("catch-up fire for %s slot %d", cat, ev.SlotIndex)
		hw.dispatcher.Dispatch(ev, next)
	}
}

// ensureOverlay lazily creates the overlay window the first time the
// settings call for one. It stays subscribed afterwards; the snapshot tells
// it when to hide.
func (hw *Hellwatch) ensureOverlay() {
	s := hw.currentSettings()
	if !s.OverlayEnabled || hw.panicStop.Tripped() || hw.overlayWin != nil {
		return
	}
	hw.overlayWin = NewOverlayWindow(hw.app, hw.hub)
}

func (hw *Hellwatch) showConfigWindow() {
	if hw.configWin != nil && hw.configWin.window != nil {
		hw.configWin.window.RequestFocus()
		hw.configWin.window.Show()
		return
	}

	hw.configWin = NewConfigWindow(hw.app, hw.currentSettings(), hw.applySettings)
	hw.configWin.window.SetOnClosed(func() {
		hw.configWin = nil
	})
	hw.configWin.Show()
}

func (hw *Hellwatch) quit() {
	if hw.tickTicker != nil {
		hw.tickTicker.Stop()
	}
	if hw.refreshStop != nil {
		close(hw.refreshStop)
		hw.refreshStop = nil
	}
	if hw.overlayWin != nil {
		hw.overlayWin.Close()
	}
	hw.app.Quit()
}
