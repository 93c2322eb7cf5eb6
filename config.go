package main

import (
	"encoding/json"

	"fyne.io/fyne/v2"
	"github.com/hellwatch/hellwatch/pkg/models"
)

const (
	settingsKey      = "settings"
	panicStopKey     = "panic_stop"
	firedRegistryKey = "fired_alerts_v2"
	// Pre-category releases persisted the registry under this key.
	firedRegistryLegacyKey = "fired_alerts"
)

// loadSettings reads settings from Preferences. An empty or corrupt blob
// yields the defaults; storage problems are never fatal.
func loadSettings(app fyne.App) models.Settings {
	raw := app.Preferences().String(settingsKey)
	if raw == "" {
		return models.DefaultSettings()
	}
	var s models.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return models.DefaultSettings()
	}
	return s.Normalize()
}

func saveSettings(app fyne.App, s models.Settings) {
	if raw, err := json.Marshal(s); err == nil {
		app.Preferences().SetString(settingsKey, string(raw))
	}
}

func loadPanicStop(app fyne.App) bool {
	return app.Preferences().BoolWithFallback(panicStopKey, false)
}

func savePanicStop(app fyne.App, tripped bool) {
	app.Preferences().SetBool(panicStopKey, tripped)
}

// prefsPersister adapts Preferences to the trigger.Persister contract. Load
// falls back to the legacy key so an upgrade keeps its fired history.
type prefsPersister struct {
	app fyne.App
}

func (p *prefsPersister) Load() ([]byte, error) {
	raw := p.app.Preferences().String(firedRegistryKey)
	if raw == "" {
		raw = p.app.Preferences().String(firedRegistryLegacyKey)
	}
	return []byte(raw), nil
}

func (p *prefsPersister) Save(data []byte) error {
	p.app.Preferences().SetString(firedRegistryKey, string(data))
	return nil
}
