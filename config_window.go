package main

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/hellwatch/hellwatch/pkg/models"
)

type ConfigWindow struct {
	window   fyne.Window
	app      fyne.App
	settings models.Settings
	onSave   func(models.Settings)

	// Per-category widgets, indexed by models.Category
	enabledChecks     [3]*widget.Check
	countSelects      [3]*widget.Select
	speechNameEntries [3]*widget.Entry
	leadEntries       [3][models.MaxTimerSlots]*widget.Entry
	patternSelects    [3][models.MaxTimerSlots]*widget.Select
	pitchEntries      [3][models.MaxTimerSlots]*widget.Entry
	speechChecks      [3][models.MaxTimerSlots]*widget.Check

	// General tab
	overlayCheck   *widget.Check
	soundCheck     *widget.Check
	autoStartCheck *widget.Check
	showChecks     [3]*widget.Check
	modeSelect     *widget.Select
	refreshSelect  *widget.Select
	opacitySlider  *widget.Slider
	scaleSlider    *widget.Slider

	saveButton *widget.Button
}

func NewConfigWindow(app fyne.App, settings models.Settings, onSave func(models.Settings)) *ConfigWindow {
	cw := &ConfigWindow{
		app:      app,
		settings: settings,
		onSave:   onSave,
	}

	cw.window = app.NewWindow("Hellwatch - Settings")
	cw.buildUI()

	return cw
}

func (cw *ConfigWindow) Show() {
	cw.window.Resize(fyne.NewSize(520, 560))
	cw.window.Show()
}

func (cw *ConfigWindow) buildUI() {
	tabs := container.NewAppTabs(
		container.NewTabItem("General", cw.buildGeneralTab()),
	)
	for _, cat := range models.Categories {
		tabs.Append(container.NewTabItem(cat.DisplayName(), cw.buildCategoryTab(cat)))
	}

	cw.saveButton = widget.NewButton("Save", func() {
		next := cw.settingsFromUI()
		if cw.onSave != nil {
			cw.onSave(next)
		}
		cw.settings = next
	})
	cw.saveButton.Importance = widget.HighImportance

	cw.window.SetContent(container.NewBorder(nil, container.NewPadded(cw.saveButton), nil, nil, tabs))
}

func (cw *ConfigWindow) buildGeneralTab() fyne.CanvasObject {
	cw.overlayCheck = widget.NewCheck("Show overlay notifications", nil)
	cw.overlayCheck.SetChecked(cw.settings.OverlayEnabled)

	cw.soundCheck = widget.NewCheck("Play sounds", nil)
	cw.soundCheck.SetChecked(cw.settings.SoundEnabled)

	cw.autoStartCheck = widget.NewCheck("Launch on system start", nil)
	cw.autoStartCheck.SetChecked(cw.settings.AutoStart)

	cw.modeSelect = widget.NewSelect([]string{string(models.OverlayModeStacked), string(models.OverlayModeCompact)}, nil)
	cw.modeSelect.SetSelected(string(cw.settings.OverlayMode))

	cw.refreshSelect = widget.NewSelect([]string{"1", "2", "5", "10", "15", "30"}, nil)
	cw.refreshSelect.SetSelected(strconv.Itoa(cw.settings.RefreshMinutes))

	cw.opacitySlider = widget.NewSlider(0.1, 1.0)
	cw.opacitySlider.Step = 0.05
	cw.opacitySlider.SetValue(cw.settings.OverlayOpacity)

	cw.scaleSlider = widget.NewSlider(0.5, 2.0)
	cw.scaleSlider.Step = 0.1
	cw.scaleSlider.SetValue(cw.settings.OverlayScale)

	showBoxes := []fyne.CanvasObject{}
	for _, cat := range models.Categories {
		check := widget.NewCheck(cat.DisplayName(), nil)
		check.SetChecked(cw.settings.OverlayShows[cat])
		cw.showChecks[cat] = check
		showBoxes = append(showBoxes, check)
	}

	form := widget.NewForm(
		widget.NewFormItem("Overlay mode", cw.modeSelect),
		widget.NewFormItem("Refresh every (min)", cw.refreshSelect),
		widget.NewFormItem("Overlay opacity", cw.opacitySlider),
		widget.NewFormItem("Overlay scale", cw.scaleSlider),
	)

	return container.NewVBox(
		cw.overlayCheck,
		cw.soundCheck,
		cw.autoStartCheck,
		widget.NewSeparator(),
		form,
		widget.NewLabel("Show on overlay:"),
		container.NewHBox(showBoxes...),
	)
}

func (cw *ConfigWindow) buildCategoryTab(cat models.Category) fyne.CanvasObject {
	cfg := cw.settings.Category(cat)

	cw.enabledChecks[cat] = widget.NewCheck("Enable "+cat.DisplayName()+" reminders", nil)
	cw.enabledChecks[cat].SetChecked(cfg.Enabled)

	cw.countSelects[cat] = widget.NewSelect([]string{"1", "2", "3"}, nil)
	cw.countSelects[cat].SetSelected(strconv.Itoa(cfg.TimerCount))

	cw.speechNameEntries[cat] = widget.NewEntry()
	cw.speechNameEntries[cat].SetPlaceHolder("Spoken name (optional, %s = event)")
	cw.speechNameEntries[cat].SetText(cfg.SpeechName)

	items := []fyne.CanvasObject{
		cw.enabledChecks[cat],
		widget.NewForm(
			widget.NewFormItem("Active timers", cw.countSelects[cat]),
			widget.NewFormItem("Spoken name", cw.speechNameEntries[cat]),
		),
		widget.NewSeparator(),
	}

	for i := 0; i < models.MaxTimerSlots; i++ {
		slot := cfg.Slots[i]

		lead := widget.NewEntry()
		lead.SetText(strconv.Itoa(slot.LeadMinutes))
		cw.leadEntries[cat][i] = lead

		pattern := widget.NewSelect([]string{
			string(models.BeepSingle), string(models.BeepDouble), string(models.BeepTriple),
		}, nil)
		pattern.SetSelected(string(slot.BeepPattern))
		cw.patternSelects[cat][i] = pattern

		pitch := widget.NewEntry()
		pitch.SetText(strconv.Itoa(slot.PitchHz))
		cw.pitchEntries[cat][i] = pitch

		speech := widget.NewCheck("Speech", nil)
		speech.SetChecked(slot.SpeechEnabled)
		cw.speechChecks[cat][i] = speech

		items = append(items,
			widget.NewLabel(fmt.Sprintf("Timer %d", i+1)),
			widget.NewForm(
				widget.NewFormItem("Minutes before", lead),
				widget.NewFormItem("Beep pattern", pattern),
				widget.NewFormItem("Pitch (Hz)", pitch),
				widget.NewFormItem("", speech),
			),
		)
	}

	return container.NewVScroll(container.NewVBox(items...))
}

// settingsFromUI assembles a new settings value from the widgets. Invalid
// numeric entries fall back to the previous value; Normalize clamps ranges.
func (cw *ConfigWindow) settingsFromUI() models.Settings {
	next := cw.settings

	next.OverlayEnabled = cw.overlayCheck.Checked
	next.SoundEnabled = cw.soundCheck.Checked
	next.AutoStart = cw.autoStartCheck.Checked
	next.OverlayMode = models.OverlayDisplayMode(cw.modeSelect.Selected)
	if v, err := strconv.Atoi(cw.refreshSelect.Selected); err == nil {
		next.RefreshMinutes = v
	}
	next.OverlayOpacity = cw.opacitySlider.Value
	next.OverlayScale = cw.scaleSlider.Value

	for _, cat := range models.Categories {
		cfg := next.Category(cat)
		cfg.Enabled = cw.enabledChecks[cat].Checked
		if v, err := strconv.Atoi(cw.countSelects[cat].Selected); err == nil {
			cfg.TimerCount = v
		}
		cfg.SpeechName = cw.speechNameEntries[cat].Text

		for i := 0; i < models.MaxTimerSlots; i++ {
			if v, err := strconv.Atoi(cw.leadEntries[cat][i].Text); err == nil {
				cfg.Slots[i].LeadMinutes = v
			}
			cfg.Slots[i].BeepPattern = models.BeepPattern(cw.patternSelects[cat][i].Selected)
			if v, err := strconv.Atoi(cw.pitchEntries[cat][i].Text); err == nil {
				cfg.Slots[i].PitchHz = v
			}
			cfg.Slots[i].SpeechEnabled = cw.speechChecks[cat][i].Checked
		}

		next.Categories[cat] = cfg
		next.OverlayShows[cat] = cw.showChecks[cat].Checked
	}

	return next.Normalize()
}
