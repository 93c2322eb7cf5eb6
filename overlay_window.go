package main

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/hellwatch/hellwatch/pkg/models"
	"github.com/hellwatch/hellwatch/pkg/overlay"
)

// OverlayWindow is the always-on-top toast surface. It subscribes to the
// overlay hub and reconciles its own presentation from each snapshot; the
// core never reaches into it directly.
type OverlayWindow struct {
	app   fyne.App
	hub   *overlay.Hub
	subID string

	window     fyne.Window
	titleText  *canvas.Text
	bodyText   *canvas.Text
	background *canvas.Rectangle

	snapshot models.OverlaySnapshot
	hideTime time.Time
}

func NewOverlayWindow(app fyne.App, hub *overlay.Hub) *OverlayWindow {
	ow := &OverlayWindow{app: app, hub: hub}

	fyne.Do(func() {
		ow.window = app.NewWindow("Hellwatch Overlay")
		ow.buildUI()
	})

	ow.subID = hub.Subscribe(ow)
	return ow
}

func (ow *OverlayWindow) buildUI() {
	ow.titleText = canvas.NewText("", color.White)
	ow.titleText.TextSize = 22
	ow.titleText.TextStyle = fyne.TextStyle{Bold: true}

	ow.bodyText = canvas.NewText("", color.NRGBA{R: 230, G: 200, B: 160, A: 255})
	ow.bodyText.TextSize = 16

	ow.background = canvas.NewRectangle(color.NRGBA{R: 40, G: 12, B: 8, A: 217})

	content := container.NewStack(
		ow.background,
		container.NewPadded(container.NewVBox(ow.titleText, ow.bodyText)),
	)

	ow.window.SetContent(content)
	ow.window.Resize(fyne.NewSize(320, 90))
	ow.window.SetFixedSize(true)
	ow.window.SetPadded(false)
}

// ApplySettings reconciles presentation state from the broadcast snapshot.
// Runs on the hub's delivery goroutine, so UI work hops to the Fyne thread.
func (ow *OverlayWindow) ApplySettings(snap models.OverlaySnapshot) {
	fyne.Do(func() {
		ow.snapshot = snap

		alpha := uint8(snap.Opacity * 255)
		if alpha < 26 {
			alpha = 26
		}
		ow.background.FillColor = color.NRGBA{R: 40, G: 12, B: 8, A: alpha}
		ow.background.Refresh()

		ow.titleText.TextSize = float32(22 * snap.Scale)
		ow.bodyText.TextSize = float32(16 * snap.Scale)

		if !snap.Enabled || snap.Paused {
			ow.window.Hide()
		}
	})
}

// ShowToast displays a toast and hides the window after its duration,
// unless a later toast extended the deadline.
func (ow *OverlayWindow) ShowToast(ev models.ToastEvent) {
	fyne.Do(func() {
		if !ow.snapshot.Enabled || ow.snapshot.Paused {
			return
		}
		if !ow.snapshot.Shows[ev.Category] {
			return
		}

		ow.titleText.Text = ev.Title
		ow.titleText.Refresh()
		ow.bodyText.Text = ev.Body
		ow.bodyText.Refresh()
		ow.window.Show()

		dur := ev.Duration
		if dur <= 0 {
			dur = 5 * time.Second
		}
		deadline := time.Now().Add(dur)
		ow.hideTime = deadline
		time.AfterFunc(dur, func() {
			fyne.Do(func() {
				if ow.hideTime.Equal(deadline) {
					ow.window.Hide()
				}
			})
		})
	})
}

// CanvasSize reports the rendered canvas dimensions for the watchdog probe.
func (ow *OverlayWindow) CanvasSize() fyne.Size {
	if ow.window == nil {
		return fyne.Size{}
	}
	return ow.window.Canvas().Size()
}

func (ow *OverlayWindow) Close() {
	ow.hub.Unsubscribe(ow.subID)
	fyne.Do(func() {
		ow.window.Close()
	})
}
