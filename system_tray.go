package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/hellwatch/hellwatch/pkg/models"
	"github.com/hellwatch/hellwatch/pkg/schedule"
)

func (hw *Hellwatch) setupSystemTray() {
	hw.updateSystemTrayMenu()
}

func (hw *Hellwatch) updateSystemTrayMenu() {
	desk, ok := hw.app.(desktop.App)
	if !ok {
		return
	}

	s := hw.currentSettings()
	snap := hw.client.Snapshot()
	now := time.Now()

	menuItems := []*fyne.MenuItem{}

	// Upcoming events section at the top
	for _, cat := range models.Categories {
		if !s.Category(cat).Enabled {
			continue
		}
		label := cat.DisplayName() + ": none scheduled"
		if next, found := schedule.SelectNext(snap.Occurrences[cat], now); found {
			name := cat.DisplayName()
			if next.BossName != "" {
				name = fmt.Sprintf("%s (%s)", name, next.BossName)
			}
			label = fmt.Sprintf("%s in %s", name, formatCountdown(next.StartTime.Sub(now)))
		}
		item := fyne.NewMenuItem(label, nil)
		item.Disabled = true
		menuItems = append(menuItems, item)
	}
	if errStr := hw.client.LastError(); errStr != "" {
		item := fyne.NewMenuItem("Schedule error: "+truncateString(errStr, 40), nil)
		item.Disabled = true
		menuItems = append(menuItems, item)
	}
	if len(menuItems) > 0 {
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Settings", func() {
			hw.showConfigWindow()
		}),
		fyne.NewMenuItem("Refresh Now", func() {
			go hw.refreshSchedule()
		}),
	)

	overlayItem := fyne.NewMenuItem("Overlay", func() {
		next := hw.currentSettings()
		next.OverlayEnabled = !next.OverlayEnabled
		hw.applySettings(next)
	})
	overlayItem.Checked = s.OverlayEnabled

	remindersItem := fyne.NewMenuItem("Reminders", func() {
		next := hw.currentSettings()
		next.RemindersPaused = !next.RemindersPaused
		hw.applySettings(next)
	})
	remindersItem.Checked = !s.RemindersPaused

	menuItems = append(menuItems, fyne.NewMenuItemSeparator(), overlayItem, remindersItem)

	if hw.panicStop.Tripped() {
		menuItems = append(menuItems, fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Reset Safe Mode", func() {
				hw.resetPanicStop()
			}))
	}

	menuItems = append(menuItems, fyne.NewMenuItemSeparator(), fyne.NewMenuItem("Quit", func() {
		hw.quit()
	}))

	menu := fyne.NewMenu("Hellwatch", menuItems...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.HistoryIcon())
}

// formatCountdown renders a compact h/m countdown for the tray.
func formatCountdown(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	mins := int(d.Round(time.Minute) / time.Minute)
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}

// truncateString truncates a string to maxLen characters, adding "..." if needed
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
