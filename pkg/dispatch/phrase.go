package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/hellwatch/hellwatch/pkg/models"
)

// eventName renders the user-facing name for an occurrence, applying the
// category's optional speech-name template and the world boss subtitle.
func eventName(ev models.FireEvent, cfg models.CategoryConfig) string {
	name := ev.Category.DisplayName()
	if ev.Category == models.WorldBoss && ev.Occurrence.BossName != "" {
		name = fmt.Sprintf("%s (%s)", name, ev.Occurrence.BossName)
	}
	if cfg.SpeechName != "" {
		if strings.Contains(cfg.SpeechName, "%s") {
			return fmt.Sprintf(cfg.SpeechName, name)
		}
		return cfg.SpeechName
	}
	return name
}

// humanRemaining phrases a duration the way a person would say it.
func humanRemaining(d time.Duration) string {
	if d < time.Minute {
		return "starting now"
	}
	mins := int(d.Round(time.Minute) / time.Minute)
	hours := mins / 60
	mins = mins % 60
	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("in %d %s %d %s", hours, plural(hours, "hour"), mins, plural(mins, "minute"))
	case hours > 0:
		return fmt.Sprintf("in %d %s", hours, plural(hours, "hour"))
	default:
		return fmt.Sprintf("in %d %s", mins, plural(mins, "minute"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
