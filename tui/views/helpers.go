package views

import (
	"time"

	"github.com/dustin/go-humanize"

	"propsense/models"
)

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// relTime renders a timestamp as "5 minutes ago". Empty for zero times so
// missing data shows as blank, not the Unix epoch.
func relTime(t models.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t.Time)
}

func relSince(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
