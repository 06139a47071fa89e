package viewmodel

import (
	"math"
	"time"

	"propsense/models"
)

// HighRiskCount counts properties currently flagged High.
func HighRiskCount(properties []models.Property) int {
	n := 0
	for _, p := range properties {
		if p.RiskLevel == models.RiskHigh {
			n++
		}
	}
	return n
}

// RiskCounts tallies properties per known risk level. Unknown levels are
// not counted anywhere.
func RiskCounts(properties []models.Property) map[models.RiskLevel]int {
	counts := make(map[models.RiskLevel]int, 3)
	for _, p := range properties {
		if p.RiskLevel.Known() {
			counts[p.RiskLevel]++
		}
	}
	return counts
}

// OpenTicketsCount counts tickets not yet resolved.
func OpenTicketsCount(tickets []models.Ticket) int {
	n := 0
	for _, t := range tickets {
		if t.Status != models.StatusResolved {
			n++
		}
	}
	return n
}

// NewTicketsToday counts tickets created on the same calendar day as now.
// Tickets without a creation time never count.
func NewTicketsToday(tickets []models.Ticket, now time.Time) int {
	n := 0
	for _, t := range tickets {
		if t.CreatedAt.SameDay(now) {
			n++
		}
	}
	return n
}

// AvgTemp averages the environmental temperature across all sensors that
// report one. Returns 0 when no sensor does, never NaN.
func AvgTemp(snapshot models.StatusResponse) float64 {
	var sum float64
	var n int
	for _, prop := range snapshot.Properties {
		for _, s := range prop.Sensors {
			if s.Payload.Temp != nil {
				sum += *s.Payload.Temp
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}
