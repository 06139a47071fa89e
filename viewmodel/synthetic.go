package viewmodel

import (
	"math"
	"time"

	"propsense/models"
)

// SyntheticReading is a plausible stand-in reading for a property whose
// live sensor payloads are unavailable. Deterministic for a given
// property and instant.
type SyntheticReading struct {
	Temp     float64
	Humidity float64
}

// Synthetic derives a fallback reading from the property's risk level. High
// risk properties present cold damp values; everything else looks healthy.
// A small sine wobble keeps consecutive renders from looking frozen.
func Synthetic(propertyID int, risk models.RiskLevel, now time.Time) SyntheticReading {
	baseTemp, baseHum := 21.0, 45.0
	if risk == models.RiskHigh {
		baseTemp, baseHum = 16.0, 85.0
	}
	noise := math.Sin(float64(now.UnixMilli())/2000+float64(propertyID)) * 0.5
	return SyntheticReading{
		Temp:     round1(baseTemp + noise),
		Humidity: round1(baseHum + noise*2),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
