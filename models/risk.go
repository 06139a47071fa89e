package models

// RiskLevel is the backend-computed risk for a property or sensor.
// Anything outside the three known levels is treated as unknown by
// consumers; it must never be a rendering error.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Known reports whether the level is one of the three enumerated values.
func (r RiskLevel) Known() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// Rank orders risk levels for sorting, highest first: High=3, Medium=2,
// Low=1, unknown=0.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// Max returns the higher of two risk levels.
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.Rank() > r.Rank() {
		return other
	}
	return r
}
