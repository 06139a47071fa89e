package viewmodel

import "propsense/models"

// RiskTheme is the presentation contract for a risk level: colors, copy
// and the mood glyph shown on dashboard cards.
type RiskTheme struct {
	Background string
	Text       string
	Label      string
	Emoji      string
}

var riskThemes = map[models.RiskLevel]RiskTheme{
	models.RiskHigh:   {Background: "#FEF2F2", Text: "#991B1B", Label: "High Risk", Emoji: "🚨"},
	models.RiskMedium: {Background: "#FFFBEB", Text: "#92400E", Label: "Attention Needed", Emoji: "😟"},
	models.RiskLow:    {Background: "#F0FDF4", Text: "#166534", Label: "All Normal", Emoji: "😊"},
}

// neutral covers missing or unrecognized risk levels.
var neutralTheme = RiskTheme{Background: "#F9FAFB", Text: "#4B5563", Label: "Unknown", Emoji: "🤔"}

// Theme maps any risk level to its presentation. Total: unknown input
// yields the neutral theme, never an error.
func Theme(level models.RiskLevel) RiskTheme {
	if t, ok := riskThemes[level]; ok {
		return t
	}
	return neutralTheme
}

// PortfolioRisk is the snapshot's aggregate risk, or the worst property
// risk when the backend did not set one.
func PortfolioRisk(snapshot models.StatusResponse) models.RiskLevel {
	if snapshot.RiskLevel.Known() {
		return snapshot.RiskLevel
	}
	worst := snapshot.RiskLevel
	for _, p := range snapshot.Properties {
		worst = worst.Max(p.RiskLevel)
	}
	return worst
}
