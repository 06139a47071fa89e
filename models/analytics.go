package models

// Analytics payloads from the /analytics/* endpoints. All read-only.

type KPI struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Target string `json:"target"`
	Status string `json:"status"`
}

type RiskEvolutionPoint struct {
	Date   string `json:"date"`
	High   int    `json:"High"`
	Medium int    `json:"Medium"`
	Low    int    `json:"Low"`
}

type TicketTrend struct {
	Month  string `json:"month"`
	Tenant int    `json:"Tenant"`
	IoT    int    `json:"IoT"`
	Staff  int    `json:"Staff"`
}

type SLAPerformance struct {
	Category string `json:"category"`
	Met      int    `json:"met"`
	Target   int    `json:"target"`
}

type ROISummary struct {
	ReactiveAvoided float64 `json:"reactive_avoided"`
	TotalSavings    float64 `json:"total_savings"`
	VsTargetPercent float64 `json:"vs_target_percent"`
}

type HealthGrade struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
	Fill  string `json:"fill"`
}

type TenantLoad struct {
	Name        string  `json:"name"`
	Tickets     int     `json:"tickets"`
	AvgTime     float64 `json:"avg_time"`
	Performance string  `json:"performance"`
}
