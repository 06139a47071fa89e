package models

type Property struct {
	ID          int       `json:"id"`
	Address     string    `json:"address"`
	TenantName  string    `json:"tenant_name"`
	Status      string    `json:"status"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Lat         *float64  `json:"lat"`
	Long        *float64  `json:"long"`
	LastUpdated Time      `json:"last_updated"`
}

// HasLocation reports whether the property carries map coordinates.
func (p Property) HasLocation() bool {
	return p.Lat != nil && p.Long != nil
}
