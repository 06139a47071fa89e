package models

// SensorReading is one point of the 24h history returned by
// GET /properties/{id}/sensors, used for charting.
type SensorReading struct {
	Timestamp     Time                 `json:"timestamp"`
	Environmental EnvironmentalReading `json:"environmental"`
	Boiler        BoilerReading        `json:"boiler"`
}

type EnvironmentalReading struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	CO2      float64 `json:"co2"`
}

type BoilerReading struct {
	Pressure float64 `json:"pressure"`
}

// TimelineEvent is one entry of a property's combined activity feed.
type TimelineEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp Time   `json:"timestamp"`
}
