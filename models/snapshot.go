package models

// StatusResponse is the aggregate payload of GET /status: the latest sensor
// reading per device grouped by property, plus the portfolio-wide risk.
type StatusResponse struct {
	Status     string               `json:"status"`
	Properties []PropertySensorData `json:"properties"`
	RiskLevel  RiskLevel            `json:"risk_level"`
}

// StatusOffline replaces StatusResponse.Status when a poll cycle fails and
// the previous snapshot is kept.
const StatusOffline = "Offline"

type PropertySensorData struct {
	PropertyID int       `json:"property_id"`
	Address    string    `json:"address"`
	TenantName string    `json:"tenant_name"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Sensors    []Sensor  `json:"sensors"`
}

type SensorType string

const (
	SensorEnvironmental SensorType = "environmental"
	SensorPlumbing      SensorType = "plumbing"
	SensorBoiler        SensorType = "boiler"
	SensorCommunal      SensorType = "communal"
)

type Sensor struct {
	SensorID  string        `json:"sensor_id"`
	Type      SensorType    `json:"type"`
	Payload   SensorPayload `json:"payload"`
	RiskLevel RiskLevel     `json:"risk_level"`
	Timestamp Time          `json:"timestamp"`
}

// SensorPayload is the union of the four type-dependent payload shapes.
// Fields are pointers so an absent reading is distinguishable from zero.
type SensorPayload struct {
	// environmental
	Temp     *float64 `json:"temp,omitempty"`
	Humidity *float64 `json:"humidity,omitempty"`
	CO2      *float64 `json:"co2,omitempty"`

	// plumbing
	PipeTemp     *float64 `json:"pipe_temp,omitempty"`
	LeakDetected *bool    `json:"leak_detected,omitempty"`

	// boiler
	Pressure  *float64 `json:"pressure,omitempty"`
	ErrorCode *string  `json:"error_code,omitempty"`

	// communal
	VibrationHz   *float64 `json:"vibration_hz,omitempty"`
	BatteryHealth *float64 `json:"battery_health,omitempty"`
	Status        *string  `json:"status,omitempty"`
}

// Empty reports whether the sensor delivered no reading at all, which is
// how the backend represents an offline device.
func (p SensorPayload) Empty() bool {
	return p.Temp == nil && p.Humidity == nil && p.CO2 == nil &&
		p.PipeTemp == nil && p.LeakDetected == nil &&
		p.Pressure == nil && p.ErrorCode == nil &&
		p.VibrationHz == nil && p.BatteryHealth == nil && p.Status == nil
}
