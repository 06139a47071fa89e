package viewmodel

import (
	"fmt"
	"strings"

	"propsense/models"
)

// SensorSummary renders the payload fields relevant to the sensor's type
// as a single line. Absent readings show as "--" so a partially reporting
// device never renders NaN or a Go zero value.
func SensorSummary(s models.Sensor) string {
	p := s.Payload
	switch s.Type {
	case models.SensorEnvironmental:
		return fmt.Sprintf("%s  %s  CO2 %s",
			unit(p.Temp, "%.1f°C"), unit(p.Humidity, "%.0f%%"), unit(p.CO2, "%.0fppm"))
	case models.SensorPlumbing:
		leak := "--"
		if p.LeakDetected != nil {
			if *p.LeakDetected {
				leak = "LEAK"
			} else {
				leak = "dry"
			}
		}
		return fmt.Sprintf("pipe %s  %s", unit(p.PipeTemp, "%.1f°C"), leak)
	case models.SensorBoiler:
		out := unit(p.Pressure, "%.2f bar")
		if p.ErrorCode != nil && *p.ErrorCode != "" {
			out += "  err " + *p.ErrorCode
		}
		return out
	case models.SensorCommunal:
		parts := []string{
			unit(p.VibrationHz, "%.1fHz"),
			"bat " + unit(p.BatteryHealth, "%.0f%%"),
		}
		if p.Status != nil && *p.Status != "" {
			parts = append(parts, *p.Status)
		}
		return strings.Join(parts, "  ")
	default:
		if p.Empty() {
			return "no data"
		}
		return "unrecognized payload"
	}
}

func unit(v *float64, format string) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf(format, *v)
}
