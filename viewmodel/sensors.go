package viewmodel

import (
	"strings"

	"propsense/models"
)

// Sensor list buckets.
const (
	BucketAll     = "all"
	BucketAlert   = "alert"
	BucketOffline = "offline"
)

// SensorFilter narrows the fleet view. Search matches sensor id, sensor
// type or the parent property address, case-insensitive.
type SensorFilter struct {
	Search string
	Bucket string
}

// PropertyGroup is one property card on the sensors view, carrying only
// the sensors that passed the filter.
type PropertyGroup struct {
	models.PropertySensorData
	Matched []models.Sensor
}

// Apply groups the snapshot by property. A property survives when it has
// at least one matching sensor, or when the bucket is "all" and its own
// address matches the search even though no sensor does.
func (f SensorFilter) Apply(snapshot models.StatusResponse) []PropertyGroup {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]PropertyGroup, 0, len(snapshot.Properties))
	for _, prop := range snapshot.Properties {
		var matched []models.Sensor
		for _, s := range prop.Sensors {
			if f.inBucket(s) && sensorMatches(s, prop, q) {
				matched = append(matched, s)
			}
		}
		keep := len(matched) > 0
		if !keep && (f.Bucket == "" || f.Bucket == BucketAll) {
			keep = q != "" && strings.Contains(strings.ToLower(prop.Address), q)
		}
		if keep {
			out = append(out, PropertyGroup{PropertySensorData: prop, Matched: matched})
		}
	}
	return out
}

func (f SensorFilter) inBucket(s models.Sensor) bool {
	switch f.Bucket {
	case "", BucketAll:
		return true
	case BucketAlert:
		return s.RiskLevel == models.RiskHigh || s.RiskLevel == models.RiskMedium
	case BucketOffline:
		return s.Payload.Empty()
	default:
		return true
	}
}

func sensorMatches(s models.Sensor, prop models.PropertySensorData, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.SensorID), q) ||
		strings.Contains(strings.ToLower(string(s.Type)), q) ||
		strings.Contains(strings.ToLower(prop.Address), q)
}
