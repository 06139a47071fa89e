package viewmodel

import (
	"testing"
	"time"

	"propsense/models"
)

func ts(s string) models.Time {
	t, _ := time.Parse("2006-01-02T15:04:05", s)
	return models.Time{Time: t}
}

func fp(v float64) *float64 { return &v }

func TestThemeIsTotal(t *testing.T) {
	cases := map[models.RiskLevel]string{
		models.RiskHigh:   "High Risk",
		models.RiskMedium: "Attention Needed",
		models.RiskLow:    "All Normal",
		"":                "Unknown",
		"Bogus":           "Unknown",
	}
	seen := map[string]bool{}
	for level, label := range cases {
		th := Theme(level)
		if th.Label != label {
			t.Errorf("Theme(%q).Label = %q, want %q", level, th.Label, label)
		}
		if th.Background == "" || th.Text == "" || th.Emoji == "" {
			t.Errorf("Theme(%q) has empty fields: %+v", level, th)
		}
		seen[th.Background] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct themes, got %d", len(seen))
	}
}

func TestKPIsOnEmptyData(t *testing.T) {
	if got := HighRiskCount(nil); got != 0 {
		t.Errorf("HighRiskCount(nil) = %d", got)
	}
	if got := OpenTicketsCount(nil); got != 0 {
		t.Errorf("OpenTicketsCount(nil) = %d", got)
	}
	if got := NewTicketsToday(nil, time.Now()); got != 0 {
		t.Errorf("NewTicketsToday(nil) = %d", got)
	}
	if got := AvgTemp(models.StatusResponse{}); got != 0 {
		t.Errorf("AvgTemp(empty) = %v, want 0 not NaN", got)
	}
}

func TestAvgTempSkipsSensorsWithoutTemp(t *testing.T) {
	snap := models.StatusResponse{Properties: []models.PropertySensorData{
		{Sensors: []models.Sensor{
			{Type: models.SensorEnvironmental, Payload: models.SensorPayload{Temp: fp(20)}},
			{Type: models.SensorBoiler, Payload: models.SensorPayload{Pressure: fp(1.4)}},
			{Type: models.SensorEnvironmental, Payload: models.SensorPayload{Temp: fp(21)}},
		}},
	}}
	if got := AvgTemp(snap); got != 20.5 {
		t.Errorf("AvgTemp = %v, want 20.5", got)
	}
}

func TestNewTicketsTodayUsesCalendarDay(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 5, 0, 0, time.UTC)
	tickets := []models.Ticket{
		{CreatedAt: ts("2026-08-31T23:59:00")}, // same day, later hour
		{CreatedAt: ts("2026-08-30T23:59:00")}, // closer in time, different day
		{},                                     // no created_at
	}
	if got := NewTicketsToday(tickets, now); got != 1 {
		t.Errorf("NewTicketsToday = %d, want 1", got)
	}
}

func filterFixture() []models.Ticket {
	return []models.Ticket{
		{ID: 1, Title: "Boiler losing pressure", TenantName: "A. Boyd", PropertyAddress: "12 Speirs Wharf",
			Status: models.StatusOpen, Priority: models.PriorityHigh, CreatedAt: ts("2026-08-31T09:00:00")},
		{ID: 2, Title: "Damp patch in hallway", TenantName: "C. Nwosu", PropertyAddress: "4 Kelvin Way",
			Status: models.StatusInProgress, Priority: models.PriorityMedium, CreatedAt: ts("2026-08-20T09:00:00")},
		{ID: 3, Title: "Broken communal door", TenantName: "L. Stewart", PropertyAddress: "4 Kelvin Way",
			Status: models.StatusResolved, Priority: models.PriorityLow, CreatedAt: ts("2026-08-31T11:00:00")},
	}
}

func TestTicketFilterStatusExact(t *testing.T) {
	got := TicketFilter{Status: "Open"}.Apply(filterFixture())
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("status=Open returned %+v", got)
	}
}

func TestTicketFilterPredicatesAreANDed(t *testing.T) {
	f := TicketFilter{
		Search:    "kelvin",
		Status:    FilterAll,
		Priority:  "Medium",
		DateRange: DateAllTime,
	}
	got := f.Apply(filterFixture())
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("combined filter returned %+v", got)
	}
}

func TestTicketFilterSearchIsCaseInsensitive(t *testing.T) {
	got := TicketFilter{Search: "BOYD"}.Apply(filterFixture())
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("search BOYD returned %+v", got)
	}
}

func TestTicketFilterTodayIgnoresMissingCreatedAt(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tickets := append(filterFixture(), models.Ticket{ID: 4, Title: "No timestamp"})
	got := TicketFilter{DateRange: DateToday, Now: now}.Apply(tickets)
	if len(got) != 2 {
		t.Fatalf("Today returned %d tickets, want 2", len(got))
	}
	for _, tk := range got {
		if tk.ID == 4 {
			t.Error("ticket without created_at matched Today")
		}
	}
}

func TestTicketFilterCustomDate(t *testing.T) {
	custom := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	got := TicketFilter{DateRange: DateCustom, CustomDate: custom}.Apply(filterFixture())
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("custom date returned %+v", got)
	}
}

func TestSortByUrgency(t *testing.T) {
	tickets := filterFixture()
	SortByUrgency(tickets)
	if tickets[0].ID != 1 || tickets[1].ID != 2 || tickets[2].ID != 3 {
		t.Errorf("urgency order = %d,%d,%d", tickets[0].ID, tickets[1].ID, tickets[2].ID)
	}
}

func sensorFixture() models.StatusResponse {
	return models.StatusResponse{
		Status: "Live",
		Properties: []models.PropertySensorData{
			{PropertyID: 1, Address: "12 Speirs Wharf", RiskLevel: models.RiskHigh, Sensors: []models.Sensor{
				{SensorID: "env-a", Type: models.SensorEnvironmental, RiskLevel: models.RiskHigh,
					Payload: models.SensorPayload{Temp: fp(14.0)}},
				{SensorID: "plumb-a", Type: models.SensorPlumbing, RiskLevel: models.RiskLow,
					Payload: models.SensorPayload{PipeTemp: fp(18.0)}},
			}},
			{PropertyID: 2, Address: "4 Kelvin Way", RiskLevel: models.RiskLow, Sensors: []models.Sensor{
				{SensorID: "env-b", Type: models.SensorEnvironmental, RiskLevel: models.RiskLow,
					Payload: models.SensorPayload{Temp: fp(21.0)}},
				{SensorID: "comm-b", Type: models.SensorCommunal, RiskLevel: models.RiskLow,
					Payload: models.SensorPayload{}},
			}},
		},
	}
}

func TestSensorFilterAlertBucket(t *testing.T) {
	groups := SensorFilter{Bucket: BucketAlert}.Apply(sensorFixture())
	if len(groups) != 1 || groups[0].PropertyID != 1 {
		t.Fatalf("alert bucket returned %+v", groups)
	}
	if len(groups[0].Matched) != 1 || groups[0].Matched[0].SensorID != "env-a" {
		t.Errorf("alert sensors = %+v", groups[0].Matched)
	}
}

func TestSensorFilterOfflineBucket(t *testing.T) {
	groups := SensorFilter{Bucket: BucketOffline}.Apply(sensorFixture())
	if len(groups) != 1 || groups[0].PropertyID != 2 {
		t.Fatalf("offline bucket returned %+v", groups)
	}
	if len(groups[0].Matched) != 1 || groups[0].Matched[0].SensorID != "comm-b" {
		t.Errorf("offline sensors = %+v", groups[0].Matched)
	}
}

func TestSensorFilterAddressSearchKeepsProperty(t *testing.T) {
	groups := SensorFilter{Search: "kelvin"}.Apply(sensorFixture())
	if len(groups) != 1 || groups[0].PropertyID != 2 {
		t.Fatalf("address search returned %+v", groups)
	}
	// every sensor on the matched property matches via its parent address
	if len(groups[0].Matched) != 2 {
		t.Errorf("matched sensors = %d, want 2", len(groups[0].Matched))
	}
}

func TestSyntheticRiskBaselines(t *testing.T) {
	now := time.Unix(0, 0)
	high := Synthetic(1, models.RiskHigh, now)
	low := Synthetic(1, models.RiskLow, now)
	if high.Temp >= low.Temp {
		t.Errorf("high-risk temp %v should sit below healthy %v", high.Temp, low.Temp)
	}
	if high.Humidity <= low.Humidity {
		t.Errorf("high-risk humidity %v should sit above healthy %v", high.Humidity, low.Humidity)
	}
	// bounded wobble: never more than 0.5 off the baseline (1.0 for humidity)
	if high.Temp < 15.5 || high.Temp > 16.5 {
		t.Errorf("high temp out of range: %v", high.Temp)
	}
	if again := Synthetic(1, models.RiskHigh, now); again != high {
		t.Errorf("same inputs must reproduce the same reading: %v vs %v", again, high)
	}
}

func TestSensorSummaryNeverRendersNaN(t *testing.T) {
	s := models.Sensor{Type: models.SensorEnvironmental}
	got := SensorSummary(s)
	if got != "--  --  CO2 --" {
		t.Errorf("empty environmental summary = %q", got)
	}
}
