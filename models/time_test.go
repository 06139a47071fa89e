package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeUnmarshalFormats(t *testing.T) {
	cases := []string{
		`"2026-08-31T09:15:00Z"`,
		`"2026-08-31T09:15:00.123456Z"`,
		`"2026-08-31T09:15:00"`,
		`"2026-08-31T09:15:00.123456"`,
		`"2026-08-31"`,
	}
	for _, raw := range cases {
		var ts Time
		if err := json.Unmarshal([]byte(raw), &ts); err != nil {
			t.Errorf("unmarshal %s: %v", raw, err)
			continue
		}
		if ts.IsZero() {
			t.Errorf("unmarshal %s gave zero time", raw)
		}
		if y, m, d := ts.Date(); y != 2026 || m != time.August || d != 31 {
			t.Errorf("unmarshal %s gave %v", raw, ts)
		}
	}
}

func TestTimeUnmarshalNull(t *testing.T) {
	var ts Time
	if err := json.Unmarshal([]byte("null"), &ts); err != nil {
		t.Fatalf("null: %v", err)
	}
	if !ts.IsZero() {
		t.Errorf("null should stay zero, got %v", ts)
	}
}

func TestSameDay(t *testing.T) {
	day := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	early := Time{Time: time.Date(2026, 8, 31, 0, 1, 0, 0, time.UTC)}
	if !early.SameDay(day) {
		t.Error("same calendar day, hours apart, should match")
	}
	prev := Time{Time: time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)}
	if prev.SameDay(day) {
		t.Error("different calendar day should not match, even minutes apart")
	}
	var zero Time
	if zero.SameDay(day) {
		t.Error("zero time never matches a day")
	}
}
