package views

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateKeepsRunesIntact(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"12 Speirs Wharf", 32, "12 Speirs Wharf"},
		{"abcdef", 4, "abc…"},
		{"Übergäßchen 12, München", 10, "Übergäßch…"},
		{"Пример адреса в Глазго", 8, "Пример …"},
	}
	for _, c := range cases {
		got := truncate(c.in, c.max)
		if got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", c.in, c.max, got)
		}
	}
}

func TestBusySaveIsNotReportedAsSaved(t *testing.T) {
	view := NewTickets(nil)

	view, _ = view.Update(ticketMutationMsg{action: "Status", busy: true})
	if strings.Contains(view.notice, "saved") {
		t.Errorf("busy notice claims success: %q", view.notice)
	}
	if view.notice == "" || view.noticeErr {
		t.Errorf("busy save should show a neutral notice, got %q (err=%v)", view.notice, view.noticeErr)
	}

	view, _ = view.Update(ticketMutationMsg{action: "Status"})
	if view.notice != "Status saved" {
		t.Errorf("successful save notice = %q", view.notice)
	}
	view, _ = view.Update(ticketMutationMsg{action: "Status", err: errors.New("backend down")})
	if !view.noticeErr || !strings.Contains(view.notice, "failed") {
		t.Errorf("failed save notice = %q (err=%v)", view.notice, view.noticeErr)
	}
}
