package views

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"propsense/models"
	"propsense/scheduler"
	"propsense/tui/styles"
	"propsense/viewmodel"
)

type sensorsDataMsg struct {
	snapshot models.StatusResponse
	hasData  bool
}

var sensorBuckets = []string{viewmodel.BucketAll, viewmodel.BucketAlert, viewmodel.BucketOffline}

// Sensors is the live fleet view: every property with its latest sensor
// readings, searchable and bucketed into all / alert / offline.
type Sensors struct {
	sched *scheduler.Scheduler

	width, height int
	loaded        bool
	snapshot      models.StatusResponse

	search    textinput.Model
	searching bool
	bucketIdx int
	selected  int
}

func NewSensors(sched *scheduler.Scheduler) Sensors {
	ti := textinput.New()
	ti.Placeholder = "sensor id, type or address"
	ti.CharLimit = 64
	ti.Width = 32
	return Sensors{sched: sched, search: ti}
}

func (s Sensors) Init() tea.Cmd {
	return s.Refresh()
}

func (s Sensors) Refresh() tea.Cmd {
	return func() tea.Msg {
		snap, ok := s.sched.Status.Snapshot()
		return sensorsDataMsg{snapshot: snap, hasData: ok}
	}
}

func (s Sensors) SetSize(w, h int) Sensors {
	s.width = w
	s.height = h
	return s
}

// TextEntryActive reports whether keystrokes belong to the search box.
func (s Sensors) TextEntryActive() bool {
	return s.searching
}

func (s Sensors) filter() viewmodel.SensorFilter {
	return viewmodel.SensorFilter{
		Search: s.search.Value(),
		Bucket: sensorBuckets[s.bucketIdx],
	}
}

func (s Sensors) Update(msg tea.Msg) (Sensors, tea.Cmd) {
	switch msg := msg.(type) {
	case sensorsDataMsg:
		s.snapshot = msg.snapshot
		s.loaded = s.loaded || msg.hasData
		return s, nil

	case tea.KeyMsg:
		if s.searching {
			switch msg.String() {
			case "enter", "esc":
				s.searching = false
				s.search.Blur()
				s.selected = 0
				return s, nil
			}
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			return s, cmd
		}

		switch msg.String() {
		case "/":
			s.searching = true
			s.search.Focus()
			return s, textinput.Blink
		case "b":
			s.bucketIdx = (s.bucketIdx + 1) % len(sensorBuckets)
			s.selected = 0
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.filter().Apply(s.snapshot))-1 {
				s.selected++
			}
		case "esc":
			s.search.SetValue("")
			s.selected = 0
		}
	}
	return s, nil
}

func (s Sensors) View() string {
	if !s.loaded {
		return styles.Muted.Render("Loading sensors…")
	}

	groups := s.filter().Apply(s.snapshot)

	header := styles.Title.Render("Sensors") +
		styles.StatLabel.Render(fmt.Sprintf("  bucket: %s  ", sensorBuckets[s.bucketIdx])) +
		s.renderSearch()

	if len(groups) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			styles.Muted.Render("No sensors match the current filter"))
	}

	if s.selected >= len(groups) {
		s.selected = len(groups) - 1
	}

	var cards []string
	max := 6
	if len(groups) < max {
		max = len(groups)
	}
	for i := 0; i < max; i++ {
		cards = append(cards, s.renderPropertyCard(groups[i], i == s.selected))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, cards...)
	if len(groups) > max {
		body += "\n" + styles.Muted.Render(fmt.Sprintf("  …and %d more properties", len(groups)-max))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (s Sensors) renderSearch() string {
	if s.searching {
		return s.search.View()
	}
	if q := s.search.Value(); q != "" {
		return styles.StatLabel.Render("search: " + q + "  (/ edit, esc clear)")
	}
	return styles.StatLabel.Render("/ search  b bucket")
}

func (s Sensors) renderPropertyCard(g viewmodel.PropertyGroup, selected bool) string {
	riskStyle, theme := styles.Risk(g.RiskLevel)
	title := fmt.Sprintf("%s  %s", truncate(g.Address, 40), riskStyle.Render(theme.Emoji+" "+theme.Label))
	if g.TenantName != "" {
		title += styles.StatLabel.Render("  " + g.TenantName)
	}

	lines := []string{title}
	for _, sensor := range g.Matched {
		sensorStyle, _ := styles.Risk(sensor.RiskLevel)
		line := fmt.Sprintf("  %-14s %-14s %s",
			truncate(sensor.SensorID, 14),
			string(sensor.Type),
			viewmodel.SensorSummary(sensor),
		)
		if sensor.Payload.Empty() {
			line += styles.StatusPending.Render("  offline")
		}
		lines = append(lines, sensorStyle.Render("▪")+line+
			styles.StatLabel.Render("  "+relTime(sensor.Timestamp)))
	}
	if len(g.Matched) == 0 {
		est := viewmodel.Synthetic(g.PropertyID, g.RiskLevel, time.Now())
		lines = append(lines, styles.Muted.Render(
			fmt.Sprintf("  no live readings, est. %.1f°C %.0f%% humidity", est.Temp, est.Humidity)))
	}

	card := styles.CardBorder
	if selected {
		card = styles.RiskCard(g.RiskLevel)
	}
	return card.Width(s.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (s Sensors) cardWidth() int {
	if s.width > 20 {
		return s.width - 4
	}
	return 76
}
