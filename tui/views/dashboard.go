package views

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"propsense/models"
	"propsense/scheduler"
	"propsense/services"
	"propsense/tui/styles"
	"propsense/viewmodel"
)

type dashboardDataMsg struct {
	snapshot   models.StatusResponse
	hasData    bool
	properties []models.Property
	tickets    []models.Ticket
	fetchedAt  time.Time
}

// Dashboard is the portfolio overview: KPI cards, the risk split and a
// watchlist of the properties needing attention first.
type Dashboard struct {
	sched   *scheduler.Scheduler
	tickets *services.TicketService

	width, height int
	loaded        bool
	snapshot      models.StatusResponse
	properties    []models.Property
	ticketList    []models.Ticket
	fetchedAt     time.Time
}

func NewDashboard(sched *scheduler.Scheduler, tickets *services.TicketService) Dashboard {
	return Dashboard{sched: sched, tickets: tickets}
}

func (d Dashboard) Init() tea.Cmd {
	return d.Refresh()
}

func (d Dashboard) Refresh() tea.Cmd {
	return func() tea.Msg {
		snap, ok := d.sched.Status.Snapshot()
		props, _ := d.sched.Properties.Snapshot()
		return dashboardDataMsg{
			snapshot:   snap,
			hasData:    ok,
			properties: props,
			tickets:    d.tickets.Tickets(),
			fetchedAt:  d.sched.Status.FetchedAt(),
		}
	}
}

func (d Dashboard) SetSize(w, h int) Dashboard {
	d.width = w
	d.height = h
	return d
}

func (d Dashboard) Update(msg tea.Msg) (Dashboard, tea.Cmd) {
	if data, ok := msg.(dashboardDataMsg); ok {
		d.snapshot = data.snapshot
		d.properties = data.properties
		d.ticketList = data.tickets
		d.fetchedAt = data.fetchedAt
		d.loaded = data.hasData || data.properties != nil
	}
	return d, nil
}

func (d Dashboard) View() string {
	if !d.loaded {
		return styles.Muted.Render("Loading portfolio…")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderHeader(),
		d.renderKPICards(),
		"",
		styles.Title.Render("Priority Watchlist"),
		d.renderWatchlist(),
	)
}

func (d Dashboard) renderHeader() string {
	connStyle := styles.StatusSuccess
	conn := "● " + d.snapshot.Status
	if d.snapshot.Status == models.StatusOffline {
		connStyle = styles.StatusError
	}

	riskStyle, theme := styles.Risk(viewmodel.PortfolioRisk(d.snapshot))
	portfolio := riskStyle.Render(fmt.Sprintf("%s %s", theme.Emoji, theme.Label))

	updated := ""
	if !d.fetchedAt.IsZero() {
		updated = styles.StatLabel.Render("  updated " + relSince(d.fetchedAt))
	}
	return styles.Title.Render("Portfolio") + "  " +
		connStyle.Render(conn) + "  " + portfolio + updated
}

func (d Dashboard) renderKPICards() string {
	counts := viewmodel.RiskCounts(d.properties)
	cards := []string{
		d.renderStatCard("High Risk", fmt.Sprintf("%d", viewmodel.HighRiskCount(d.properties))),
		d.renderStatCard("Open Tickets", fmt.Sprintf("%d", viewmodel.OpenTicketsCount(d.ticketList))),
		d.renderStatCard("New Today", fmt.Sprintf("%d", viewmodel.NewTicketsToday(d.ticketList, time.Now()))),
		d.renderStatCard("Avg Temp", fmt.Sprintf("%.1f°C", viewmodel.AvgTemp(d.snapshot))),
		d.renderStatCard("Risk Split", fmt.Sprintf("%d/%d/%d",
			counts[models.RiskHigh], counts[models.RiskMedium], counts[models.RiskLow])),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (d Dashboard) renderStatCard(label, value string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		styles.StatValue.Render(value),
		styles.StatLabel.Render(label),
	)
	return styles.CardBorder.Width(16).Render(content)
}

// renderWatchlist lists properties worst first. Ties keep backend order.
func (d Dashboard) renderWatchlist() string {
	if len(d.properties) == 0 {
		return styles.Muted.Render("No properties in portfolio")
	}

	ordered := make([]models.Property, len(d.properties))
	copy(ordered, d.properties)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RiskLevel.Rank() > ordered[j].RiskLevel.Rank()
	})

	header := fmt.Sprintf("%-34s %-20s %-18s %s", "Address", "Tenant", "Risk", "Updated")
	rows := styles.TableHeader.Render(header) + "\n"

	max := 12
	if len(ordered) < max {
		max = len(ordered)
	}
	for _, p := range ordered[:max] {
		riskStyle, theme := styles.Risk(p.RiskLevel)
		rows += fmt.Sprintf("%-34s %-20s %s %s\n",
			truncate(p.Address, 34),
			truncate(p.TenantName, 20),
			riskStyle.Render(fmt.Sprintf("%-18s", theme.Emoji+" "+theme.Label)),
			styles.StatLabel.Render(relTime(p.LastUpdated)),
		)
	}
	return rows
}
