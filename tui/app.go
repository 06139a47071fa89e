package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"propsense/config"
	"propsense/scheduler"
	"propsense/services"
	"propsense/tui/styles"
	"propsense/tui/views"
)

type tab int

const (
	tabDashboard tab = iota
	tabSensors
	tabTickets
	tabTenants
	tabCount
)

type tickMsg time.Time
type refreshedMsg struct{ err error }

type model struct {
	sched     *scheduler.Scheduler
	activeTab tab
	interval  time.Duration

	width, height int
	notification  string
	notifyErr     bool
	notifyUntil   time.Time

	dashboard views.Dashboard
	sensors   views.Sensors
	tickets   views.Tickets
	tenants   views.Tenants
}

func newModel(cfg *config.Config, sched *scheduler.Scheduler,
	tickets *services.TicketService, users *services.UserService) model {

	interval := cfg.Poll.Dashboard
	if cfg.Poll.Sensors < interval {
		interval = cfg.Poll.Sensors
	}
	return model{
		sched:     sched,
		interval:  interval,
		dashboard: views.NewDashboard(sched, tickets),
		sensors:   views.NewSensors(sched),
		tickets:   views.NewTickets(tickets),
		tenants:   views.NewTenants(users),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.dashboard.Init(),
		m.sensors.Init(),
		m.tickets.Init(),
		m.tenants.Init(),
		m.tickCmd(),
	)
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.textEntryActive() {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "1":
				m.activeTab = tabDashboard
			case "2":
				m.activeTab = tabSensors
			case "3":
				m.activeTab = tabTickets
			case "4":
				m.activeTab = tabTenants
			case "tab":
				m.activeTab = (m.activeTab + 1) % tabCount
			case "r":
				m.notification = "Refreshing…"
				m.notifyErr = false
				m.notifyUntil = time.Now().Add(2 * time.Second)
				sched := m.sched
				return m, func() tea.Msg {
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					return refreshedMsg{err: sched.RefreshAll(ctx)}
				}
			}
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dashboard = m.dashboard.SetSize(msg.Width, msg.Height-4)
		m.sensors = m.sensors.SetSize(msg.Width, msg.Height-4)
		m.tickets = m.tickets.SetSize(msg.Width, msg.Height-4)
		m.tenants = m.tenants.SetSize(msg.Width, msg.Height-4)

	case tickMsg:
		cmds = append(cmds, m.refreshAll()...)
		cmds = append(cmds, m.tickCmd())

	case refreshedMsg:
		if msg.err != nil {
			m.notification = "Refresh failed: backend unreachable"
			m.notifyErr = true
		} else {
			m.notification = "Refreshed"
			m.notifyErr = false
		}
		m.notifyUntil = time.Now().Add(2 * time.Second)
		cmds = append(cmds, m.refreshAll()...)
	}

	// Key presses go to the active tab only; everything else fans out so
	// each view keeps its data current.
	switch msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.activeTab {
		case tabDashboard:
			m.dashboard, cmd = m.dashboard.Update(msg)
		case tabSensors:
			m.sensors, cmd = m.sensors.Update(msg)
		case tabTickets:
			m.tickets, cmd = m.tickets.Update(msg)
		case tabTenants:
			m.tenants, cmd = m.tenants.Update(msg)
		}
		cmds = append(cmds, cmd)
	default:
		var cmd tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		cmds = append(cmds, cmd)
		m.sensors, cmd = m.sensors.Update(msg)
		cmds = append(cmds, cmd)
		m.tickets, cmd = m.tickets.Update(msg)
		cmds = append(cmds, cmd)
		m.tenants, cmd = m.tenants.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// textEntryActive reports whether the active tab is capturing free text,
// so global shortcuts don't swallow typed characters.
func (m model) textEntryActive() bool {
	switch m.activeTab {
	case tabSensors:
		return m.sensors.TextEntryActive()
	case tabTickets:
		return m.tickets.TextEntryActive()
	case tabTenants:
		return m.tenants.TextEntryActive()
	}
	return false
}

func (m model) refreshAll() []tea.Cmd {
	return []tea.Cmd{
		m.dashboard.Refresh(),
		m.sensors.Refresh(),
		m.tickets.Refresh(),
		m.tenants.Refresh(),
	}
}

func (m model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.renderContent(),
		m.renderStatusBar(),
	)
}

func (m model) renderTabs() string {
	names := []string{"1 Dashboard", "2 Sensors", "3 Tickets", "4 Tenants"}
	var rendered []string
	for i, name := range names {
		if tab(i) == m.activeTab {
			rendered = append(rendered, styles.TabActive.Render(name))
		} else {
			rendered = append(rendered, styles.TabInactive.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

func (m model) renderContent() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashboard.View()
	case tabSensors:
		return m.sensors.View()
	case tabTickets:
		return m.tickets.View()
	case tabTenants:
		return m.tenants.View()
	}
	return ""
}

func (m model) renderStatusBar() string {
	left := "1-4 tabs  tab next  r refresh  q quit"
	right := ""
	if time.Now().Before(m.notifyUntil) {
		if m.notifyErr {
			right = styles.NotificationError.Render(m.notification)
		} else {
			right = styles.Notification.Render(m.notification)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}
	return styles.StatusBar.Render(left) + lipgloss.NewStyle().Width(gap).Render("") + right
}

// Run starts the terminal UI and blocks until the user quits.
func Run(cfg *config.Config, sched *scheduler.Scheduler,
	tickets *services.TicketService, users *services.UserService) error {

	p := tea.NewProgram(newModel(cfg, sched, tickets, users), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
