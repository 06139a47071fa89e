package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"propsense/models"
	"propsense/services"
	"propsense/tui/styles"
	"propsense/viewmodel"
)

const actionTimeout = 10 * time.Second

type ticketsDataMsg struct {
	tickets []models.Ticket
}

type ticketMutationMsg struct {
	action string
	err    error
	busy   bool
}

type ticketMode int

const (
	ticketModeList ticketMode = iota
	ticketModeCreate
	ticketModeConfirmDelete
)

var ticketStatusFilters = append([]string{viewmodel.FilterAll}, statusStrings()...)
var ticketPriorityFilters = append([]string{viewmodel.FilterAll}, priorityStrings()...)
var ticketDateFilters = []string{viewmodel.DateAllTime, viewmodel.DateToday}

func statusStrings() []string {
	out := make([]string, len(models.TicketStatuses))
	for i, s := range models.TicketStatuses {
		out[i] = string(s)
	}
	return out
}

func priorityStrings() []string {
	out := make([]string, len(models.TicketPriorities))
	for i, p := range models.TicketPriorities {
		out[i] = string(p)
	}
	return out
}

// Tickets is the maintenance board: filterable list, inline status cycling
// with save-or-revert, a create form and two-step delete.
type Tickets struct {
	svc *services.TicketService

	width, height int
	loaded        bool
	tickets       []models.Ticket

	mode        ticketMode
	selected    int
	statusIdx   int
	priorityIdx int
	dateIdx     int

	search    textinput.Model
	searching bool

	// create form
	formTitle    textinput.Model
	formDesc     textinput.Model
	formPriority int
	formField    int
	formErr      string

	pendingDelete int
	notice        string
	noticeErr     bool
}

func NewTickets(svc *services.TicketService) Tickets {
	search := textinput.New()
	search.Placeholder = "title, tenant or address"
	search.CharLimit = 64
	search.Width = 32

	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 120
	title.Width = 48

	desc := textinput.New()
	desc.Placeholder = "description"
	desc.CharLimit = 500
	desc.Width = 48

	return Tickets{
		svc:          svc,
		search:       search,
		formTitle:    title,
		formDesc:     desc,
		formPriority: 1, // Medium
	}
}

func (t Tickets) Init() tea.Cmd {
	return t.Refresh()
}

func (t Tickets) Refresh() tea.Cmd {
	return func() tea.Msg {
		return ticketsDataMsg{tickets: t.svc.Tickets()}
	}
}

func (t Tickets) SetSize(w, h int) Tickets {
	t.width = w
	t.height = h
	return t
}

// TextEntryActive reports whether keystrokes belong to the search box or
// the create form.
func (t Tickets) TextEntryActive() bool {
	return t.searching || t.mode == ticketModeCreate
}

func (t Tickets) filter() viewmodel.TicketFilter {
	return viewmodel.TicketFilter{
		Search:    t.search.Value(),
		Status:    ticketStatusFilters[t.statusIdx],
		Priority:  ticketPriorityFilters[t.priorityIdx],
		DateRange: ticketDateFilters[t.dateIdx],
	}
}

func (t Tickets) visible() []models.Ticket {
	return t.filter().Apply(t.tickets)
}

func (t Tickets) Update(msg tea.Msg) (Tickets, tea.Cmd) {
	switch msg := msg.(type) {
	case ticketsDataMsg:
		t.tickets = msg.tickets
		t.loaded = true
		if t.selected >= len(t.visible()) {
			t.selected = 0
		}
		return t, nil

	case ticketMutationMsg:
		switch {
		case msg.busy:
			t.notice = msg.action + " save already in progress"
			t.noticeErr = false
		case msg.err != nil:
			t.notice = msg.action + " failed: " + shortErr(msg.err)
			t.noticeErr = true
		default:
			t.notice = msg.action + " saved"
			t.noticeErr = false
		}
		return t, t.Refresh()

	case tea.KeyMsg:
		switch t.mode {
		case ticketModeCreate:
			return t.updateCreate(msg)
		case ticketModeConfirmDelete:
			return t.updateConfirmDelete(msg)
		default:
			return t.updateList(msg)
		}
	}
	return t, nil
}

func (t Tickets) updateList(msg tea.KeyMsg) (Tickets, tea.Cmd) {
	if t.searching {
		switch msg.String() {
		case "enter", "esc":
			t.searching = false
			t.search.Blur()
			t.selected = 0
			return t, nil
		}
		var cmd tea.Cmd
		t.search, cmd = t.search.Update(msg)
		return t, cmd
	}

	visible := t.visible()
	switch msg.String() {
	case "/":
		t.searching = true
		t.search.Focus()
		return t, textinput.Blink
	case "f":
		t.statusIdx = (t.statusIdx + 1) % len(ticketStatusFilters)
		t.selected = 0
	case "p":
		t.priorityIdx = (t.priorityIdx + 1) % len(ticketPriorityFilters)
		t.selected = 0
	case "o":
		t.dateIdx = (t.dateIdx + 1) % len(ticketDateFilters)
		t.selected = 0
	case "up", "k":
		if t.selected > 0 {
			t.selected--
		}
	case "down", "j":
		if t.selected < len(visible)-1 {
			t.selected++
		}
	case "n":
		t.mode = ticketModeCreate
		t.formField = 0
		t.formErr = ""
		t.formTitle.SetValue("")
		t.formDesc.SetValue("")
		t.formTitle.Focus()
		return t, textinput.Blink
	case "enter", "right", "l":
		if t.selected < len(visible) {
			return t, t.cycleStatus(visible[t.selected])
		}
	case "x":
		if t.selected < len(visible) {
			t.mode = ticketModeConfirmDelete
			t.pendingDelete = visible[t.selected].ID
		}
	case "esc":
		t.search.SetValue("")
		t.statusIdx, t.priorityIdx, t.dateIdx = 0, 0, 0
		t.selected = 0
	}
	return t, nil
}

// cycleStatus advances the ticket to the next workflow state and saves
// immediately. The service reverts the local value if the save fails.
func (t Tickets) cycleStatus(ticket models.Ticket) tea.Cmd {
	next := models.TicketStatuses[0]
	for i, s := range models.TicketStatuses {
		if s == ticket.Status {
			next = models.TicketStatuses[(i+1)%len(models.TicketStatuses)]
			break
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		err := t.svc.SetStatus(ctx, ticket.ID, next)
		if errors.Is(err, services.ErrBusy) {
			return ticketMutationMsg{action: "Status", busy: true}
		}
		return ticketMutationMsg{action: "Status", err: err}
	}
}

func (t Tickets) updateCreate(msg tea.KeyMsg) (Tickets, tea.Cmd) {
	switch msg.String() {
	case "esc":
		t.mode = ticketModeList
		t.formTitle.Blur()
		t.formDesc.Blur()
		return t, nil
	case "tab", "shift+tab", "down", "up":
		if msg.String() == "shift+tab" || msg.String() == "up" {
			t.formField = (t.formField + 2) % 3
		} else {
			t.formField = (t.formField + 1) % 3
		}
		t.formTitle.Blur()
		t.formDesc.Blur()
		switch t.formField {
		case 0:
			t.formTitle.Focus()
		case 1:
			t.formDesc.Focus()
		}
		return t, textinput.Blink
	case "left", "right":
		if t.formField == 2 {
			delta := 1
			if msg.String() == "left" {
				delta = len(models.TicketPriorities) - 1
			}
			t.formPriority = (t.formPriority + delta) % len(models.TicketPriorities)
			return t, nil
		}
	case "enter":
		return t.submitCreate()
	}

	var cmd tea.Cmd
	switch t.formField {
	case 0:
		t.formTitle, cmd = t.formTitle.Update(msg)
	case 1:
		t.formDesc, cmd = t.formDesc.Update(msg)
	}
	return t, cmd
}

func (t Tickets) submitCreate() (Tickets, tea.Cmd) {
	req := models.CreateTicket{
		Title:       t.formTitle.Value(),
		Description: t.formDesc.Value(),
		Priority:    models.TicketPriorities[t.formPriority],
		Category:    "Manual",
	}
	// Keep the form open on bad input instead of bouncing to the list.
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		t.formErr = "Title and description are required"
		return t, nil
	}
	t.mode = ticketModeList
	t.formTitle.Blur()
	t.formDesc.Blur()
	svc := t.svc
	return t, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return ticketMutationMsg{action: "Create", err: svc.Create(ctx, req)}
	}
}

func (t Tickets) updateConfirmDelete(msg tea.KeyMsg) (Tickets, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := t.pendingDelete
		t.mode = ticketModeList
		svc := t.svc
		return t, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
			defer cancel()
			return ticketMutationMsg{action: "Delete", err: svc.Delete(ctx, id, true)}
		}
	default:
		t.mode = ticketModeList
		return t, nil
	}
}

func (t Tickets) View() string {
	if !t.loaded {
		return styles.Muted.Render("Loading tickets…")
	}
	switch t.mode {
	case ticketModeCreate:
		return t.viewCreate()
	case ticketModeConfirmDelete:
		return t.viewConfirmDelete()
	}
	return t.viewList()
}

func (t Tickets) viewList() string {
	header := styles.Title.Render("Tickets") + styles.StatLabel.Render(fmt.Sprintf(
		"  f status: %s  p priority: %s  o date: %s  ",
		ticketStatusFilters[t.statusIdx],
		ticketPriorityFilters[t.priorityIdx],
		ticketDateFilters[t.dateIdx],
	))
	if t.searching {
		header += t.search.View()
	} else if q := t.search.Value(); q != "" {
		header += styles.StatLabel.Render("search: " + q)
	} else {
		header += styles.StatLabel.Render("/ search  n new  enter advance  x delete")
	}

	visible := t.visible()
	if len(visible) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			styles.Muted.Render("No tickets match the current filter"))
	}

	cols := fmt.Sprintf("%-4s %-32s %-18s %-16s %-10s %s",
		"ID", "Title", "Tenant", "Status", "Priority", "Created")
	rows := styles.TableHeader.Render(cols) + "\n"
	for i, tk := range visible {
		row := fmt.Sprintf("%-4d %-32s %-18s %-16s %-10s %s",
			tk.ID,
			truncate(tk.Title, 32),
			truncate(tk.TenantName, 18),
			string(tk.Status),
			string(tk.Priority),
			relTime(tk.CreatedAt),
		)
		if i == t.selected {
			rows += styles.TableSelected.Render(row) + "\n"
		} else {
			rows += row + "\n"
		}
	}

	out := lipgloss.JoinVertical(lipgloss.Left, header, rows)
	if t.notice != "" {
		style := styles.Notification
		if t.noticeErr {
			style = styles.NotificationError
		}
		out = lipgloss.JoinVertical(lipgloss.Left, out, style.Render(t.notice))
	}
	return out
}

func (t Tickets) viewCreate() string {
	focus := func(i int, s string) string {
		if t.formField == i {
			return styles.StatValue.Render("> ") + s
		}
		return "  " + s
	}
	lines := []string{
		styles.Title.Render("New Ticket"),
		focus(0, "Title:       "+t.formTitle.View()),
		focus(1, "Description: "+t.formDesc.View()),
		focus(2, "Priority:    ◂ "+string(models.TicketPriorities[t.formPriority])+" ▸"),
		"",
		styles.StatLabel.Render("tab next field  enter submit  esc cancel"),
	}
	if t.formErr != "" {
		lines = append(lines, styles.NotificationError.Render(t.formErr))
	}
	return styles.CardBorder.Width(64).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (t Tickets) viewConfirmDelete() string {
	return styles.CardBorder.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Delete ticket?"),
		fmt.Sprintf("Ticket #%d will be permanently removed.", t.pendingDelete),
		"",
		styles.StatLabel.Render("y confirm  any other key cancel"),
	))
}

func shortErr(err error) string {
	return truncate(err.Error(), 60)
}
