package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"propsense/models"
	"propsense/services"
	"propsense/tui/styles"
)

type tenantsDataMsg struct {
	users []models.User
}

type tenantMutationMsg struct {
	err error
}

// Tenants is the tenant directory with search and two-step delete.
type Tenants struct {
	svc *services.UserService

	width, height int
	loaded        bool
	users         []models.User

	search    textinput.Model
	searching bool
	selected  int

	confirming    bool
	pendingDelete int
	notice        string
	noticeErr     bool
}

func NewTenants(svc *services.UserService) Tenants {
	ti := textinput.New()
	ti.Placeholder = "name, email or phone"
	ti.CharLimit = 64
	ti.Width = 32
	return Tenants{svc: svc, search: ti}
}

func (v Tenants) Init() tea.Cmd {
	return v.Refresh()
}

func (v Tenants) Refresh() tea.Cmd {
	return func() tea.Msg {
		return tenantsDataMsg{users: v.svc.Users()}
	}
}

func (v Tenants) SetSize(w, h int) Tenants {
	v.width = w
	v.height = h
	return v
}

// TextEntryActive reports whether keystrokes belong to the search box.
func (v Tenants) TextEntryActive() bool {
	return v.searching
}

func (v Tenants) visible() []models.User {
	q := strings.ToLower(strings.TrimSpace(v.search.Value()))
	if q == "" {
		return v.users
	}
	out := make([]models.User, 0, len(v.users))
	for _, u := range v.users {
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(strings.ToLower(u.Phone), q) {
			out = append(out, u)
		}
	}
	return out
}

func (v Tenants) Update(msg tea.Msg) (Tenants, tea.Cmd) {
	switch msg := msg.(type) {
	case tenantsDataMsg:
		v.users = msg.users
		v.loaded = true
		if v.selected >= len(v.visible()) {
			v.selected = 0
		}
		return v, nil

	case tenantMutationMsg:
		if msg.err != nil {
			v.notice = "Delete failed: " + shortErr(msg.err)
			v.noticeErr = true
		} else {
			v.notice = "Tenant removed"
			v.noticeErr = false
		}
		return v, v.Refresh()

	case tea.KeyMsg:
		if v.confirming {
			return v.updateConfirm(msg)
		}
		if v.searching {
			switch msg.String() {
			case "enter", "esc":
				v.searching = false
				v.search.Blur()
				v.selected = 0
				return v, nil
			}
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			return v, cmd
		}

		visible := v.visible()
		switch msg.String() {
		case "/":
			v.searching = true
			v.search.Focus()
			return v, textinput.Blink
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(visible)-1 {
				v.selected++
			}
		case "x":
			if v.selected < len(visible) {
				v.confirming = true
				v.pendingDelete = visible[v.selected].ID
			}
		case "esc":
			v.search.SetValue("")
			v.selected = 0
		}
	}
	return v, nil
}

func (v Tenants) updateConfirm(msg tea.KeyMsg) (Tenants, tea.Cmd) {
	v.confirming = false
	switch msg.String() {
	case "y", "enter":
		id := v.pendingDelete
		svc := v.svc
		return v, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
			defer cancel()
			return tenantMutationMsg{err: svc.Delete(ctx, id, true)}
		}
	}
	return v, nil
}

func (v Tenants) View() string {
	if !v.loaded {
		return styles.Muted.Render("Loading tenants…")
	}
	if v.confirming {
		return styles.CardBorder.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render("Remove tenant?"),
			fmt.Sprintf("Tenant #%d will be permanently removed.", v.pendingDelete),
			"",
			styles.StatLabel.Render("y confirm  any other key cancel"),
		))
	}

	header := styles.Title.Render("Tenants") + "  "
	if v.searching {
		header += v.search.View()
	} else if q := v.search.Value(); q != "" {
		header += styles.StatLabel.Render("search: " + q + "  (/ edit, esc clear)")
	} else {
		header += styles.StatLabel.Render("/ search  x remove")
	}

	visible := v.visible()
	if len(visible) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			styles.Muted.Render("No tenants match the current filter"))
	}

	cols := fmt.Sprintf("%-4s %-24s %-28s %s", "ID", "Name", "Email", "Phone")
	rows := styles.TableHeader.Render(cols) + "\n"
	for i, u := range visible {
		row := fmt.Sprintf("%-4d %-24s %-28s %s",
			u.ID, truncate(u.Name, 24), truncate(u.Email, 28), u.Phone)
		if i == v.selected {
			rows += styles.TableSelected.Render(row) + "\n"
		} else {
			rows += row + "\n"
		}
	}

	out := lipgloss.JoinVertical(lipgloss.Left, header, rows)
	if v.notice != "" {
		style := styles.Notification
		if v.noticeErr {
			style = styles.NotificationError
		}
		out = lipgloss.JoinVertical(lipgloss.Left, out, style.Render(v.notice))
	}
	return out
}
