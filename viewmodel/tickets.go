package viewmodel

import (
	"sort"
	"strings"
	"time"

	"propsense/models"
)

// Filter wildcard accepted by the status and priority predicates.
const FilterAll = "All"

// Date range modes for the ticket filter.
const (
	DateAllTime = "All Time"
	DateToday   = "Today"
	DateCustom  = "Custom"
)

// TicketFilter is the ticket list filter. All four predicates are ANDed;
// zero values (empty search, "All", "All Time") match everything.
type TicketFilter struct {
	Search     string
	Status     string
	Priority   string
	DateRange  string
	CustomDate time.Time

	// Now anchors the Today predicate. Zero means time.Now().
	Now time.Time
}

// Match reports whether a ticket passes every predicate.
func (f TicketFilter) Match(t models.Ticket) bool {
	return f.matchSearch(t) && f.matchStatus(t) && f.matchPriority(t) && f.matchDate(t)
}

// Apply filters a ticket list, preserving order.
func (f TicketFilter) Apply(tickets []models.Ticket) []models.Ticket {
	out := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (f TicketFilter) matchSearch(t models.Ticket) bool {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.TenantName), q) ||
		strings.Contains(strings.ToLower(t.PropertyAddress), q)
}

func (f TicketFilter) matchStatus(t models.Ticket) bool {
	return f.Status == "" || f.Status == FilterAll || string(t.Status) == f.Status
}

func (f TicketFilter) matchPriority(t models.Ticket) bool {
	return f.Priority == "" || f.Priority == FilterAll || string(t.Priority) == f.Priority
}

func (f TicketFilter) matchDate(t models.Ticket) bool {
	switch f.DateRange {
	case "", DateAllTime:
		return true
	case DateToday:
		now := f.Now
		if now.IsZero() {
			now = time.Now()
		}
		return t.CreatedAt.SameDay(now)
	case DateCustom:
		if f.CustomDate.IsZero() {
			return true
		}
		return t.CreatedAt.SameDay(f.CustomDate)
	default:
		return true
	}
}

var priorityRank = map[models.TicketPriority]int{
	models.PriorityEmergency: 4,
	models.PriorityHigh:      3,
	models.PriorityMedium:    2,
	models.PriorityLow:       1,
}

// SortByUrgency orders tickets most urgent first, then newest first.
// Stable so equal tickets keep their backend order.
func SortByUrgency(tickets []models.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		ri, rj := priorityRank[tickets[i].Priority], priorityRank[tickets[j].Priority]
		if ri != rj {
			return ri > rj
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt.Time)
	})
}
