package models

type TicketStatus string

const (
	StatusOpen           TicketStatus = "Open"
	StatusInProgress     TicketStatus = "In Progress"
	StatusAwaitingTenant TicketStatus = "Awaiting Tenant"
	StatusResolved       TicketStatus = "Resolved"
)

// TicketStatuses lists the workflow states in display order.
var TicketStatuses = []TicketStatus{StatusOpen, StatusInProgress, StatusAwaitingTenant, StatusResolved}

type TicketPriority string

const (
	PriorityLow       TicketPriority = "Low"
	PriorityMedium    TicketPriority = "Medium"
	PriorityHigh      TicketPriority = "High"
	PriorityEmergency TicketPriority = "Emergency"
)

var TicketPriorities = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency}

type Ticket struct {
	ID          int            `json:"id"`
	UserID      int            `json:"user_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	Category    string         `json:"category"`
	CreatedAt   Time           `json:"created_at"`
	SLADue      *Time          `json:"sla_due"`

	// Denormalized projections supplied by the backend join. Read-only;
	// never reconciled against the live property/user lists.
	TenantName        string    `json:"tenant_name"`
	PropertyAddress   string    `json:"property_address"`
	PropertyRiskLevel RiskLevel `json:"property_risk_level"`
}

// CreateTicket is the POST /tickets request body. Status defaults to Open
// on the backend; id and created_at are server-assigned.
type CreateTicket struct {
	UserID      int            `json:"user_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    TicketPriority `json:"priority"`
	Category    string         `json:"category"`
}

// UpdateTicket carries the changed fields for PUT /tickets/{id}. Nil fields
// are omitted and left untouched by the backend.
type UpdateTicket struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Priority    *TicketPriority `json:"priority,omitempty"`
	Category    *string         `json:"category,omitempty"`
	Status      *TicketStatus   `json:"status,omitempty"`
}
