package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"propsense/backend"
	"propsense/models"
)

// MutationJournal records successful write operations locally, keyed by
// the X-Request-ID the mutation was sent with. Failures are logged, never
// surfaced; the journal is an audit trail, not a gate.
type MutationJournal interface {
	RecordMutation(op string, subjectID int, requestID string) error
}

// TicketService owns the client-side ticket list and every mutation on it.
// Reads come from polling; writes go through here so validation, busy
// guards and optimistic updates live in one place.
type TicketService struct {
	api     *backend.Client
	journal MutationJournal

	mu      sync.Mutex
	tickets []models.Ticket
	busy    map[string]bool
}

func NewTicketService(api *backend.Client, journal MutationJournal) *TicketService {
	return &TicketService{
		api:     api,
		journal: journal,
		busy:    make(map[string]bool),
	}
}

// Tickets returns a copy of the current list.
func (s *TicketService) Tickets() []models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out
}

// Replace swaps in a freshly polled list. Last write wins.
func (s *TicketService) Replace(tickets []models.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets = tickets
}

// Load fetches the full list from the backend.
func (s *TicketService) Load(ctx context.Context) error {
	tickets, err := s.api.Tickets(ctx)
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}
	s.Replace(tickets)
	return nil
}

// Create validates locally, submits, then reloads the list so the new
// ticket carries its server-assigned id and joins.
func (s *TicketService) Create(ctx context.Context, req models.CreateTicket) error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if err := s.acquire("create"); err != nil {
		return err
	}
	defer s.release("create")

	rid := uuid.NewString()
	created, err := s.api.CreateTicket(backend.WithRequestID(ctx, rid), req)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	s.record("ticket.create", created.ID, rid)
	return s.Load(ctx)
}

// Update sends the changed fields and replaces the local record with the
// server's representation.
func (s *TicketService) Update(ctx context.Context, id int, updates models.UpdateTicket) error {
	key := fmt.Sprintf("update:%d", id)
	if err := s.acquire(key); err != nil {
		return err
	}
	defer s.release(key)

	rid := uuid.NewString()
	updated, err := s.api.UpdateTicket(backend.WithRequestID(ctx, rid), id, updates)
	if err != nil {
		return fmt.Errorf("update ticket %d: %w", id, err)
	}
	s.mu.Lock()
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			s.tickets[i] = updated
			break
		}
	}
	s.mu.Unlock()
	s.record("ticket.update", id, rid)
	return nil
}

// SetStatus applies the new status locally first, then saves. On failure
// the previous status is restored and the error returned so the UI can
// say so.
func (s *TicketService) SetStatus(ctx context.Context, id int, status models.TicketStatus) error {
	key := fmt.Sprintf("status:%d", id)
	if err := s.acquire(key); err != nil {
		return err
	}
	defer s.release(key)

	s.mu.Lock()
	idx := -1
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("ticket %d not found", id)
	}
	var edit FieldEdit[models.TicketStatus]
	edit.Begin(s.tickets[idx].Status, status)
	s.tickets[idx].Status = status
	s.mu.Unlock()

	rid := uuid.NewString()
	if err := s.api.PatchTicketStatus(backend.WithRequestID(ctx, rid), id, status); err != nil {
		s.mu.Lock()
		if idx < len(s.tickets) && s.tickets[idx].ID == id {
			s.tickets[idx].Status = edit.Rollback()
		}
		s.mu.Unlock()
		return fmt.Errorf("save status for ticket %d: %w", id, err)
	}
	edit.Commit()
	s.record("ticket.status", id, rid)
	return nil
}

// Delete requires an explicit confirmation and removes the ticket locally
// once the backend accepts the delete.
func (s *TicketService) Delete(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	key := fmt.Sprintf("delete:%d", id)
	if err := s.acquire(key); err != nil {
		return err
	}
	defer s.release(key)

	rid := uuid.NewString()
	if err := s.api.DeleteTicket(backend.WithRequestID(ctx, rid), id); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	s.mu.Lock()
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.record("ticket.delete", id, rid)
	return nil
}

func (s *TicketService) acquire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[key] {
		return fmt.Errorf("%w: %s", ErrBusy, key)
	}
	s.busy[key] = true
	return nil
}

func (s *TicketService) release(key string) {
	s.mu.Lock()
	delete(s.busy, key)
	s.mu.Unlock()
}

func (s *TicketService) record(op string, id int, requestID string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordMutation(op, id, requestID); err != nil {
		log.Printf("[tickets] journal %s %d: %v", op, id, err)
	}
}
