package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"propsense/backend"
	"propsense/models"
)

// UserService owns the tenant directory. Deletes are local-first: once the
// backend accepts, the entry is dropped from the list without a refetch.
type UserService struct {
	api     *backend.Client
	journal MutationJournal

	mu    sync.Mutex
	users []models.User
	busy  map[int]bool
}

func NewUserService(api *backend.Client, journal MutationJournal) *UserService {
	return &UserService{
		api:     api,
		journal: journal,
		busy:    make(map[int]bool),
	}
}

func (s *UserService) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Replace swaps in a freshly polled list. Last write wins.
func (s *UserService) Replace(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
}

func (s *UserService) Load(ctx context.Context) error {
	users, err := s.api.Users(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	s.Replace(users)
	return nil
}

func (s *UserService) Delete(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	s.mu.Lock()
	if s.busy[id] {
		s.mu.Unlock()
		return fmt.Errorf("%w: delete user %d", ErrBusy, id)
	}
	s.busy[id] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.busy, id)
		s.mu.Unlock()
	}()

	rid := uuid.NewString()
	if err := s.api.DeleteUser(backend.WithRequestID(ctx, rid), id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	if s.journal != nil {
		if err := s.journal.RecordMutation("user.delete", id, rid); err != nil {
			log.Printf("[users] journal delete %d: %v", id, err)
		}
	}
	return nil
}
