package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"propsense/backend"
	"propsense/config"
	"propsense/models"
	"propsense/poller"
	"propsense/services"
	"propsense/storage"
)

// journalRetention bounds how far back the mutation journal reaches when
// the prune job runs.
const journalRetention = 30 * 24 * time.Hour

// Scheduler owns the polling loops and the maintenance cron. Each polled
// resource has its own cadence: the dashboard set refreshes together,
// the per-sensor status feed runs on its own faster clock.
type Scheduler struct {
	cfg       *config.Config
	api       *backend.Client
	store     *storage.SQLiteStore
	cron      *cron.Cron
	ticketSvc *services.TicketService
	userSvc   *services.UserService

	Status     *poller.Poller[models.StatusResponse]
	Properties *poller.Poller[[]models.Property]
	Tickets    *poller.Poller[[]models.Ticket]
	Users      *poller.Poller[[]models.User]
}

// New wires the pollers. Ticket and user fetches also push into the
// services so mutations and polling see one list. A nil store disables
// caching and journal maintenance.
func New(cfg *config.Config, api *backend.Client, store *storage.SQLiteStore,
	tickets *services.TicketService, users *services.UserService) *Scheduler {

	s := &Scheduler{
		cfg:       cfg,
		api:       api,
		store:     store,
		cron:      cron.New(),
		ticketSvc: tickets,
		userSvc:   users,
	}

	s.Status = poller.New("status", cfg.Poll.Sensors, func(ctx context.Context) (models.StatusResponse, error) {
		snap, err := api.Status(ctx)
		if err == nil {
			s.cache(storage.ResourceStatus, snap)
		}
		return snap, err
	}).OnError(degradeStatus)

	s.Properties = poller.New("properties", cfg.Poll.Dashboard, func(ctx context.Context) ([]models.Property, error) {
		props, err := api.Properties(ctx)
		if err == nil {
			s.cache(storage.ResourceProperties, props)
		}
		return props, err
	})

	s.Tickets = poller.New("tickets", cfg.Poll.Dashboard, func(ctx context.Context) ([]models.Ticket, error) {
		list, err := api.Tickets(ctx)
		if err == nil {
			tickets.Replace(list)
			s.cache(storage.ResourceTickets, list)
		}
		return list, err
	})

	s.Users = poller.New("users", cfg.Poll.Dashboard, func(ctx context.Context) ([]models.User, error) {
		list, err := api.Users(ctx)
		if err == nil {
			users.Replace(list)
			s.cache(storage.ResourceUsers, list)
		}
		return list, err
	})

	return s
}

// degradeStatus keeps the last snapshot on a failed poll but downgrades
// the connection indicator. Nothing is published until a first snapshot
// exists.
func degradeStatus(last models.StatusResponse, hadLast bool, err error) (models.StatusResponse, bool) {
	if !hadLast {
		return last, false
	}
	last.Status = models.StatusOffline
	return last, true
}

// Seed publishes cached snapshots so a restart has data before the first
// poll resolves.
func (s *Scheduler) Seed() {
	if s.store == nil || !s.cfg.Cache.Enabled {
		return
	}
	var snap models.StatusResponse
	if _, ok, err := s.store.LoadSnapshot(storage.ResourceStatus, &snap); err == nil && ok {
		snap.Status = models.StatusOffline
		s.Status.Seed(snap)
	}
	var props []models.Property
	if _, ok, err := s.store.LoadSnapshot(storage.ResourceProperties, &props); err == nil && ok {
		s.Properties.Seed(props)
	}
	var tickets []models.Ticket
	if _, ok, err := s.store.LoadSnapshot(storage.ResourceTickets, &tickets); err == nil && ok {
		s.Tickets.Seed(tickets)
		s.ticketSvc.Replace(tickets)
	}
	var users []models.User
	if _, ok, err := s.store.LoadSnapshot(storage.ResourceUsers, &users); err == nil && ok {
		s.Users.Seed(users)
		s.userSvc.Replace(users)
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	log.Printf("Starting pollers: dashboard every %s, sensors every %s",
		s.cfg.Poll.Dashboard, s.cfg.Poll.Sensors)

	s.Status.Start(ctx)
	s.Properties.Start(ctx)
	s.Tickets.Start(ctx)
	s.Users.Start(ctx)

	if s.store != nil && s.cfg.Cache.PruneCron != "" {
		_, err := s.cron.AddFunc(s.cfg.Cache.PruneCron, func() {
			n, err := s.store.PruneJournal(time.Now().Add(-journalRetention))
			if err != nil {
				log.Printf("Journal prune error: %v", err)
				return
			}
			if n > 0 {
				log.Printf("Pruned %d journal entries", n)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid prune cron expression: %w", err)
		}
		s.cron.Start()
	}
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.Status.Stop()
	s.Properties.Stop()
	s.Tickets.Stop()
	s.Users.Stop()
}

// RefreshAll forces one fetch of every resource, outside the regular
// cadence. The first error is returned; the rest still run.
func (s *Scheduler) RefreshAll(ctx context.Context) error {
	var first error
	for _, refresh := range []func(context.Context) error{
		s.Status.Refresh, s.Properties.Refresh, s.Tickets.Refresh, s.Users.Refresh,
	} {
		if err := refresh(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Ready resolves once every poller has completed its first fetch attempt.
func (s *Scheduler) Ready() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		<-s.Status.Ready()
		<-s.Properties.Ready()
		<-s.Tickets.Ready()
		<-s.Users.Ready()
		close(done)
	}()
	return done
}

func (s *Scheduler) cache(resource string, v any) {
	if s.store == nil || !s.cfg.Cache.Enabled {
		return
	}
	if err := s.store.SaveSnapshot(resource, v); err != nil {
		log.Printf("Cache %s: %v", resource, err)
	}
}
