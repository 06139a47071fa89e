package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"propsense/backend"
	"propsense/config"
	"propsense/models"
	"propsense/services"
	"propsense/storage"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Poll.Dashboard = time.Hour
	cfg.Poll.Sensors = time.Hour
	cfg.Cache.Enabled = true
	return cfg
}

func TestRefreshPushesTicketsIntoService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.StatusResponse{Status: "Live"})
	})
	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Property{{ID: 1}})
	})
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Ticket{{ID: 7, Title: "Leak"}})
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.User{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := backend.NewClient(srv.URL, srv.Client())
	tickets := services.NewTicketService(api, nil)
	users := services.NewUserService(api, nil)
	sched := New(testConfig(), api, nil, tickets, users)

	if err := sched.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	got := tickets.Tickets()
	if len(got) != 1 || got[0].ID != 7 {
		t.Errorf("service tickets = %+v", got)
	}
}

func TestRefreshPushesUsersIntoService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.StatusResponse{Status: "Live"})
	})
	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.User{
			{ID: 1, Name: "A. Boyd"}, {ID: 2, Name: "C. Nwosu"},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := backend.NewClient(srv.URL, srv.Client())
	tickets := services.NewTicketService(api, nil)
	users := services.NewUserService(api, nil)
	sched := New(testConfig(), api, nil, tickets, users)

	if err := sched.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}
	got := users.Users()
	if len(got) != 2 || got[0].Name != "A. Boyd" {
		t.Errorf("service users = %+v, want both polled users", got)
	}
}

func TestStatusDegradesToOffline(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		switch r.URL.Path {
		case "/status":
			json.NewEncoder(w).Encode(models.StatusResponse{
				Status:     "Live",
				Properties: []models.PropertySensorData{{PropertyID: 1, Address: "12 Speirs Wharf"}},
			})
		default:
			w.Write([]byte("[]"))
		}
	}))
	defer srv.Close()

	api := backend.NewClient(srv.URL, srv.Client())
	tickets := services.NewTicketService(api, nil)
	users := services.NewUserService(api, nil)
	sched := New(testConfig(), api, nil, tickets, users)

	sched.Status.Refresh(context.Background())
	fail.Store(true)
	sched.Status.Refresh(context.Background())

	snap, ok := sched.Status.Snapshot()
	if !ok {
		t.Fatal("snapshot lost on failure")
	}
	if snap.Status != models.StatusOffline {
		t.Errorf("status = %q, want Offline", snap.Status)
	}
	if len(snap.Properties) != 1 {
		t.Errorf("degraded snapshot dropped data: %+v", snap)
	}
}

func TestSeedFromCache(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	cached := models.StatusResponse{
		Status:     "Live",
		Properties: []models.PropertySensorData{{PropertyID: 3, Address: "4 Kelvin Way"}},
	}
	if err := store.SaveSnapshot(storage.ResourceStatus, cached); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := store.SaveSnapshot(storage.ResourceUsers, []models.User{{ID: 9, Name: "A. Boyd"}}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	api := backend.NewClient("http://127.0.0.1:1", http.DefaultClient)
	tickets := services.NewTicketService(api, nil)
	users := services.NewUserService(api, nil)
	sched := New(testConfig(), api, store, tickets, users)
	sched.Seed()

	snap, ok := sched.Status.Snapshot()
	if !ok {
		t.Fatal("seed published nothing")
	}
	// cached data is by definition not live
	if snap.Status != models.StatusOffline {
		t.Errorf("seeded status = %q, want Offline", snap.Status)
	}
	if len(snap.Properties) != 1 || snap.Properties[0].PropertyID != 3 {
		t.Errorf("seeded snapshot = %+v", snap)
	}
	if got := users.Users(); len(got) != 1 || got[0].ID != 9 {
		t.Errorf("seeded users did not reach the service: %+v", got)
	}
}
