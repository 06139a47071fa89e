package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"propsense/backend"
	"propsense/config"
	"propsense/models"
	"propsense/scheduler"
	"propsense/services"
)

func fixtureBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.StatusResponse{Status: "Live", RiskLevel: models.RiskMedium})
	})
	mux.HandleFunc("/properties", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Property{
			{ID: 1, Address: "12 Speirs Wharf", RiskLevel: models.RiskHigh},
			{ID: 2, Address: "4 Kelvin Way", RiskLevel: models.RiskLow},
		})
	})
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Ticket{
			{ID: 1, Title: "Boiler losing pressure", Status: models.StatusOpen, Priority: models.PriorityHigh},
			{ID: 2, Title: "Damp patch", Status: models.StatusResolved, Priority: models.PriorityLow},
		})
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.User{{ID: 1, Name: "A. Boyd"}})
	})
	mux.HandleFunc("/properties/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Property{ID: 1, Address: "12 Speirs Wharf", RiskLevel: models.RiskHigh})
	})
	mux.HandleFunc("/properties/1/sensors", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.SensorReading{})
	})
	mux.HandleFunc("/properties/1/timeline", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.TimelineEvent{
			{Type: "alert", Message: "Boiler pressure low"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, refresh bool) *Server {
	t.Helper()
	be := fixtureBackend(t)
	api := backend.NewClient(be.URL, be.Client())
	cfg := &config.Config{}
	cfg.Poll.Dashboard = time.Hour
	cfg.Poll.Sensors = time.Hour

	tickets := services.NewTicketService(api, nil)
	users := services.NewUserService(api, nil)
	sched := scheduler.New(cfg, api, nil, tickets, users)
	if refresh {
		if err := sched.RefreshAll(context.Background()); err != nil {
			t.Fatalf("RefreshAll: %v", err)
		}
	}
	return NewServer(sched, tickets, api)
}

func TestReadyzBeforeFirstFetch(t *testing.T) {
	srv := newTestServer(t, false)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz before fetch = %d, want 503", rec.Code)
	}
}

func TestReadyzAfterFetch(t *testing.T) {
	srv := newTestServer(t, true)
	// ready channel closes asynchronously once all pollers report
	deadline := time.After(2 * time.Second)
	for {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		if rec.Code == http.StatusOK {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("readyz never turned 200, last %d", rec.Code)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestOverview(t *testing.T) {
	srv := newTestServer(t, true)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("overview = %d: %s", rec.Code, rec.Body)
	}
	var out Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.BackendStatus != "Live" || out.HighRiskCount != 1 || out.OpenTickets != 1 {
		t.Errorf("overview = %+v", out)
	}
	if out.Stale {
		t.Error("fresh overview reported stale")
	}
}

func TestTicketsFilterQuery(t *testing.T) {
	srv := newTestServer(t, true)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tickets?status=Open", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("tickets = %d", rec.Code)
	}
	var out []models.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Errorf("filtered tickets = %+v", out)
	}
}

func TestTicketsBadCustomDate(t *testing.T) {
	srv := newTestServer(t, true)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/tickets?custom_date=31-08-2026", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad custom_date = %d, want 400", rec.Code)
	}
}

func TestPropertyDetail(t *testing.T) {
	srv := newTestServer(t, true)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("property detail = %d: %s", rec.Code, rec.Body)
	}
	var out PropertyDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Property.ID != 1 || len(out.Timeline) != 1 {
		t.Errorf("detail = %+v", out)
	}
	if out.HasMap {
		t.Error("property without coordinates reported a map")
	}
}

func TestPropertyDetailNotFound(t *testing.T) {
	srv := newTestServer(t, true)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/99", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing property = %d, want backend 404 passed through", rec.Code)
	}
}

func TestOverviewWithoutData(t *testing.T) {
	srv := newTestServer(t, false)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/overview", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("overview without data = %d, want 503", rec.Code)
	}
}
