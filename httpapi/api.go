package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"propsense/backend"
	"propsense/models"
	"propsense/scheduler"
	"propsense/services"
	"propsense/viewmodel"
)

// staleAfter marks the overview stale when the newest successful fetch is
// older than this.
const staleAfter = 30 * time.Second

// Server exposes the monitor's derived state over HTTP for sibling tools
// and dashboards. Read-only; mutations stay in the TUI. Detail and
// analytics routes proxy the backend on demand rather than from polled
// state, since they are per-property or rarely viewed.
type Server struct {
	sched   *scheduler.Scheduler
	tickets *services.TicketService
	api     *backend.Client
	ready   <-chan struct{}
}

func NewServer(sched *scheduler.Scheduler, tickets *services.TicketService, api *backend.Client) *Server {
	return &Server{
		sched:   sched,
		tickets: tickets,
		api:     api,
		ready:   sched.Ready(),
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/overview", s.handleOverview).Methods(http.MethodGet)
	api.HandleFunc("/tickets", s.handleTickets).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id:[0-9]+}", s.handlePropertyDetail).Methods(http.MethodGet)
	api.HandleFunc("/analytics", s.handleAnalytics).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}).Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.ready:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	default:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
	}
}

// Overview is the combined dashboard payload.
type Overview struct {
	BackendStatus   string            `json:"backend_status"`
	PortfolioRisk   models.RiskLevel  `json:"portfolio_risk"`
	HighRiskCount   int               `json:"high_risk_count"`
	OpenTickets     int               `json:"open_tickets"`
	NewTicketsToday int               `json:"new_tickets_today"`
	AvgTemp         float64           `json:"avg_temp"`
	Properties      []models.Property `json:"properties"`
	GeneratedAt     time.Time         `json:"generated_at"`
	Stale           bool              `json:"stale"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	snap, haveSnap := s.sched.Status.Snapshot()
	props, _ := s.sched.Properties.Snapshot()
	tickets := s.tickets.Tickets()

	if !haveSnap && props == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no data yet"})
		return
	}

	now := time.Now()
	fetched := s.sched.Status.FetchedAt()
	out := Overview{
		BackendStatus:   snap.Status,
		PortfolioRisk:   viewmodel.PortfolioRisk(snap),
		HighRiskCount:   viewmodel.HighRiskCount(props),
		OpenTickets:     viewmodel.OpenTicketsCount(tickets),
		NewTicketsToday: viewmodel.NewTicketsToday(tickets, now),
		AvgTemp:         viewmodel.AvgTemp(snap),
		Properties:      props,
		GeneratedAt:     now,
		Stale:           fetched.IsZero() || now.Sub(fetched) > staleAfter,
	}
	writeJSON(w, http.StatusOK, out)
}

// handleTickets applies the standard ticket filter from query params:
// search, status, priority, date (All Time|Today|Custom), custom_date.
func (s *Server) handleTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := viewmodel.TicketFilter{
		Search:    q.Get("search"),
		Status:    q.Get("status"),
		Priority:  q.Get("priority"),
		DateRange: q.Get("date"),
	}
	if raw := q.Get("custom_date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "custom_date must be YYYY-MM-DD"})
			return
		}
		f.CustomDate = d
	}
	writeJSON(w, http.StatusOK, f.Apply(s.tickets.Tickets()))
}

// PropertyDetail is the drill-down payload for one property: the record,
// its 24h reading history and the combined activity feed.
type PropertyDetail struct {
	Property models.Property        `json:"property"`
	HasMap   bool                   `json:"has_map"`
	Readings []models.SensorReading `json:"readings"`
	Timeline []models.TimelineEvent `json:"timeline"`
}

func (s *Server) handlePropertyDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad property id"})
		return
	}

	ctx := r.Context()
	prop, err := s.api.Property(ctx, id)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	readings, err := s.api.PropertySensors(ctx, id)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	timeline, err := s.api.PropertyTimeline(ctx, id)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PropertyDetail{
		Property: prop,
		HasMap:   prop.HasLocation(),
		Readings: readings,
		Timeline: timeline,
	})
}

// Analytics bundles the backend's reporting endpoints into one payload.
type Analytics struct {
	KPIs          []models.KPI                `json:"kpis"`
	RiskEvolution []models.RiskEvolutionPoint `json:"risk_evolution"`
	TicketTrends  []models.TicketTrend        `json:"ticket_trends"`
	SLA           []models.SLAPerformance     `json:"sla_performance"`
	ROI           models.ROISummary           `json:"roi"`
	Health        []models.HealthGrade        `json:"property_health"`
	TenantLoad    []models.TenantLoad         `json:"tenant_load"`
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		out Analytics
		err error
	)
	if out.KPIs, err = s.api.AnalyticsKPIs(ctx); err != nil {
		writeBackendError(w, err)
		return
	}
	if out.RiskEvolution, err = s.api.RiskEvolution(ctx); err != nil {
		writeBackendError(w, err)
		return
	}
	if out.TicketTrends, err = s.api.TicketTrends(ctx); err != nil {
		writeBackendError(w, err)
		return
	}
	if out.SLA, err = s.api.SLASummary(ctx); err != nil {
		writeBackendError(w, err)
		return
	}
	if out.ROI, err = s.api.ROI(ctx); err != nil {
		writeBackendError(w, err)
		return
	}
	if out.Health, err = s.api.PropertyHealth(ctx); err != nil {
		writeBackendError(w, err)
		return
	}
	if out.TenantLoad, err = s.api.TenantLoad(ctx); err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// writeBackendError passes backend status codes through and maps transport
// failures to 502.
func writeBackendError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Status, map[string]string{"error": apiErr.Body})
		return
	}
	log.Printf("Backend proxy error: %v", err)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unreachable"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Write response: %v", err)
	}
}
