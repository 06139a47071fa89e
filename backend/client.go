package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"propsense/models"
)

// APIError is a non-2xx response from the backend. The body may well be
// valid JSON; it is still a failure.
type APIError struct {
	Status int
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s: status %d: %s", e.Path, e.Status, e.Body)
}

// Client is a typed client for the PropSense backend REST API. All state
// lives server-side; the client only shapes requests and decodes responses.
type Client struct {
	baseURL  string
	http     *http.Client
	clientID string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		clientID: uuid.NewString(),
	}
}

type requestIDKey struct{}

// WithRequestID pins the X-Request-ID header for mutations issued with
// this context, so the caller can correlate the wire request with its own
// records. Without it each mutation gets a fresh UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// --- Read endpoints ---

func (c *Client) Status(ctx context.Context) (models.StatusResponse, error) {
	var out models.StatusResponse
	err := c.getJSON(ctx, "/status", &out)
	return out, err
}

func (c *Client) Properties(ctx context.Context) ([]models.Property, error) {
	var out []models.Property
	err := c.getJSON(ctx, "/properties", &out)
	return out, err
}

func (c *Client) Property(ctx context.Context, id int) (models.Property, error) {
	var out models.Property
	err := c.getJSON(ctx, fmt.Sprintf("/properties/%d", id), &out)
	return out, err
}

func (c *Client) PropertySensors(ctx context.Context, id int) ([]models.SensorReading, error) {
	var out []models.SensorReading
	err := c.getJSON(ctx, fmt.Sprintf("/properties/%d/sensors", id), &out)
	return out, err
}

func (c *Client) PropertyTimeline(ctx context.Context, id int) ([]models.TimelineEvent, error) {
	var out []models.TimelineEvent
	err := c.getJSON(ctx, fmt.Sprintf("/properties/%d/timeline", id), &out)
	return out, err
}

func (c *Client) Tickets(ctx context.Context) ([]models.Ticket, error) {
	var out []models.Ticket
	err := c.getJSON(ctx, "/tickets", &out)
	return out, err
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.getJSON(ctx, "/users", &out)
	return out, err
}

// --- Mutation endpoints ---

func (c *Client) CreateTicket(ctx context.Context, req models.CreateTicket) (models.Ticket, error) {
	var out models.Ticket
	err := c.do(ctx, http.MethodPost, "/tickets", req, &out)
	return out, err
}

// UpdateTicket sends only the populated fields and returns the server's
// representation of the updated record.
func (c *Client) UpdateTicket(ctx context.Context, id int, updates models.UpdateTicket) (models.Ticket, error) {
	var out models.Ticket
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tickets/%d", id), updates, &out)
	return out, err
}

// PatchTicketStatus is the quick status-only update. The backend guarantees
// a 2xx on success but no response body.
func (c *Client) PatchTicketStatus(ctx context.Context, id int, status models.TicketStatus) error {
	path := fmt.Sprintf("/tickets/%d?status=%s", id, url.QueryEscape(string(status)))
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}

func (c *Client) DeleteTicket(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tickets/%d", id), nil, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// --- Analytics endpoints ---

func (c *Client) AnalyticsKPIs(ctx context.Context) ([]models.KPI, error) {
	var out []models.KPI
	err := c.getJSON(ctx, "/analytics/kpis", &out)
	return out, err
}

func (c *Client) RiskEvolution(ctx context.Context) ([]models.RiskEvolutionPoint, error) {
	var out []models.RiskEvolutionPoint
	err := c.getJSON(ctx, "/analytics/risk-evolution", &out)
	return out, err
}

func (c *Client) TicketTrends(ctx context.Context) ([]models.TicketTrend, error) {
	var out []models.TicketTrend
	err := c.getJSON(ctx, "/analytics/ticket-trends", &out)
	return out, err
}

func (c *Client) SLASummary(ctx context.Context) ([]models.SLAPerformance, error) {
	var out []models.SLAPerformance
	err := c.getJSON(ctx, "/analytics/sla-performance", &out)
	return out, err
}

func (c *Client) ROI(ctx context.Context) (models.ROISummary, error) {
	var out models.ROISummary
	err := c.getJSON(ctx, "/analytics/roi", &out)
	return out, err
}

func (c *Client) TenantLoad(ctx context.Context) ([]models.TenantLoad, error) {
	var out []models.TenantLoad
	err := c.getJSON(ctx, "/analytics/tenant-load", &out)
	return out, err
}

func (c *Client) PropertyHealth(ctx context.Context) ([]models.HealthGrade, error) {
	var out []models.HealthGrade
	err := c.getJSON(ctx, "/analytics/property-health", &out)
	return out, err
}

// --- Transport ---

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Client-ID", c.clientID)
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", requestID(ctx))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			Status: resp.StatusCode,
			Path:   path,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s: %w", path, err)
	}
	return nil
}
