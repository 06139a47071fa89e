package httputil

import (
	"net/http"
	"time"
)

// NewAPIClient builds the HTTP client used for all backend calls. The
// timeout is the only explicit policy. No retry or backoff: a failed poll
// is simply retried on the next timer tick.
func NewAPIClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
