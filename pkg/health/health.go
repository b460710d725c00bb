// Package health provides Kubernetes-style liveness and readiness endpoints.
// Registered checks run in background goroutines at a fixed interval; the
// HTTP handlers only read the latest results.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
)

// CheckFunc reports whether a component is healthy.
type CheckFunc func(ctx context.Context) error

// check holds one registered check and its latest result.
type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	// lastErr is written by the poll goroutine and read by HTTP handlers.
	lastErr atomic.Pointer[error]
}

func (c *check) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(checkCtx)
	c.lastErr.Store(&err)
}

func (c *check) err() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Health manages liveness and readiness checks for a service.
type Health struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

// New creates a Health instance. The service starts not ready; call
// SetReady(true) once initialization has finished.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a check for /livez.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, &check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check for /readyz.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, &check{name: name, timeout: timeout, fn: fn})
}

// Start begins polling all registered checks at the given interval. Each
// check runs once immediately and then on every tick until Stop or context
// cancellation.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	checks := make([]*check, 0, len(h.liveness)+len(h.readiness))
	checks = append(checks, h.liveness...)
	checks = append(checks, h.readiness...)
	h.mu.Unlock()

	for _, c := range checks {
		go func(c *check) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			c.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}(c)
	}
}

// Stop cancels the background poll goroutines. Safe to call multiple times.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady flips the manual readiness flag. It is set to true after startup
// and back to false when graceful shutdown begins.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service should receive traffic: the manual
// flag must be set and every readiness check passing.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	h.mu.Lock()
	checks := h.readiness
	h.mu.Unlock()

	for _, c := range checks {
		if c.err() != nil {
			return false
		}
	}
	return true
}

// statusResponse is the JSON body for both probe endpoints.
type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness probe.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	checks := h.liveness
	h.mu.Unlock()
	writeStatus(w, checks, true)
}

// ReadyEndpoint serves the readiness probe.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	checks := h.readiness
	h.mu.Unlock()
	writeStatus(w, checks, h.ready.Load())
}

func writeStatus(w http.ResponseWriter, checks []*check, ready bool) {
	resp := statusResponse{
		Status: "ok",
		Checks: make(map[string]string, len(checks)),
	}
	healthy := ready

	for _, c := range checks {
		if err := c.err(); err != nil {
			resp.Checks[c.name] = err.Error()
			healthy = false
		} else {
			resp.Checks[c.name] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// GoroutineCountCheck returns a liveness check that fails when the process
// has more than threshold goroutines, a cheap leak detector.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("too many goroutines: %d > %d", n, threshold)
		}
		return nil
	}
}
