package monitoring

import (
	"context"
	"sync"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheckFunc probes a single dependency. Implementations must honor
// ctx so one stalled dependency cannot block the whole report.
type HealthCheckFunc func(ctx context.Context) error

// HealthCheck is the recorded outcome of one probe.
type HealthCheck struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

// HealthChecker runs registered dependency probes on demand.
type HealthChecker struct {
	mu      sync.RWMutex
	checks  map[string]HealthCheckFunc
	timeout time.Duration
}

// NewHealthChecker returns a checker with a 5 second per-probe timeout.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]HealthCheckFunc),
		timeout: 5 * time.Second,
	}
}

// Register adds a probe under name, replacing any existing probe with the
// same name.
func (hc *HealthChecker) Register(name string, fn HealthCheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.checks[name] = fn
}

// Run executes every registered probe and returns the outcomes keyed by
// probe name. Each probe runs under its own timeout derived from ctx.
func (hc *HealthChecker) Run(ctx context.Context) map[string]HealthCheck {
	hc.mu.RLock()
	funcs := make(map[string]HealthCheckFunc, len(hc.checks))
	for name, fn := range hc.checks {
		funcs[name] = fn
	}
	hc.mu.RUnlock()

	results := make(map[string]HealthCheck, len(funcs))
	for name, fn := range funcs {
		results[name] = hc.runOne(ctx, name, fn)
	}

	return results
}

func (hc *HealthChecker) runOne(ctx context.Context, name string, fn HealthCheckFunc) HealthCheck {
	checkCtx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	check := HealthCheck{
		Name:    name,
		Status:  StatusHealthy,
		LastRun: time.Now(),
	}

	if err := fn(checkCtx); err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}

	return check
}

// Healthy reports whether every outcome in results passed.
func Healthy(results map[string]HealthCheck) bool {
	for _, check := range results {
		if check.Status != StatusHealthy {
			return false
		}
	}

	return true
}
