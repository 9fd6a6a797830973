// Package health probes the service's dependencies. A successful round of
// probes at startup is what flips the moderation readiness signal.
package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Probe checks a single dependency.
type Probe func(ctx context.Context) error

// MetricsRecordFunc is an optional callback for recording probe results.
type MetricsRecordFunc func(dependency string, success bool)

type namedProbe struct {
	name  string
	probe Probe
}

// Checker runs a fixed set of dependency probes.
type Checker struct {
	probes    []namedProbe
	timeout   time.Duration
	onMetrics MetricsRecordFunc

	mu   sync.Mutex
	last map[string]string

	logger *zap.Logger
}

// New creates a Checker. timeout bounds each probe (default 5s).
func New(timeout time.Duration, logger *zap.Logger) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{timeout: timeout, last: make(map[string]string), logger: logger}
}

// Add registers a probe under name.
func (h *Checker) Add(name string, p Probe) {
	h.probes = append(h.probes, namedProbe{name: name, probe: p})
}

// SetMetrics configures the metrics callback.
func (h *Checker) SetMetrics(fn MetricsRecordFunc) {
	h.onMetrics = fn
}

// Check runs every probe and returns the joined failures, or nil.
func (h *Checker) Check(ctx context.Context) error {
	var errs []error
	for _, p := range h.probes {
		pctx, cancel := context.WithTimeout(ctx, h.timeout)
		err := p.probe(pctx)
		cancel()

		if h.onMetrics != nil {
			h.onMetrics(p.name, err == nil)
		}
		h.mu.Lock()
		if err != nil {
			h.last[p.name] = err.Error()
		} else {
			h.last[p.name] = "ok"
		}
		h.mu.Unlock()

		if err != nil {
			h.logger.Warn("dependency probe failed", zap.String("dependency", p.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.name, err))
		}
	}
	return errors.Join(errs...)
}

// Status returns the result of the latest probe per dependency.
func (h *Checker) Status() map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]string, len(h.last))
	for k, v := range h.last {
		out[k] = v
	}
	return out
}
