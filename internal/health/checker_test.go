package health_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/health"
)

func TestChecker_allHealthy(t *testing.T) {
	h := health.New(time.Second, zap.NewNop())
	h.Add("postgres", func(context.Context) error { return nil })
	h.Add("redis", func(context.Context) error { return nil })

	var recorded []bool
	h.SetMetrics(func(_ string, ok bool) { recorded = append(recorded, ok) })

	if err := h.Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if st := h.Status(); st["postgres"] != "ok" || st["redis"] != "ok" {
		t.Errorf("Status = %v", st)
	}
	if len(recorded) != 2 || !recorded[0] || !recorded[1] {
		t.Errorf("metrics = %v", recorded)
	}
}

func TestChecker_reportsFailures(t *testing.T) {
	down := errors.New("connection refused")
	h := health.New(time.Second, zap.NewNop())
	h.Add("postgres", func(context.Context) error { return nil })
	h.Add("redis", func(context.Context) error { return down })

	err := h.Check(context.Background())
	if !errors.Is(err, down) {
		t.Fatalf("Check = %v, want wrapped %v", err, down)
	}
	if st := h.Status(); st["redis"] != "connection refused" || st["postgres"] != "ok" {
		t.Errorf("Status = %v", st)
	}
}

func TestChecker_probeTimeout(t *testing.T) {
	h := health.New(10*time.Millisecond, zap.NewNop())
	h.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err := h.Check(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Check = %v, want deadline exceeded", err)
	}
}
