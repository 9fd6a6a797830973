package reaper_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/reaper"
)

type stubReaper struct {
	n     int
	err   error
	calls int
}

func (s *stubReaper) ReapExpiredBans(context.Context) (int, error) {
	s.calls++
	return s.n, s.err
}

func TestRunOnce(t *testing.T) {
	stub := &stubReaper{n: 3}
	r := reaper.New(stub, zap.NewNop())
	var hooked int
	r.SetReapHook(func(n int) { hooked += n })

	if got := r.RunOnce(context.Background()); got != 3 {
		t.Errorf("RunOnce = %d, want 3", got)
	}
	if hooked != 3 {
		t.Errorf("hook saw %d, want 3", hooked)
	}
}

func TestRunOnce_errorIsSwallowed(t *testing.T) {
	stub := &stubReaper{err: errors.New("db down")}
	r := reaper.New(stub, zap.NewNop())
	called := false
	r.SetReapHook(func(int) { called = true })

	if got := r.RunOnce(context.Background()); got != 0 {
		t.Errorf("RunOnce = %d, want 0", got)
	}
	if called {
		t.Error("hook should not run on error")
	}
}

func TestSchedule(t *testing.T) {
	r := reaper.New(&stubReaper{}, zap.NewNop())
	if err := r.Schedule(""); err != nil {
		t.Errorf("default schedule: %v", err)
	}
	if err := r.Schedule("not a schedule"); err == nil {
		t.Error("expected error for invalid spec")
	}
	r.Start()
	r.Stop()
}
