package access_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/access"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

type stubBans struct {
	rows  map[string]*model.BannedUser
	calls int
	err   error
}

func (s *stubBans) Get(_ context.Context, userID string) (*model.BannedUser, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.rows[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return b, nil
}

// pausedBans blocks its first Get after reading, until release is closed.
type pausedBans struct {
	stubBans
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausedBans) Get(ctx context.Context, userID string) (*model.BannedUser, error) {
	b, err := p.stubBans.Get(ctx, userID)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return b, err
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestGate_isBannedLazyExpiry(t *testing.T) {
	bans := &stubBans{rows: map[string]*model.BannedUser{
		"temp": {UserID: "temp", BannedUntil: ptr(t0.Add(time.Hour)), Reason: "spam"},
		"perm": {UserID: "perm", IsPermanent: true, Reason: "fraud"},
	}}
	g := access.NewGate(bans, nil, zap.NewNop())
	now := t0
	g.SetClock(func() time.Time { return now })

	ctx := context.Background()
	st, err := g.IsBanned(ctx, "temp")
	if err != nil || !st.Banned || st.Until == nil {
		t.Fatalf("temp at t0: %+v, %v", st, err)
	}

	now = t0.Add(2 * time.Hour)
	st, _ = g.IsBanned(ctx, "temp")
	if st.Banned {
		t.Error("expired ban should read as not banned")
	}
	st, _ = g.IsBanned(ctx, "perm")
	if !st.Banned || !st.Permanent {
		t.Errorf("perm: %+v", st)
	}
	st, _ = g.IsBanned(ctx, "nobody")
	if st.Banned {
		t.Error("unknown user should not be banned")
	}
}

func TestGate_cachedEntryStillExpires(t *testing.T) {
	bans := &stubBans{rows: map[string]*model.BannedUser{
		"temp": {UserID: "temp", BannedUntil: ptr(t0.Add(time.Hour))},
	}}
	g := access.NewGate(bans, access.NewMemStatusCache(16, time.Hour), zap.NewNop())
	now := t0
	g.SetClock(func() time.Time { return now })

	ctx := context.Background()
	if st, _ := g.IsBanned(ctx, "temp"); !st.Banned {
		t.Fatal("expected banned")
	}
	now = t0.Add(90 * time.Minute)
	if st, _ := g.IsBanned(ctx, "temp"); st.Banned {
		t.Error("cached ban should lapse at banned_until")
	}
	if bans.calls != 1 {
		t.Errorf("store calls = %d, want 1 (second read served from cache)", bans.calls)
	}
}

func TestGate_purge(t *testing.T) {
	bans := &stubBans{rows: map[string]*model.BannedUser{}}
	g := access.NewGate(bans, access.NewMemStatusCache(16, time.Hour), zap.NewNop())
	ctx := context.Background()

	if st, _ := g.IsBanned(ctx, "u1"); st.Banned {
		t.Fatal("expected clear")
	}
	bans.rows["u1"] = &model.BannedUser{UserID: "u1", IsPermanent: true}
	if st, _ := g.IsBanned(ctx, "u1"); st.Banned {
		t.Fatal("negative result should be cached until purge")
	}
	g.Purge(ctx, "u1")
	if st, _ := g.IsBanned(ctx, "u1"); !st.Banned {
		t.Error("expected banned after purge")
	}
}

func TestGate_storeErrorAndHook(t *testing.T) {
	bans := &stubBans{err: errors.New("db down")}
	g := access.NewGate(bans, nil, zap.NewNop())
	var results []string
	g.SetCheckHook(func(r string) { results = append(results, r) })

	if _, err := g.IsBanned(context.Background(), "u1"); err == nil {
		t.Fatal("expected error")
	}
	if len(results) != 1 || results[0] != "error" {
		t.Errorf("hook results = %v", results)
	}
}

func TestRequireNotBanned(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bans := &stubBans{rows: map[string]*model.BannedUser{
		"bad": {UserID: "bad", IsPermanent: true, Reason: "abuse"},
	}}
	g := access.NewGate(bans, nil, zap.NewNop())

	r := gin.New()
	r.GET("/x", g.RequireNotBanned(func(c *gin.Context) string { return c.Query("u") }),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for u, want := range map[string]int{"bad": http.StatusForbidden, "good": http.StatusNoContent, "": http.StatusNoContent} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?u="+u, nil))
		if w.Code != want {
			t.Errorf("user %q: status = %d, want %d", u, w.Code, want)
		}
	}
}

func TestReadiness(t *testing.T) {
	r := access.NewReadiness()
	if r.Ready() {
		t.Fatal("new signal should be unready")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want deadline exceeded", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Wait(context.Background()) }()
	r.MarkReady()
	r.MarkReady()
	if err := <-done; err != nil {
		t.Errorf("Wait after MarkReady = %v", err)
	}
	if !r.Ready() {
		t.Error("expected ready")
	}
}

func TestReadinessMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ready := access.NewReadiness()
	r := gin.New()
	r.GET("/x", ready.Middleware(10*time.Millisecond), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unready: status = %d, want 503", w.Code)
	}

	ready.MarkReady()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ready: status = %d, want 200", w.Code)
	}
}

func TestGate_purgeDuringLookupIsNotCached(t *testing.T) {
	bans := &pausedBans{
		stubBans: stubBans{rows: map[string]*model.BannedUser{}},
		read:     make(chan struct{}),
		release:  make(chan struct{}),
	}
	g := access.NewGate(bans, access.NewMemStatusCache(16, time.Hour), zap.NewNop())
	g.SetClock(func() time.Time { return t0 })
	ctx := context.Background()

	done := make(chan model.BanStatus)
	go func() {
		st, _ := g.IsBanned(ctx, "U1")
		done <- st
	}()

	// The lookup has read "no ban"; the ban commits and purges before it
	// can fill the cache.
	<-bans.read
	bans.rows["U1"] = &model.BannedUser{UserID: "U1", IsPermanent: true, Reason: "fraud"}
	g.Purge(ctx, "U1")
	close(bans.release)

	if st := <-done; st.Banned {
		t.Fatalf("in-flight lookup = %+v, want the pre-ban answer", st)
	}
	st, err := g.IsBanned(ctx, "U1")
	if err != nil || !st.Banned || !st.Permanent {
		t.Fatalf("after purge: %+v, %v; want permanently banned", st, err)
	}
	if bans.calls != 2 {
		t.Errorf("store calls = %d, want 2", bans.calls)
	}
}
