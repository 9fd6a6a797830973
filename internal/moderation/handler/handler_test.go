package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/access"
	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/identity"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/handler"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/memstore"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/service"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/store"
	"github.com/jmerrifield20/NexusTrustSafety/internal/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	router   *gin.Engine
	st       *memstore.Store
	tokens   *identity.TokenIssuer
	ready    *access.Readiness
	userTok  string
	modTok   string
	otherTok string
}

func newEnv(t *testing.T, wrap func(*memstore.Store) store.Store) *env {
	t.Helper()
	st := memstore.New()
	st.PutProfile(users.Profile{ID: "u1", Username: "uma"})
	st.PutProfile(users.Profile{ID: "u2", Username: "ulf"})
	st.PutProfile(users.Profile{ID: "m1", Username: "maya"})
	st.PutContent(content.Ref{Kind: content.KindPost, ID: "42"}, "u2", "spammy post")

	var s store.Store = st
	if wrap != nil {
		s = wrap(st)
	}
	logger := zap.NewNop()
	gate := access.NewGate(st.Read().Bans, access.NewMemStatusCache(64, time.Minute), logger)
	svc := service.NewModerationService(s, st, logger)
	svc.SetBanCache(gate)

	tokens, err := identity.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), "test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	ready := access.NewReadiness()
	ready.MarkReady()

	h := handler.NewModerationHandler(svc, gate, tokens, logger)
	h.SetReadiness(ready, 20*time.Millisecond)

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.Register(v1)
	handler.NewLedgerHandler(st.Ledger(), logger).Register(h.Admin(v1))

	e := &env{router: r, st: st, tokens: tokens, ready: ready}
	e.userTok, _ = tokens.Issue("u1", "uma", identity.RoleUser)
	e.otherTok, _ = tokens.Issue("u2", "ulf", identity.RoleUser)
	e.modTok, _ = tokens.Issue("m1", "maya", identity.RoleModerator)
	return e
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func (e *env) fileReport(t *testing.T) model.Report {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/reports", e.userTok, map[string]any{
		"content_type": "post", "content_id": "42", "reason": "spam",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create report: %d %s", w.Code, w.Body.String())
	}
	return decode[model.Report](t, w)
}

func TestCreateReport(t *testing.T) {
	e := newEnv(t, nil)

	if w := e.do(t, http.MethodPost, "/api/v1/reports", "", map[string]any{}); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: %d", w.Code)
	}

	rpt := e.fileReport(t)
	if rpt.ReporterID != "u1" || rpt.ReportedUserID != "u2" || rpt.Status != model.ReportStatusPending {
		t.Errorf("report = %+v", rpt)
	}

	w := e.do(t, http.MethodPost, "/api/v1/reports", e.userTok, map[string]any{
		"content_type": "post", "content_id": "42", "reason": "rude",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid reason: %d", w.Code)
	}
	if body := decode[map[string]any](t, w); body["code"] != "invalid_reason" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestAdminRequiresModerator(t *testing.T) {
	e := newEnv(t, nil)
	if w := e.do(t, http.MethodGet, "/api/v1/admin/reports", e.userTok, nil); w.Code != http.StatusForbidden {
		t.Errorf("user token on admin route: %d", w.Code)
	}
	if w := e.do(t, http.MethodGet, "/api/v1/admin/reports", e.modTok, nil); w.Code != http.StatusOK {
		t.Errorf("moderator token: %d", w.Code)
	}
}

func TestModerationFlow(t *testing.T) {
	e := newEnv(t, nil)
	rpt := e.fileReport(t)

	w := e.do(t, http.MethodGet, "/api/v1/admin/reports?status=pending&content_type=post", e.modTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list reports: %d %s", w.Code, w.Body.String())
	}
	list := decode[struct {
		Reports []model.ReportView `json:"reports"`
		Count   int                `json:"count"`
	}](t, w)
	if list.Count != 1 || list.Reports[0].ReporterName != "uma" || list.Reports[0].ReportedUserName != "ulf" {
		t.Fatalf("list = %+v", list)
	}

	w = e.do(t, http.MethodPost, "/api/v1/admin/moderation-actions", e.modTok, map[string]any{
		"report_id": rpt.ID, "action_type": "hide", "reason": "confirmed spam",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("dispatch: %d %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/v1/admin/reports/"+rpt.ID.String()+"/resolve", e.modTok, map[string]any{"outcome": "dismissed"})
	if w.Code != http.StatusConflict {
		t.Errorf("resolve after action: %d, want 409", w.Code)
	}

	w = e.do(t, http.MethodGet, "/api/v1/admin/hidden-content", e.modTok, nil)
	hidden := decode[struct {
		Count int `json:"count"`
	}](t, w)
	if hidden.Count != 1 {
		t.Errorf("hidden count = %d", hidden.Count)
	}

	w = e.do(t, http.MethodGet, "/api/v1/admin/moderation-stats", e.modTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: %d", w.Code)
	}
	stats := decode[model.Stats](t, w)
	if stats.ReportsByStatus[model.ReportStatusResolved] != 1 || stats.HiddenContent != 1 {
		t.Errorf("stats = %+v", stats)
	}

	w = e.do(t, http.MethodGet, "/api/v1/admin/ledger/verify", e.modTok, nil)
	if body := decode[map[string]any](t, w); body["valid"] != true {
		t.Errorf("ledger verify = %v", body)
	}
}

func TestDispatch_errors(t *testing.T) {
	e := newEnv(t, nil)
	cases := []struct {
		body map[string]any
		code string
	}{
		{map[string]any{"target_user_id": "u2", "action_type": "ban_user", "reason": ""}, "missing_reason"},
		{map[string]any{"target_content_type": "user", "target_content_id": "u2", "action_type": "hide", "reason": "x"}, "unsupported_content_type"},
		{map[string]any{"target_user_id": "u2", "action_type": "ban_user", "reason": "x", "duration_hours": -1}, "validation"},
	}
	for _, tc := range cases {
		w := e.do(t, http.MethodPost, "/api/v1/admin/moderation-actions", e.modTok, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%v: status %d", tc.body, w.Code)
			continue
		}
		if body := decode[map[string]any](t, w); body["code"] != tc.code {
			t.Errorf("%v: code = %v, want %s", tc.body, body["code"], tc.code)
		}
	}
}

func TestBanBlocksUserRoutes(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(t, http.MethodPost, "/api/v1/admin/moderation-actions", e.modTok, map[string]any{
		"target_user_id": "u1", "action_type": "ban_user", "reason": "harassment", "duration_hours": 168,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("ban: %d %s", w.Code, w.Body.String())
	}

	if w := e.do(t, http.MethodPost, "/api/v1/reports", e.userTok, map[string]any{
		"content_type": "post", "content_id": "42", "reason": "spam",
	}); w.Code != http.StatusForbidden {
		t.Errorf("banned user filing report: %d, want 403", w.Code)
	}

	w = e.do(t, http.MethodGet, "/api/v1/bans/me", e.userTok, nil)
	status := decode[map[string]any](t, w)
	if status["banned"] != true || status["until"] == nil {
		t.Errorf("ban status = %v", status)
	}
	if w := e.do(t, http.MethodGet, "/api/v1/bans/u1", e.otherTok, nil); w.Code != http.StatusForbidden {
		t.Errorf("other user's status: %d, want 403", w.Code)
	}

	for i := 0; i < 2; i++ {
		w = e.do(t, http.MethodDelete, "/api/v1/admin/banned-users/u1", e.modTok, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("unban #%d: %d", i+1, w.Code)
		}
		if body := decode[map[string]any](t, w); body["was_banned"] != (i == 0) {
			t.Errorf("unban #%d: was_banned = %v", i+1, body["was_banned"])
		}
	}

	if w := e.do(t, http.MethodPost, "/api/v1/reports", e.userTok, map[string]any{
		"content_type": "post", "content_id": "42", "reason": "spam",
	}); w.Code != http.StatusCreated {
		t.Errorf("report after unban: %d, want 201", w.Code)
	}
}

func TestWarnings(t *testing.T) {
	e := newEnv(t, nil)
	w := e.do(t, http.MethodPost, "/api/v1/admin/warnings", e.modTok, map[string]any{
		"user_id": "u1", "warning_type": "notice", "message": "Please keep it civil.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send warning: %d %s", w.Code, w.Body.String())
	}
	warning := decode[model.Warning](t, w)

	w = e.do(t, http.MethodGet, "/api/v1/users/me/warnings", e.userTok, nil)
	list := decode[struct {
		Count  int `json:"count"`
		Unread int `json:"unread"`
	}](t, w)
	if list.Count != 1 || list.Unread != 1 {
		t.Errorf("warnings = %+v", list)
	}

	path := "/api/v1/users/me/warnings/" + warning.ID.String() + "/read"
	if w := e.do(t, http.MethodPost, path, e.otherTok, nil); w.Code != http.StatusNotFound {
		t.Errorf("other user marking read: %d, want 404", w.Code)
	}
	if w := e.do(t, http.MethodPost, path, e.userTok, nil); w.Code != http.StatusOK {
		t.Errorf("mark read: %d", w.Code)
	}
}

func TestReadinessGate(t *testing.T) {
	e := newEnv(t, nil)
	e.ready = access.NewReadiness()
	h := handler.NewModerationHandler(nil, nil, e.tokens, zap.NewNop())
	h.SetReadiness(e.ready, 10*time.Millisecond)
	r := gin.New()
	h.Admin(r.Group("/api/v1")).GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+e.modTok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unready: %d, want 503", w.Code)
	}

	e.ready.MarkReady()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("ready: %d, want 200", w.Code)
	}
}

type failingStore struct{ *memstore.Store }

func (s failingStore) InTx(ctx context.Context, fn func(store.Repos) error) error {
	return s.Store.InTx(ctx, func(r store.Repos) error {
		r.Content = failingContent{r.Content}
		return fn(r)
	})
}

type failingContent struct{ store.Content }

func (failingContent) Hide(context.Context, content.Ref, string, string, time.Time) (bool, error) {
	return false, errors.New("connection reset")
}

func TestEnforcementFailureIsRetryable(t *testing.T) {
	e := newEnv(t, func(st *memstore.Store) store.Store { return failingStore{st} })
	rpt := e.fileReport(t)

	w := e.do(t, http.MethodPost, "/api/v1/admin/moderation-actions", e.modTok, map[string]any{
		"report_id": rpt.ID, "action_type": "hide", "reason": "spam",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if body := decode[map[string]any](t, w); body["retryable"] != true || body["code"] != "enforcement_failure" {
		t.Errorf("body = %v", body)
	}

	w = e.do(t, http.MethodGet, "/api/v1/admin/reports/"+rpt.ID.String(), e.modTok, nil)
	if got := decode[model.ReportView](t, w); got.Status != model.ReportStatusPending {
		t.Errorf("report status = %q, want pending", got.Status)
	}
}
