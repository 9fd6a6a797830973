package identity_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmerrifield20/NexusTrustSafety/internal/identity"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newIssuer(t *testing.T) *identity.TokenIssuer {
	t.Helper()
	iss, err := identity.NewTokenIssuer(testSecret, "https://moderation.test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	return iss
}

func TestNewTokenIssuer_shortSecret(t *testing.T) {
	if _, err := identity.NewTokenIssuer([]byte("short"), "x", 0); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestIssueVerify_roundTrip(t *testing.T) {
	iss := newIssuer(t)
	tok, err := iss.Issue("u-1", "alice", identity.RoleModerator)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := iss.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "alice" || claims.Role != identity.RoleModerator {
		t.Errorf("claims = %+v", claims)
	}
}

func TestIssue_rejectsUnknownRole(t *testing.T) {
	if _, err := newIssuer(t).Issue("u-1", "alice", "root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestVerify_expired(t *testing.T) {
	iss := newIssuer(t)
	iss.SetClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	tok, err := iss.Issue("u-1", "alice", identity.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	iss.SetClock(time.Now)
	if _, err := iss.Verify(tok); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerify_wrongSecret(t *testing.T) {
	tok, _ := newIssuer(t).Issue("u-1", "alice", identity.RoleUser)
	other, _ := identity.NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), "https://moderation.test", time.Hour)
	if _, err := other.Verify(tok); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestRequireModerator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	iss := newIssuer(t)
	r := gin.New()
	r.GET("/admin", identity.RequireModerator(iss), func(c *gin.Context) {
		c.String(http.StatusOK, identity.UserIDFromCtx(c))
	})

	userTok, _ := iss.Issue("u-1", "alice", identity.RoleUser)
	modTok, _ := iss.Issue("m-1", "mod", identity.RoleModerator)
	adminTok, _ := iss.Issue("a-1", "root", identity.RoleAdmin)

	cases := []struct {
		name   string
		header string
		want   int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"garbage", "Bearer nope", http.StatusUnauthorized, ""},
		{"user role", "Bearer " + userTok, http.StatusForbidden, ""},
		{"moderator", "Bearer " + modTok, http.StatusOK, "m-1"},
		{"admin", "Bearer " + adminTok, http.StatusOK, "a-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if tc.body != "" && !strings.Contains(w.Body.String(), tc.body) {
				t.Errorf("body = %q, want %q", w.Body.String(), tc.body)
			}
		})
	}
}

func TestRequireUserToken_setsClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	iss := newIssuer(t)
	r := gin.New()
	r.GET("/me", identity.RequireUserToken(iss), func(c *gin.Context) {
		claims := identity.UserClaimsFromCtx(c)
		c.String(http.StatusOK, claims.Username)
	})
	tok, _ := iss.Issue("u-1", "alice", identity.RoleUser)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "alice" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}
