// Package client is a Go client for the moderation API.
//
//	c, err := client.New("http://localhost:8080", client.WithBearerToken(token))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reports, err := c.ListReports(ctx, client.ReportQuery{Status: "pending"})
//
// Non-2xx responses are returned as *APIError:
//
//	var apiErr *client.APIError
//	if errors.As(err, &apiErr) && apiErr.Code == "already_resolved" {
//	    // someone else got there first
//	}
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response from the moderation API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"error"`
	Retryable  bool   `json:"retryable"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("moderation api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("moderation api: %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether err is an APIError the server marked as safe
// to retry (enforcement failure, not ready yet).
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client talks to one moderation API instance.
type Client struct {
	base        string
	httpClient  *http.Client
	bearerToken string
}

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithBearerToken attaches a user or moderator token to every request.
func WithBearerToken(token string) Option {
	return func(c *Client) error {
		c.bearerToken = token
		return nil
	}
}

// WithTimeout overrides the default 10s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		c.httpClient.Timeout = d
		return nil
	}
}

// New creates a Client for the API at base, e.g. "http://localhost:8080".
func New(base string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	c := &Client{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(base string, opts ...Option) *Client {
	c, err := New(base, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// ── Reports ──────────────────────────────────────────────────────────────────

// CreateReport files a report as the token's user.
func (c *Client) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	var out Report
	if err := c.call(ctx, http.MethodPost, "/api/v1/reports", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReports lists reports for moderators, newest first.
func (c *Client) ListReports(ctx context.Context, q ReportQuery) ([]Report, error) {
	v := url.Values{}
	setNonEmpty(v, "status", q.Status)
	setNonEmpty(v, "content_type", q.ContentType)
	setNonEmpty(v, "from", q.From)
	setNonEmpty(v, "to", q.To)
	setNonEmpty(v, "search", q.Search)
	setPage(v, q.Limit, q.Offset)

	var out struct {
		Reports []Report `json:"reports"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/reports", v, nil, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

// GetReport fetches one report.
func (c *Client) GetReport(ctx context.Context, id string) (*Report, error) {
	var out Report
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/reports/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveReport closes a pending report without an enforcement action.
// outcome is "resolved" or "dismissed".
func (c *Client) ResolveReport(ctx context.Context, id, outcome, notes string) (*Report, error) {
	body := map[string]string{"outcome": outcome, "notes": notes}
	var out Report
	if err := c.call(ctx, http.MethodPost, "/api/v1/admin/reports/"+url.PathEscape(id)+"/resolve", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Actions ──────────────────────────────────────────────────────────────────

// Dispatch records a moderation action and applies its enforcement.
func (c *Client) Dispatch(ctx context.Context, req ActionRequest) (*Action, error) {
	var out Action
	if err := c.call(ctx, http.MethodPost, "/api/v1/admin/moderation-actions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActions lists the moderation action log, newest first.
func (c *Client) ListActions(ctx context.Context, q ActionQuery) ([]Action, error) {
	v := url.Values{}
	setNonEmpty(v, "moderator_id", q.ModeratorID)
	setNonEmpty(v, "target_user_id", q.TargetUserID)
	setNonEmpty(v, "action_type", q.ActionType)
	setPage(v, q.Limit, q.Offset)

	var out struct {
		Actions []Action `json:"actions"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/moderation-actions", v, nil, &out); err != nil {
		return nil, err
	}
	return out.Actions, nil
}

// SendWarning warns a user directly, outside of a report.
func (c *Client) SendWarning(ctx context.Context, req WarningRequest) (*Warning, error) {
	var out Warning
	if err := c.call(ctx, http.MethodPost, "/api/v1/admin/warnings", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Bans ─────────────────────────────────────────────────────────────────────

// BanStatus returns the ban status of userID. Pass "me" for the token's user.
func (c *Client) BanStatus(ctx context.Context, userID string) (*BanStatus, error) {
	var out BanStatus
	if err := c.call(ctx, http.MethodGet, "/api/v1/bans/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBannedUsers lists ban rows, most recent first.
func (c *Client) ListBannedUsers(ctx context.Context, includeExpired bool, limit, offset int) ([]Ban, error) {
	v := url.Values{}
	if includeExpired {
		v.Set("include_expired", "true")
	}
	setPage(v, limit, offset)

	var out struct {
		BannedUsers []Ban `json:"banned_users"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/banned-users", v, nil, &out); err != nil {
		return nil, err
	}
	return out.BannedUsers, nil
}

// Unban lifts userID's ban. It reports whether a ban existed.
func (c *Client) Unban(ctx context.Context, userID string) (bool, error) {
	var out struct {
		WasBanned bool `json:"was_banned"`
	}
	if err := c.call(ctx, http.MethodDelete, "/api/v1/admin/banned-users/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return false, err
	}
	return out.WasBanned, nil
}

// ── Content, warnings, stats ─────────────────────────────────────────────────

// ListHiddenContent lists items currently hidden by moderation.
func (c *Client) ListHiddenContent(ctx context.Context, limit, offset int) ([]HiddenContent, error) {
	v := url.Values{}
	setPage(v, limit, offset)

	var out struct {
		HiddenContent []HiddenContent `json:"hidden_content"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/hidden-content", v, nil, &out); err != nil {
		return nil, err
	}
	return out.HiddenContent, nil
}

// MyWarnings lists the token user's warnings and the unread count.
func (c *Client) MyWarnings(ctx context.Context) ([]Warning, int, error) {
	var out struct {
		Warnings []Warning `json:"warnings"`
		Unread   int       `json:"unread"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/users/me/warnings", nil, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Warnings, out.Unread, nil
}

// MarkWarningRead marks one of the token user's warnings as read.
func (c *Client) MarkWarningRead(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodPost, "/api/v1/users/me/warnings/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

// Stats returns the moderation dashboard summary.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/moderation-stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LedgerOverview returns the trust ledger length and root hash.
func (c *Client) LedgerOverview(ctx context.Context) (*LedgerOverview, error) {
	var out LedgerOverview
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/ledger", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyLedger asks the server to walk the trust ledger. A broken chain is
// returned as an error.
func (c *Client) VerifyLedger(ctx context.Context) error {
	var out struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	if err := c.call(ctx, http.MethodGet, "/api/v1/admin/ledger/verify", nil, nil, &out); err != nil {
		return err
	}
	if !out.Valid {
		return fmt.Errorf("trust ledger invalid: %s", out.Error)
	}
	return nil
}

// ── Transport ────────────────────────────────────────────────────────────────

// call sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setPage(v url.Values, limit, offset int) {
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
}
