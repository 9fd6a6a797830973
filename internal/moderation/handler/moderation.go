// Package handler exposes the moderation core over HTTP.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/access"
	"github.com/jmerrifield20/NexusTrustSafety/internal/identity"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// moderationSvc is the service interface the handler depends on.
// *service.ModerationService satisfies it.
type moderationSvc interface {
	CreateReport(ctx context.Context, reporterID string, req model.CreateReportRequest) (*model.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*model.ReportView, error)
	ListReports(ctx context.Context, f model.ReportFilter) ([]*model.ReportView, error)
	ResolveReport(ctx context.Context, id uuid.UUID, moderatorID string, req model.ResolveReportRequest) (*model.Report, error)

	Dispatch(ctx context.Context, moderatorID string, req model.CreateActionRequest) (*model.ModerationAction, error)
	ListActions(ctx context.Context, f model.ActionFilter) ([]*model.ActionView, error)

	Unban(ctx context.Context, moderatorID, userID string) (bool, error)
	ListBannedUsers(ctx context.Context, f model.BanFilter) ([]*model.BanView, error)
	ListHiddenContent(ctx context.Context, limit, offset int) ([]*model.HiddenContentView, error)
	Stats(ctx context.Context) (*model.Stats, error)

	SendWarning(ctx context.Context, moderatorID string, req model.SendWarningRequest) (*model.Warning, error)
	ListWarnings(ctx context.Context, userID string, limit, offset int) ([]*model.Warning, error)
	MarkWarningRead(ctx context.Context, userID string, id uuid.UUID) error
}

// ModerationHandler handles the user-facing and moderator-facing routes.
type ModerationHandler struct {
	svc          moderationSvc
	gate         *access.Gate
	tokens       *identity.TokenIssuer
	ready        *access.Readiness // nil = always ready
	readyTimeout time.Duration
	logger       *zap.Logger
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(svc moderationSvc, gate *access.Gate, tokens *identity.TokenIssuer, logger *zap.Logger) *ModerationHandler {
	return &ModerationHandler{svc: svc, gate: gate, tokens: tokens, readyTimeout: 5 * time.Second, logger: logger}
}

// SetReadiness makes moderation routes wait up to timeout for r before
// serving.
func (h *ModerationHandler) SetReadiness(r *access.Readiness, timeout time.Duration) {
	h.ready = r
	if timeout > 0 {
		h.readyTimeout = timeout
	}
}

func (h *ModerationHandler) waitReady() gin.HandlerFunc {
	if h.ready == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return h.ready.Middleware(h.readyTimeout)
}

// Register registers routes on rg. Moderator routes live under /admin.
func (h *ModerationHandler) Register(rg *gin.RouterGroup) {
	user := rg.Group("", h.waitReady(), identity.RequireUserToken(h.tokens))
	{
		user.GET("/bans/:userId", h.BanStatus)

		active := user.Group("", h.gate.RequireNotBanned(identity.UserIDFromCtx))
		active.POST("/reports", h.CreateReport)
		active.GET("/users/me/warnings", h.ListMyWarnings)
		active.POST("/users/me/warnings/:id/read", h.MarkWarningRead)
	}

	admin := h.Admin(rg)
	{
		admin.GET("/reports", h.ListReports)
		admin.GET("/reports/:id", h.GetReport)
		admin.POST("/reports/:id/resolve", h.ResolveReport)
		admin.POST("/moderation-actions", h.CreateAction)
		admin.GET("/moderation-actions", h.ListActions)
		admin.POST("/warnings", h.SendWarning)
		admin.GET("/banned-users", h.ListBannedUsers)
		admin.DELETE("/banned-users/:userId", h.Unban)
		admin.GET("/hidden-content", h.ListHiddenContent)
		admin.GET("/moderation-stats", h.Stats)
	}
}

// Admin returns the moderator-only group so other handlers can mount on it.
func (h *ModerationHandler) Admin(rg *gin.RouterGroup) *gin.RouterGroup {
	return rg.Group("/admin", h.waitReady(), identity.RequireModerator(h.tokens))
}

// pageParams reads limit/offset query params with the listing defaults.
func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// BanStatus handles GET /bans/:userId. Users may only query themselves;
// moderators may query anyone.
func (h *ModerationHandler) BanStatus(c *gin.Context) {
	claims := identity.UserClaimsFromCtx(c)
	userID := c.Param("userId")
	if userID == "me" {
		userID = claims.UserID
	}
	if userID != claims.UserID && !claims.Role.CanModerate() {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot query another user's ban status"})
		return
	}

	st, err := h.gate.IsBanned(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("ban status", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ban status unavailable", "retryable": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":   userID,
		"banned":    st.Banned,
		"until":     st.Until,
		"permanent": st.Permanent,
		"reason":    st.Reason,
	})
}
