package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jmerrifield20/NexusTrustSafety/internal/identity"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// ListBannedUsers handles GET /admin/banned-users.
//
// Query params: include_expired, limit, offset.
func (h *ModerationHandler) ListBannedUsers(c *gin.Context) {
	includeExpired, _ := strconv.ParseBool(c.DefaultQuery("include_expired", "false"))
	f := model.BanFilter{IncludeExpired: includeExpired}
	f.Limit, f.Offset = pageParams(c)

	bans, err := h.svc.ListBannedUsers(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.logger, "list banned users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banned_users": bans, "count": len(bans)})
}

// Unban handles DELETE /admin/banned-users/:userId. It succeeds whether or
// not the user was banned.
func (h *ModerationHandler) Unban(c *gin.Context) {
	userID := c.Param("userId")
	existed, err := h.svc.Unban(c.Request.Context(), identity.UserIDFromCtx(c), userID)
	if err != nil {
		writeError(c, h.logger, "unban", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "was_banned": existed})
}

// ListHiddenContent handles GET /admin/hidden-content.
func (h *ModerationHandler) ListHiddenContent(c *gin.Context) {
	limit, offset := pageParams(c)
	items, err := h.svc.ListHiddenContent(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, h.logger, "list hidden content", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hidden_content": items, "count": len(items)})
}

// Stats handles GET /admin/moderation-stats.
func (h *ModerationHandler) Stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "moderation stats", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
