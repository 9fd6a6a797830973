package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmerrifield20/NexusTrustSafety/internal/identity"
)

// ListMyWarnings handles GET /users/me/warnings.
func (h *ModerationHandler) ListMyWarnings(c *gin.Context) {
	limit, offset := pageParams(c)
	ws, err := h.svc.ListWarnings(c.Request.Context(), identity.UserIDFromCtx(c), limit, offset)
	if err != nil {
		writeError(c, h.logger, "list warnings", err)
		return
	}
	unread := 0
	for _, w := range ws {
		if !w.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"warnings": ws, "count": len(ws), "unread": unread})
}

// MarkWarningRead handles POST /users/me/warnings/:id/read.
func (h *ModerationHandler) MarkWarningRead(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkWarningRead(c.Request.Context(), identity.UserIDFromCtx(c), id); err != nil {
		writeError(c, h.logger, "mark warning read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_read": true})
}
