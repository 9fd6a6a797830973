package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmerrifield20/NexusTrustSafety/internal/identity"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// CreateAction handles POST /admin/moderation-actions.
func (h *ModerationHandler) CreateAction(c *gin.Context) {
	var req model.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	action, err := h.svc.Dispatch(c.Request.Context(), identity.UserIDFromCtx(c), req)
	if err != nil {
		writeError(c, h.logger, "dispatch action", err)
		return
	}
	c.JSON(http.StatusCreated, action)
}

// ListActions handles GET /admin/moderation-actions.
//
// Query params: moderator_id, target_user_id, action_type, limit, offset.
func (h *ModerationHandler) ListActions(c *gin.Context) {
	f := model.ActionFilter{
		ModeratorID:  c.Query("moderator_id"),
		TargetUserID: c.Query("target_user_id"),
		ActionType:   model.ActionType(c.Query("action_type")),
	}
	f.Limit, f.Offset = pageParams(c)

	actions, err := h.svc.ListActions(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.logger, "list actions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions, "count": len(actions)})
}

// SendWarning handles POST /admin/warnings.
func (h *ModerationHandler) SendWarning(c *gin.Context) {
	var req model.SendWarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	w, err := h.svc.SendWarning(c.Request.Context(), identity.UserIDFromCtx(c), req)
	if err != nil {
		writeError(c, h.logger, "send warning", err)
		return
	}
	c.JSON(http.StatusCreated, w)
}
