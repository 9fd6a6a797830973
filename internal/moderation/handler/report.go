package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmerrifield20/NexusTrustSafety/internal/content"
	"github.com/jmerrifield20/NexusTrustSafety/internal/identity"
	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// CreateReport handles POST /reports.
func (h *ModerationHandler) CreateReport(c *gin.Context) {
	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rpt, err := h.svc.CreateReport(c.Request.Context(), identity.UserIDFromCtx(c), req)
	if err != nil {
		writeError(c, h.logger, "create report", err)
		return
	}
	c.JSON(http.StatusCreated, rpt)
}

// ListReports handles GET /admin/reports.
//
// Query params: status, content_type, from, to, search, limit, offset.
// from/to accept RFC 3339 timestamps or YYYY-MM-DD dates; a date-only "to"
// includes the whole day.
func (h *ModerationHandler) ListReports(c *gin.Context) {
	f := model.ReportFilter{
		Status:      model.ReportStatus(c.Query("status")),
		ContentType: content.Kind(strings.ToLower(c.Query("content_type"))),
		Search:      c.Query("search"),
	}
	f.Limit, f.Offset = pageParams(c)

	var err error
	if f.From, err = parseBound(c.Query("from"), false); err != nil {
		badRequest(c, "from: "+err.Error())
		return
	}
	if f.To, err = parseBound(c.Query("to"), true); err != nil {
		badRequest(c, "to: "+err.Error())
		return
	}

	reports, err := h.svc.ListReports(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.logger, "list reports", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

// parseBound parses a date range bound. An upper bound given as a bare date
// is moved to the start of the following day.
func parseBound(s string, upper bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

// GetReport handles GET /admin/reports/:id.
func (h *ModerationHandler) GetReport(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rpt, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, "get report", err)
		return
	}
	c.JSON(http.StatusOK, rpt)
}

// ResolveReport handles POST /admin/reports/:id/resolve.
func (h *ModerationHandler) ResolveReport(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req model.ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rpt, err := h.svc.ResolveReport(c.Request.Context(), id, identity.UserIDFromCtx(c), req)
	if err != nil {
		writeError(c, h.logger, "resolve report", err)
		return
	}
	c.JSON(http.StatusOK, rpt)
}
