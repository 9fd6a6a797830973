package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jmerrifield20/NexusTrustSafety/internal/moderation/model"
)

// writeError maps a service error onto an HTTP response. Unknown errors are
// logged and reported as 500 without detail.
func writeError(c *gin.Context, logger *zap.Logger, op string, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, model.ErrInvalidReason):
		status, code = http.StatusBadRequest, "invalid_reason"
	case errors.Is(err, model.ErrMissingReason):
		status, code = http.StatusBadRequest, "missing_reason"
	case errors.Is(err, model.ErrUnsupportedContentType):
		status, code = http.StatusBadRequest, "unsupported_content_type"
	case errors.Is(err, model.ErrInvalidOutcome):
		status, code = http.StatusBadRequest, "invalid_outcome"
	case model.IsValidation(err):
		status, code = http.StatusBadRequest, "validation"
	case errors.Is(err, model.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrAlreadyResolved):
		status, code = http.StatusConflict, "already_resolved"
	case errors.Is(err, model.ErrEnforcementFailure):
		logger.Error(op, zap.Error(err))
		c.Header("Retry-After", "5")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "enforcement failed; nothing was applied",
			"code":      "enforcement_failure",
			"retryable": true,
		})
		return
	}

	if status == http.StatusInternalServerError {
		logger.Error(op, zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error", "code": code})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "validation"})
}
