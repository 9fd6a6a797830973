package access

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireNotBanned rejects requests from banned users with 403. userID
// extracts the authenticated user; requests without one pass through.
func (g *Gate) RequireNotBanned(userID func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := userID(c)
		if id == "" {
			c.Next()
			return
		}
		st, err := g.IsBanned(c.Request.Context(), id)
		if err != nil {
			g.logger.Error("ban check", zap.String("user_id", id), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":     "ban status unavailable",
				"retryable": true,
			})
			return
		}
		if st.Banned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "account is banned",
				"ban":   st,
			})
			return
		}
		c.Next()
	}
}
