package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxUserClaims = "identity.user_claims"

// RequireUserToken returns a Gin middleware that enforces a valid Bearer
// token of any role and stores its claims in the context.
func RequireUserToken(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			return
		}
		c.Set(ctxUserClaims, claims)
		c.Next()
	}
}

// RequireModerator returns a Gin middleware that only admits tokens with the
// moderator or admin role.
func RequireModerator(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			return
		}
		if !claims.Role.CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "moderator role required",
			})
			return
		}
		c.Set(ctxUserClaims, claims)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, tokens *TokenIssuer) (*UserTokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Bearer token required",
		})
		return nil, false
	}
	claims, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid token: " + err.Error(),
		})
		return nil, false
	}
	return claims, true
}

// UserClaimsFromCtx retrieves claims stored by RequireUserToken or
// RequireModerator. Returns nil if absent.
func UserClaimsFromCtx(c *gin.Context) *UserTokenClaims {
	v, _ := c.Get(ctxUserClaims)
	claims, _ := v.(*UserTokenClaims)
	return claims
}

// UserIDFromCtx returns the authenticated user id, or "".
func UserIDFromCtx(c *gin.Context) string {
	if claims := UserClaimsFromCtx(c); claims != nil {
		return claims.UserID
	}
	return ""
}
