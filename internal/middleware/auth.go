package middleware

import (
	"net/http"
	"strings"

	"pixgate/config"
	"pixgate/internal/auth"

	"github.com/gin-gonic/gin"
)

// TenantRequired validates the tenant bearer token and sets tenant_id in the
// request context. Webhook routes are exempt; providers do not authenticate.
func TenantRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("tenant_id", claims.TenantID)
		c.Next()
	}
}

// GetTenantID returns the authenticated tenant id (after TenantRequired).
func GetTenantID(c *gin.Context) uint {
	v, _ := c.Get("tenant_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}
