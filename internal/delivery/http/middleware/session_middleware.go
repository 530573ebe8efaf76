package middleware

import (
	"context"
	"net/http"

	"easemyform-backend/internal/delivery/http/response"
	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/session"

	"github.com/gin-gonic/gin"
)

// AdminAuditor records rejected admin access.
type AdminAuditor interface {
	LogAdminDenied(ctx context.Context, userID, ip, requestID, endpoint string)
}

// Session reads the session cookie when present. Requests without a valid
// cookie continue anonymously.
func Session(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.CookieName())
		if err != nil || token == "" {
			c.Next()
			return
		}

		id, err := m.Parse(token)
		if err != nil {
			// stale or forged cookie
			m.ClearCookie(c)
			c.Next()
			return
		}

		c.Set(string(domain.KeyUserID), id.UserID)
		c.Set(string(domain.KeyPhone), id.Phone)
		c.Set(string(domain.KeyIsAdmin), id.IsAdmin)
		c.Next()
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserID)) == "" {
			response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects sessions without the admin flag with 403.
// Anonymous requests get 401.
func RequireAdmin(auditor AdminAuditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(string(domain.KeyUserID))
		if userID == "" {
			response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}
		if !c.GetBool(string(domain.KeyIsAdmin)) {
			if auditor != nil {
				auditor.LogAdminDenied(c.Request.Context(), userID, c.ClientIP(), c.GetString("RequestID"), c.FullPath())
			}
			response.Error(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
