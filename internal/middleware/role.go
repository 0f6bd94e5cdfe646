package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolsite/internal/domain"
	"schoolsite/internal/pkg/response"
)

// RequireRole allows the request through only when the authenticated
// admin's role is on the allow-list. Must run after AdminAuth.
func RequireRole(roles ...domain.AdminRole) gin.HandlerFunc {
	allowed := make(map[domain.AdminRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !allowed[identity.Role] {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		c.Next()
	}
}

// SuperAdminOnly restricts a route to super admins.
func SuperAdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleSuperAdmin)
}
