package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"schoolsite/internal/domain"
	"schoolsite/internal/pkg/jwt"
	"schoolsite/internal/pkg/response"
)

// Identity is the request-scoped identity attached by AdminAuth and
// consumed by handlers. Never read the raw context keys directly.
type Identity struct {
	AdminID int64
	Email   string
	Role    domain.AdminRole
}

const identityKey = "auth_identity"

func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// AdminResolver re-resolves the token subject against current store
// state on every request, so a deactivated admin is cut off even while
// their token is still unexpired.
type AdminResolver interface {
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
}

// AdminAuth walks the gate: token present -> token valid -> admin
// resolved -> admin active. Every rejection is a 401 with a distinct
// message for diagnostics.
func AdminAuth(jwtService *jwt.Service, admins AdminResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			tokenStr, _ = c.Cookie(cookieName)
		}
		if tokenStr == "" {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization token is required")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		admin, err := admins.GetByID(c.Request.Context(), claims.AdminID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin account not found")
				return
			}
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve admin account")
			return
		}
		if !admin.Active {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin account is deactivated")
			return
		}

		c.Set(identityKey, Identity{
			AdminID: admin.ID,
			Email:   admin.Email,
			Role:    admin.Role,
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
