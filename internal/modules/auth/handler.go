package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"schoolsite/internal/config"
	"schoolsite/internal/middleware"
	"schoolsite/internal/pkg/response"
	"schoolsite/internal/pkg/validator"
)

type Handler struct {
	service *Service
	cfg     *config.Config
}

func NewHandler(service *Service, cfg *config.Config) *Handler {
	return &Handler{service: service, cfg: cfg}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/auth/signin", h.SignIn)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/profile", h.Profile)
	protected.GET("/auth/verify", h.Verify)
	protected.POST("/auth/register", middleware.SuperAdminOnly(), h.Register)
}

func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	admin, token, err := h.service.SignIn(c.Request.Context(), req)
	if err != nil {
		var verrs validator.Errors
		switch {
		case errors.As(err, &verrs):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verrs)
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
		case errors.Is(err, ErrAccountDisabled):
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Admin account is deactivated")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to sign in")
		}
		return
	}

	// The token is also issued as a cookie for browser clients; it
	// carries the same lifetime as the token itself.
	c.SetCookie(
		h.cfg.CookieName,
		token,
		int(h.service.TokenTTL().Seconds()),
		"/",
		"",
		h.cfg.CookieSecure,
		true,
	)

	response.Success(c, http.StatusOK, "Signed in successfully", gin.H{
		"token": token,
		"admin": admin,
	})
}

func (h *Handler) Profile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	admin, err := h.service.Profile(c.Request.Context(), identity.AdminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Admin not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, "Profile loaded", gin.H{"admin": admin})
}

// Verify confirms the token is good and echoes the resolved identity.
func (h *Handler) Verify(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	response.Success(c, http.StatusOK, "Token is valid", gin.H{
		"id":    identity.AdminID,
		"email": identity.Email,
		"role":  identity.Role,
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	admin, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		var verrs validator.Errors
		switch {
		case errors.As(err, &verrs):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verrs)
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusBadRequest, "EMAIL_EXISTS", "This email is already registered")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register admin")
		}
		return
	}

	response.Success(c, http.StatusCreated, "Admin registered", gin.H{"admin": admin})
}
