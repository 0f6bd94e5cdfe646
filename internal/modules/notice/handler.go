package notice

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"schoolsite/internal/middleware"
	"schoolsite/internal/pkg/response"
	"schoolsite/internal/pkg/validator"
	"schoolsite/internal/storage"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.GET("/notices", h.List)
	api.GET("/notices/:id", h.Get)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/notices", h.Create)
	protected.PUT("/notices/:id", h.Update)
	protected.DELETE("/notices/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var form NoticeForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	fh, err := singleFile(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "FILE_REJECTED", err.Error())
		return
	}

	notice, err := h.service.Create(c.Request.Context(), identity.AdminID, form, fh)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Notice created", gin.H{"notice": notice})
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid pagination parameters")
		return
	}

	notices, pagination, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notices fetched", gin.H{
		"notices":    notices,
		"pagination": pagination,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := noticeID(c)
	if !ok {
		return
	}

	notice, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notice fetched", gin.H{"notice": notice})
}

func (h *Handler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := noticeID(c)
	if !ok {
		return
	}

	var form NoticeForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	fh, err := singleFile(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "FILE_REJECTED", err.Error())
		return
	}

	notice, err := h.service.Update(c.Request.Context(), identity.AdminID, id, form, fh)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notice updated", gin.H{"notice": notice})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := noticeID(c)
	if !ok {
		return
	}

	notice, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notice deleted", gin.H{"deletedNotice": notice})
}

// noticeID parses the :id param. A malformed id never reaches storage,
// it is a 400 rather than a 404.
func noticeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notice ID")
		return 0, false
	}
	return id, true
}

// singleFile returns the optional attachment. Any second file part,
// whatever its field name, is rejected before any side effect.
func singleFile(c *gin.Context) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Not multipart at all: no file was sent.
		return nil, nil
	}
	total := 0
	for _, files := range form.File {
		total += len(files)
	}
	if total > 1 {
		return nil, storage.ErrTooManyFiles
	}
	files := form.File["attachment"]
	if len(files) == 0 {
		if total > 0 {
			return nil, storage.ErrTooManyFiles
		}
		return nil, nil
	}
	return files[0], nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verrs validator.Errors
	switch {
	case errors.As(err, &verrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verrs)
	case isRejection(err):
		response.Error(c, http.StatusBadRequest, "FILE_REJECTED", err.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notice not found")
	case errors.Is(err, ErrStorageFailure):
		response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store attachment")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
