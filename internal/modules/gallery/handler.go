package gallery

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
	api.GET("/gallery", h.List)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.POST("/gallery", h.Create)
	protected.PUT("/gallery/:id", h.Update)
	protected.DELETE("/gallery/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var form GalleryForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	fh, err := singleFile(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "FILE_REJECTED", err.Error())
		return
	}

	item, err := h.service.Create(c.Request.Context(), identity.AdminID, form, fh)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Gallery item created", gin.H{"item": item})
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Gallery fetched", gin.H{"items": items})
}

func (h *Handler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}

	var form UpdateForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.Update(c.Request.Context(), identity.AdminID, id, form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Gallery item updated", gin.H{"item": item})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}

	item, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Gallery item deleted", gin.H{"deletedItem": item})
}

func itemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid gallery item ID")
		return 0, false
	}
	return id, true
}

func singleFile(c *gin.Context) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
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
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Gallery item not found")
	case errors.Is(err, ErrStorageFailure):
		response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store image")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
