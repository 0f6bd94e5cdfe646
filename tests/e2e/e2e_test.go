package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolsite/internal/config"
	"schoolsite/internal/database"
	"schoolsite/internal/domain"
	"schoolsite/internal/middleware"
	"schoolsite/internal/modules/auth"
	"schoolsite/internal/modules/gallery"
	"schoolsite/internal/modules/notice"
	jwtsvc "schoolsite/internal/pkg/jwt"
	"schoolsite/internal/repository"
	"schoolsite/internal/storage"
)

type suite struct {
	router     *gin.Engine
	db         *gorm.DB
	admins     *repository.AdminRepository
	notices    *repository.NoticeRepository
	jwtService *jwtsvc.Service
	uploadDir  string
	admin      *domain.Admin
	token      string
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Data    map[string]interface{} `json:"data"`
	Errors  interface{}            `json:"errors"`
}

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)

func setup(t *testing.T) *suite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	adminRepo := repository.NewAdminRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	for _, m := range []interface{ Migrate() error }{adminRepo, noticeRepo, galleryRepo} {
		require.NoError(t, m.Migrate())
	}

	cfg := &config.Config{
		CookieName: "token",
		JWTTTL:     time.Hour,
	}

	uploadDir := t.TempDir()
	backend := storage.NewLocal(uploadDir, "/static/uploads")
	ingestor := storage.NewIngestor(backend, map[string]bool{
		"image/jpeg":      true,
		"image/png":       true,
		"image/webp":      true,
		"application/pdf": true,
	}, 5<<20)

	j := jwtsvc.New("e2e-test-secret", time.Hour)

	authHandler := auth.NewHandler(auth.NewService(adminRepo, j), cfg)
	noticeHandler := notice.NewHandler(notice.NewService(noticeRepo, ingestor))
	galleryHandler := gallery.NewHandler(gallery.NewService(galleryRepo, ingestor))

	r := gin.New()
	api := r.Group("/api")
	authHandler.RegisterPublicRoutes(api)
	noticeHandler.RegisterPublicRoutes(api)
	galleryHandler.RegisterPublicRoutes(api)
	protected := api.Group("/")
	protected.Use(middleware.AdminAuth(j, adminRepo, cfg.CookieName))
	authHandler.RegisterProtectedRoutes(protected)
	noticeHandler.RegisterProtectedRoutes(protected)
	galleryHandler.RegisterProtectedRoutes(protected)

	hash, _ := bcrypt.GenerateFromPassword([]byte("Secret123!"), bcrypt.MinCost)
	admin := &domain.Admin{
		Email:        "head@school.edu",
		Name:         "Head Admin",
		PasswordHash: string(hash),
		Role:         domain.RoleSuperAdmin,
		Active:       true,
	}
	require.NoError(t, adminRepo.Create(context.Background(), admin))

	token, err := j.GenerateToken(admin.ID, admin.Email, string(admin.Role))
	require.NoError(t, err)

	return &suite{
		router:     r,
		db:         db,
		admins:     adminRepo,
		notices:    noticeRepo,
		jwtService: j,
		uploadDir:  uploadDir,
		admin:      admin,
		token:      token,
	}
}

func (s *suite) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string, authed bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestSignInIssuesTokenAndCookie(t *testing.T) {
	s := setup(t)

	body, _ := json.Marshal(map[string]string{"email": "head@school.edu", "password": "Secret123!"})
	w, env := s.do(t, "POST", "/api/auth/signin", bytes.NewBuffer(body), "application/json", false)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data["token"])
	assert.Contains(t, w.Header().Get("Set-Cookie"), "token=")
}

func TestNoticeRoundTrip(t *testing.T) {
	s := setup(t)

	body, ct := multipartBody(t, map[string]string{
		"title":       "T T T",
		"description": "A description of at least ten characters.",
	}, "", "", nil)
	w, env := s.do(t, "POST", "/api/notices", body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := env.Data["notice"].(map[string]interface{})
	id := int64(created["id"].(float64))
	require.Greater(t, id, int64(0))

	w, env = s.do(t, "GET", fmt.Sprintf("/api/notices/%d", id), nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	fetched := env.Data["notice"].(map[string]interface{})
	assert.Equal(t, "T T T", fetched["title"])
	assert.Equal(t, "A description of at least ten characters.", fetched["description"])
	assert.Nil(t, fetched["attachment"])
}

func TestNoticeValidationFailureListsAllErrors(t *testing.T) {
	s := setup(t)

	body, ct := multipartBody(t, map[string]string{
		"title":       "ab",
		"description": "short",
	}, "", "", nil)
	w, env := s.do(t, "POST", "/api/notices", body, ct, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Len(t, env.Errors, 2)

	// No record may exist afterwards.
	_, total, err := s.notices.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNoticeRejectedFileWritesNothing(t *testing.T) {
	s := setup(t)

	body, ct := multipartBody(t, map[string]string{
		"title":       "Valid title",
		"description": "A perfectly valid description.",
	}, "attachment", "notes.txt", []byte("plain text payload"))
	w, env := s.do(t, "POST", "/api/notices", body, ct, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "FILE_REJECTED", env.Code)

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected upload must not reach the backing store")
}

func TestNoticeSecondFilePartRejected(t *testing.T) {
	s := setup(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("title", "Valid title"))
	require.NoError(t, mw.WriteField("description", "A perfectly valid description."))
	fw, err := mw.CreateFormFile("attachment", "a.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBytes)
	require.NoError(t, err)
	fw, err = mw.CreateFormFile("extra", "b.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w, env := s.do(t, "POST", "/api/notices", body, mw.FormDataContentType(), true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "FILE_REJECTED", env.Code)

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file part may be stored when the request is rejected")

	_, total, err := s.notices.List(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestNoticeWithAttachmentAndDelete(t *testing.T) {
	s := setup(t)

	body, ct := multipartBody(t, map[string]string{
		"title":       "Photo notice",
		"description": "Notice carrying an attachment.",
	}, "attachment", "photo.png", pngBytes)
	w, env := s.do(t, "POST", "/api/notices", body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := env.Data["notice"].(map[string]interface{})
	id := int64(created["id"].(float64))
	require.NotNil(t, created["attachment"])

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	w, _ = s.do(t, "DELETE", fmt.Sprintf("/api/notices/%d", id), nil, "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	// Record unresolvable and file gone.
	w, _ = s.do(t, "GET", fmt.Sprintf("/api/notices/%d", id), nil, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	entries, err = os.ReadDir(s.uploadDir + "/notices")
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestNoticePagination(t *testing.T) {
	s := setup(t)

	for i := 0; i < 25; i++ {
		require.NoError(t, s.notices.Create(context.Background(), &domain.Notice{
			Title:       fmt.Sprintf("Notice %02d", i),
			Description: "A description of at least ten characters.",
			Date:        time.Now().Add(-time.Duration(i) * time.Hour),
			CreatedBy:   s.admin.ID,
			UpdatedBy:   s.admin.ID,
			Active:      true,
		}))
	}

	w, env := s.do(t, "GET", "/api/notices?page=2&limit=10", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)

	notices := env.Data["notices"].([]interface{})
	assert.Len(t, notices, 10)

	pagination := env.Data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["currentPage"])
	assert.Equal(t, float64(3), pagination["totalPages"])
	assert.Equal(t, float64(25), pagination["totalItems"])
	assert.Equal(t, true, pagination["hasNextPage"])
	assert.Equal(t, true, pagination["hasPrevPage"])
}

func TestMalformedIDIsBadRequestNotFound(t *testing.T) {
	s := setup(t)

	w, _ := s.do(t, "GET", "/api/notices/not-a-number", nil, "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, "GET", "/api/notices/999", nil, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeactivatedAdminRejectedWithLiveToken(t *testing.T) {
	s := setup(t)

	// Token works while the account is active.
	w, _ := s.do(t, "GET", "/api/auth/verify", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, s.db.Table("admins").Where("id = ?", s.admin.ID).Update("active", false).Error)

	// The very next call with the same, still-unexpired token fails.
	w, env := s.do(t, "GET", "/api/auth/verify", nil, "", true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, env.Message, "deactivated")
}

func TestDuplicateAdminEmailConflicts(t *testing.T) {
	s := setup(t)

	dup := &domain.Admin{
		Email:        "head@school.edu",
		Name:         "Other Admin",
		PasswordHash: "x",
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	err := s.admins.Create(context.Background(), dup)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "unique index must reject the second insert: %v", err)
}

func TestGalleryRequiresImage(t *testing.T) {
	s := setup(t)

	body, ct := multipartBody(t, map[string]string{
		"title":    "Sports day",
		"category": "sports",
	}, "", "", nil)
	w, env := s.do(t, "POST", "/api/gallery", body, ct, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
}

func TestGalleryCreateAndList(t *testing.T) {
	s := setup(t)

	body, ct := multipartBody(t, map[string]string{
		"title":    "Sports day",
		"category": "sports",
	}, "attachment", "run.png", pngBytes)
	w, _ := s.do(t, "POST", "/api/gallery", body, ct, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(t, "GET", "/api/gallery", nil, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	items := env.Data["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := setup(t)

	w, env := s.do(t, "POST", "/api/notices", nil, "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}
