package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"schoolsite/internal/config"
	"schoolsite/internal/database"
	"schoolsite/internal/middleware"
	"schoolsite/internal/modules/auth"
	"schoolsite/internal/modules/gallery"
	"schoolsite/internal/modules/notice"
	jwtsvc "schoolsite/internal/pkg/jwt"
	"schoolsite/internal/repository"
	"schoolsite/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	adminRepo := repository.NewAdminRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)

	for _, m := range []interface{ Migrate() error }{adminRepo, noticeRepo, galleryRepo} {
		if err := m.Migrate(); err != nil {
			log.Fatal("migration failed: ", err)
		}
	}

	// The orchestrators only ever see the Ingestor; which backend is
	// behind it is decided here, once.
	var backend storage.Backend
	switch cfg.StorageDriver {
	case "oss":
		if backend, err = storage.NewOSS(cfg); err != nil {
			log.Fatal(err)
		}
	default:
		backend = storage.NewLocal(cfg.UploadDir, cfg.StaticBase)
	}
	ingestor := storage.NewIngestor(backend, cfg.AllowedTypes, cfg.MaxUploadSize)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	authHandler := auth.NewHandler(auth.NewService(adminRepo, j), cfg)
	noticeHandler := notice.NewHandler(notice.NewService(noticeRepo, ingestor))
	galleryHandler := gallery.NewHandler(gallery.NewService(galleryRepo, ingestor))

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger(cfg.IsProd()))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	if cfg.StorageDriver == "local" {
		r.Static(cfg.StaticBase, cfg.UploadDir)
	}

	api := r.Group("/api")
	{
		authHandler.RegisterPublicRoutes(api)
		noticeHandler.RegisterPublicRoutes(api)
		galleryHandler.RegisterPublicRoutes(api)

		protected := api.Group("/")
		protected.Use(middleware.AdminAuth(j, adminRepo, cfg.CookieName))
		{
			authHandler.RegisterProtectedRoutes(protected)
			noticeHandler.RegisterProtectedRoutes(protected)
			galleryHandler.RegisterProtectedRoutes(protected)
		}
	}

	log.Println("Listening on", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
