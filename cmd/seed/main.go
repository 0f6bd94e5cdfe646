package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolsite/internal/config"
	"schoolsite/internal/database"
	"schoolsite/internal/domain"
	"schoolsite/internal/repository"
)

// Seeds the first super admin. Admin accounts are created out-of-band;
// the API itself only lets an existing super admin register more.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	adminRepo := repository.NewAdminRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)

	log.Println("Running AutoMigrate...")
	for _, m := range []interface{ Migrate() error }{adminRepo, noticeRepo, galleryRepo} {
		if err := m.Migrate(); err != nil {
			log.Fatal("AutoMigrate failed: ", err)
		}
	}

	email := envOr("SEED_ADMIN_EMAIL", "admin@school.edu")
	password := envOr("SEED_ADMIN_PASSWORD", "ChangeMe123!")
	name := envOr("SEED_ADMIN_NAME", "Site Administrator")

	ctx := context.Background()
	if _, err := adminRepo.GetByEmail(ctx, email); err == nil {
		log.Printf("Admin %s already exists, nothing to do", email)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	admin := &domain.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         domain.RoleSuperAdmin,
		Active:       true,
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		log.Fatal("Failed to create admin: ", err)
	}

	log.Printf("Created super admin %s (id=%d)", admin.Email, admin.ID)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
