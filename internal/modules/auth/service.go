package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolsite/internal/domain"
	"schoolsite/internal/pkg/validator"
)

// Service contains the business logic for admin authentication.
type Service struct {
	admins AdminRepositoryInterface
	jwt    jwtService
}

func NewService(admins AdminRepositoryInterface, jwt jwtService) *Service {
	return &Service{admins: admins, jwt: jwt}
}

// TokenTTL is the lifetime of issued tokens; the sign-in cookie uses it
// so both expire together.
func (s *Service) TokenTTL() time.Duration { return s.jwt.TTL() }

// SignIn verifies credentials and issues a signed token. The last-login
// timestamp is the only admin mutation a login performs.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*domain.Admin, string, error) {
	if errs := validator.Validate(req); len(errs) > 0 {
		return nil, "", validator.Errors(errs)
	}

	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !admin.Active {
		return nil, "", ErrAccountDisabled
	}

	now := time.Now()
	if err := s.admins.TouchLastLogin(ctx, admin.ID, now); err != nil {
		// A login must not fail because a timestamp write did.
		log.Printf("touch_last_login_failed admin_id=%d error=%q", admin.ID, err)
	} else {
		admin.LastLoginAt = &now
	}

	token, err := s.jwt.GenerateToken(admin.ID, admin.Email, string(admin.Role))
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// Register creates a new admin account. The password is hashed exactly
// once, here; a duplicate email loses on the store's unique index.
func (s *Service) Register(ctx context.Context, req RegisterAdminRequest) (*domain.Admin, error) {
	if errs := validator.Validate(req); len(errs) > 0 {
		return nil, validator.Errors(errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         domain.AdminRole(req.Role),
		Active:       true,
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return admin, nil
}

// Profile returns the current store state of the admin.
func (s *Service) Profile(ctx context.Context, adminID int64) (*domain.Admin, error) {
	return s.admins.GetByID(ctx, adminID)
}
