package auth

import (
	"context"
	"time"

	"schoolsite/internal/domain"
)

type AdminRepositoryInterface interface {
	Create(ctx context.Context, a *domain.Admin) error
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type jwtService interface {
	GenerateToken(adminID int64, email, role string) (string, error)
	TTL() time.Duration
}
