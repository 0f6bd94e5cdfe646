package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"schoolsite/internal/domain"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

type adminModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex"`
	Name         string     `gorm:"column:name"`
	PasswordHash string     `gorm:"column:password_hash"`
	Role         string     `gorm:"column:role"`
	Active       bool       `gorm:"column:active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (adminModel) TableName() string { return "admins" }

func toDomainAdmin(m adminModel) *domain.Admin {
	return &domain.Admin{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         domain.AdminRole(m.Role),
		Active:       m.Active,
		LastLoginAt:  m.LastLoginAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toAdminModel(a *domain.Admin) adminModel {
	return adminModel{
		ID:           a.ID,
		Email:        strings.ToLower(strings.TrimSpace(a.Email)),
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		Active:       a.Active,
		LastLoginAt:  a.LastLoginAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// Create inserts the admin. A concurrent insert with the same email
// loses on the unique index and returns gorm.ErrDuplicatedKey.
func (r *AdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	m := toAdminModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	a.Email = m.Email
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var m adminModel
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainAdmin(m), nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*domain.Admin, error) {
	var m adminModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainAdmin(m), nil
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&adminModel{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

func (r *AdminRepository) Migrate() error {
	return r.db.AutoMigrate(&adminModel{})
}
