package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"schoolsite/internal/domain"
)

type GalleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

type galleryModel struct {
	ID          int64             `gorm:"column:id;primaryKey"`
	Title       string            `gorm:"column:title"`
	Description string            `gorm:"column:description"`
	Category    string            `gorm:"column:category;index"`
	Date        time.Time         `gorm:"column:date;index"`
	Image       attachmentColumns `gorm:"embedded;embeddedPrefix:image_"`
	UploadedBy  int64             `gorm:"column:uploaded_by"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
}

func (galleryModel) TableName() string { return "gallery_items" }

func toDomainGalleryItem(m galleryModel) *domain.GalleryItem {
	item := &domain.GalleryItem{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    domain.GalleryCategory(m.Category),
		Date:        m.Date,
		UploadedBy:  m.UploadedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if img := m.Image.toDomain(); img != nil {
		item.Image = *img
	}
	return item
}

func toGalleryModel(g *domain.GalleryItem) galleryModel {
	return galleryModel{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Category:    string(g.Category),
		Date:        g.Date,
		Image:       toAttachmentColumns(&g.Image),
		UploadedBy:  g.UploadedBy,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func (r *GalleryRepository) Create(ctx context.Context, g *domain.GalleryItem) error {
	m := toGalleryModel(g)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	g.ID = m.ID
	g.CreatedAt = m.CreatedAt
	g.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GalleryRepository) GetByID(ctx context.Context, id int64) (*domain.GalleryItem, error) {
	var m galleryModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainGalleryItem(m), nil
}

func (r *GalleryRepository) Update(ctx context.Context, g *domain.GalleryItem) error {
	m := toGalleryModel(g)
	res := r.db.WithContext(ctx).Model(&galleryModel{ID: g.ID}).Select("*").Omit("id", "created_at").Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&galleryModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns every item newest first, optionally filtered by category.
func (r *GalleryRepository) List(ctx context.Context, category string) ([]*domain.GalleryItem, error) {
	q := r.db.WithContext(ctx).Order("date DESC").Order("created_at DESC")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var rows []galleryModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]*domain.GalleryItem, 0, len(rows))
	for _, m := range rows {
		items = append(items, toDomainGalleryItem(m))
	}
	return items, nil
}

func (r *GalleryRepository) Migrate() error {
	return r.db.AutoMigrate(&galleryModel{})
}
