package gallery

import (
	"context"
	"mime/multipart"

	"schoolsite/internal/domain"
)

type GalleryRepositoryInterface interface {
	Create(ctx context.Context, g *domain.GalleryItem) error
	GetByID(ctx context.Context, id int64) (*domain.GalleryItem, error)
	Update(ctx context.Context, g *domain.GalleryItem) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, category string) ([]*domain.GalleryItem, error)
}

type FileIngestor interface {
	Ingest(ctx context.Context, fh *multipart.FileHeader, folder string) (*domain.Attachment, error)
	Delete(ctx context.Context, att *domain.Attachment) bool
}
