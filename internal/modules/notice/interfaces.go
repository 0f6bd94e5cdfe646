package notice

import (
	"context"
	"mime/multipart"

	"schoolsite/internal/domain"
)

type NoticeRepositoryInterface interface {
	Create(ctx context.Context, n *domain.Notice) error
	GetByID(ctx context.Context, id int64) (*domain.Notice, error)
	Update(ctx context.Context, n *domain.Notice) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, offset, limit int) ([]*domain.Notice, int64, error)
}

// FileIngestor is the storage capability the orchestrator composes.
// It never knows which backend is behind it.
type FileIngestor interface {
	Ingest(ctx context.Context, fh *multipart.FileHeader, folder string) (*domain.Attachment, error)
	Delete(ctx context.Context, att *domain.Attachment) bool
}
