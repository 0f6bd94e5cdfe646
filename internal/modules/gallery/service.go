package gallery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"schoolsite/internal/domain"
	"schoolsite/internal/pkg/validator"
	"schoolsite/internal/storage"
)

const uploadFolder = "gallery"

// Service orchestrates gallery writes. The invariant is stricter than
// for notices: an item must never be persisted without a resolvable
// image reference.
type Service struct {
	items GalleryRepositoryInterface
	files FileIngestor
}

func NewService(items GalleryRepositoryInterface, files FileIngestor) *Service {
	return &Service{items: items, files: files}
}

func (s *Service) Create(ctx context.Context, adminID int64, form GalleryForm, fh *multipart.FileHeader) (*domain.GalleryItem, error) {
	errs := validator.Validate(form)
	date, dateErr := parseDate(form.Date, time.Now())
	if dateErr != nil {
		errs = append(errs, *dateErr)
	}
	if fh == nil {
		errs = append(errs, validator.FieldError{Field: "attachment", Message: "an image is required"})
	}
	if len(errs) > 0 {
		return nil, validator.Errors(errs)
	}

	img, err := s.ingest(ctx, fh)
	if err != nil {
		return nil, err
	}

	item := &domain.GalleryItem{
		Title:       form.Title,
		Description: form.Description,
		Category:    domain.GalleryCategory(form.Category),
		Date:        date,
		Image:       *img,
		UploadedBy:  adminID,
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.files.Delete(ctx, img)
		return nil, fmt.Errorf("persist gallery item: %w", err)
	}
	return item, nil
}

// Update applies partial field changes. The image itself is not
// replaceable here; re-upload means delete and create.
func (s *Service) Update(ctx context.Context, adminID, id int64, form UpdateForm) (*domain.GalleryItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validator.Validate(form)
	date := item.Date
	if form.Date != nil {
		var dateErr *validator.FieldError
		if date, dateErr = parseDate(*form.Date, time.Now()); dateErr != nil {
			errs = append(errs, *dateErr)
		}
	}
	if len(errs) > 0 {
		return nil, validator.Errors(errs)
	}

	if form.Title != nil {
		item.Title = *form.Title
	}
	if form.Description != nil {
		item.Description = *form.Description
	}
	if form.Category != nil {
		item.Category = domain.GalleryCategory(*form.Category)
	}
	item.Date = date

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (*domain.GalleryItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.files.Delete(ctx, &item.Image) {
		log.Printf("image_delete_failed gallery_id=%d file=%s", id, item.Image.FileName)
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, category string) ([]*domain.GalleryItem, error) {
	if category != "" && !domain.GalleryCategory(category).Valid() {
		return nil, validator.Errors{{Field: "category", Message: "unknown category"}}
	}
	return s.items.List(ctx, category)
}

// ingest stores the upload and double-checks the sniffed type really is
// an image; a PDF is fine for notices but not here.
func (s *Service) ingest(ctx context.Context, fh *multipart.FileHeader) (*domain.Attachment, error) {
	img, err := s.files.Ingest(ctx, fh, uploadFolder)
	if err != nil {
		if isRejection(err) {
			return nil, err
		}
		return nil, errors.Join(ErrStorageFailure, err)
	}
	if !strings.HasPrefix(img.MimeType, "image/") {
		s.files.Delete(ctx, img)
		return nil, ErrNotAnImage
	}
	return img, nil
}

func isRejection(err error) bool {
	return errors.Is(err, storage.ErrFileType) ||
		errors.Is(err, storage.ErrFileTooLarge) ||
		errors.Is(err, storage.ErrEmptyFile) ||
		errors.Is(err, ErrNotAnImage)
}
