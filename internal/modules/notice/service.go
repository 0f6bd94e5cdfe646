package notice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"schoolsite/internal/domain"
	"schoolsite/internal/pkg/validator"
	"schoolsite/internal/storage"
)

const uploadFolder = "notices"

// Service is the notice write orchestrator. Attachments and records
// live in different stores, so failure handling is compensating
// deletes, not transactions: no orphan file may survive a failed or
// rejected create.
type Service struct {
	notices NoticeRepositoryInterface
	files   FileIngestor
}

func NewService(notices NoticeRepositoryInterface, files FileIngestor) *Service {
	return &Service{notices: notices, files: files}
}

func (s *Service) validateForm(form NoticeForm) (time.Time, validator.Errors) {
	errs := validator.Validate(form)
	date, dateErr := form.parseDate(time.Now())
	if dateErr != nil {
		errs = append(errs, *dateErr)
	}
	if len(errs) > 0 {
		return time.Time{}, validator.Errors(errs)
	}
	return date, nil
}

// Create validates first, ingests the optional attachment second and
// persists last. A persistence failure after ingestion deletes the
// just-stored file before the error is surfaced.
func (s *Service) Create(ctx context.Context, adminID int64, form NoticeForm, fh *multipart.FileHeader) (*domain.Notice, error) {
	date, verrs := s.validateForm(form)
	if verrs != nil {
		return nil, verrs
	}

	var att *domain.Attachment
	if fh != nil {
		var err error
		if att, err = s.ingest(ctx, fh); err != nil {
			return nil, err
		}
	}

	notice := &domain.Notice{
		Title:       form.Title,
		Description: form.Description,
		Date:        date,
		Attachment:  att,
		CreatedBy:   adminID,
		UpdatedBy:   adminID,
		Active:      true,
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		if att != nil {
			s.files.Delete(ctx, att)
		}
		return nil, fmt.Errorf("persist notice: %w", err)
	}
	return notice, nil
}

// Update swaps attachments in two phases: the new file is ingested and
// the record persisted before the old file is touched. If persistence
// fails the new file is removed and the record keeps its old,
// still-present attachment.
func (s *Service) Update(ctx context.Context, adminID, id int64, form NoticeForm, fh *multipart.FileHeader) (*domain.Notice, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	date, verrs := s.validateForm(form)
	if verrs != nil {
		return nil, verrs
	}

	oldAtt := notice.Attachment
	var newAtt *domain.Attachment
	if fh != nil {
		if newAtt, err = s.ingest(ctx, fh); err != nil {
			return nil, err
		}
		notice.Attachment = newAtt
	}

	notice.Title = form.Title
	notice.Description = form.Description
	notice.Date = date
	notice.UpdatedBy = adminID

	if err := s.notices.Update(ctx, notice); err != nil {
		if newAtt != nil {
			s.files.Delete(ctx, newAtt)
		}
		return nil, fmt.Errorf("persist notice: %w", err)
	}

	if newAtt != nil && oldAtt != nil {
		// Old file removal is best-effort; the swap is already durable.
		if !s.files.Delete(ctx, oldAtt) {
			log.Printf("old_attachment_delete_failed notice_id=%d file=%s", id, oldAtt.FileName)
		}
	}
	return notice, nil
}

// Delete removes the record even when the attachment cleanup fails; a
// leaked file is preferred over a deletion the caller sees fail.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.Notice, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if notice.Attachment != nil {
		if !s.files.Delete(ctx, notice.Attachment) {
			log.Printf("attachment_delete_failed notice_id=%d file=%s", id, notice.Attachment.FileName)
		}
	}

	if err := s.notices.Delete(ctx, id); err != nil {
		return nil, err
	}
	return notice, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Notice, error) {
	return s.notices.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*domain.Notice, Pagination, error) {
	if errs := validator.Validate(q); len(errs) > 0 {
		return nil, Pagination{}, validator.Errors(errs)
	}
	q = q.withDefaults()

	notices, total, err := s.notices.List(ctx, (q.Page-1)*q.Limit, q.Limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	return notices, paginate(q, total), nil
}

func (s *Service) ingest(ctx context.Context, fh *multipart.FileHeader) (*domain.Attachment, error) {
	att, err := s.files.Ingest(ctx, fh, uploadFolder)
	if err != nil {
		if isRejection(err) {
			return nil, err
		}
		return nil, errors.Join(ErrStorageFailure, err)
	}
	return att, nil
}

func isRejection(err error) bool {
	return errors.Is(err, storage.ErrFileType) ||
		errors.Is(err, storage.ErrFileTooLarge) ||
		errors.Is(err, storage.ErrEmptyFile)
}
