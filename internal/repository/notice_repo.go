package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"schoolsite/internal/domain"
)

type NoticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

type noticeModel struct {
	ID          int64             `gorm:"column:id;primaryKey"`
	Title       string            `gorm:"column:title"`
	Description string            `gorm:"column:description"`
	Date        time.Time         `gorm:"column:date;index"`
	Attachment  attachmentColumns `gorm:"embedded;embeddedPrefix:attachment_"`
	CreatedBy   int64             `gorm:"column:created_by"`
	UpdatedBy   int64             `gorm:"column:updated_by"`
	Active      bool              `gorm:"column:active"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at"`
}

func (noticeModel) TableName() string { return "notices" }

func toDomainNotice(m noticeModel) *domain.Notice {
	return &domain.Notice{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Date:        m.Date,
		Attachment:  m.Attachment.toDomain(),
		CreatedBy:   m.CreatedBy,
		UpdatedBy:   m.UpdatedBy,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toNoticeModel(n *domain.Notice) noticeModel {
	return noticeModel{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Date:        n.Date,
		Attachment:  toAttachmentColumns(n.Attachment),
		CreatedBy:   n.CreatedBy,
		UpdatedBy:   n.UpdatedBy,
		Active:      n.Active,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (r *NoticeRepository) Create(ctx context.Context, n *domain.Notice) error {
	m := toNoticeModel(n)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	n.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *NoticeRepository) GetByID(ctx context.Context, id int64) (*domain.Notice, error) {
	var m noticeModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainNotice(m), nil
}

// Update persists the full row. Select("*") so a cleared attachment
// writes empty columns instead of being skipped as a zero value.
func (r *NoticeRepository) Update(ctx context.Context, n *domain.Notice) error {
	m := toNoticeModel(n)
	res := r.db.WithContext(ctx).Model(&noticeModel{ID: n.ID}).Select("*").Omit("id", "created_at").Updates(&m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NoticeRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&noticeModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page sorted by effective date, newest first, with
// creation time as the tie-breaker, plus the total row count.
func (r *NoticeRepository) List(ctx context.Context, offset, limit int) ([]*domain.Notice, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&noticeModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []noticeModel
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	notices := make([]*domain.Notice, 0, len(rows))
	for _, m := range rows {
		notices = append(notices, toDomainNotice(m))
	}
	return notices, total, nil
}

func (r *NoticeRepository) Migrate() error {
	return r.db.AutoMigrate(&noticeModel{})
}
