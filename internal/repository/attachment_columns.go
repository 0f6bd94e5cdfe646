package repository

import "schoolsite/internal/domain"

// attachmentColumns flattens the embedded attachment reference onto the
// owning row. An empty file_name means no attachment.
type attachmentColumns struct {
	FileName     string `gorm:"column:file_name"`
	OriginalName string `gorm:"column:original_name"`
	Size         int64  `gorm:"column:size"`
	MimeType     string `gorm:"column:mime_type"`
	Storage      string `gorm:"column:storage"`
	Path         string `gorm:"column:path"`
	URL          string `gorm:"column:url"`
	ObjectKey    string `gorm:"column:object_key"`
	Format       string `gorm:"column:format"`
	Width        int    `gorm:"column:width"`
	Height       int    `gorm:"column:height"`
}

func toAttachmentColumns(att *domain.Attachment) attachmentColumns {
	if att == nil {
		return attachmentColumns{}
	}
	return attachmentColumns{
		FileName:     att.FileName,
		OriginalName: att.OriginalName,
		Size:         att.Size,
		MimeType:     att.MimeType,
		Storage:      string(att.Storage),
		Path:         att.Path,
		URL:          att.URL,
		ObjectKey:    att.ObjectKey,
		Format:       att.Format,
		Width:        att.Width,
		Height:       att.Height,
	}
}

func (c attachmentColumns) toDomain() *domain.Attachment {
	if c.FileName == "" {
		return nil
	}
	return &domain.Attachment{
		FileName:     c.FileName,
		OriginalName: c.OriginalName,
		Size:         c.Size,
		MimeType:     c.MimeType,
		Storage:      domain.StorageKind(c.Storage),
		Path:         c.Path,
		URL:          c.URL,
		ObjectKey:    c.ObjectKey,
		Format:       c.Format,
		Width:        c.Width,
		Height:       c.Height,
	}
}
