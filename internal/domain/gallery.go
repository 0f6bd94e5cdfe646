package domain

import "time"

type GalleryCategory string

const (
	CategoryEvents         GalleryCategory = "events"
	CategorySports         GalleryCategory = "sports"
	CategoryCultural       GalleryCategory = "cultural"
	CategoryAcademic       GalleryCategory = "academic"
	CategoryInfrastructure GalleryCategory = "infrastructure"
	CategoryOther          GalleryCategory = "other"
)

func (c GalleryCategory) Valid() bool {
	switch c {
	case CategoryEvents, CategorySports, CategoryCultural, CategoryAcademic, CategoryInfrastructure, CategoryOther:
		return true
	}
	return false
}

// GalleryItem is a media record. Unlike Notice the image is mandatory:
// an item without a resolvable image reference must never be persisted.
type GalleryItem struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    GalleryCategory `json:"category"`
	Date        time.Time       `json:"date"`
	Image       Attachment      `json:"image"`
	UploadedBy  int64           `json:"uploaded_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
