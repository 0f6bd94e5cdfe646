package gallery

import (
	"time"

	"schoolsite/internal/pkg/validator"
)

// GalleryForm is the multipart create body. The image file itself
// arrives as a separate part.
type GalleryForm struct {
	Title       string `form:"title" validate:"required,min=2,max=200"`
	Description string `form:"description" validate:"omitempty,max=2000"`
	Category    string `form:"category" validate:"required,oneof=events sports cultural academic infrastructure other"`
	Date        string `form:"date"`
}

// UpdateForm carries partial updates; nil means keep the current value.
type UpdateForm struct {
	Title       *string `json:"title" form:"title" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=2000"`
	Category    *string `json:"category" form:"category" validate:"omitempty,oneof=events sports cultural academic infrastructure other"`
	Date        *string `json:"date" form:"date"`
}

func parseDate(raw string, now time.Time) (time.Time, *validator.FieldError) {
	if raw == "" {
		return now, nil
	}
	var date time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if date, err = time.Parse(layout, raw); err == nil {
			return date, nil
		}
	}
	return time.Time{}, &validator.FieldError{Field: "date", Message: "must be a valid date (YYYY-MM-DD or RFC 3339)"}
}
