package notice

import (
	"time"

	"schoolsite/internal/pkg/validator"
)

// NoticeForm is the multipart body shared by create and update.
type NoticeForm struct {
	Title       string `form:"title" validate:"required,min=3,max=200"`
	Description string `form:"description" validate:"required,min=10,max=2000"`
	Date        string `form:"date"`
}

// maxFutureWindow bounds the effective date: a notice may be scheduled
// at most 30 days ahead.
const maxFutureWindow = 30 * 24 * time.Hour

// parseDate resolves the effective date: empty defaults to now, and a
// date past the scheduling window is a field error like any other.
func (f NoticeForm) parseDate(now time.Time) (time.Time, *validator.FieldError) {
	if f.Date == "" {
		return now, nil
	}

	var date time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if date, err = time.Parse(layout, f.Date); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, &validator.FieldError{Field: "date", Message: "must be a valid date (YYYY-MM-DD or RFC 3339)"}
	}
	if date.After(now.Add(maxFutureWindow)) {
		return time.Time{}, &validator.FieldError{Field: "date", Message: "must not be more than 30 days in the future"}
	}
	return date, nil
}

type ListQuery struct {
	Page  int `form:"page" validate:"omitempty,min=1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

func (q ListQuery) withDefaults() ListQuery {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	return q
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func paginate(q ListQuery, total int64) Pagination {
	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return Pagination{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: q.Page < totalPages,
		HasPrevPage: q.Page > 1,
	}
}
