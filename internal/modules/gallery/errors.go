package gallery

import "errors"

var (
	ErrStorageFailure = errors.New("image storage failure")
	ErrNotAnImage     = errors.New("gallery uploads must be images")
)
