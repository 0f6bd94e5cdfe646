package notice

import "errors"

// ErrStorageFailure marks an attachment infrastructure error, as
// opposed to a rejected file which stays a 400.
var ErrStorageFailure = errors.New("attachment storage failure")
