package apperr

import "errors"

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrRemoteWriteFailed = errors.New("remote write failed")
	ErrRemoteReadFailed  = errors.New("remote read failed")
	ErrPermissionDenied  = errors.New("permission denied")
)
