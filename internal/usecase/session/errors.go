package session

import "errors"

var (
	ErrNoFiles         = errors.New("session: at least one file is required")
	ErrTooManyFiles    = errors.New("session: file count exceeds the 500-file ceiling")
	ErrTooManyBytes    = errors.New("session: total size exceeds the 500 MiB ceiling")
	ErrBatchTooLarge   = errors.New("session: at most 50 files per batch")
	ErrMimeNotAllowed  = errors.New("session: mime-type is not allowed")
	ErrWrongKind       = errors.New("session: file count does not match the session kind")
	ErrSessionNotFound = errors.New("session: not found")
)
