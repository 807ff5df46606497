package errors

import "errors"

var (
	ErrTransferFailed     = errors.New("upload transfer failed")
	ErrMissingFileName    = errors.New("file name header is required")
	ErrInvalidFileSize    = errors.New("file size header must be an integer")
	ErrHostNotStarted     = errors.New("service host not started")
	ErrHostAlreadyStarted = errors.New("service host already started")
)
