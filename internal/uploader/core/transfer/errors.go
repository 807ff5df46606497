package transfer

import (
	"fmt"

	_errors "fileupload/pkg/errors"
)

// Op names the step of a transfer that failed.
type Op string

const (
	OpOpen  Op = "open"
	OpRead  Op = "read"
	OpWrite Op = "write"
	OpClose Op = "close"
)

// TransferError describes a failed transfer. Written is the number of bytes
// that reached the destination before the failure; those bytes stay on disk.
type TransferError struct {
	Op      Op
	Path    string
	Written int64
	Err     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s %s after %d bytes: %v", e.Op, e.Path, e.Written, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Is makes every TransferError match ErrTransferFailed.
func (e *TransferError) Is(target error) bool {
	return target == _errors.ErrTransferFailed
}
