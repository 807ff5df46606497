package server

import (
	"fmt"
	"strconv"
	"strings"

	_errors "fileupload/pkg/errors"
)

// parseUploadHeaders validates the out-of-band metadata of a
// metadata-carrying upload. Both headers are required; the size must be an
// integer but is otherwise not interpreted.
func parseUploadHeaders(name, size string) (string, int64, error) {
	if strings.TrimSpace(name) == "" {
		return "", 0, _errors.ErrMissingFileName
	}

	declared, err := strconv.ParseInt(strings.TrimSpace(size), 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", _errors.ErrInvalidFileSize, size)
	}

	return name, declared, nil
}
