package transfer

import (
	"errors"
	"io"

	"fileupload/internal/uploader/domain"
	"fileupload/pkg/logger"
	"fileupload/pkg/platform"
)

const (
	// DefaultChunkSize is the read buffer used when none is configured.
	DefaultChunkSize = 2048

	// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
	maxEmptyReads = 100
)

// UploadTransfer copies a source stream into a destination file in fixed size
// chunks. Memory use is one chunk per call, independent of stream length.
type UploadTransfer struct {
	platform  platform.Platform
	chunkSize int
	logger    *logger.Logger
}

var _ domain.Transferer = (*UploadTransfer)(nil)

// New creates a transfer writing through p. A non-positive chunkSize
// selects DefaultChunkSize.
func New(p platform.Platform, chunkSize int) *UploadTransfer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &UploadTransfer{
		platform:  p,
		chunkSize: chunkSize,
		logger:    logger.WithField("component", "upload-transfer"),
	}
}

// ChunkSize returns the read buffer size in bytes.
func (t *UploadTransfer) ChunkSize() int {
	return t.chunkSize
}

// Transfer creates destinationPath, truncating any existing content, and
// writes every byte of source to it in order. The source is never closed.
// The destination is always closed before returning. On failure the bytes
// written so far are left in place.
func (t *UploadTransfer) Transfer(destinationPath string, source io.Reader) error {
	file, err := t.platform.Create(destinationPath)
	if err != nil {
		return &TransferError{Op: OpOpen, Path: destinationPath, Err: err}
	}

	written, chunks, copyErr := t.copyChunks(file, source, destinationPath)

	closeErr := file.Close()
	if copyErr != nil {
		if closeErr != nil {
			t.logger.Debug("close after failed transfer", "path", destinationPath, "error", closeErr)
		}
		return copyErr
	}
	if closeErr != nil {
		return &TransferError{Op: OpClose, Path: destinationPath, Written: written, Err: closeErr}
	}

	t.logger.Debug("transfer completed", "path", destinationPath, "bytes", written, "chunks", chunks)
	return nil
}

func (t *UploadTransfer) copyChunks(dst io.Writer, src io.Reader, path string) (int64, int, error) {
	var (
		written int64
		chunks  int
		empty   int
	)
	buf := make([]byte, t.chunkSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			empty = 0
			wn, err := dst.Write(buf[:n])
			written += int64(wn)
			if err == nil && wn != n {
				err = io.ErrShortWrite
			}
			if err != nil {
				return written, chunks, &TransferError{Op: OpWrite, Path: path, Written: written, Err: err}
			}
			chunks++
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return written, chunks, nil
			}
			return written, chunks, &TransferError{Op: OpRead, Path: path, Written: written, Err: readErr}
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return written, chunks, &TransferError{Op: OpRead, Path: path, Written: written, Err: io.ErrNoProgress}
			}
		}
	}
}
