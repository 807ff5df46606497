package domain

import "io"

// UploadRequest is the metadata-carrying upload: out-of-band headers plus
// the body stream. It is owned by a single invocation.
type UploadRequest struct {
	FileName string    // Destination path, used verbatim
	FileSize int64     // Declared size, advisory only
	Source   io.Reader // Body stream, closed by the transport
}

// UploadResult is returned by the metadata-carrying upload.
type UploadResult struct {
	Succeeded bool
}

// Succeeded and Failed are the only two results an upload can produce.
var (
	Succeeded = UploadResult{Succeeded: true}
	Failed    = UploadResult{Succeeded: false}
)

// ResultOf maps a transfer error to its result value.
func ResultOf(err error) UploadResult {
	if err != nil {
		return Failed
	}
	return Succeeded
}
