package domain

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

import "io"

// Transferer copies a source stream into a freshly created destination file.
//
//counterfeiter:generate . Transferer
type Transferer interface {
	Transfer(destinationPath string, source io.Reader) error
}

// IDGenerator produces collision resistant tokens for server chosen file names.
//
//counterfeiter:generate . IDGenerator
type IDGenerator interface {
	Next() string
}

// UploadService exposes the two upload calling conventions to transports.
type UploadService interface {
	Upload(source io.Reader) bool
	UploadWithMetadata(req *UploadRequest) UploadResult
}
