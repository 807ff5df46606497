package service

import (
	"io"
	"path/filepath"

	"fileupload/internal/uploader/domain"
	"fileupload/pkg/logger"
)

// DefaultExtension is appended to server chosen file names.
const DefaultExtension = ".dat"

// UploadService implements both upload calling conventions on top of a
// Transferer. It is the only place where transfer errors become results.
type UploadService struct {
	transferer domain.Transferer
	ids        domain.IDGenerator
	directory  string
	extension  string
	logger     *logger.Logger
}

var _ domain.UploadService = (*UploadService)(nil)

// Option customises an UploadService.
type Option func(*UploadService)

// WithDirectory sets the directory anonymous uploads and relative names are
// written under.
func WithDirectory(dir string) Option {
	return func(s *UploadService) {
		s.directory = dir
	}
}

// WithExtension sets the suffix of server chosen file names.
func WithExtension(ext string) Option {
	return func(s *UploadService) {
		s.extension = ext
	}
}

// NewUploadService creates an upload service. Files land in the working
// directory with a ".dat" suffix unless overridden.
func NewUploadService(transferer domain.Transferer, ids domain.IDGenerator, opts ...Option) *UploadService {
	s := &UploadService{
		transferer: transferer,
		ids:        ids,
		directory:  ".",
		extension:  DefaultExtension,
		logger:     logger.WithField("component", "upload-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores source under a freshly generated name and reports success.
func (s *UploadService) Upload(source io.Reader) bool {
	log := s.logger.WithField("operation", "upload")

	if source == nil {
		log.Warn("upload rejected", "reason", "nil source")
		return false
	}

	path := s.resolve(s.ids.Next() + s.extension)
	log.Debug("upload started", "path", path)

	if err := s.transferer.Transfer(path, source); err != nil {
		log.Warn("upload failed", "path", path, "error", err)
		return false
	}

	log.Info("upload stored", "path", path)
	return true
}

// UploadWithMetadata stores req.Source under req.FileName. FileSize is only
// recorded in the log. An existing file with the same name is replaced.
func (s *UploadService) UploadWithMetadata(req *domain.UploadRequest) domain.UploadResult {
	log := s.logger.WithField("operation", "upload-with-metadata")

	if req == nil || req.Source == nil {
		log.Warn("upload rejected", "reason", "missing request or source")
		return domain.Failed
	}

	path := s.resolve(req.FileName)
	log.Debug("upload started", "path", path, "declaredSize", req.FileSize)

	err := s.transferer.Transfer(path, req.Source)
	if err != nil {
		log.Warn("upload failed", "path", path, "declaredSize", req.FileSize, "error", err)
	} else {
		log.Info("upload stored", "path", path, "declaredSize", req.FileSize)
	}
	return domain.ResultOf(err)
}

// resolve places relative names under the storage directory. Names are not
// sanitized, so "../" segments can escape it.
func (s *UploadService) resolve(name string) string {
	if s.directory == "" || s.directory == "." || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.directory, name)
}
