package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fileupload/internal/uploader/domain"
	"fileupload/pkg/logger"
)

// HTTP headers carrying upload metadata.
const (
	HeaderFileName = "X-File-Name"
	HeaderFileSize = "X-File-Size"
)

type uploadResponse struct {
	Result bool `json:"result"`
}

type uploadWithMetadataResponse struct {
	Succeeded bool `json:"succeeded"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}

// HTTPHandler exposes the upload operations over plain HTTP request bodies.
type HTTPHandler struct {
	service domain.UploadService
	logger  *logger.Logger
}

// NewHTTPHandler returns a router serving the upload routes.
func NewHTTPHandler(service domain.UploadService) http.Handler {
	h := &HTTPHandler{
		service: service,
		logger:  logger.WithField("component", "http-handler"),
	}
	return h.routes()
}

func (h *HTTPHandler) routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/upload", h.upload)
	r.Post("/upload-with-metadata", h.uploadWithMetadata)
	r.Get("/health", h.health)

	return r
}

func (h *HTTPHandler) upload(w http.ResponseWriter, r *http.Request) {
	ok := h.service.Upload(r.Body)
	h.writeJSON(w, http.StatusOK, uploadResponse{Result: ok})
}

func (h *HTTPHandler) uploadWithMetadata(w http.ResponseWriter, r *http.Request) {
	name, size, err := parseUploadHeaders(r.Header.Get(HeaderFileName), r.Header.Get(HeaderFileSize))
	if err != nil {
		h.logger.Warn("rejecting upload with invalid headers", "remote", r.RemoteAddr, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.service.UploadWithMetadata(&domain.UploadRequest{
		FileName: name,
		FileSize: size,
		Source:   r.Body,
	})
	h.writeJSON(w, http.StatusOK, uploadWithMetadataResponse{Succeeded: result.Succeeded})
}

func (h *HTTPHandler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{OK: true})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Debug("failed to write response", "error", err)
	}
}
