package handler

import (
	"ieltsprep/internal/service"
	"ieltsprep/internal/transport/rest/middleware"
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// MediaHandler handles chart and document uploads
type MediaHandler struct {
	mediaSvc *service.MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaSvc *service.MediaService) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

// UploadResponse carries the key to reference the stored file by
type UploadResponse struct {
	Key string `json:"key"`
}

// Upload handles POST /v1/media
// @Summary Upload an image or PDF
// @Description The returned key can be used as a writing task image
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "file"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /media [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxMediaSize+(1<<20))
	if err := r.ParseMultipartForm(service.MaxMediaSize); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart upload under 10 MB")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	p := middleware.GetPrincipal(r.Context())
	key, err := h.mediaSvc.Upload(r.Context(), p.UserID, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, UploadResponse{Key: key})
}

// Get handles GET /v1/media/{key}
// @Summary Download a stored file
// @Tags media
// @Produce octet-stream
// @Param key path string true "media key"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /media/{key} [get]
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	rc, contentType, err := h.mediaSvc.Open(r.Context(), key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, rc)
}
