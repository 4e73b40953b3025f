package media

import (
	"errors"
	"net/http"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/httpx"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the image upload endpoint used for menu and QR images.
type Handler struct {
	uploader *Uploader
	folder   string
	limit    int64
	log      *logger.Logger
}

func NewHandler(uploader *Uploader, folder string, limit int64, log *logger.Logger) *Handler {
	return &Handler{uploader: uploader, folder: folder, limit: limit, log: log.WithComponent("media_handler")}
}

func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.With(guard).Post("/upload", h.upload) // POST /api/upload
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := ParseForm(w, r, h.limit); err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	file, _, err := FormFile(r, "image", "file")
	if errors.Is(err, http.ErrMissingFile) {
		httpx.Error(w, r, h.log, apperr.Validation(`no file uploaded, use either "image" or "file"`))
		return
	}
	if err != nil {
		httpx.Error(w, r, h.log, apperr.Validation("invalid file part"))
		return
	}
	defer file.Close()

	asset, err := h.uploader.Upload(r.Context(), h.folder, file, h.limit)
	if err != nil {
		httpx.Error(w, r, h.log, err)
		return
	}
	httpx.Respond(w, http.StatusOK, asset)
}
