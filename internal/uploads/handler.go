package uploads

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// Handler exposes the upload endpoints.
type Handler struct {
	logger *slog.Logger
	store  *Store
}

// NewHandler constructs the uploads handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, store: store}
}

// MountRoutes registers the upload routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Upload)
	r.Get("/{ref}", h.Serve)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1024)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	defer file.Close()

	stored, err := h.store.Save(file, header)
	if err != nil {
		h.logger.Error("upload failed", slog.String("name", header.Filename), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, stored)
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	path, err := h.store.Path(chi.URLParam(r, "ref"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	http.ServeFile(w, r, path)
}
