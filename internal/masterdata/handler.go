package masterdata

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// Handler serves the lookup endpoints. Everything here is read-only.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs the masterdata handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers the lookup routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/companies", h.ListCompanies)
	r.Get("/payment-methods", h.ListPaymentMethods)
	r.Get("/invoice-statuses", h.ListInvoiceStatuses)
	r.Get("/order-statuses", h.ListOrderStatuses)
	r.Get("/furniture-types", h.ListFurnitureTypes)
	r.Get("/departments", h.ListDepartments)
	r.Get("/municipalities", h.ListMunicipalities)
	r.Get("/districts", h.ListDistricts)
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListCompanies(r.Context())
	if err != nil {
		h.logger.Error("list companies failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListPaymentMethods(r.Context())
	if err != nil {
		h.logger.Error("list payment methods failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListInvoiceStatuses(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListInvoiceStatuses(r.Context())
	if err != nil {
		h.logger.Error("list invoice statuses failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListOrderStatuses(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListOrderStatuses(r.Context())
	if err != nil {
		h.logger.Error("list order statuses failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListFurnitureTypes(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListFurnitureTypes(r.Context())
	if err != nil {
		h.logger.Error("list furniture types failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListDepartments(r.Context())
	if err != nil {
		h.logger.Error("list departments failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListMunicipalities(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListMunicipalities(r.Context(), queryID(r, "department_id"))
	if err != nil {
		h.logger.Error("list municipalities failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListDistricts(r.Context(), queryID(r, "municipality_id"))
	if err != nil {
		h.logger.Error("list districts failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func queryID(r *http.Request, name string) *int64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
