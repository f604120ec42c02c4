package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/muebleria-erp/muebleria-erp/internal/auth"
	"github.com/muebleria-erp/muebleria-erp/internal/catalog"
	"github.com/muebleria-erp/muebleria-erp/internal/clients"
	"github.com/muebleria-erp/muebleria-erp/internal/masterdata"
	"github.com/muebleria-erp/muebleria-erp/internal/orders"
	"github.com/muebleria-erp/muebleria-erp/internal/quotations"
	"github.com/muebleria-erp/muebleria-erp/internal/shared"
	"github.com/muebleria-erp/muebleria-erp/internal/uploads"
	"github.com/muebleria-erp/muebleria-erp/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	AuthHandler       *auth.Handler
	ClientsHandler    *clients.Handler
	CatalogHandler    *catalog.Handler
	QuotationsHandler *quotations.Handler
	OrdersHandler     *orders.Handler
	MasterdataHandler *masterdata.Handler
	UploadsHandler    *uploads.Handler
	ReportHandler     *report.Handler
}

// NewRouter constructs the chi.Router serving the JSON API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Route("/clients", params.ClientsHandler.MountRoutes)
			params.CatalogHandler.MountRoutes(r)
			r.Route("/quotations", func(r chi.Router) {
				params.QuotationsHandler.MountRoutes(r)
				if params.ReportHandler != nil {
					params.ReportHandler.MountQuotationRoutes(r)
				}
			})
			r.Route("/orders", func(r chi.Router) {
				params.OrdersHandler.MountRoutes(r)
				if params.ReportHandler != nil {
					params.ReportHandler.MountOrderRoutes(r)
				}
			})
			r.Route("/masterdata", params.MasterdataHandler.MountRoutes)
			r.Route("/uploads", params.UploadsHandler.MountRoutes)
		})
	})

	return r
}
