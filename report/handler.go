package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/muebleria-erp/muebleria-erp/internal/catalog"
	"github.com/muebleria-erp/muebleria-erp/internal/clients"
	"github.com/muebleria-erp/muebleria-erp/internal/masterdata"
	"github.com/muebleria-erp/muebleria-erp/internal/orders"
	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
	"github.com/muebleria-erp/muebleria-erp/internal/quotations"
	"github.com/muebleria-erp/muebleria-erp/internal/shared"
)

// Handler renders printable documents. Ownership follows the same rule
// as the listing endpoints: administrators can print anything, everyone
// else only their own quotations and the orders derived from them.
type Handler struct {
	logger     *slog.Logger
	client     *Client
	quotations *quotations.Service
	orders     *orders.Service
	clients    *clients.Service
	catalog    *catalog.Service
	masterdata masterdata.Repository
}

// NewHandler constructs the report handler.
func NewHandler(
	logger *slog.Logger,
	client *Client,
	quotationsSvc *quotations.Service,
	ordersSvc *orders.Service,
	clientsSvc *clients.Service,
	catalogSvc *catalog.Service,
	masterdataRepo masterdata.Repository,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:     logger,
		client:     client,
		quotations: quotationsSvc,
		orders:     ordersSvc,
		clients:    clientsSvc,
		catalog:    catalogSvc,
		masterdata: masterdataRepo,
	}
}

// MountQuotationRoutes registers the quotation PDF route on the
// quotations subrouter.
func (h *Handler) MountQuotationRoutes(r chi.Router) {
	r.Get("/{id}/pdf", h.QuotationPDF)
}

// MountOrderRoutes registers the order PDF route on the orders
// subrouter.
func (h *Handler) MountOrderRoutes(r chi.Router) {
	r.Get("/{id}/pdf", h.OrderPDF)
}

func (h *Handler) QuotationPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := shared.IdentityFromContext(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	q, err := h.quotations.Get(ctx, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !ident.IsAdmin() && (q.VendedorID == nil || *q.VendedorID != ident.VendedorID) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}

	doc, err := h.buildQuotationDoc(r, q)
	if err != nil {
		h.logger.Error("assemble quotation document failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	html, err := RenderQuotationHTML(*doc)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.client.RenderHTML(ctx, html)
	if err != nil {
		h.logger.Error("render quotation pdf failed", slog.Int64("id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", q.Number))
	_, _ = w.Write(pdf)
}

func (h *Handler) OrderPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, _ := shared.IdentityFromContext(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	o, err := h.orders.Get(ctx, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.quotations.Get(ctx, o.QuotationID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if !ident.IsAdmin() && (q.VendedorID == nil || *q.VendedorID != ident.VendedorID) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}

	doc, err := h.buildOrderDoc(r, o, q)
	if err != nil {
		h.logger.Error("assemble order document failed", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	html, err := RenderOrderHTML(*doc)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.client.RenderHTML(ctx, html)
	if err != nil {
		h.logger.Error("render order pdf failed", slog.Int64("id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", o.Number))
	_, _ = w.Write(pdf)
}

func (h *Handler) buildQuotationDoc(r *http.Request, q *quotations.Quotation) (*QuotationDoc, error) {
	ctx := r.Context()

	cl, err := h.clients.Get(ctx, q.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	company, err := h.masterdata.GetCompany(ctx, q.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	lines, err := h.docLines(r, q.Lines)
	if err != nil {
		return nil, err
	}

	return &QuotationDoc{
		CompanyName:    company.Name,
		CompanyAddress: deref(company.Address),
		CompanyPhone:   deref(company.Phone),
		CompanyTaxID:   deref(company.TaxID),
		Number:         q.Number,
		Date:           q.CreatedAt,
		Author:         q.Author,
		ClientCode:     cl.Code,
		ClientName:     cl.Name,
		ContactName:    deref(q.ContactName),
		ContactPhone:   deref(q.ContactPhone),
		ContactAddress: deref(q.ContactAddress),
		Terms:          deref(q.Terms),
		Lines:          lines,
		Total:          q.Total,
	}, nil
}

func (h *Handler) buildOrderDoc(r *http.Request, o *orders.Order, q *quotations.Quotation) (*OrderDoc, error) {
	ctx := r.Context()

	cl, err := h.clients.Get(ctx, q.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	company, err := h.masterdata.GetCompany(ctx, q.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	lines, err := h.docLines(r, q.Lines)
	if err != nil {
		return nil, err
	}

	var deliveryDate *time.Time
	if o.DeliveryDate != nil {
		d := *o.DeliveryDate
		deliveryDate = &d
	}

	return &OrderDoc{
		CompanyName:      company.Name,
		CompanyAddress:   deref(company.Address),
		CompanyPhone:     deref(company.Phone),
		Number:           o.Number,
		QuotationNumber:  q.Number,
		Date:             o.CreatedAt,
		ClientName:       cl.Name,
		DeliveryDate:     deliveryDate,
		DeliveryLocation: deref(o.DeliveryLocation),
		Lines:            lines,
		MontoVenta:       o.MontoVenta,
		Anticipo:         o.Anticipo,
		Complemento:      o.Complemento,
		TotalPagado:      o.TotalPagado,
		PagoPendiente:    o.PagoPendiente,
		Notes:            deref(o.Notes),
	}, nil
}

// docLines resolves each line's product code, falling back to the
// catalog description when the line has none of its own.
func (h *Handler) docLines(r *http.Request, lines []quotations.QuotationLine) ([]DocLine, error) {
	ctx := r.Context()
	result := make([]DocLine, 0, len(lines))
	for _, line := range lines {
		p, err := h.catalog.Get(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", line.ProductID, err)
		}
		desc := deref(line.Description)
		if desc == "" {
			desc = p.Name
			if p.Description != nil {
				desc = *p.Description
			}
		}
		result = append(result, DocLine{
			Code:        p.Code,
			Description: desc,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
