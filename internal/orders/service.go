package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
	"github.com/muebleria-erp/muebleria-erp/internal/shared"
)

const statusAccepted = "ACCEPTED"

// Service derives orders from accepted quotations and keeps the payment
// totals consistent on every write.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the orders service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Create derives an order from an accepted quotation. The order number is
// OP- plus the quotation's own number; the sale amount defaults to the
// quotation total when not supplied.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, ident shared.Identity) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	info, err := s.repo.GetQuotationInfo(ctx, req.QuotationID)
	if err != nil {
		return nil, fmt.Errorf("verify quotation: %w", err)
	}
	if info.Status != statusAccepted {
		return nil, fmt.Errorf("%w: quotation %s is not accepted", httpx.ErrConflict, info.Number)
	}
	if !ident.IsAdmin() && (info.VendedorID == nil || *info.VendedorID != ident.VendedorID) {
		return nil, fmt.Errorf("%w: quotation belongs to another salesperson", httpx.ErrForbidden)
	}

	montoVenta := info.Total
	if req.MontoVenta != nil {
		montoVenta = *req.MontoVenta
	}
	totalPagado := req.Anticipo + req.Complemento

	order := Order{
		Number:              "OP-" + info.Number,
		QuotationID:         req.QuotationID,
		DeliveryDate:        req.DeliveryDate,
		DeliveryLocation:    req.DeliveryLocation,
		MontoVenta:          montoVenta,
		Anticipo:            req.Anticipo,
		AnticipoMethodID:    req.AnticipoMethodID,
		AnticipoProofRef:    req.AnticipoProofRef,
		Complemento:         req.Complemento,
		ComplementoMethodID: req.ComplementoMethodID,
		ComplementoProofRef: req.ComplementoProofRef,
		TotalPagado:         totalPagado,
		PagoPendiente:       montoVenta - totalPagado,
		InvoiceStatusID:     req.InvoiceStatusID,
		OrderStatusID:       req.OrderStatusID,
		Notes:               req.Notes,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil, fmt.Errorf("%w: an order already exists for quotation %s", httpx.ErrDuplicate, info.Number)
		}
		return nil, err
	}
	return created, nil
}

// Update merges the supplied fields into the order and recomputes the
// payment totals against the merged amounts. Payment-proof references are
// only replaced when a new one is supplied.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	montoVenta := existing.MontoVenta
	anticipo := existing.Anticipo
	complemento := existing.Complemento
	if req.MontoVenta != nil {
		montoVenta = *req.MontoVenta
	}
	if req.Anticipo != nil {
		anticipo = *req.Anticipo
	}
	if req.Complemento != nil {
		complemento = *req.Complemento
	}
	totalPagado := anticipo + complemento

	updates := map[string]any{
		"monto_venta":    montoVenta,
		"anticipo":       anticipo,
		"complemento":    complemento,
		"total_pagado":   totalPagado,
		"pago_pendiente": montoVenta - totalPagado,
	}
	if req.DeliveryDate != nil {
		updates["delivery_date"] = *req.DeliveryDate
	}
	if req.DeliveryLocation != nil {
		updates["delivery_location"] = *req.DeliveryLocation
	}
	if req.AnticipoMethodID != nil {
		updates["anticipo_method_id"] = *req.AnticipoMethodID
	}
	if req.AnticipoProofRef != nil {
		updates["anticipo_proof_ref"] = *req.AnticipoProofRef
	}
	if req.ComplementoMethodID != nil {
		updates["complemento_method_id"] = *req.ComplementoMethodID
	}
	if req.ComplementoProofRef != nil {
		updates["complemento_proof_ref"] = *req.ComplementoProofRef
	}
	if req.InvoiceStatusID != nil {
		updates["invoice_status_id"] = *req.InvoiceStatusID
	}
	if req.OrderStatusID != nil {
		updates["order_status_id"] = *req.OrderStatusID
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns orders visible to the caller: everything for
// administrators, rows owned through the quotation's vendedor otherwise.
func (s *Service) List(ctx context.Context, req ListOrdersRequest, ident shared.Identity) ([]OrderWithDetails, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if !ident.IsAdmin() {
		vendedorID := ident.VendedorID
		req.OnlyVendedorID = &vendedorID
	}
	return s.repo.List(ctx, req)
}
