package orders

import "time"

// CreateOrderRequest derives an order from an accepted quotation. When
// MontoVenta is nil the quotation total is used.
type CreateOrderRequest struct {
	QuotationID         int64      `json:"quotation_id" validate:"required,gt=0"`
	DeliveryDate        *time.Time `json:"delivery_date,omitempty"`
	DeliveryLocation    *string    `json:"delivery_location,omitempty" validate:"omitempty,max=250"`
	MontoVenta          *float64   `json:"monto_venta,omitempty" validate:"omitempty,gte=0"`
	Anticipo            float64    `json:"anticipo" validate:"gte=0"`
	AnticipoMethodID    *int64     `json:"anticipo_method_id,omitempty" validate:"omitempty,gt=0"`
	AnticipoProofRef    *string    `json:"anticipo_proof_ref,omitempty" validate:"omitempty,max=250"`
	Complemento         float64    `json:"complemento" validate:"gte=0"`
	ComplementoMethodID *int64     `json:"complemento_method_id,omitempty" validate:"omitempty,gt=0"`
	ComplementoProofRef *string    `json:"complemento_proof_ref,omitempty" validate:"omitempty,max=250"`
	InvoiceStatusID     *int64     `json:"invoice_status_id,omitempty" validate:"omitempty,gt=0"`
	OrderStatusID       *int64     `json:"order_status_id,omitempty" validate:"omitempty,gt=0"`
	Notes               *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateOrderRequest merges into an existing order: nil fields keep their
// current value, and payment-proof references are overwritten only when a
// new one is supplied. Payment totals are recomputed from the merged
// values.
type UpdateOrderRequest struct {
	DeliveryDate        *time.Time `json:"delivery_date,omitempty"`
	DeliveryLocation    *string    `json:"delivery_location,omitempty" validate:"omitempty,max=250"`
	MontoVenta          *float64   `json:"monto_venta,omitempty" validate:"omitempty,gte=0"`
	Anticipo            *float64   `json:"anticipo,omitempty" validate:"omitempty,gte=0"`
	AnticipoMethodID    *int64     `json:"anticipo_method_id,omitempty" validate:"omitempty,gt=0"`
	AnticipoProofRef    *string    `json:"anticipo_proof_ref,omitempty" validate:"omitempty,max=250"`
	Complemento         *float64   `json:"complemento,omitempty" validate:"omitempty,gte=0"`
	ComplementoMethodID *int64     `json:"complemento_method_id,omitempty" validate:"omitempty,gt=0"`
	ComplementoProofRef *string    `json:"complemento_proof_ref,omitempty" validate:"omitempty,max=250"`
	InvoiceStatusID     *int64     `json:"invoice_status_id,omitempty" validate:"omitempty,gt=0"`
	OrderStatusID       *int64     `json:"order_status_id,omitempty" validate:"omitempty,gt=0"`
	Notes               *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListOrdersRequest filters the order listing. OnlyVendedorID is set by
// the service for non-administrator callers, never by the client.
type ListOrdersRequest struct {
	OrderStatusID  *int64 `json:"order_status_id,omitempty"`
	OnlyVendedorID *int64 `json:"-"`
	Limit          int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset         int    `json:"offset" validate:"gte=0"`
}
