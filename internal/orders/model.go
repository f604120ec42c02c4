// Package orders tracks the production/delivery record created when a
// quotation is accepted, including the two payment installments.
package orders

import "time"

// Order is derived 1:1 from an accepted quotation. TotalPagado and
// PagoPendiente are stored denormalized and recomputed on every write:
// TotalPagado = Anticipo + Complemento, PagoPendiente = MontoVenta −
// TotalPagado.
type Order struct {
	ID                  int64      `json:"id" db:"id"`
	Number              string     `json:"number" db:"number"`
	QuotationID         int64      `json:"quotation_id" db:"quotation_id"`
	DeliveryDate        *time.Time `json:"delivery_date,omitempty" db:"delivery_date"`
	DeliveryLocation    *string    `json:"delivery_location,omitempty" db:"delivery_location"`
	MontoVenta          float64    `json:"monto_venta" db:"monto_venta"`
	Anticipo            float64    `json:"anticipo" db:"anticipo"`
	AnticipoMethodID    *int64     `json:"anticipo_method_id,omitempty" db:"anticipo_method_id"`
	AnticipoProofRef    *string    `json:"anticipo_proof_ref,omitempty" db:"anticipo_proof_ref"`
	Complemento         float64    `json:"complemento" db:"complemento"`
	ComplementoMethodID *int64     `json:"complemento_method_id,omitempty" db:"complemento_method_id"`
	ComplementoProofRef *string    `json:"complemento_proof_ref,omitempty" db:"complemento_proof_ref"`
	TotalPagado         float64    `json:"total_pagado" db:"total_pagado"`
	PagoPendiente       float64    `json:"pago_pendiente" db:"pago_pendiente"`
	InvoiceStatusID     *int64     `json:"invoice_status_id,omitempty" db:"invoice_status_id"`
	OrderStatusID       *int64     `json:"order_status_id,omitempty" db:"order_status_id"`
	Notes               *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// OrderWithDetails resolves display fields for listings: the quotation
// number and client, plus status names with their display colors.
type OrderWithDetails struct {
	Order
	QuotationNumber    string  `json:"quotation_number" db:"quotation_number"`
	ClientName         string  `json:"client_name" db:"client_name"`
	VendedorID         *int64  `json:"vendedor_id,omitempty" db:"vendedor_id"`
	InvoiceStatusName  *string `json:"invoice_status_name,omitempty" db:"invoice_status_name"`
	InvoiceStatusColor *string `json:"invoice_status_color,omitempty" db:"invoice_status_color"`
	OrderStatusName    *string `json:"order_status_name,omitempty" db:"order_status_name"`
	OrderStatusColor   *string `json:"order_status_color,omitempty" db:"order_status_color"`
}

// QuotationInfo is the slice of the quotation an order derivation needs.
type QuotationInfo struct {
	ID         int64
	Number     string
	Status     string
	Total      float64
	VendedorID *int64
}
