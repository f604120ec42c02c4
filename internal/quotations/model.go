// Package quotations implements priced proposals and the transactional
// replacement of their line items.
package quotations

import "time"

// QuotationStatus is the acceptance state of a quotation.
type QuotationStatus string

const (
	StatusPending  QuotationStatus = "PENDING"
	StatusAccepted QuotationStatus = "ACCEPTED"
	StatusRejected QuotationStatus = "REJECTED"
)

// Valid reports whether s is one of the known states.
func (s QuotationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Quotation is a priced proposal sent to a client. The contact fields are
// snapshotted from the client at creation time so later client edits do
// not rewrite historical documents. Total always equals the sum of
// quantity times unit price across the current lines.
type Quotation struct {
	ID             int64           `json:"id" db:"id"`
	Number         string          `json:"number" db:"number"`
	ClientID       int64           `json:"client_id" db:"client_id"`
	CompanyID      int64           `json:"company_id" db:"company_id"`
	Author         string          `json:"author" db:"author"`
	VendedorID     *int64          `json:"vendedor_id,omitempty" db:"vendedor_id"`
	ContactName    *string         `json:"contact_name,omitempty" db:"contact_name"`
	ContactPhone   *string         `json:"contact_phone,omitempty" db:"contact_phone"`
	ContactAddress *string         `json:"contact_address,omitempty" db:"contact_address"`
	Terms          *string         `json:"terms,omitempty" db:"terms"`
	Total          float64         `json:"total" db:"total"`
	Status         QuotationStatus `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	Lines          []QuotationLine `json:"lines,omitempty" db:"-"`
}

// QuotationLine is one quoted item. Description, when set, overrides the
// product's catalog description on the printed document.
type QuotationLine struct {
	ID          int64   `json:"id" db:"id"`
	QuotationID int64   `json:"quotation_id" db:"quotation_id"`
	ProductID   int64   `json:"product_id" db:"product_id"`
	Description *string `json:"description,omitempty" db:"description"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	LineTotal   float64 `json:"line_total" db:"line_total"`
}

// QuotationWithDetails resolves display names for listings.
type QuotationWithDetails struct {
	Quotation
	ClientName   string  `json:"client_name" db:"client_name"`
	ClientCode   string  `json:"client_code" db:"client_code"`
	CompanyName  string  `json:"company_name" db:"company_name"`
	VendedorName *string `json:"vendedor_name,omitempty" db:"vendedor_name"`
}
