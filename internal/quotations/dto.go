package quotations

// QuotationLineReq is one submitted line item.
type QuotationLineReq struct {
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// CreateQuotationRequest creates a quotation header plus its full line
// set. Contact fields left nil are snapshotted from the client record.
type CreateQuotationRequest struct {
	ClientID       int64              `json:"client_id" validate:"required,gt=0"`
	CompanyID      int64              `json:"company_id" validate:"required,gt=0"`
	Author         string             `json:"author" validate:"required,min=2,max=150"`
	VendedorID     *int64             `json:"vendedor_id,omitempty" validate:"omitempty,gt=0"`
	ContactName    *string            `json:"contact_name,omitempty" validate:"omitempty,max=150"`
	ContactPhone   *string            `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	ContactAddress *string            `json:"contact_address,omitempty" validate:"omitempty,max=250"`
	Terms          *string            `json:"terms,omitempty" validate:"omitempty,max=2000"`
	Lines          []QuotationLineReq `json:"lines" validate:"required,min=1,dive"`
}

// UpdateQuotationRequest rewrites the header fields and replaces the full
// line set. Lines are mandatory: the replacement is total, never a merge.
type UpdateQuotationRequest struct {
	ContactName    *string            `json:"contact_name,omitempty" validate:"omitempty,max=150"`
	ContactPhone   *string            `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	ContactAddress *string            `json:"contact_address,omitempty" validate:"omitempty,max=250"`
	Terms          *string            `json:"terms,omitempty" validate:"omitempty,max=2000"`
	VendedorID     *int64             `json:"vendedor_id,omitempty" validate:"omitempty,gt=0"`
	Lines          []QuotationLineReq `json:"lines" validate:"required,min=1,dive"`
}

// SetStatusRequest transitions the quotation status.
type SetStatusRequest struct {
	Status QuotationStatus `json:"status" validate:"required"`
}

// ListQuotationsRequest filters the quotation listing. OnlyVendedorID is
// set by the service for non-administrator callers, never by the client.
type ListQuotationsRequest struct {
	ClientID       *int64           `json:"client_id,omitempty"`
	Status         *QuotationStatus `json:"status,omitempty"`
	OnlyVendedorID *int64           `json:"-"`
	Limit          int              `json:"limit" validate:"gte=0,lte=1000"`
	Offset         int              `json:"offset" validate:"gte=0"`
}
