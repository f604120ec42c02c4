// Package masterdata serves the read-only lookup tables the rest of the
// system references by id: company profiles, payment methods, statuses
// and the geographic hierarchy.
package masterdata

// Company is the issuing company printed on quotation and order
// documents.
type Company struct {
	ID      int64   `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address,omitempty" db:"address"`
	Phone   *string `json:"phone,omitempty" db:"phone"`
	Email   *string `json:"email,omitempty" db:"email"`
	TaxID   *string `json:"tax_id,omitempty" db:"tax_id"`
	LogoRef *string `json:"logo_ref,omitempty" db:"logo_ref"`
}

// PaymentMethod is how an installment was paid (cash, transfer, card).
type PaymentMethod struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Status is a named state with a display color, shared by the invoice
// and order status tables.
type Status struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
}

// FurnitureType groups products for reporting.
type FurnitureType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Department is the top level of the geographic hierarchy.
type Department struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Municipality belongs to a department.
type Municipality struct {
	ID           int64  `json:"id" db:"id"`
	DepartmentID int64  `json:"department_id" db:"department_id"`
	Name         string `json:"name" db:"name"`
}

// District belongs to a municipality and is what clients reference.
type District struct {
	ID             int64  `json:"id" db:"id"`
	MunicipalityID int64  `json:"municipality_id" db:"municipality_id"`
	Name           string `json:"name" db:"name"`
}
