package clients

import "time"

// Client is a customer of the workshop. Code is generated once at create
// time (CL-00001, CL-00002, ...) and never changes.
type Client struct {
	ID         int64     `json:"id" db:"id"`
	Code       string    `json:"code" db:"code"`
	Name       string    `json:"name" db:"name"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	Email      *string   `json:"email,omitempty" db:"email"`
	Address    *string   `json:"address,omitempty" db:"address"`
	Contact    *string   `json:"contact,omitempty" db:"contact"`
	DistrictID *int64    `json:"district_id,omitempty" db:"district_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ClientWithLocation joins the three level geographic hierarchy for
// listings: district, its municipality, and the department above it.
type ClientWithLocation struct {
	Client
	DistrictName     *string `json:"district_name,omitempty" db:"district_name"`
	MunicipalityName *string `json:"municipality_name,omitempty" db:"municipality_name"`
	DepartmentName   *string `json:"department_name,omitempty" db:"department_name"`
}
