package clients

// CreateClientRequest carries the fields accepted at client creation.
// Only the name is mandatory; everything else is optional contact data.
type CreateClientRequest struct {
	Name       string  `json:"name" validate:"required,max=150"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=250"`
	Contact    *string `json:"contact,omitempty" validate:"omitempty,max=150"`
	DistrictID *int64  `json:"district_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateClientRequest updates a client in place. Nil fields are left
// unchanged.
type UpdateClientRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email,max=150"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=250"`
	Contact    *string `json:"contact,omitempty" validate:"omitempty,max=150"`
	DistrictID *int64  `json:"district_id,omitempty" validate:"omitempty,gt=0"`
}

// ListClientsRequest filters the client listing.
type ListClientsRequest struct {
	Search string `json:"search"`
	Limit  int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset int    `json:"offset" validate:"gte=0"`
}
