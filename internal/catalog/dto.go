package catalog

// CreateProductRequest carries the fields accepted at product creation.
type CreateProductRequest struct {
	Name            string  `json:"name" validate:"required,max=150"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	SubcategoryID   int64   `json:"subcategory_id" validate:"required,gt=0"`
	FurnitureTypeID *int64  `json:"furniture_type_id,omitempty" validate:"omitempty,gt=0"`
	StatusID        *int64  `json:"status_id,omitempty" validate:"omitempty,gt=0"`
	ImageRef        *string `json:"image_ref,omitempty" validate:"omitempty,max=250"`
}

// UpdateProductRequest updates a product in place. Nil fields are left
// unchanged. The subcategory (and therefore the code) cannot change.
type UpdateProductRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=500"`
	FurnitureTypeID *int64  `json:"furniture_type_id,omitempty" validate:"omitempty,gt=0"`
	StatusID        *int64  `json:"status_id,omitempty" validate:"omitempty,gt=0"`
	ImageRef        *string `json:"image_ref,omitempty" validate:"omitempty,max=250"`
}

// ListProductsRequest filters the product listing.
type ListProductsRequest struct {
	Search        string `json:"search"`
	SubcategoryID *int64 `json:"subcategory_id,omitempty"`
	Limit         int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset        int    `json:"offset" validate:"gte=0"`
}
