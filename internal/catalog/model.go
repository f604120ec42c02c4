// Package catalog holds the product catalog: categories, subcategories,
// and the products quoted to clients.
package catalog

import "time"

// Category groups subcategories. Code is the short prefix used in product
// codes (e.g. MOB).
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// Subcategory belongs to a category and scopes the product counter: the
// numeric suffix of a product code restarts per subcategory.
type Subcategory struct {
	ID         int64  `json:"id" db:"id"`
	CategoryID int64  `json:"category_id" db:"category_id"`
	Code       string `json:"code" db:"code"`
	Name       string `json:"name" db:"name"`
}

// Product is a catalog item. Code has the form {Cat}-{Subcat}-0001.
type Product struct {
	ID              int64     `json:"id" db:"id"`
	Code            string    `json:"code" db:"code"`
	Name            string    `json:"name" db:"name"`
	Description     *string   `json:"description,omitempty" db:"description"`
	SubcategoryID   int64     `json:"subcategory_id" db:"subcategory_id"`
	FurnitureTypeID *int64    `json:"furniture_type_id,omitempty" db:"furniture_type_id"`
	StatusID        *int64    `json:"status_id,omitempty" db:"status_id"`
	ImageRef        *string   `json:"image_ref,omitempty" db:"image_ref"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// ProductWithRefs resolves lookup names for listings.
type ProductWithRefs struct {
	Product
	SubcategoryName   string  `json:"subcategory_name" db:"subcategory_name"`
	CategoryName      string  `json:"category_name" db:"category_name"`
	FurnitureTypeName *string `json:"furniture_type_name,omitempty" db:"furniture_type_name"`
	StatusName        *string `json:"status_name,omitempty" db:"status_name"`
}
