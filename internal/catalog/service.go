package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// Service implements catalog rules on top of the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Create validates the request, resolves the subcategory (which supplies
// the code prefix and scopes the counter), and inserts the product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	ref, err := s.repo.GetSubcategoryRef(ctx, req.SubcategoryID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: subcategory %d does not exist", httpx.ErrValidation, req.SubcategoryID)
		}
		return nil, err
	}

	product := Product{
		Name:            req.Name,
		Description:     req.Description,
		FurnitureTypeID: req.FurnitureTypeID,
		StatusID:        req.StatusID,
		ImageRef:        req.ImageRef,
	}
	return s.repo.Create(ctx, product, *ref)
}

// Update applies the supplied fields in place. A product already quoted
// on any quotation is frozen: historical documents must keep showing the
// product as it was sold.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	used, err := s.repo.InUse(ctx, id)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, fmt.Errorf("%w: product is used in existing quotations and cannot be modified", httpx.ErrConflict)
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.FurnitureTypeID != nil {
		updates["furniture_type_id"] = *req.FurnitureTypeID
	}
	if req.StatusID != nil {
		updates["status_id"] = *req.StatusID
	}
	if req.ImageRef != nil {
		updates["image_ref"] = *req.ImageRef
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a product unless a quotation still references it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// List returns products with resolved lookup names.
func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]ProductWithRefs, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return s.repo.List(ctx, req)
}

// Categories lists all categories.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// Subcategories lists the subcategories of one category.
func (s *Service) Subcategories(ctx context.Context, categoryID int64) ([]Subcategory, error) {
	return s.repo.ListSubcategories(ctx, categoryID)
}
