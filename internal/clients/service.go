package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// Service implements client lifecycle rules on top of the repository.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the clients service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Create validates the request, verifies the district reference when
// present, and inserts the client with a freshly generated code.
func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	if req.DistrictID != nil {
		ok, err := s.repo.DistrictExists(ctx, *req.DistrictID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: district %d does not exist", httpx.ErrValidation, *req.DistrictID)
		}
	}

	client := Client{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Contact:    req.Contact,
		DistrictID: req.DistrictID,
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a client with that code already exists", httpx.ErrDuplicate)
		}
		return nil, err
	}
	return created, nil
}

// Update applies the supplied fields in place; nil fields keep their
// current value.
func (s *Service) Update(ctx context.Context, id int64, req UpdateClientRequest) (*Client, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	if req.DistrictID != nil {
		ok, err := s.repo.DistrictExists(ctx, *req.DistrictID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: district %d does not exist", httpx.ErrValidation, *req.DistrictID)
		}
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Contact != nil {
		updates["contact"] = *req.Contact
	}
	if req.DistrictID != nil {
		updates["district_id"] = *req.DistrictID
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a client. Clients referenced by quotations cannot be
// deleted; the repository surfaces that as a conflict.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one client by id.
func (s *Service) Get(ctx context.Context, id int64) (*Client, error) {
	return s.repo.Get(ctx, id)
}

// List returns clients with their resolved geographic names.
func (s *Service) List(ctx context.Context, req ListClientsRequest) ([]ClientWithLocation, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	return s.repo.List(ctx, req)
}
