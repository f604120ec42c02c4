package quotations

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/muebleria-erp/muebleria-erp/internal/clients"
	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
	"github.com/muebleria-erp/muebleria-erp/internal/shared"
)

// Service is the quotation transaction manager: header writes and line
// replacement always happen inside one repository transaction.
type Service struct {
	repo       Repository
	clientRepo clients.Repository
	validate   *validator.Validate
}

// NewService constructs the quotations service.
func NewService(repo Repository, clientRepo clients.Repository) *Service {
	return &Service{repo: repo, clientRepo: clientRepo, validate: validator.New()}
}

// Create inserts the header and all lines atomically. Contact fields not
// supplied are snapshotted from the client record, so the quotation keeps
// the contact data that was current when it was issued.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest) (*Quotation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	client, err := s.clientRepo.Get(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("verify client: %w", err)
	}

	number, err := s.repo.NextNumber(ctx, authorInitials(req.Author))
	if err != nil {
		return nil, fmt.Errorf("generate quotation number: %w", err)
	}

	quotation := Quotation{
		Number:         number,
		ClientID:       req.ClientID,
		CompanyID:      req.CompanyID,
		Author:         req.Author,
		VendedorID:     req.VendedorID,
		ContactName:    firstNonNil(req.ContactName, client.Contact),
		ContactPhone:   firstNonNil(req.ContactPhone, client.Phone),
		ContactAddress: firstNonNil(req.ContactAddress, client.Address),
		Terms:          req.Terms,
		Total:          linesTotal(req.Lines),
		Status:         StatusPending,
	}

	var quotationID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err := repo.Create(ctx, quotation)
		if err != nil {
			return fmt.Errorf("create quotation: %w", err)
		}
		quotationID = id

		for _, lineReq := range req.Lines {
			line := QuotationLine{
				QuotationID: quotationID,
				ProductID:   lineReq.ProductID,
				Description: lineReq.Description,
				Quantity:    lineReq.Quantity,
				UnitPrice:   lineReq.UnitPrice,
				LineTotal:   lineReq.Quantity * lineReq.UnitPrice,
			}
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert quotation line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, quotationID)
}

// Update rewrites the header and replaces the full line set atomically.
// The previous lines are deleted and the submitted set inserted; a
// failure at any point leaves the original quotation untouched.
func (s *Service) Update(ctx context.Context, id int64, req UpdateQuotationRequest) (*Quotation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}

	updates := map[string]any{"total": linesTotal(req.Lines)}
	if req.ContactName != nil {
		updates["contact_name"] = *req.ContactName
	}
	if req.ContactPhone != nil {
		updates["contact_phone"] = *req.ContactPhone
	}
	if req.ContactAddress != nil {
		updates["contact_address"] = *req.ContactAddress
	}
	if req.Terms != nil {
		updates["terms"] = *req.Terms
	}
	if req.VendedorID != nil {
		updates["vendedor_id"] = *req.VendedorID
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateHeader(ctx, id, updates); err != nil {
			return fmt.Errorf("update quotation header: %w", err)
		}
		if err := repo.DeleteLines(ctx, id); err != nil {
			return err
		}
		for _, lineReq := range req.Lines {
			line := QuotationLine{
				QuotationID: id,
				ProductID:   lineReq.ProductID,
				Description: lineReq.Description,
				Quantity:    lineReq.Quantity,
				UnitPrice:   lineReq.UnitPrice,
				LineTotal:   lineReq.Quantity * lineReq.UnitPrice,
			}
			if _, err := repo.InsertLine(ctx, line); err != nil {
				return fmt.Errorf("insert quotation line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// SetStatus transitions the quotation. Rejecting also deletes the order
// derived from it, in the same transaction as the status write, so the
// two changes are never observed half-applied.
func (s *Service) SetStatus(ctx context.Context, id int64, status QuotationStatus) (*Quotation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.UpdateStatus(ctx, id, status); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if status == StatusRejected {
			if err := repo.DeleteOrderFor(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// Get returns one quotation with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

// List returns quotations visible to the caller: everything for
// administrators, owned rows only for everyone else.
func (s *Service) List(ctx context.Context, req ListQuotationsRequest, ident shared.Identity) ([]QuotationWithDetails, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if !ident.IsAdmin() {
		vendedorID := ident.VendedorID
		req.OnlyVendedorID = &vendedorID
	}
	return s.repo.List(ctx, req)
}

func linesTotal(lines []QuotationLineReq) float64 {
	var total float64
	for _, l := range lines {
		total += l.Quantity * l.UnitPrice
	}
	return total
}

// authorInitials derives the two-letter prefix of a quotation number:
// the initials of the first two words of the author name. A single-word
// name contributes its first two letters; missing positions are padded
// with X. Non-letters are ignored.
func authorInitials(author string) string {
	var words [][]rune
	for _, w := range strings.Fields(author) {
		var letters []rune
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters = append(letters, r)
			}
		}
		if len(letters) > 0 {
			words = append(words, letters)
		}
	}

	var initials []rune
	switch {
	case len(words) >= 2:
		initials = []rune{words[0][0], words[1][0]}
	case len(words) == 1:
		initials = words[0]
		if len(initials) > 2 {
			initials = initials[:2]
		}
	}
	for len(initials) < 2 {
		initials = append(initials, 'X')
	}
	return strings.ToUpper(string(initials))
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
