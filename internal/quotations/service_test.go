package quotations

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muebleria-erp/muebleria-erp/internal/clients"
	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
	"github.com/muebleria-erp/muebleria-erp/internal/shared"
)

// ============================================================================
// MOCK REPOSITORIES
// ============================================================================

type mockRepository struct {
	quotations map[int64]*Quotation
	lines      map[int64][]QuotationLine
	orders     map[int64]bool // keyed by quotation id
	nextID     int64
	nextLineID int64
	seq        int64 // one counter shared by every author

	insertLineError  error
	deleteOrderError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quotations: make(map[int64]*Quotation),
		lines:      make(map[int64][]QuotationLine),
		orders:     make(map[int64]bool),
		nextID:     1,
		nextLineID: 1,
	}
}

func (m *mockRepository) snapshot() *mockRepository {
	cp := newMockRepository()
	cp.nextID = m.nextID
	cp.nextLineID = m.nextLineID
	cp.seq = m.seq
	for k, v := range m.quotations {
		q := *v
		cp.quotations[k] = &q
	}
	for k, v := range m.lines {
		cp.lines[k] = append([]QuotationLine(nil), v...)
	}
	for k, v := range m.orders {
		cp.orders[k] = v
	}
	return cp
}

func (m *mockRepository) restore(from *mockRepository) {
	m.quotations = from.quotations
	m.lines = from.lines
	m.orders = from.orders
	m.seq = from.seq
	m.nextID = from.nextID
	m.nextLineID = from.nextLineID
}

// WithTx mimics transactional semantics: when fn fails, every write it
// made is rolled back.
func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	before := m.snapshot()
	if err := fn(ctx, m); err != nil {
		m.restore(before)
		return err
	}
	return nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, ok := m.quotations[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	out := *q
	out.Lines = append([]QuotationLine(nil), m.lines[id]...)
	return &out, nil
}

func (m *mockRepository) List(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, int, error) {
	var result []QuotationWithDetails
	for _, q := range m.quotations {
		if req.OnlyVendedorID != nil {
			if q.VendedorID == nil || *q.VendedorID != *req.OnlyVendedorID {
				continue
			}
		}
		if req.Status != nil && q.Status != *req.Status {
			continue
		}
		result = append(result, QuotationWithDetails{Quotation: *q})
	}
	return result, len(result), nil
}

func (m *mockRepository) NextNumber(ctx context.Context, initials string) (string, error) {
	m.seq++
	return fmt.Sprintf("%s-%06d", initials, m.seq), nil
}

func (m *mockRepository) Create(ctx context.Context, q Quotation) (int64, error) {
	id := m.nextID
	m.nextID++
	q.ID = id
	m.quotations[id] = &q
	return id, nil
}

func (m *mockRepository) UpdateHeader(ctx context.Context, id int64, updates map[string]any) error {
	q, ok := m.quotations[id]
	if !ok {
		return httpx.ErrNotFound
	}
	if v, ok := updates["total"]; ok {
		q.Total = v.(float64)
	}
	if v, ok := updates["contact_name"]; ok {
		s := v.(string)
		q.ContactName = &s
	}
	if v, ok := updates["terms"]; ok {
		s := v.(string)
		q.Terms = &s
	}
	if v, ok := updates["vendedor_id"]; ok {
		n := v.(int64)
		q.VendedorID = &n
	}
	return nil
}

func (m *mockRepository) InsertLine(ctx context.Context, line QuotationLine) (int64, error) {
	if m.insertLineError != nil {
		return 0, m.insertLineError
	}
	id := m.nextLineID
	m.nextLineID++
	line.ID = id
	m.lines[line.QuotationID] = append(m.lines[line.QuotationID], line)
	return id, nil
}

func (m *mockRepository) DeleteLines(ctx context.Context, quotationID int64) error {
	delete(m.lines, quotationID)
	return nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, status QuotationStatus) error {
	q, ok := m.quotations[id]
	if !ok {
		return httpx.ErrNotFound
	}
	q.Status = status
	return nil
}

func (m *mockRepository) DeleteOrderFor(ctx context.Context, quotationID int64) error {
	if m.deleteOrderError != nil {
		return m.deleteOrderError
	}
	delete(m.orders, quotationID)
	return nil
}

type mockClientRepo struct {
	clients map[int64]*clients.Client
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[int64]*clients.Client)}
}

func (m *mockClientRepo) Get(ctx context.Context, id int64) (*clients.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return c, nil
}

func (m *mockClientRepo) List(ctx context.Context, req clients.ListClientsRequest) ([]clients.ClientWithLocation, int, error) {
	return nil, 0, nil
}

func (m *mockClientRepo) Create(ctx context.Context, c clients.Client) (*clients.Client, error) {
	return &c, nil
}

func (m *mockClientRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	return nil
}

func (m *mockClientRepo) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockClientRepo) DistrictExists(ctx context.Context, id int64) (bool, error) {
	return true, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func setupService() (*Service, *mockRepository, *mockClientRepo) {
	repo := newMockRepository()
	clientRepo := newMockClientRepo()
	clientRepo.clients[1] = &clients.Client{
		ID:      1,
		Code:    "CL-00001",
		Name:    "Comedor Familiar SA",
		Phone:   strPtr("7777-0001"),
		Address: strPtr("Col. Escalón"),
		Contact: strPtr("María Pérez"),
	}
	return NewService(repo, clientRepo), repo, clientRepo
}

func validCreateReq() CreateQuotationRequest {
	return CreateQuotationRequest{
		ClientID:  1,
		CompanyID: 1,
		Author:    "Ana Lopez",
		Lines: []QuotationLineReq{
			{ProductID: 10, Quantity: 2, UnitPrice: 150},
			{ProductID: 11, Quantity: 1, UnitPrice: 75.50},
		},
	}
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateQuotation(t *testing.T) {
	ctx := context.Background()

	t.Run("computes total from lines", func(t *testing.T) {
		svc, _, _ := setupService()
		q, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)
		assert.InDelta(t, 375.50, q.Total, 0.001)
		require.Len(t, q.Lines, 2)
		assert.InDelta(t, 300, q.Lines[0].LineTotal, 0.001)
		assert.InDelta(t, 75.50, q.Lines[1].LineTotal, 0.001)
	})

	t.Run("number carries author initials", func(t *testing.T) {
		svc, _, _ := setupService()
		q, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)
		assert.Equal(t, "AL-000001", q.Number)

		q2, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)
		assert.Equal(t, "AL-000002", q2.Number)
	})

	t.Run("the counter is shared across authors", func(t *testing.T) {
		svc, _, _ := setupService()
		req := validCreateReq()
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)

		req.Author = "Carlos Diaz"
		q, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "CD-000002", q.Number)
	})

	t.Run("snapshots contact data from client", func(t *testing.T) {
		svc, _, _ := setupService()
		q, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)
		require.NotNil(t, q.ContactName)
		assert.Equal(t, "María Pérez", *q.ContactName)
		require.NotNil(t, q.ContactPhone)
		assert.Equal(t, "7777-0001", *q.ContactPhone)
	})

	t.Run("explicit contact overrides snapshot", func(t *testing.T) {
		svc, _, _ := setupService()
		req := validCreateReq()
		req.ContactName = strPtr("Juan Gómez")
		q, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Juan Gómez", *q.ContactName)
	})

	t.Run("starts pending", func(t *testing.T) {
		svc, _, _ := setupService()
		q, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)
		assert.Equal(t, StatusPending, q.Status)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		svc, _, _ := setupService()
		req := validCreateReq()
		req.Lines = nil
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})

	t.Run("rejects unknown client", func(t *testing.T) {
		svc, _, _ := setupService()
		req := validCreateReq()
		req.ClientID = 99
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, httpx.ErrNotFound)
	})

	t.Run("line failure rolls back the header", func(t *testing.T) {
		svc, repo, _ := setupService()
		repo.insertLineError = errors.New("disk full")
		_, err := svc.Create(ctx, validCreateReq())
		require.Error(t, err)
		assert.Empty(t, repo.quotations)
	})
}

// ============================================================================
// UPDATE
// ============================================================================

func TestUpdateQuotation(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the full line set", func(t *testing.T) {
		svc, _, _ := setupService()
		created, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, UpdateQuotationRequest{
			Lines: []QuotationLineReq{
				{ProductID: 20, Quantity: 3, UnitPrice: 100},
			},
		})
		require.NoError(t, err)
		require.Len(t, updated.Lines, 1)
		assert.Equal(t, int64(20), updated.Lines[0].ProductID)
		assert.InDelta(t, 300, updated.Total, 0.001)
	})

	t.Run("failure preserves the previous lines", func(t *testing.T) {
		svc, repo, _ := setupService()
		created, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)

		repo.insertLineError = errors.New("constraint violated")
		_, err = svc.Update(ctx, created.ID, UpdateQuotationRequest{
			Lines: []QuotationLineReq{
				{ProductID: 20, Quantity: 3, UnitPrice: 100},
			},
		})
		require.Error(t, err)

		repo.insertLineError = nil
		after, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, after.Lines, 2)
		assert.Equal(t, int64(10), after.Lines[0].ProductID)
		assert.InDelta(t, 375.50, after.Total, 0.001)
	})

	t.Run("unknown quotation", func(t *testing.T) {
		svc, _, _ := setupService()
		_, err := svc.Update(ctx, 42, UpdateQuotationRequest{
			Lines: []QuotationLineReq{{ProductID: 1, Quantity: 1, UnitPrice: 1}},
		})
		assert.ErrorIs(t, err, httpx.ErrNotFound)
	})

	t.Run("rejects update without lines", func(t *testing.T) {
		svc, _, _ := setupService()
		created, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, UpdateQuotationRequest{})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})
}

// ============================================================================
// STATUS TRANSITIONS
// ============================================================================

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("accept", func(t *testing.T) {
		svc, _, _ := setupService()
		created, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)

		q, err := svc.SetStatus(ctx, created.ID, StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, StatusAccepted, q.Status)
	})

	t.Run("reject deletes the derived order", func(t *testing.T) {
		svc, repo, _ := setupService()
		created, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)
		repo.orders[created.ID] = true

		q, err := svc.SetStatus(ctx, created.ID, StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, q.Status)
		assert.NotContains(t, repo.orders, created.ID)
	})

	t.Run("reject rolls back the status when the order delete fails", func(t *testing.T) {
		svc, repo, _ := setupService()
		created, err := svc.Create(ctx, validCreateReq())
		require.NoError(t, err)
		repo.orders[created.ID] = true
		repo.deleteOrderError = errors.New("deadlock")

		_, err = svc.SetStatus(ctx, created.ID, StatusRejected)
		require.Error(t, err)

		after, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, after.Status)
		assert.Contains(t, repo.orders, created.ID)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _, _ := setupService()
		_, err := svc.SetStatus(ctx, 1, QuotationStatus("SHIPPED"))
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})
}

// ============================================================================
// LISTING AND OWNERSHIP
// ============================================================================

func TestListQuotations(t *testing.T) {
	ctx := context.Background()

	seed := func(svc *Service) {
		req := validCreateReq()
		req.VendedorID = int64Ptr(7)
		_, err := svc.Create(ctx, req)
		if err != nil {
			panic(err)
		}
		req.VendedorID = int64Ptr(8)
		_, err = svc.Create(ctx, req)
		if err != nil {
			panic(err)
		}
		req.VendedorID = nil
		_, err = svc.Create(ctx, req)
		if err != nil {
			panic(err)
		}
	}

	t.Run("administrator sees everything", func(t *testing.T) {
		svc, _, _ := setupService()
		seed(svc)
		admin := shared.Identity{UserID: 1, Role: shared.RoleAdministrator}
		result, total, err := svc.List(ctx, ListQuotationsRequest{}, admin)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, result, 3)
	})

	t.Run("salesperson only sees owned quotations", func(t *testing.T) {
		svc, _, _ := setupService()
		seed(svc)
		seller := shared.Identity{UserID: 2, Role: shared.RoleOperator, VendedorID: 7}
		result, total, err := svc.List(ctx, ListQuotationsRequest{}, seller)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, result, 1)
		assert.Equal(t, int64(7), *result[0].VendedorID)
	})

	t.Run("unassigned rows are hidden from non-administrators", func(t *testing.T) {
		svc, _, _ := setupService()
		seed(svc)
		seller := shared.Identity{UserID: 3, Role: shared.RoleOperator, VendedorID: 99}
		_, total, err := svc.List(ctx, ListQuotationsRequest{}, seller)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

// ============================================================================
// NUMBER FORMAT
// ============================================================================

func TestAuthorInitials(t *testing.T) {
	assert.Equal(t, "AL", authorInitials("Ana Lopez"))
	assert.Equal(t, "MD", authorInitials("María del Carmen"))
	assert.Equal(t, "CD", authorInitials("  Carlos   Diaz  "))
	assert.Equal(t, "JO", authorInitials("josé"))
	assert.Equal(t, "JX", authorInitials("J"))
	assert.Equal(t, "XX", authorInitials("123"))
	assert.Equal(t, "XX", authorInitials(""))
}
