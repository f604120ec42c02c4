package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
	"github.com/muebleria-erp/muebleria-erp/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	orders      map[int64]*Order
	byQuotation map[int64]int64
	quotations  map[int64]*QuotationInfo
	vendedores  map[int64]*int64 // quotation id -> owning vendedor
	nextID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		orders:      make(map[int64]*Order),
		byQuotation: make(map[int64]int64),
		quotations:  make(map[int64]*QuotationInfo),
		vendedores:  make(map[int64]*int64),
		nextID:      1,
	}
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	out := *o
	return &out, nil
}

func (m *mockRepository) List(ctx context.Context, req ListOrdersRequest) ([]OrderWithDetails, int, error) {
	var result []OrderWithDetails
	for _, o := range m.orders {
		if req.OnlyVendedorID != nil {
			owner := m.vendedores[o.QuotationID]
			if owner == nil || *owner != *req.OnlyVendedorID {
				continue
			}
		}
		if req.OrderStatusID != nil {
			if o.OrderStatusID == nil || *o.OrderStatusID != *req.OrderStatusID {
				continue
			}
		}
		result = append(result, OrderWithDetails{Order: *o})
	}
	return result, len(result), nil
}

func (m *mockRepository) Create(ctx context.Context, o Order) (*Order, error) {
	if _, exists := m.byQuotation[o.QuotationID]; exists {
		return nil, httpx.ErrDuplicate
	}
	o.ID = m.nextID
	m.nextID++
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = &o
	m.byQuotation[o.QuotationID] = o.ID
	out := o
	return &out, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	o, ok := m.orders[id]
	if !ok {
		return httpx.ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "monto_venta":
			o.MontoVenta = v.(float64)
		case "anticipo":
			o.Anticipo = v.(float64)
		case "complemento":
			o.Complemento = v.(float64)
		case "total_pagado":
			o.TotalPagado = v.(float64)
		case "pago_pendiente":
			o.PagoPendiente = v.(float64)
		case "anticipo_proof_ref":
			s := v.(string)
			o.AnticipoProofRef = &s
		case "complemento_proof_ref":
			s := v.(string)
			o.ComplementoProofRef = &s
		case "delivery_location":
			s := v.(string)
			o.DeliveryLocation = &s
		case "order_status_id":
			n := v.(int64)
			o.OrderStatusID = &n
		case "notes":
			s := v.(string)
			o.Notes = &s
		}
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) GetQuotationInfo(ctx context.Context, quotationID int64) (*QuotationInfo, error) {
	info, ok := m.quotations[quotationID]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	out := *info
	return &out, nil
}

// ============================================================================
// HELPERS
// ============================================================================

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

var adminIdent = shared.Identity{UserID: 1, Role: shared.RoleAdministrator}

func setupService() (*Service, *mockRepository) {
	repo := newMockRepository()
	owner := int64(7)
	repo.quotations[1] = &QuotationInfo{
		ID:         1,
		Number:     "AL-000001",
		Status:     "ACCEPTED",
		Total:      1500,
		VendedorID: &owner,
	}
	repo.vendedores[1] = &owner
	repo.quotations[2] = &QuotationInfo{
		ID:     2,
		Number: "AL-000002",
		Status: "PENDING",
		Total:  800,
	}
	return NewService(repo), repo
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("derives number and amount from the quotation", func(t *testing.T) {
		svc, _ := setupService()
		o, err := svc.Create(ctx, CreateOrderRequest{QuotationID: 1}, adminIdent)
		require.NoError(t, err)
		assert.Equal(t, "OP-AL-000001", o.Number)
		assert.InDelta(t, 1500, o.MontoVenta, 0.001)
		assert.InDelta(t, 1500, o.PagoPendiente, 0.001)
		assert.Zero(t, o.TotalPagado)
	})

	t.Run("explicit sale amount overrides the quotation total", func(t *testing.T) {
		svc, _ := setupService()
		o, err := svc.Create(ctx, CreateOrderRequest{
			QuotationID: 1,
			MontoVenta:  floatPtr(1400),
			Anticipo:    500,
		}, adminIdent)
		require.NoError(t, err)
		assert.InDelta(t, 1400, o.MontoVenta, 0.001)
		assert.InDelta(t, 500, o.TotalPagado, 0.001)
		assert.InDelta(t, 900, o.PagoPendiente, 0.001)
	})

	t.Run("payment balance always holds", func(t *testing.T) {
		svc, _ := setupService()
		o, err := svc.Create(ctx, CreateOrderRequest{
			QuotationID: 1,
			Anticipo:    600,
			Complemento: 900,
		}, adminIdent)
		require.NoError(t, err)
		assert.InDelta(t, 1500, o.TotalPagado, 0.001)
		assert.InDelta(t, 0, o.PagoPendiente, 0.001)
	})

	t.Run("rejects non-accepted quotation", func(t *testing.T) {
		svc, _ := setupService()
		_, err := svc.Create(ctx, CreateOrderRequest{QuotationID: 2}, adminIdent)
		assert.ErrorIs(t, err, httpx.ErrConflict)
	})

	t.Run("rejects unknown quotation", func(t *testing.T) {
		svc, _ := setupService()
		_, err := svc.Create(ctx, CreateOrderRequest{QuotationID: 99}, adminIdent)
		assert.ErrorIs(t, err, httpx.ErrNotFound)
	})

	t.Run("rejects duplicate order for the same quotation", func(t *testing.T) {
		svc, _ := setupService()
		_, err := svc.Create(ctx, CreateOrderRequest{QuotationID: 1}, adminIdent)
		require.NoError(t, err)
		_, err = svc.Create(ctx, CreateOrderRequest{QuotationID: 1}, adminIdent)
		assert.ErrorIs(t, err, httpx.ErrDuplicate)
	})

	t.Run("owner can derive their own quotation", func(t *testing.T) {
		svc, _ := setupService()
		seller := shared.Identity{UserID: 2, Role: shared.RoleOperator, VendedorID: 7}
		_, err := svc.Create(ctx, CreateOrderRequest{QuotationID: 1}, seller)
		assert.NoError(t, err)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc, _ := setupService()
		stranger := shared.Identity{UserID: 3, Role: shared.RoleOperator, VendedorID: 42}
		_, err := svc.Create(ctx, CreateOrderRequest{QuotationID: 1}, stranger)
		assert.ErrorIs(t, err, httpx.ErrForbidden)
	})
}

// ============================================================================
// UPDATE
// ============================================================================

func TestUpdateOrder(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc *Service) *Order {
		t.Helper()
		o, err := svc.Create(ctx, CreateOrderRequest{
			QuotationID:      1,
			Anticipo:         500,
			AnticipoProofRef: strPtr("recibo-001.pdf"),
		}, adminIdent)
		require.NoError(t, err)
		return o
	}

	t.Run("recomputes the balance from merged amounts", func(t *testing.T) {
		svc, _ := setupService()
		o := create(t, svc)

		updated, err := svc.Update(ctx, o.ID, UpdateOrderRequest{Complemento: floatPtr(1000)})
		require.NoError(t, err)
		assert.InDelta(t, 500, updated.Anticipo, 0.001)
		assert.InDelta(t, 1000, updated.Complemento, 0.001)
		assert.InDelta(t, 1500, updated.TotalPagado, 0.001)
		assert.InDelta(t, 0, updated.PagoPendiente, 0.001)
	})

	t.Run("sale amount change recomputes the pending balance", func(t *testing.T) {
		svc, _ := setupService()
		o := create(t, svc)

		updated, err := svc.Update(ctx, o.ID, UpdateOrderRequest{MontoVenta: floatPtr(2000)})
		require.NoError(t, err)
		assert.InDelta(t, 2000, updated.MontoVenta, 0.001)
		assert.InDelta(t, 1500, updated.PagoPendiente, 0.001)
	})

	t.Run("omitted proof reference is preserved", func(t *testing.T) {
		svc, _ := setupService()
		o := create(t, svc)

		updated, err := svc.Update(ctx, o.ID, UpdateOrderRequest{Complemento: floatPtr(200)})
		require.NoError(t, err)
		require.NotNil(t, updated.AnticipoProofRef)
		assert.Equal(t, "recibo-001.pdf", *updated.AnticipoProofRef)
	})

	t.Run("supplied proof reference replaces the old one", func(t *testing.T) {
		svc, _ := setupService()
		o := create(t, svc)

		updated, err := svc.Update(ctx, o.ID, UpdateOrderRequest{
			AnticipoProofRef: strPtr("recibo-002.pdf"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.AnticipoProofRef)
		assert.Equal(t, "recibo-002.pdf", *updated.AnticipoProofRef)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := setupService()
		_, err := svc.Update(ctx, 99, UpdateOrderRequest{})
		assert.ErrorIs(t, err, httpx.ErrNotFound)
	})
}

// ============================================================================
// LISTING AND OWNERSHIP
// ============================================================================

func TestListOrders(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, svc *Service, repo *mockRepository) {
		t.Helper()
		_, err := svc.Create(ctx, CreateOrderRequest{QuotationID: 1}, adminIdent)
		require.NoError(t, err)

		other := int64(8)
		repo.quotations[3] = &QuotationInfo{
			ID: 3, Number: "CD-000001", Status: "ACCEPTED", Total: 300, VendedorID: &other,
		}
		repo.vendedores[3] = &other
		_, err = svc.Create(ctx, CreateOrderRequest{QuotationID: 3}, adminIdent)
		require.NoError(t, err)
	}

	t.Run("administrator sees everything", func(t *testing.T) {
		svc, repo := setupService()
		seed(t, svc, repo)
		_, total, err := svc.List(ctx, ListOrdersRequest{}, adminIdent)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("salesperson only sees orders from owned quotations", func(t *testing.T) {
		svc, repo := setupService()
		seed(t, svc, repo)
		seller := shared.Identity{UserID: 2, Role: shared.RoleOperator, VendedorID: 7}
		result, total, err := svc.List(ctx, ListOrdersRequest{}, seller)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, result, 1)
		assert.Equal(t, int64(1), result[0].QuotationID)
	})

	t.Run("status filter applies", func(t *testing.T) {
		svc, repo := setupService()
		seed(t, svc, repo)
		o := repo.orders[1]
		o.OrderStatusID = intPtr(3)
		_, total, err := svc.List(ctx, ListOrdersRequest{OrderStatusID: intPtr(3)}, adminIdent)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})
}
