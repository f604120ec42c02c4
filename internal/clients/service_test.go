package clients

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	clients    map[int64]*Client
	districts  map[int64]bool
	referenced map[int64]bool // client ids referenced by quotations
	nextID     int64
	seq        int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		clients:    make(map[int64]*Client),
		districts:  map[int64]bool{1: true, 2: true},
		referenced: make(map[int64]bool),
		nextID:     1,
	}
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (m *mockRepository) List(ctx context.Context, req ListClientsRequest) ([]ClientWithLocation, int, error) {
	var result []ClientWithLocation
	for _, c := range m.clients {
		if req.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(req.Search)) {
			continue
		}
		result = append(result, ClientWithLocation{Client: *c})
	}
	return result, len(result), nil
}

func (m *mockRepository) Create(ctx context.Context, c Client) (*Client, error) {
	m.seq++
	c.ID = m.nextID
	m.nextID++
	c.Code = fmt.Sprintf("CL-%05d", m.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.clients[c.ID] = &c
	out := c
	return &out, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	c, ok := m.clients[id]
	if !ok {
		return httpx.ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "name":
			c.Name = v.(string)
		case "phone":
			s := v.(string)
			c.Phone = &s
		case "email":
			s := v.(string)
			c.Email = &s
		case "address":
			s := v.(string)
			c.Address = &s
		case "contact":
			s := v.(string)
			c.Contact = &s
		case "district_id":
			n := v.(int64)
			c.DistrictID = &n
		}
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.clients[id]; !ok {
		return httpx.ErrNotFound
	}
	if m.referenced[id] {
		return fmt.Errorf("%w: client is referenced by one or more quotations", httpx.ErrConflict)
	}
	delete(m.clients, id)
	return nil
}

func (m *mockRepository) DistrictExists(ctx context.Context, id int64) (bool, error) {
	return m.districts[id], nil
}

// ============================================================================
// TESTS
// ============================================================================

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func TestCreateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns sequential codes", func(t *testing.T) {
		repo := newMockRepository()
		svc := NewService(repo)

		first, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real"})
		require.NoError(t, err)
		assert.Equal(t, "CL-00001", first.Code)

		second, err := svc.Create(ctx, CreateClientRequest{Name: "Oficinas Modernas"})
		require.NoError(t, err)
		assert.Equal(t, "CL-00002", second.Code)
	})

	t.Run("requires a name", func(t *testing.T) {
		svc := NewService(newMockRepository())
		_, err := svc.Create(ctx, CreateClientRequest{})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		svc := NewService(newMockRepository())
		_, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real", Email: strPtr("not-an-email")})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})

	t.Run("rejects unknown district", func(t *testing.T) {
		svc := NewService(newMockRepository())
		_, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real", DistrictID: int64Ptr(99)})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})

	t.Run("accepts known district", func(t *testing.T) {
		svc := NewService(newMockRepository())
		c, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real", DistrictID: int64Ptr(1)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), *c.DistrictID)
	})
}

func TestUpdateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("nil fields stay unchanged", func(t *testing.T) {
		repo := newMockRepository()
		svc := NewService(repo)
		created, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real", Phone: strPtr("2222-0000")})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, UpdateClientRequest{Name: strPtr("Hotel Real SV")})
		require.NoError(t, err)
		assert.Equal(t, "Hotel Real SV", updated.Name)
		require.NotNil(t, updated.Phone)
		assert.Equal(t, "2222-0000", *updated.Phone)
		assert.Equal(t, created.Code, updated.Code)
	})

	t.Run("unknown client", func(t *testing.T) {
		svc := NewService(newMockRepository())
		_, err := svc.Update(ctx, 42, UpdateClientRequest{Name: strPtr("Nadie")})
		assert.ErrorIs(t, err, httpx.ErrNotFound)
	})

	t.Run("rejects unknown district", func(t *testing.T) {
		repo := newMockRepository()
		svc := NewService(repo)
		created, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, created.ID, UpdateClientRequest{DistrictID: int64Ptr(99)})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})
}

func TestDeleteClient(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an unreferenced client", func(t *testing.T) {
		repo := newMockRepository()
		svc := NewService(repo)
		created, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))
		_, err = svc.Get(ctx, created.ID)
		assert.ErrorIs(t, err, httpx.ErrNotFound)
	})

	t.Run("referenced client is a conflict", func(t *testing.T) {
		repo := newMockRepository()
		svc := NewService(repo)
		created, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real"})
		require.NoError(t, err)
		repo.referenced[created.ID] = true

		err = svc.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, httpx.ErrConflict)
	})
}

func TestListClients(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	svc := NewService(repo)
	_, err := svc.Create(ctx, CreateClientRequest{Name: "Hotel Real"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateClientRequest{Name: "Oficinas Modernas"})
	require.NoError(t, err)

	t.Run("search filters by name", func(t *testing.T) {
		result, total, err := svc.List(ctx, ListClientsRequest{Search: "hotel"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, result, 1)
		assert.Equal(t, "Hotel Real", result[0].Name)
	})

	t.Run("empty search returns everything", func(t *testing.T) {
		_, total, err := svc.List(ctx, ListClientsRequest{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})
}
