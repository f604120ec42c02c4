package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// Repository reads the lookup tables. All of them are seeded by
// migrations and never written through the API.
type Repository interface {
	GetCompany(ctx context.Context, id int64) (*Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	ListInvoiceStatuses(ctx context.Context) ([]Status, error)
	ListOrderStatuses(ctx context.Context) ([]Status, error)
	ListFurnitureTypes(ctx context.Context) ([]FurnitureType, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	ListMunicipalities(ctx context.Context, departmentID *int64) ([]Municipality, error)
	ListDistricts(ctx context.Context, municipalityID *int64) ([]District, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) GetCompany(ctx context.Context, id int64) (*Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, email, tax_id, logo_ref
		FROM companies WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.TaxID, &c.LogoRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("masterdata: get company: %w", err)
	}
	return &c, nil
}

func (r *repository) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, phone, email, tax_id, logo_ref
		FROM companies ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list companies: %w", err)
	}
	defer rows.Close()

	var result []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.TaxID, &c.LogoRef); err != nil {
			return nil, fmt.Errorf("masterdata: scan company: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM payment_methods ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list payment methods: %w", err)
	}
	defer rows.Close()

	var result []PaymentMethod
	for rows.Next() {
		var m PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("masterdata: scan payment method: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *repository) ListInvoiceStatuses(ctx context.Context) ([]Status, error) {
	return r.listStatuses(ctx, "invoice_statuses")
}

func (r *repository) ListOrderStatuses(ctx context.Context) ([]Status, error) {
	return r.listStatuses(ctx, "order_statuses")
}

func (r *repository) listStatuses(ctx context.Context, table string) ([]Status, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT id, name, color FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("masterdata: list %s: %w", table, err)
	}
	defer rows.Close()

	var result []Status
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s.ID, &s.Name, &s.Color); err != nil {
			return nil, fmt.Errorf("masterdata: scan %s: %w", table, err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *repository) ListFurnitureTypes(ctx context.Context) ([]FurnitureType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM furniture_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list furniture types: %w", err)
	}
	defer rows.Close()

	var result []FurnitureType
	for rows.Next() {
		var t FurnitureType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("masterdata: scan furniture type: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *repository) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list departments: %w", err)
	}
	defer rows.Close()

	var result []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("masterdata: scan department: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *repository) ListMunicipalities(ctx context.Context, departmentID *int64) ([]Municipality, error) {
	query := `SELECT id, department_id, name FROM municipalities`
	var args []any
	if departmentID != nil {
		query += ` WHERE department_id = $1`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list municipalities: %w", err)
	}
	defer rows.Close()

	var result []Municipality
	for rows.Next() {
		var m Municipality
		if err := rows.Scan(&m.ID, &m.DepartmentID, &m.Name); err != nil {
			return nil, fmt.Errorf("masterdata: scan municipality: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *repository) ListDistricts(ctx context.Context, municipalityID *int64) ([]District, error) {
	query := `SELECT id, municipality_id, name FROM districts`
	var args []any
	if municipalityID != nil {
		query += ` WHERE municipality_id = $1`
		args = append(args, *municipalityID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("masterdata: list districts: %w", err)
	}
	defer rows.Close()

	var result []District
	for rows.Next() {
		var d District
		if err := rows.Scan(&d.ID, &d.MunicipalityID, &d.Name); err != nil {
			return nil, fmt.Errorf("masterdata: scan district: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
