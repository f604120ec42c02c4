package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/db"
	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

const clientSeqKind = "CL"

// Repository is the persistence contract for clients.
type Repository interface {
	Get(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context, req ListClientsRequest) ([]ClientWithLocation, int, error)
	Create(ctx context.Context, c Client) (*Client, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	DistrictExists(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, name, phone, email, address, contact, district_id, created_at, updated_at
		FROM clients
		WHERE id = $1
	`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("clients: get: %w", err)
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, req ListClientsRequest) ([]ClientWithLocation, int, error) {
	where := ""
	args := []any{}
	argPos := 1
	if req.Search != "" {
		where = fmt.Sprintf("WHERE c.name ILIKE $%d OR c.code ILIKE $%d", argPos, argPos)
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM clients c %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("clients: count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.code, c.name, c.phone, c.email, c.address, c.contact, c.district_id,
		       c.created_at, c.updated_at,
		       d.name AS district_name,
		       m.name AS municipality_name,
		       dep.name AS department_name
		FROM clients c
		LEFT JOIN districts d ON c.district_id = d.id
		LEFT JOIN municipalities m ON d.municipality_id = m.id
		LEFT JOIN departments dep ON m.department_id = dep.id
		%s
		ORDER BY c.id
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("clients: list: %w", err)
	}
	defer rows.Close()

	var result []ClientWithLocation
	for rows.Next() {
		var c ClientWithLocation
		var phone, email, address, contact, distName, muniName, depName pgtype.Text
		var districtID pgtype.Int8
		err := rows.Scan(
			&c.ID, &c.Code, &c.Name, &phone, &email, &address, &contact, &districtID,
			&c.CreatedAt, &c.UpdatedAt, &distName, &muniName, &depName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("clients: scan: %w", err)
		}
		c.Phone = textPtr(phone)
		c.Email = textPtr(email)
		c.Address = textPtr(address)
		c.Contact = textPtr(contact)
		if districtID.Valid {
			c.DistrictID = &districtID.Int64
		}
		c.DistrictName = textPtr(distName)
		c.MunicipalityName = textPtr(muniName)
		c.DepartmentName = textPtr(depName)
		result = append(result, c)
	}
	return result, total, rows.Err()
}

// Create allocates the next CL code and inserts the row in one
// transaction, so a failed insert never burns a visible code gap larger
// than the sequence itself.
func (r *repository) Create(ctx context.Context, c Client) (*Client, error) {
	var created *Client
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		seq, err := db.NextSeq(ctx, tx, clientSeqKind, 0)
		if err != nil {
			return err
		}
		code := fmt.Sprintf("CL-%05d", seq)

		row := tx.QueryRow(ctx, `
			INSERT INTO clients (code, name, phone, email, address, contact, district_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, code, name, phone, email, address, contact, district_id, created_at, updated_at
		`, code, c.Name, c.Phone, c.Email, c.Address, c.Contact, c.DistrictID)
		created, err = scanClient(row)
		return err
	})
	if err != nil {
		return nil, db.Translate(err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE clients SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range []string{"name", "phone", "email", "address", "contact", "district_id"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: client is referenced by one or more quotations", httpx.ErrConflict)
		}
		return fmt.Errorf("clients: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) DistrictExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM districts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("clients: district exists: %w", err)
	}
	return exists, nil
}

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	var phone, email, address, contact pgtype.Text
	var districtID pgtype.Int8
	err := row.Scan(&c.ID, &c.Code, &c.Name, &phone, &email, &address, &contact, &districtID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Phone = textPtr(phone)
	c.Email = textPtr(email)
	c.Address = textPtr(address)
	c.Contact = textPtr(contact)
	if districtID.Valid {
		c.DistrictID = &districtID.Int64
	}
	return &c, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
