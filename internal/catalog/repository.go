package catalog

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

const productSeqKind = "PRD"

// SubcategoryRef carries the codes needed to format a product code.
type SubcategoryRef struct {
	ID           int64
	Code         string
	CategoryCode string
}

// Repository is the persistence contract for the catalog.
type Repository interface {
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]ProductWithRefs, int, error)
	Create(ctx context.Context, p Product, ref SubcategoryRef) (*Product, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	InUse(ctx context.Context, productID int64) (bool, error)
	GetSubcategoryRef(ctx context.Context, id int64) (*SubcategoryRef, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListSubcategories(ctx context.Context, categoryID int64) ([]Subcategory, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, code, name, description, subcategory_id, furniture_type_id, status_id, image_ref, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get product: %w", err)
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, req ListProductsRequest) ([]ProductWithRefs, int, error) {
	conditions := []string{}
	args := []any{}
	argPos := 1
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.code ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}
	if req.SubcategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.subcategory_id = $%d", argPos))
		args = append(args, *req.SubcategoryID)
		argPos++
	}
	where := ""
	for i, cond := range conditions {
		if i == 0 {
			where = "WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM products p %s", where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT p.id, p.code, p.name, p.description, p.subcategory_id, p.furniture_type_id,
		       p.status_id, p.image_ref, p.created_at, p.updated_at,
		       s.name AS subcategory_name,
		       c.name AS category_name,
		       ft.name AS furniture_type_name,
		       ps.name AS status_name
		FROM products p
		JOIN subcategories s ON p.subcategory_id = s.id
		JOIN categories c ON s.category_id = c.id
		LEFT JOIN furniture_types ft ON p.furniture_type_id = ft.id
		LEFT JOIN product_statuses ps ON p.status_id = ps.id
		%s
		ORDER BY p.code
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var result []ProductWithRefs
	for rows.Next() {
		var p ProductWithRefs
		var description, imageRef, ftName, statusName pgtype.Text
		var ftID, statusID pgtype.Int8
		err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &description, &p.SubcategoryID, &ftID,
			&statusID, &imageRef, &p.CreatedAt, &p.UpdatedAt,
			&p.SubcategoryName, &p.CategoryName, &ftName, &statusName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("catalog: scan: %w", err)
		}
		p.Description = textPtr(description)
		p.ImageRef = textPtr(imageRef)
		if ftID.Valid {
			p.FurnitureTypeID = &ftID.Int64
		}
		if statusID.Valid {
			p.StatusID = &statusID.Int64
		}
		p.FurnitureTypeName = textPtr(ftName)
		p.StatusName = textPtr(statusName)
		result = append(result, p)
	}
	return result, total, rows.Err()
}

// Create allocates the next code for the product's subcategory and
// inserts the row in one transaction. The counter is scoped per
// subcategory, so MOB-SIL-0001 and MOB-MES-0001 coexist.
func (r *repository) Create(ctx context.Context, p Product, ref SubcategoryRef) (*Product, error) {
	var created *Product
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		seq, err := db.NextSeq(ctx, tx, productSeqKind, ref.ID)
		if err != nil {
			return err
		}
		code := fmt.Sprintf("%s-%s-%04d", ref.CategoryCode, ref.Code, seq)

		row := tx.QueryRow(ctx, `
			INSERT INTO products (code, name, description, subcategory_id, furniture_type_id, status_id, image_ref)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, code, name, description, subcategory_id, furniture_type_id, status_id, image_ref, created_at, updated_at
		`, code, p.Name, p.Description, ref.ID, p.FurnitureTypeID, p.StatusID, p.ImageRef)
		created, err = scanProduct(row)
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
	query := "UPDATE products SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range []string{"name", "description", "furniture_type_id", "status_id", "image_ref"} {
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: product is referenced by one or more quotations", httpx.ErrConflict)
		}
		return fmt.Errorf("catalog: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// InUse reports whether any quotation line references the product.
func (r *repository) InUse(ctx context.Context, productID int64) (bool, error) {
	var used bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM quotation_lines WHERE product_id = $1)`, productID).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("catalog: in use: %w", err)
	}
	return used, nil
}

func (r *repository) GetSubcategoryRef(ctx context.Context, id int64) (*SubcategoryRef, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT s.id, s.code, c.code
		FROM subcategories s
		JOIN categories c ON s.category_id = c.id
		WHERE s.id = $1
	`, id)
	var ref SubcategoryRef
	if err := row.Scan(&ref.ID, &ref.Code, &ref.CategoryCode); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get subcategory: %w", err)
	}
	return &ref, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) ListSubcategories(ctx context.Context, categoryID int64) ([]Subcategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, code, name FROM subcategories WHERE category_id = $1 ORDER BY name
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list subcategories: %w", err)
	}
	defer rows.Close()

	var result []Subcategory
	for rows.Next() {
		var s Subcategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Code, &s.Name); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var description, imageRef pgtype.Text
	var ftID, statusID pgtype.Int8
	err := row.Scan(&p.ID, &p.Code, &p.Name, &description, &p.SubcategoryID, &ftID, &statusID, &imageRef, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = textPtr(description)
	p.ImageRef = textPtr(imageRef)
	if ftID.Valid {
		p.FurnitureTypeID = &ftID.Int64
	}
	if statusID.Valid {
		p.StatusID = &statusID.Int64
	}
	return &p, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
