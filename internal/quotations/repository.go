package quotations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/db"
	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

const quotationSeqKind = "QT"

// Repository is the persistence contract for quotations. WithTx hands the
// callback a Repository bound to one transaction; every statement issued
// through it commits or rolls back as a unit.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Quotation, error)
	List(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, int, error)
	NextNumber(ctx context.Context, initials string) (string, error)
	Create(ctx context.Context, q Quotation) (int64, error)
	UpdateHeader(ctx context.Context, id int64, updates map[string]any) error
	InsertLine(ctx context.Context, line QuotationLine) (int64, error)
	DeleteLines(ctx context.Context, quotationID int64) error
	UpdateStatus(ctx context.Context, id int64, status QuotationStatus) error
	DeleteOrderFor(ctx context.Context, quotationID int64) error
}

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) Get(ctx context.Context, id int64) (*Quotation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, number, client_id, company_id, author, vendedor_id,
		       contact_name, contact_phone, contact_address, terms,
		       total, status, created_at, updated_at
		FROM quotations
		WHERE id = $1
	`, id)
	q, err := scanQuotation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("quotations: get: %w", err)
	}

	lines, err := r.lines(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Lines = lines
	return q, nil
}

func (r *repository) lines(ctx context.Context, quotationID int64) ([]QuotationLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, quotation_id, product_id, description, quantity, unit_price, line_total
		FROM quotation_lines
		WHERE quotation_id = $1
		ORDER BY id
	`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotations: lines: %w", err)
	}
	defer rows.Close()

	var lines []QuotationLine
	for rows.Next() {
		var l QuotationLine
		var description pgtype.Text
		if err := rows.Scan(&l.ID, &l.QuotationID, &l.ProductID, &description, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, err
		}
		l.Description = textPtr(description)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("q.client_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("q.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	// Ownership scope: non-administrators only see quotations owned by
	// their vendedor record.
	if req.OnlyVendedorID != nil {
		conditions = append(conditions, fmt.Sprintf("q.vendedor_id = $%d", argPos))
		args = append(args, *req.OnlyVendedorID)
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM quotations q %s", where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("quotations: count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT q.id, q.number, q.client_id, q.company_id, q.author, q.vendedor_id,
		       q.contact_name, q.contact_phone, q.contact_address, q.terms,
		       q.total, q.status, q.created_at, q.updated_at,
		       c.name AS client_name, c.code AS client_code,
		       co.name AS company_name,
		       v.name AS vendedor_name
		FROM quotations q
		JOIN clients c ON q.client_id = c.id
		JOIN companies co ON q.company_id = co.id
		LEFT JOIN vendedores v ON q.vendedor_id = v.id
		%s
		ORDER BY q.id DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("quotations: list: %w", err)
	}
	defer rows.Close()

	var result []QuotationWithDetails
	for rows.Next() {
		var q QuotationWithDetails
		var vendedorID pgtype.Int8
		var contactName, contactPhone, contactAddress, terms, vendedorName pgtype.Text
		err := rows.Scan(
			&q.ID, &q.Number, &q.ClientID, &q.CompanyID, &q.Author, &vendedorID,
			&contactName, &contactPhone, &contactAddress, &terms,
			&q.Total, &q.Status, &q.CreatedAt, &q.UpdatedAt,
			&q.ClientName, &q.ClientCode, &q.CompanyName, &vendedorName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("quotations: scan: %w", err)
		}
		if vendedorID.Valid {
			q.VendedorID = &vendedorID.Int64
		}
		q.ContactName = textPtr(contactName)
		q.ContactPhone = textPtr(contactPhone)
		q.ContactAddress = textPtr(contactAddress)
		q.Terms = textPtr(terms)
		q.VendedorName = textPtr(vendedorName)
		result = append(result, q)
	}
	return result, total, rows.Err()
}

// NextNumber advances the global quotation counter and formats it behind
// the author's initials, e.g. JP-000042.
func (r *repository) NextNumber(ctx context.Context, initials string) (string, error) {
	seq, err := db.NextSeq(ctx, r.db, quotationSeqKind, 0)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", initials, seq), nil
}

func (r *repository) Create(ctx context.Context, q Quotation) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO quotations (number, client_id, company_id, author, vendedor_id,
		                        contact_name, contact_phone, contact_address, terms, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, q.Number, q.ClientID, q.CompanyID, q.Author, q.VendedorID,
		q.ContactName, q.ContactPhone, q.ContactAddress, q.Terms, q.Total, q.Status,
	).Scan(&id)
	if err != nil {
		return 0, db.Translate(err)
	}
	return id, nil
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE quotations SET updated_at = NOW()"
	var args []any
	argPos := 1
	for _, col := range []string{"contact_name", "contact_phone", "contact_address", "terms", "vendedor_id", "total"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, line QuotationLine) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO quotation_lines (quotation_id, product_id, description, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, line.QuotationID, line.ProductID, line.Description, line.Quantity, line.UnitPrice, line.LineTotal).Scan(&id)
	if err != nil {
		return 0, insertLineErr(err)
	}
	return id, nil
}

// insertLineErr maps a failed line insert. A foreign key violation here
// means the line points at a product (or quotation) that does not exist,
// which callers see as not-found rather than a conflict.
func insertLineErr(err error) error {
	if db.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: referenced product does not exist", httpx.ErrNotFound)
	}
	return db.Translate(err)
}

func (r *repository) DeleteLines(ctx context.Context, quotationID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM quotation_lines WHERE quotation_id = $1`, quotationID)
	if err != nil {
		return fmt.Errorf("quotations: delete lines: %w", err)
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status QuotationStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return db.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// DeleteOrderFor removes the order derived from a quotation, if any. Used
// by the reject cascade inside the same transaction as the status write.
func (r *repository) DeleteOrderFor(ctx context.Context, quotationID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders WHERE quotation_id = $1`, quotationID)
	if err != nil {
		return fmt.Errorf("quotations: delete order: %w", err)
	}
	return nil
}

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	var vendedorID pgtype.Int8
	var contactName, contactPhone, contactAddress, terms pgtype.Text
	err := row.Scan(
		&q.ID, &q.Number, &q.ClientID, &q.CompanyID, &q.Author, &vendedorID,
		&contactName, &contactPhone, &contactAddress, &terms,
		&q.Total, &q.Status, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if vendedorID.Valid {
		q.VendedorID = &vendedorID.Int64
	}
	q.ContactName = textPtr(contactName)
	q.ContactPhone = textPtr(contactPhone)
	q.ContactAddress = textPtr(contactAddress)
	q.Terms = textPtr(terms)
	return &q, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}
