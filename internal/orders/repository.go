package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muebleria-erp/muebleria-erp/internal/platform/db"
	"github.com/muebleria-erp/muebleria-erp/internal/platform/httpx"
)

// Repository is the persistence contract for orders.
type Repository interface {
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]OrderWithDetails, int, error)
	Create(ctx context.Context, o Order) (*Order, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	GetQuotationInfo(ctx context.Context, quotationID int64) (*QuotationInfo, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, number, quotation_id, delivery_date, delivery_location,
	monto_venta, anticipo, anticipo_method_id, anticipo_proof_ref,
	complemento, complemento_method_id, complemento_proof_ref,
	total_pagado, pago_pendiente, invoice_status_id, order_status_id,
	notes, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns), id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("orders: get: %w", err)
	}
	return o, nil
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]OrderWithDetails, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.OrderStatusID != nil {
		conditions = append(conditions, fmt.Sprintf("o.order_status_id = $%d", argPos))
		args = append(args, *req.OrderStatusID)
		argPos++
	}
	// Ownership scope: the order inherits its owner from the quotation
	// it was derived from.
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
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM orders o
		JOIN quotations q ON o.quotation_id = q.id
		%s
	`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("orders: count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT o.id, o.number, o.quotation_id, o.delivery_date, o.delivery_location,
		       o.monto_venta, o.anticipo, o.anticipo_method_id, o.anticipo_proof_ref,
		       o.complemento, o.complemento_method_id, o.complemento_proof_ref,
		       o.total_pagado, o.pago_pendiente, o.invoice_status_id, o.order_status_id,
		       o.notes, o.created_at, o.updated_at,
		       q.number AS quotation_number,
		       c.name AS client_name,
		       q.vendedor_id,
		       invs.name AS invoice_status_name, invs.color AS invoice_status_color,
		       ords.name AS order_status_name, ords.color AS order_status_color
		FROM orders o
		JOIN quotations q ON o.quotation_id = q.id
		JOIN clients c ON q.client_id = c.id
		LEFT JOIN invoice_statuses invs ON o.invoice_status_id = invs.id
		LEFT JOIN order_statuses ords ON o.order_status_id = ords.id
		%s
		ORDER BY o.id DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	var result []OrderWithDetails
	for rows.Next() {
		var o OrderWithDetails
		var deliveryDate pgtype.Timestamptz
		var deliveryLocation, anticipoProof, complementoProof, notes pgtype.Text
		var anticipoMethod, complementoMethod, invoiceStatus, orderStatus, vendedorID pgtype.Int8
		var invName, invColor, ordName, ordColor pgtype.Text
		err := rows.Scan(
			&o.ID, &o.Number, &o.QuotationID, &deliveryDate, &deliveryLocation,
			&o.MontoVenta, &o.Anticipo, &anticipoMethod, &anticipoProof,
			&o.Complemento, &complementoMethod, &complementoProof,
			&o.TotalPagado, &o.PagoPendiente, &invoiceStatus, &orderStatus,
			&notes, &o.CreatedAt, &o.UpdatedAt,
			&o.QuotationNumber, &o.ClientName, &vendedorID,
			&invName, &invColor, &ordName, &ordColor,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("orders: scan: %w", err)
		}
		if deliveryDate.Valid {
			o.DeliveryDate = &deliveryDate.Time
		}
		o.DeliveryLocation = textPtr(deliveryLocation)
		o.AnticipoProofRef = textPtr(anticipoProof)
		o.ComplementoProofRef = textPtr(complementoProof)
		o.Notes = textPtr(notes)
		o.AnticipoMethodID = int8Ptr(anticipoMethod)
		o.ComplementoMethodID = int8Ptr(complementoMethod)
		o.InvoiceStatusID = int8Ptr(invoiceStatus)
		o.OrderStatusID = int8Ptr(orderStatus)
		o.VendedorID = int8Ptr(vendedorID)
		o.InvoiceStatusName = textPtr(invName)
		o.InvoiceStatusColor = textPtr(invColor)
		o.OrderStatusName = textPtr(ordName)
		o.OrderStatusColor = textPtr(ordColor)
		result = append(result, o)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, o Order) (*Order, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO orders (number, quotation_id, delivery_date, delivery_location,
		                    monto_venta, anticipo, anticipo_method_id, anticipo_proof_ref,
		                    complemento, complemento_method_id, complemento_proof_ref,
		                    total_pagado, pago_pendiente, invoice_status_id, order_status_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING %s
	`, orderColumns),
		o.Number, o.QuotationID, o.DeliveryDate, o.DeliveryLocation,
		o.MontoVenta, o.Anticipo, o.AnticipoMethodID, o.AnticipoProofRef,
		o.Complemento, o.ComplementoMethodID, o.ComplementoProofRef,
		o.TotalPagado, o.PagoPendiente, o.InvoiceStatusID, o.OrderStatusID, o.Notes,
	)
	created, err := scanOrder(row)
	if err != nil {
		return nil, createErr(err)
	}
	return created, nil
}

// createErr maps a failed order insert. A foreign key violation means a
// referenced row (quotation, payment method, status) does not exist;
// the duplicate-order-per-quotation unique index still maps to 409.
func createErr(err error) error {
	if db.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: referenced row does not exist", httpx.ErrNotFound)
	}
	return db.Translate(err)
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE orders SET updated_at = NOW()"
	var args []any
	argPos := 1
	cols := []string{
		"delivery_date", "delivery_location", "monto_venta",
		"anticipo", "anticipo_method_id", "anticipo_proof_ref",
		"complemento", "complemento_method_id", "complemento_proof_ref",
		"total_pagado", "pago_pendiente", "invoice_status_id", "order_status_id", "notes",
	}
	for _, col := range cols {
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

func (r *repository) GetQuotationInfo(ctx context.Context, quotationID int64) (*QuotationInfo, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, number, status, total, vendedor_id
		FROM quotations
		WHERE id = $1
	`, quotationID)
	var info QuotationInfo
	var vendedorID pgtype.Int8
	if err := row.Scan(&info.ID, &info.Number, &info.Status, &info.Total, &vendedorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, fmt.Errorf("orders: get quotation: %w", err)
	}
	info.VendedorID = int8Ptr(vendedorID)
	return &info, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var deliveryDate pgtype.Timestamptz
	var deliveryLocation, anticipoProof, complementoProof, notes pgtype.Text
	var anticipoMethod, complementoMethod, invoiceStatus, orderStatus pgtype.Int8
	err := row.Scan(
		&o.ID, &o.Number, &o.QuotationID, &deliveryDate, &deliveryLocation,
		&o.MontoVenta, &o.Anticipo, &anticipoMethod, &anticipoProof,
		&o.Complemento, &complementoMethod, &complementoProof,
		&o.TotalPagado, &o.PagoPendiente, &invoiceStatus, &orderStatus,
		&notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if deliveryDate.Valid {
		o.DeliveryDate = &deliveryDate.Time
	}
	o.DeliveryLocation = textPtr(deliveryLocation)
	o.AnticipoProofRef = textPtr(anticipoProof)
	o.ComplementoProofRef = textPtr(complementoProof)
	o.Notes = textPtr(notes)
	o.AnticipoMethodID = int8Ptr(anticipoMethod)
	o.ComplementoMethodID = int8Ptr(complementoMethod)
	o.InvoiceStatusID = int8Ptr(invoiceStatus)
	o.OrderStatusID = int8Ptr(orderStatus)
	return &o, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}

func int8Ptr(i pgtype.Int8) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}
