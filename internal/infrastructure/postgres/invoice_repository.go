package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, number, customer_name, customer_document, customer_email, items, subtotal, total, notes, user_id, user_email, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Las líneas se guardan como JSONB en la misma fila para que la factura se escriba en una sola sentencia.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv     entity.Invoice
		items   []byte
		userID  *string
		email   *string
		custDoc *string
		custEm  *string
	)
	err := row.Scan(&inv.ID, &inv.Number, &inv.CustomerName, &custDoc, &custEm, &items,
		&inv.Subtotal, &inv.Total, &inv.Notes, &userID, &email, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("decode invoice items: %w", err)
	}
	inv.CustomerDocument = valueOrEmpty(custDoc)
	inv.CustomerEmail = valueOrEmpty(custEm)
	inv.UserID = valueOrEmpty(userID)
	inv.UserEmail = valueOrEmpty(email)
	return &inv, nil
}

// Create persiste la factura con sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}
	query := `
		INSERT INTO invoices (id, number, customer_name, customer_document, customer_email, items, subtotal, total, notes, user_id, user_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err = r.q.QueryRow(ctx, query,
		inv.ID, inv.Number, inv.CustomerName, nullIfEmpty(inv.CustomerDocument), nullIfEmpty(inv.CustomerEmail),
		items, inv.Subtotal, inv.Total, inv.Notes, nullIfEmpty(inv.UserID), nullIfEmpty(inv.UserEmail),
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// Update sobrescribe cliente, líneas, totales y notas. Number y autor no cambian.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}
	query := `
		UPDATE invoices
		SET customer_name     = $2,
		    customer_document = $3,
		    customer_email    = $4,
		    items             = $5,
		    subtotal          = $6,
		    total             = $7,
		    notes             = $8,
		    updated_at        = now()
		WHERE id = $1
		RETURNING ` + invoiceColumns
	updated, err := scanInvoice(r.q.QueryRow(ctx, query,
		inv.ID, inv.CustomerName, nullIfEmpty(inv.CustomerDocument), nullIfEmpty(inv.CustomerEmail),
		items, inv.Subtotal, inv.Total, inv.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	*inv = *updated
	return nil
}

// Delete elimina la factura.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve las facturas de la más reciente a la más antigua.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
