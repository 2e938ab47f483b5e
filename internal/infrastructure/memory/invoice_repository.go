package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct {
	store *Store
}

// NewInvoiceRepository construye el repositorio sobre el Store.
func NewInvoiceRepository(store *Store) *InvoiceRepo {
	return &InvoiceRepo{store: store}
}

func cloneInvoice(inv entity.Invoice) entity.Invoice {
	inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	if inv.Number != nil {
		n := *inv.Number
		inv.Number = &n
	}
	return inv
}

// Create guarda la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.invoices[inv.ID]; ok {
		return domain.ErrConflict
	}
	now := r.store.timestamp()
	inv.CreatedAt, inv.UpdatedAt = now, now
	r.store.invoices[inv.ID] = cloneInvoice(*inv)
	return nil
}

// GetByID devuelve una copia de la factura o (nil, nil).
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := cloneInvoice(inv)
	return &cp, nil
}

// Update sobrescribe cliente, líneas, totales y notas; Number, autor y CreatedAt se conservan.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	cur, ok := r.store.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneInvoice(*inv)
	next.Number = cur.Number
	next.UserID = cur.UserID
	next.UserEmail = cur.UserEmail
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = r.store.timestamp()
	r.store.invoices[inv.ID] = next
	*inv = cloneInvoice(next)
	return nil
}

// Delete elimina la factura.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.invoices, id)
	return nil
}

// List devuelve las facturas de la más reciente a la más antigua.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]*entity.Invoice, 0, len(r.store.invoices))
	for _, inv := range r.store.invoices {
		cp := cloneInvoice(inv)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
