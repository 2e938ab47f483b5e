package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	store *Store
}

// NewProductRepository construye el repositorio sobre el Store.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create guarda el producto. Devuelve domain.ErrConflict si el ID ya existe.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.products[p.ID]; ok {
		return domain.ErrConflict
	}
	now := r.store.timestamp()
	p.CreatedAt, p.UpdatedAt = now, now
	r.store.products[p.ID] = *p
	return nil
}

// GetByID devuelve una copia del producto o (nil, nil).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetByIDForUpdate igual que GetByID: dentro de TxRunner el Store ya está bajo candado de escritura.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza los campos de catálogo conservando Quantity, Cost y CreatedAt.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	cur, ok := r.store.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = p.Name
	cur.Category = p.Category
	cur.Price = p.Price
	cur.Supplier = p.Supplier
	cur.Description = p.Description
	cur.ImageURL = p.ImageURL
	cur.UpdatedAt = r.store.timestamp()
	r.store.products[p.ID] = cur
	*p = cur
	return nil
}

// List devuelve los productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Delete elimina el producto. Los movimientos que lo referencian se conservan.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.products, id)
	return nil
}

// ApplyMovement suma delta a la existencia y, si aplica, reemplaza el costo.
func (r *ProductRepo) ApplyMovement(ctx context.Context, id string, delta int64, newCost *decimal.Decimal) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	p, ok := r.store.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity += delta
	if newCost != nil {
		p.Cost = *newCost
	}
	p.UpdatedAt = r.store.timestamp()
	r.store.products[id] = p
	return nil
}
