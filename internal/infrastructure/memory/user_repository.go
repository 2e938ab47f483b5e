package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria indexados por ID. El email es único sin distinguir mayúsculas.
type UserRepo struct {
	store *Store
}

// NewUserRepository construye el repositorio sobre el Store.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// Create guarda el usuario. Devuelve domain.ErrConflict si el email ya existe.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	for _, existing := range r.store.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrConflict
		}
	}
	r.store.users[u.ID] = *u
	return nil
}

// GetByID devuelve el usuario o (nil, nil).
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByEmail devuelve el usuario o (nil, nil).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

// List devuelve los usuarios ordenados por email.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	r.store.rlock(ctx)
	defer r.store.runlock(ctx)
	out := make([]*entity.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		cp := u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// Update reemplaza el usuario.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	r.store.wlock(ctx)
	defer r.store.wunlock(ctx)
	if _, ok := r.store.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.store.users[u.ID] = *u
	return nil
}
