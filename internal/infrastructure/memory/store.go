package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// Store almacén en memoria compartido por todos los repositorios del paquete.
// Los repositorios son vistas tipadas sobre el mismo Store; TxRunner toma el candado
// de escritura y marca el contexto para que las llamadas internas no lo vuelvan a tomar.
type Store struct {
	mu        sync.RWMutex
	products  map[string]entity.Product
	movements []entity.StockMovement
	invoices  map[string]entity.Invoice
	counters  map[string]int64
	users     map[string]entity.User
	settings  *entity.StoreSettings
	lastTS    time.Time
	now       func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		invoices: make(map[string]entity.Invoice),
		counters: make(map[string]int64),
		users:    make(map[string]entity.User),
		now:      time.Now,
	}
}

type txKey struct{}

func withTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, true)
}

func inTx(ctx context.Context) bool {
	v, ok := ctx.Value(txKey{}).(bool)
	return ok && v
}

func (s *Store) rlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.RLock()
	}
}

func (s *Store) runlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.RUnlock()
	}
}

func (s *Store) wlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.Lock()
	}
}

func (s *Store) wunlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.Unlock()
	}
}

// timestamp devuelve una marca de tiempo estrictamente creciente. Requiere el candado de escritura.
func (s *Store) timestamp() time.Time {
	t := s.now().UTC()
	if !t.After(s.lastTS) {
		t = s.lastTS.Add(time.Microsecond)
	}
	s.lastTS = t
	return t
}

// SetClock reemplaza el reloj del almacén (seed histórico y tests).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
