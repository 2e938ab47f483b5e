package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
)

// InvoiceCounterName nombre del contador de consecutivos de factura.
const InvoiceCounterName = "invoices"

const (
	defaultMaxAttempts = 5
	defaultBackoff     = 20 * time.Millisecond
)

// InvoiceNumberAllocator entrega consecutivos 1, 2, 3... sin duplicados aun con llamadas concurrentes.
// Puede haber huecos si una factura falla después de reservar su número.
type InvoiceNumberAllocator struct {
	counters    repository.CounterRepository
	maxAttempts int
	backoff     time.Duration
	log         *logger.Logger
}

// NewInvoiceNumberAllocator construye el asignador. maxAttempts <= 0 usa 5; backoff <= 0 usa 20ms.
func NewInvoiceNumberAllocator(counters repository.CounterRepository, maxAttempts int, backoff time.Duration, log *logger.Logger) *InvoiceNumberAllocator {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &InvoiceNumberAllocator{
		counters:    counters,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		log:         logger.OrNop(log).Named("sequence"),
	}
}

// Next incrementa el contador de facturas. Los conflictos de concurrencia se reintentan con espera lineal;
// cualquier otra falla, o agotar los intentos, devuelve domain.ErrStorageUnavailable.
func (a *InvoiceNumberAllocator) Next(ctx context.Context) (int64, error) {
	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		n, err := a.counters.Increment(ctx, InvoiceCounterName)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return 0, fmt.Errorf("%w: consecutivo de factura: %w", domain.ErrStorageUnavailable, err)
		}
		lastErr = err
		if attempt == a.maxAttempts {
			break
		}
		a.log.Warn().Err(err).Int("attempt", attempt).Msg("conflicto asignando consecutivo, reintentando")

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("%w: consecutivo de factura: %w", domain.ErrStorageUnavailable, ctx.Err())
		case <-time.After(a.backoff * time.Duration(attempt)):
		}
	}
	return 0, fmt.Errorf("%w: consecutivo de factura tras %d intentos: %w", domain.ErrStorageUnavailable, a.maxAttempts, lastErr)
}
