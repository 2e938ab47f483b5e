package billing

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
)

// MovementRecorder integra facturación con el kardex. Lo implementa inventory.RegisterMovementUseCase.
type MovementRecorder interface {
	Record(ctx context.Context, in inventory.MovementInput) (string, error)
}

// NumberAllocator entrega consecutivos de factura únicos.
type NumberAllocator interface {
	Next(ctx context.Context) (int64, error)
}

// StoreSettingsProvider entrega la identidad de la tienda (con valores por defecto si no hay configuración).
type StoreSettingsProvider interface {
	Get(ctx context.Context) (entity.StoreSettings, error)
}

// InvoiceMailer envía un correo HTML a un destinatario.
type InvoiceMailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, store entity.StoreSettings) ([]byte, error)
}
