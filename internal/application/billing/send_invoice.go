package billing

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
)

// ErrMailerDisabled indica que no hay proveedor de correo configurado.
var ErrMailerDisabled = errors.New("envío de correo no configurado")

// SendInvoiceUseCase envía una factura por correo. Nunca modifica la factura ni el inventario.
type SendInvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	settings    StoreSettingsProvider
	builder     *InvoiceDocumentBuilder
	mailer      InvoiceMailer
	log         *logger.Logger
}

// NewSendInvoiceUseCase construye el caso de uso.
func NewSendInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	settings StoreSettingsProvider,
	builder *InvoiceDocumentBuilder,
	mailer InvoiceMailer,
	log *logger.Logger,
) *SendInvoiceUseCase {
	return &SendInvoiceUseCase{
		invoiceRepo: invoiceRepo,
		settings:    settings,
		builder:     builder,
		mailer:      mailer,
		log:         logger.OrNop(log).Named("mail"),
	}
}

// Send arma el documento y lo envía a to; si to está vacío usa el correo del cliente.
// Devuelve el destinatario efectivo.
func (uc *SendInvoiceUseCase) Send(ctx context.Context, invoiceID, to string) (string, error) {
	if uc.mailer == nil {
		return "", ErrMailerDisabled
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return "", fmt.Errorf("enviar factura: %w", err)
	}
	if inv == nil {
		return "", domain.ErrNotFound
	}

	to = strings.TrimSpace(to)
	if to == "" {
		to = inv.CustomerEmail
	}
	if to == "" {
		return "", fmt.Errorf("%w: la factura no tiene correo de cliente", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return "", fmt.Errorf("%w: correo %q inválido", domain.ErrInvalidInput, to)
	}

	subject, html, err := uc.Render(ctx, inv)
	if err != nil {
		return "", err
	}
	if err := uc.mailer.Send(ctx, to, subject, html); err != nil {
		uc.log.Error().Err(err).Str("invoice_id", inv.ID).Str("to", to).Msg("envío de factura fallido")
		return "", fmt.Errorf("enviar factura: %w", err)
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("to", to).Msg("factura enviada")
	return to, nil
}

// Render devuelve asunto y HTML de la factura con la identidad actual de la tienda.
func (uc *SendInvoiceUseCase) Render(ctx context.Context, inv *entity.Invoice) (subject, html string, err error) {
	store, err := uc.settings.Get(ctx)
	if err != nil {
		return "", "", fmt.Errorf("configuración de tienda: %w", err)
	}
	return uc.builder.Build(inv, store)
}

// RenderByID busca la factura y devuelve su HTML (vista de impresión).
func (uc *SendInvoiceUseCase) RenderByID(ctx context.Context, invoiceID string) (string, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return "", fmt.Errorf("imprimir factura: %w", err)
	}
	if inv == nil {
		return "", domain.ErrNotFound
	}
	_, html, err := uc.Render(ctx, inv)
	return html, err
}
