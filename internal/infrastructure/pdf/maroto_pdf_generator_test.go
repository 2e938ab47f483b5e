package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/pdf"
)

func TestGenerateInvoicePDF(t *testing.T) {
	n := int64(7)
	inv := &entity.Invoice{
		ID:           "inv-7",
		Number:       &n,
		CustomerName: "Ana",
		Items: []entity.InvoiceItem{
			{ProductID: "a", ProductName: "Piñata", SaleType: "detal", Price: decimal.NewFromInt(45000), Units: 1},
			{ProductID: "b", ProductName: "Bombas", SaleType: "mayor", Price: decimal.NewFromInt(300), Units: 50},
		},
		Subtotal:  decimal.NewFromInt(60000),
		Total:     decimal.NewFromInt(60000),
		Notes:     "Sin observaciones",
		CreatedAt: time.Now(),
	}

	data, err := pdf.NewMarotoPDFGenerator(nil).GenerateInvoicePDF(context.Background(), inv, entity.DefaultStoreSettings())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerateInvoicePDF_SinConsecutivoNiCliente(t *testing.T) {
	inv := &entity.Invoice{ID: "legacy", Items: []entity.InvoiceItem{
		{ProductID: "a", ProductName: "Vela", Price: decimal.NewFromInt(1000), Units: 2},
	}}
	data, err := pdf.NewMarotoPDFGenerator(time.UTC).GenerateInvoicePDF(context.Background(), inv, entity.StoreSettings{Name: "Tienda"})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
