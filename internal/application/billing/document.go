package billing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/pkg/money"
)

// InvoiceDocumentBuilder arma el asunto y el HTML autocontenido de una factura (correo e impresión).
type InvoiceDocumentBuilder struct {
	tmpl *template.Template
	loc  *time.Location
}

// NewInvoiceDocumentBuilder construye el builder. loc nil usa UTC.
func NewInvoiceDocumentBuilder(loc *time.Location) *InvoiceDocumentBuilder {
	if loc == nil {
		loc = time.UTC
	}
	return &InvoiceDocumentBuilder{tmpl: invoiceTemplate, loc: loc}
}

// InvoiceTitle "Factura N° 000123", o "Factura <id>" si la factura no tiene consecutivo.
func InvoiceTitle(inv *entity.Invoice) string {
	if inv.Number != nil {
		return fmt.Sprintf("Factura N° %06d", *inv.Number)
	}
	return "Factura " + inv.ID
}

// Subject asunto del correo: "Factura N° 000123 - <tienda>".
func Subject(inv *entity.Invoice, store entity.StoreSettings) string {
	return InvoiceTitle(inv) + " - " + store.Name
}

// Build devuelve asunto y HTML de la factura.
func (b *InvoiceDocumentBuilder) Build(inv *entity.Invoice, store entity.StoreSettings) (subject, html string, err error) {
	data := documentData{
		Title:    InvoiceTitle(inv),
		Store:    store,
		Date:     inv.CreatedAt.In(b.loc).Format("02/01/2006 15:04"),
		Customer: inv.CustomerName,
		Document: inv.CustomerDocument,
		Seller:   inv.UserEmail,
		Subtotal: money.FormatCOP(inv.Subtotal),
		Total:    money.FormatCOP(inv.Total),
		Notes:    inv.Notes,
	}
	for _, it := range inv.Items {
		data.Rows = append(data.Rows, documentRow{
			Product:  it.ProductName,
			SaleType: SaleTypeLabel(it.SaleType),
			Units:    money.FormatUnits(it.Units),
			Price:    money.FormatCOP(it.Price),
			Total:    money.FormatCOP(it.LineTotal()),
		})
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("renderizar factura: %w", err)
	}
	return Subject(inv, store), buf.String(), nil
}

// SaleTypeLabel etiqueta legible del canal de venta.
func SaleTypeLabel(saleType string) string {
	if saleType == entity.SaleTypeMayor {
		return "Mayor"
	}
	return "Detal"
}

type documentRow struct {
	Product  string
	SaleType string
	Units    string
	Price    string
	Total    string
}

type documentData struct {
	Title    string
	Store    entity.StoreSettings
	Date     string
	Customer string
	Document string
	Seller   string
	Rows     []documentRow
	Subtotal string
	Total    string
	Notes    string
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!doctype html>
<html><head><meta charset="utf-8"/>
<title>{{.Title}}</title>
<style>
  body{font-family: -apple-system, BlinkMacSystemFont, Segoe UI, Roboto, Helvetica, Arial, sans-serif; padding:24px;}
  h2{margin:0 0 12px}
  table{width:100%; border-collapse: collapse; font-size:12px}
  th,td{border:1px solid #e5e7eb; padding:6px}
  th{background:#f9fafb; text-align:left}
  tfoot td{font-weight:600}
  .header{display:flex; align-items:center; gap:16px; margin-bottom:12px}
  .brand{display:flex; flex-direction:column}
  .muted{color:#6b7280}
  .num{text-align:right}
</style></head>
<body>
  <div class="header">
    {{- if .Store.Logo}}
    <img src="{{.Store.Logo}}" alt="logo" style="height:64px; width:auto; object-fit:contain"/>
    {{- end}}
    <div class="brand">
      <div style="font-size:18px; font-weight:700;">{{.Store.Name}}</div>
      {{- if or .Store.NIT .Store.Address .Store.Phone}}
      <div class="muted" style="font-size:12px;">
        {{- if .Store.NIT}}NIT: {{.Store.NIT}} · {{end}}{{.Store.Address}}{{if .Store.Phone}} · Tel: {{.Store.Phone}}{{end -}}
      </div>
      {{- end}}
    </div>
  </div>

  <h2>{{.Title}}</h2>
  <div style="margin-bottom:10px;">
    <div><strong>Fecha:</strong> {{.Date}}</div>
    <div><strong>Cliente:</strong> {{.Customer}} &nbsp; · &nbsp; <strong>Documento:</strong> {{.Document}}</div>
    <div><strong>Vendedor:</strong> {{.Seller}}</div>
  </div>
  <table>
    <thead>
      <tr><th>Producto</th><th>Venta</th><th>Unidades</th><th>Precio</th><th>Total</th></tr>
    </thead>
    <tbody>
    {{- range .Rows}}
      <tr><td>{{.Product}}</td><td>{{.SaleType}}</td><td class="num">{{.Units}}</td><td class="num">{{.Price}}</td><td class="num">{{.Total}}</td></tr>
    {{- end}}
    </tbody>
    <tfoot>
      <tr><td colspan="4" class="num">Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
      <tr><td colspan="4" class="num">Total</td><td class="num">{{.Total}}</td></tr>
    </tfoot>
  </table>
  {{- if .Notes}}
  <div style="margin-top:10px;"><strong>Observaciones:</strong> {{.Notes}}</div>
  {{- end}}
</body></html>
`))
