package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/jhoicas/inventario-facturacion/pkg/money"
)

var printTmpl = template.Must(template.New("sales").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Reporte de ventas</title>
<style>
body{font-family:Arial,Helvetica,sans-serif;font-size:12px;color:#222;margin:24px}
table{width:100%;border-collapse:collapse;margin-top:12px}
th,td{border-bottom:1px solid #ddd;padding:6px 8px;text-align:left}
th{background:#f4f4f4}
td.num,th.num{text-align:right}
.totals td{font-weight:bold}
@media print{body{margin:0}}
</style>
</head>
<body>
<h2>Reporte de ventas</h2>
<p>{{.Range}} · Generado {{.Generated}}</p>
<table>
<thead><tr><th>Fecha</th><th>Producto</th><th>Venta</th><th class="num">Unidades</th><th class="num">Precio</th><th class="num">Total</th><th>Vendedor</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Date}}</td><td>{{.Product}}</td><td>{{.SaleType}}</td><td class="num">{{.Units}}</td><td class="num">{{.Price}}</td><td class="num">{{.Total}}</td><td>{{.Seller}}</td></tr>
{{- else}}
<tr><td colspan="7">Sin ventas para los filtros seleccionados</td></tr>
{{- end}}
</tbody>
<tfoot>
<tr class="totals"><td colspan="3">{{.Count}} ventas</td><td class="num">{{.Units}}</td><td></td><td class="num">{{.Total}}</td><td></td></tr>
<tr><td colspan="5">Detal</td><td class="num">{{.Detal}}</td><td></td></tr>
<tr><td colspan="5">Mayor</td><td class="num">{{.Mayor}}</td><td></td></tr>
</tfoot>
</table>
</body>
</html>`))

type printView struct {
	Range     string
	Generated string
	Rows      []SaleRow
	Count     int
	Units     string
	Total     string
	Detal     string
	Mayor     string
}

// RenderPrint arma la vista imprimible del reporte con montos en pesos.
func RenderPrint(rep *SalesReport, f SalesFilter, loc *time.Location, now time.Time) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	rows := make([]SaleRow, 0, len(rep.Sales))
	for _, s := range rep.Sales {
		rows = append(rows, SaleRow{
			Date:     s.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			Product:  s.ProductName,
			SaleType: channelLabel(s.SaleType),
			Units:    money.FormatUnits(s.Units),
			Price:    money.FormatCOP(s.Price),
			Total:    money.FormatCOP(s.Total),
			Seller:   s.Seller,
		})
	}
	view := printView{
		Range:     rangeLabel(f),
		Generated: now.In(loc).Format("2006-01-02 15:04"),
		Rows:      rows,
		Count:     rep.Totals.Count,
		Units:     money.FormatUnits(rep.Totals.Units),
		Total:     money.FormatCOP(rep.Totals.Total),
		Detal:     money.FormatCOP(rep.Totals.Detal),
		Mayor:     money.FormatCOP(rep.Totals.Mayor),
	}
	var buf bytes.Buffer
	if err := printTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("reporte imprimible: %w", err)
	}
	return buf.String(), nil
}

func rangeLabel(f SalesFilter) string {
	switch {
	case f.From.IsZero() && f.To.IsZero():
		return "Todas las fechas"
	case f.To.IsZero():
		return "Desde " + f.From.Format(DateLayout)
	case f.From.IsZero():
		return "Hasta " + f.To.Format(DateLayout)
	default:
		return f.From.Format(DateLayout) + " a " + f.To.Format(DateLayout)
	}
}
