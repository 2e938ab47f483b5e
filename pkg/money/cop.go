// Package money formatea montos en pesos colombianos.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCOP formatea un monto como "$ 1.234.567": sin decimales (redondeo mitad alejándose de cero)
// y puntos de miles.
func FormatCOP(d decimal.Decimal) string {
	r := d.Round(0)
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Neg()
	}
	return sign + "$ " + groupThousands(r.StringFixed(0))
}

// FormatUnits formatea un entero con puntos de miles.
func FormatUnits(n int64) string {
	s := decimal.NewFromInt(n).String()
	if strings.HasPrefix(s, "-") {
		return "-" + groupThousands(s[1:])
	}
	return groupThousands(s)
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
