package inventory

import "github.com/shopspring/decimal"

var half = decimal.NewFromFloat(0.5)

// WeightedAverageCost implementa el costo promedio ponderado (servicio de dominio).
// NuevoCosto = redondeo((StockActual * CostoActual + CantEntrada * CostoEntrada) / (StockActual + CantEntrada))
// El redondeo es al entero, mitad hacia arriba. Devuelve (costoActual, false) cuando no aplica recálculo:
// costo de entrada ausente o no positivo, o StockActual + CantEntrada == 0.
func WeightedAverageCost(stockActual int64, costoActual decimal.Decimal, cantEntrada int64, costoEntrada *decimal.Decimal) (decimal.Decimal, bool) {
	if costoEntrada == nil || !costoEntrada.IsPositive() {
		return costoActual, false
	}
	sum := stockActual + cantEntrada
	if sum == 0 {
		return costoActual, false
	}
	num := decimal.NewFromInt(stockActual).Mul(costoActual).
		Add(decimal.NewFromInt(cantEntrada).Mul(*costoEntrada))
	return RoundHalfUp(num.Div(decimal.NewFromInt(sum))), true
}

// RoundHalfUp redondea al entero más cercano; .5 sube (floor(x + 0.5)).
func RoundHalfUp(x decimal.Decimal) decimal.Decimal {
	return x.Add(half).Floor()
}
