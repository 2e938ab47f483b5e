package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/pkg/textutil"
)

// Columnas del CSV de catálogo (separado por ';', como lo exporta Excel en español):
// nombre;categoria;precio;costo;cantidad;proveedor;descripcion
const minColumns = 5

// parseCatalog lee el catálogo. latin1 decodifica Windows-1252 (CSV guardado desde Excel).
// La primera fila se toma como encabezado si su columna de precio no es numérica.
func parseCatalog(r io.Reader, latin1 bool) ([]dto.CreateProductRequest, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []dto.CreateProductRequest
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < minColumns || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		price, err := parseMoney(rec[2])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[2], err)
		}
		cost, err := parseMoney(rec[3])
		if err != nil {
			return nil, fmt.Errorf("línea %d: costo %q: %w", line, rec[3], err)
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(rec[4]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("línea %d: cantidad %q: %w", line, rec[4], err)
		}
		p := dto.CreateProductRequest{
			Name:     strings.TrimSpace(rec[0]),
			Category: textutil.Title(rec[1]),
			Price:    price,
			Cost:     cost,
			Quantity: qty,
		}
		if len(rec) > 5 {
			p.Supplier = strings.TrimSpace(rec[5])
		}
		if len(rec) > 6 {
			p.Description = strings.TrimSpace(rec[6])
		}
		out = append(out, p)
	}
	return out, nil
}

// parseMoney acepta "$ 45.000", "45000" y "1.234,50" (punto de miles, coma decimal).
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// sampleCatalog catálogo de ejemplo cuando no se indica archivo.
func sampleCatalog() []dto.CreateProductRequest {
	return []dto.CreateProductRequest{
		{Name: "Piñata Unicornio", Category: "Piñatas", Price: decimal.NewFromInt(45000), Cost: decimal.NewFromInt(28000), Quantity: 8, Supplier: "Taller Bogotá"},
		{Name: "Piñata Superhéroe", Category: "Piñatas", Price: decimal.NewFromInt(48000), Cost: decimal.NewFromInt(30000), Quantity: 5, Supplier: "Taller Bogotá"},
		{Name: "Globos Látex x50", Category: "Globos", Price: decimal.NewFromInt(12000), Cost: decimal.NewFromInt(6500), Quantity: 40, Supplier: "Distribuidora Fiesta"},
		{Name: "Velas de Cumpleaños", Category: "Decoración", Price: decimal.NewFromInt(3500), Cost: decimal.NewFromInt(1500), Quantity: 60, Supplier: "Distribuidora Fiesta"},
		{Name: "Bolsa de Dulces", Category: "Dulcería", Price: decimal.NewFromInt(8000), Cost: decimal.NewFromInt(4200), Quantity: 3},
	}
}
