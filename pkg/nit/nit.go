// Package nit calcula y valida el dígito de verificación del NIT colombiano (módulo 11).
package nit

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidDigit el dígito de verificación no corresponde al NIT.
var ErrInvalidDigit = errors.New("dígito de verificación del NIT inválido")

// pesos aplicados a los 9 dígitos del NIT, de izquierda a derecha.
var weights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// VerificationDigit calcula el dígito de verificación para un NIT de 9 dígitos (acepta puntos y espacios).
func VerificationDigit(base string) (byte, error) {
	digits := extractDigits(base)
	if len(digits) != 9 {
		return 0, fmt.Errorf("nit: se requieren 9 dígitos, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits {
		sum += int(d-'0') * weights[i]
	}
	r := sum % 11
	if r == 0 || r == 1 {
		return byte('0' + r), nil
	}
	return byte('0' + (11 - r)), nil
}

// Normalize deja el NIT como "900123456-8".
//   - 9 dígitos sin guion: agrega el dígito de verificación.
//   - con guion: valida el dígito si la base tiene 9 dígitos.
//   - cualquier otro valor (cédulas, vacío) se devuelve recortado sin cambios.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	base, dv, hasDV := strings.Cut(s, "-")
	if !numeric(base) {
		return s, nil
	}
	expected, err := VerificationDigit(base)
	if err != nil {
		return s, nil
	}
	if hasDV {
		got := strings.TrimSpace(dv)
		if len(got) != 1 || got[0] != expected {
			return "", fmt.Errorf("%w: esperado %c, recibido %q", ErrInvalidDigit, expected, got)
		}
	}
	return string(extractDigits(base)) + "-" + string(expected), nil
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}

// numeric indica si s solo tiene dígitos y separadores de miles.
func numeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ' ' {
			return false
		}
	}
	return strings.TrimSpace(s) != ""
}
