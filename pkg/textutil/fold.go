// Package textutil normaliza texto para búsquedas sin distinguir tildes ni mayúsculas.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold quita tildes y diacríticos (ñ → n) y pliega mayúsculas: "Piñatería" → "pinateria".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// Contains indica si needle aparece en haystack ignorando tildes y mayúsculas. needle vacío siempre coincide.
func Contains(haystack, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Title capitaliza cada palabra según reglas del español ("globos de látex" → "Globos De Látex").
func Title(s string) string {
	return cases.Title(language.Spanish).String(strings.TrimSpace(s))
}
