package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizarCorreo quita espacios y pasa a minúsculas.
func NormalizarCorreo(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizarTelefono deja solo dígitos y conserva los últimos 10, que es el
// número nacional en México (quita +52, 044, etc).
func NormalizarTelefono(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	d := b.String()
	if len(d) > 10 {
		d = d[len(d)-10:]
	}
	return d
}

var noSlug = regexp.MustCompile(`[^a-z0-9]+`)

// SinAcentos quita diacríticos: "Núñez" -> "Nunez".
func SinAcentos(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug convierte un título en un identificador de URL.
func Slug(titulo string) string {
	s := SinAcentos(strings.ToLower(strings.TrimSpace(titulo)))
	s = noSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
