package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numeros = message.NewPrinter(language.MustParse("es-MX"))

// Moneda formatea un importe en pesos: $12,500.00 MXN.
func Moneda(v float64) string {
	return numeros.Sprintf("$%.2f MXN", v)
}

// Numero formatea con separador de miles.
func Numero(v any) string {
	return numeros.Sprintf("%v", v)
}
