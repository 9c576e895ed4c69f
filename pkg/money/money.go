// Package money formatea importes en Rupiah para comprobantes y reportes.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// Format devuelve el importe redondeado a Rupiah entera con separador de miles local,
// ej: 55000 -> "55.000".
func Format(d decimal.Decimal) string {
	return printer.Sprintf("%d", d.Round(0).IntPart())
}

// Rupiah igual que Format con el prefijo "Rp ".
func Rupiah(d decimal.Decimal) string {
	return "Rp " + Format(d)
}
