package csvimport

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseNumber interpreta un número de un export de broker.
// Quita separadores de miles (espacios, NBSP, apóstrofo) y comillas. Con punto
// y coma a la vez, la coma es separador de miles; con solo coma, es decimal.
// Si no se puede interpretar devuelve 0.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "'", "", "\"", "").Replace(s)
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// fieldAt devuelve el campo i o "" si la fila es más corta.
func fieldAt(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
