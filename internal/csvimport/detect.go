package csvimport

import (
	"strings"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// headerScanLines es cuántas líneas se inspeccionan buscando la cabecera.
// Los reportes de MT5 traen antes nombre, cuenta, empresa y fecha.
const headerScanLines = 10

var headerKeywords = []string{"ticket", "deal", "time", "type", "symbol", "price"}

// Detection es el resultado de inspeccionar la cabecera de un reporte.
type Detection struct {
	Format      domain.ReportFormat
	HeaderIndex int      // índice (0-based) de la línea de cabecera
	Header      []string // vacío si no se encontró cabecera
	Columns     ColumnMap
}

// DataStart devuelve el índice de la primera línea de datos.
func (d Detection) DataStart() int {
	if len(d.Header) == 0 {
		return d.HeaderIndex
	}
	return d.HeaderIndex + 1
}

// DetectFormat busca la cabecera en las primeras líneas y clasifica el reporte.
// Si no hay cabecera, devuelve HeaderIndex 0 y cabecera vacía: los parsers
// fuzzy rechazarán entonces todas las filas.
func DetectFormat(lines []string) Detection {
	limit := min(len(lines), headerScanLines)
	for i := 0; i < limit; i++ {
		lower := strings.ToLower(lines[i])
		if containsAny(lower, headerKeywords...) {
			header := SplitLine(lines[i])
			format, cols := ClassifyHeader(header)
			return Detection{Format: format, HeaderIndex: i, Header: header, Columns: cols}
		}
	}
	return Detection{Format: domain.FormatGeneric, Columns: unresolvedColumns()}
}

// ClassifyHeader es la parte pura de la detección: de los nombres de columna
// deriva el formato y el mapeo de columnas. Prioridad: la primera regla que aplica.
func ClassifyHeader(header []string) (domain.ReportFormat, ColumnMap) {
	joined := strings.ToLower(strings.Join(header, ","))

	var format domain.ReportFormat
	switch {
	case strings.Contains(joined, "ticket") && strings.Contains(joined, "open time"):
		format = domain.FormatDetailedStatement
	case strings.Contains(joined, "deal") && strings.Contains(joined, "time"):
		format = domain.FormatAccountHistory
	case containsAny(joined, "ticket", "time", "type"):
		format = domain.FormatReportHistory
	default:
		format = domain.FormatGeneric
	}
	return format, MapColumns(header)
}

// ColumnMap indica el índice de cada campo semántico; -1 si no existe.
type ColumnMap struct {
	Ticket     int
	OpenTime   int
	CloseTime  int
	Type       int
	Symbol     int
	Volume     int
	OpenPrice  int
	ClosePrice int
	StopLoss   int
	TakeProfit int
	Commission int
	Swap       int
	Profit     int
	Comment    int
}

// Resolved devuelve true si están todas las columnas obligatorias.
func (c ColumnMap) Resolved() bool {
	return c.Ticket >= 0 && c.OpenTime >= 0 && c.Type >= 0 && c.Symbol >= 0
}

func unresolvedColumns() ColumnMap {
	return ColumnMap{
		Ticket: -1, OpenTime: -1, CloseTime: -1, Type: -1, Symbol: -1,
		Volume: -1, OpenPrice: -1, ClosePrice: -1, StopLoss: -1, TakeProfit: -1,
		Commission: -1, Swap: -1, Profit: -1, Comment: -1,
	}
}

// MapColumns resuelve las columnas por nombre: para cada campo gana la primera
// columna que contiene alguna de sus palabras clave. Los campos que aparecen
// dos veces (hora y precio de apertura/cierre) buscan la segunda aparición
// solo a partir de la columna siguiente a la primera.
func MapColumns(header []string) ColumnMap {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	c := unresolvedColumns()
	c.Ticket = findColumn(lower, 0, "ticket", "deal", "order", "position")
	c.OpenTime = findColumn(lower, 0, "time")
	if c.OpenTime >= 0 {
		c.CloseTime = findColumn(lower, c.OpenTime+1, "time")
	}
	c.Type = findColumn(lower, 0, "type")
	c.Symbol = findColumn(lower, 0, "symbol", "item", "instrument")
	c.Volume = findColumn(lower, 0, "volume", "size", "lots")
	c.OpenPrice = findColumn(lower, 0, "price")
	if c.OpenPrice >= 0 {
		c.ClosePrice = findColumn(lower, c.OpenPrice+1, "price")
	}
	c.StopLoss = findNamed(lower, []string{"sl"}, "s/l", "s / l", "stop loss")
	c.TakeProfit = findNamed(lower, []string{"tp"}, "t/p", "t / p", "take profit")
	c.Commission = findColumn(lower, 0, "commission")
	c.Swap = findColumn(lower, 0, "swap")
	c.Profit = findColumn(lower, 0, "profit")
	c.Comment = findColumn(lower, 0, "comment")

	// "Take Profit" contiene "profit": preferir una columna de profit distinta.
	if c.Profit >= 0 && c.Profit == c.TakeProfit {
		if next := findColumn(lower, c.Profit+1, "profit"); next >= 0 {
			c.Profit = next
		}
	}
	return c
}

func findColumn(lower []string, from int, keywords ...string) int {
	for i := from; i < len(lower); i++ {
		if containsAny(lower[i], keywords...) {
			return i
		}
	}
	return -1
}

// findNamed es como findColumn pero las abreviaturas ("sl", "tp") solo valen
// como nombre exacto de columna.
func findNamed(lower []string, exact []string, keywords ...string) int {
	for i, name := range lower {
		for _, e := range exact {
			if name == e {
				return i
			}
		}
		if containsAny(name, keywords...) {
			return i
		}
	}
	return -1
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
