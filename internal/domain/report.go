package domain

import (
	"strings"
	"time"
)

// ReportFormat identifica el layout de un export de MT5.
// Se determina una sola vez por importación y aplica a todas las filas.
type ReportFormat int

const (
	FormatGeneric ReportFormat = iota
	FormatDetailedStatement
	FormatAccountHistory
	FormatReportHistory
)

func (f ReportFormat) String() string {
	switch f {
	case FormatDetailedStatement:
		return "detailed_statement"
	case FormatAccountHistory:
		return "account_history"
	case FormatReportHistory:
		return "report_history"
	default:
		return "generic"
	}
}

// Positional devuelve true para los formatos con columnas fijas.
func (f ReportFormat) Positional() bool {
	return f == FormatDetailedStatement || f == FormatAccountHistory
}

// Side es la dirección de una operación importada.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// SideFromType interpreta el texto "type" del broker.
// Cualquier valor que no contenga "buy" se toma como venta (incluye buy_limit → BUY,
// pero también "balance" o "credit" → SELL).
func SideFromType(raw string) Side {
	if strings.Contains(strings.ToLower(raw), "buy") {
		return SideBuy
	}
	return SideSell
}

// ParsedTradeRow es la fila intermedia entre el CSV y el Trade persistido.
// Nunca se persiste: vive lo que dura una importación.
type ParsedTradeRow struct {
	Line       int // línea 1-based dentro del archivo
	TicketID   string
	OpenTime   time.Time // zero si la fecha no se pudo interpretar
	CloseTime  time.Time
	Side       Side
	RawType    string
	Symbol     string
	Volume     float64
	OpenPrice  float64
	StopLoss   float64
	TakeProfit float64
	ClosePrice float64
	Profit     float64
	Commission float64
	Swap       float64
	Comment    string
}
