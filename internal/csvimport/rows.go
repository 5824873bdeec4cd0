package csvimport

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

const (
	detailedColumns = 13 // Ticket … Profit
	historyColumns  = 12 // Time … Profit
)

// summaryMarkers identifican filas de pie de reporte (totales, métricas).
// Esas filas se descartan sin error.
var summaryMarkers = []string{
	"total", "profit", "drawdown", "sharpe", "balance", "equity", "deposit",
	"withdrawal", "expected payoff", "recovery factor", "gross", "results", "summary",
}

// sectionTitles cierran la primera tabla de un statement de MT5.
var sectionTitles = map[string]bool{
	"orders":           true,
	"deals":            true,
	"positions":        true,
	"open positions":   true,
	"closed positions": true,
	"working orders":   true,
	"results":          true,
	"summary":          true,
}

var errUnmappedLine = errors.New("line does not map to a trade row")

// ParseOutcome es el resultado de recorrer las líneas de datos.
type ParseOutcome struct {
	Rows      []domain.ParsedTradeRow
	DataLines int               // líneas no vacías consideradas
	Skipped   int               // líneas que no produjeron fila
	Skips     []domain.RowError // una por línea descartada, Kind ErrParseSkip
}

// ParseRows aplica el parser del formato detectado a cada línea de datos.
// Las líneas que no se pueden mapear se registran en debug y se descartan.
func ParseRows(lines []string, det Detection, loc *time.Location) ParseOutcome {
	var out ParseOutcome
	for i := det.DataStart(); i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		fields := SplitLine(line)

		if det.Format.Positional() && isSectionTitle(fields) {
			slog.Debug("section break, stopping", "line", i+1, "title", fields[0])
			break
		}
		if isBlankRecord(fields) {
			continue
		}
		out.DataLines++

		row, ok := parseRow(fields, det, loc)
		if !ok {
			skip := domain.RowError{Kind: domain.ErrParseSkip, Line: i + 1, Err: errUnmappedLine}
			out.Skipped++
			out.Skips = append(out.Skips, skip)
			slog.Debug("row skipped", "line", i+1, "format", det.Format.String(), "err", skip)
			continue
		}
		row.Line = i + 1
		out.Rows = append(out.Rows, row)
	}
	return out
}

func parseRow(fields []string, det Detection, loc *time.Location) (domain.ParsedTradeRow, bool) {
	switch det.Format {
	case domain.FormatDetailedStatement:
		return parseDetailedStatement(fields, det.Header, loc)
	case domain.FormatAccountHistory:
		return parseAccountHistory(fields, det.Header, loc)
	default:
		return parseByHeader(fields, det.Header, det.Columns, loc)
	}
}

// parseDetailedStatement mapea la tabla Positions del statement detallado:
// Ticket, Open Time, Type, Volume, Symbol, Price, S/L, T/P, Close Time, Price,
// Commission, Swap, Profit[, Comment].
func parseDetailedStatement(f, header []string, loc *time.Location) (domain.ParsedTradeRow, bool) {
	if len(f) < detailedColumns {
		return domain.ParsedTradeRow{}, false
	}
	ticket, openTime, typ, symbol := fieldAt(f, 0), fieldAt(f, 1), fieldAt(f, 2), fieldAt(f, 4)
	if ticket == "" || openTime == "" || typ == "" || symbol == "" || isSummaryRow(ticket) {
		return domain.ParsedTradeRow{}, false
	}
	if isRepeatedHeader(f, header, 0, 1, 2) {
		return domain.ParsedTradeRow{}, false
	}

	openPrice := parseNumber(fieldAt(f, 5))
	closePrice := openPrice
	if v := fieldAt(f, 9); v != "" {
		closePrice = parseNumber(v)
	}
	return domain.ParsedTradeRow{
		TicketID:   ticket,
		OpenTime:   ParseBrokerTime(openTime, loc),
		CloseTime:  ParseBrokerTime(fieldAt(f, 8), loc),
		Side:       domain.SideFromType(typ),
		RawType:    typ,
		Symbol:     symbol,
		Volume:     parseNumber(fieldAt(f, 3)),
		OpenPrice:  openPrice,
		StopLoss:   parseNumber(fieldAt(f, 6)),
		TakeProfit: parseNumber(fieldAt(f, 7)),
		ClosePrice: closePrice,
		Commission: parseNumber(fieldAt(f, 10)),
		Swap:       parseNumber(fieldAt(f, 11)),
		Profit:     parseNumber(fieldAt(f, 12)),
		Comment:    fieldAt(f, 13),
	}, true
}

// parseAccountHistory mapea la tabla Deals del historial de cuenta:
// Time, Deal, Symbol, Type, Direction, Volume, Price, Order, Commission, Fee,
// Swap, Profit[, Balance, Comment]. Un deal no tiene cierre propio: la hora y el
// precio de cierre son los del propio deal.
func parseAccountHistory(f, header []string, loc *time.Location) (domain.ParsedTradeRow, bool) {
	if len(f) < historyColumns {
		return domain.ParsedTradeRow{}, false
	}
	openTime, ticket, symbol, typ := fieldAt(f, 0), fieldAt(f, 1), fieldAt(f, 2), fieldAt(f, 3)
	if ticket == "" || openTime == "" || typ == "" || symbol == "" || isSummaryRow(ticket) {
		return domain.ParsedTradeRow{}, false
	}
	if isRepeatedHeader(f, header, 1, 0, 3) {
		return domain.ParsedTradeRow{}, false
	}

	at := ParseBrokerTime(openTime, loc)
	price := parseNumber(fieldAt(f, 6))
	return domain.ParsedTradeRow{
		TicketID:   ticket,
		OpenTime:   at,
		CloseTime:  at,
		Side:       domain.SideFromType(typ),
		RawType:    typ,
		Symbol:     symbol,
		Volume:     parseNumber(fieldAt(f, 5)),
		OpenPrice:  price,
		ClosePrice: price,
		Commission: parseNumber(fieldAt(f, 8)) + parseNumber(fieldAt(f, 9)),
		Swap:       parseNumber(fieldAt(f, 10)),
		Profit:     parseNumber(fieldAt(f, 11)),
		Comment:    fieldAt(f, 13),
	}, true
}

// parseByHeader mapea una fila usando las columnas resueltas por nombre.
func parseByHeader(f, header []string, cols ColumnMap, loc *time.Location) (domain.ParsedTradeRow, bool) {
	if !cols.Resolved() {
		return domain.ParsedTradeRow{}, false
	}
	ticket, openTime := fieldAt(f, cols.Ticket), fieldAt(f, cols.OpenTime)
	typ, symbol := fieldAt(f, cols.Type), fieldAt(f, cols.Symbol)
	if ticket == "" || openTime == "" || typ == "" || symbol == "" {
		return domain.ParsedTradeRow{}, false
	}
	if isRepeatedHeader(f, header, cols.Ticket, cols.OpenTime, cols.Type) {
		return domain.ParsedTradeRow{}, false
	}
	if isSummaryRow(ticket) {
		return domain.ParsedTradeRow{}, false
	}

	openPrice := parseNumber(fieldAt(f, cols.OpenPrice))
	closePrice := openPrice
	if v := fieldAt(f, cols.ClosePrice); v != "" {
		closePrice = parseNumber(v)
	}
	return domain.ParsedTradeRow{
		TicketID:   ticket,
		OpenTime:   ParseBrokerTime(openTime, loc),
		CloseTime:  ParseBrokerTime(fieldAt(f, cols.CloseTime), loc),
		Side:       domain.SideFromType(typ),
		RawType:    typ,
		Symbol:     symbol,
		Volume:     parseNumber(fieldAt(f, cols.Volume)),
		OpenPrice:  openPrice,
		StopLoss:   parseNumber(fieldAt(f, cols.StopLoss)),
		TakeProfit: parseNumber(fieldAt(f, cols.TakeProfit)),
		ClosePrice: closePrice,
		Commission: parseNumber(fieldAt(f, cols.Commission)),
		Swap:       parseNumber(fieldAt(f, cols.Swap)),
		Profit:     parseNumber(fieldAt(f, cols.Profit)),
		Comment:    fieldAt(f, cols.Comment),
	}, true
}

func isSummaryRow(ticket string) bool {
	return containsAny(strings.ToLower(ticket), summaryMarkers...)
}

func isSectionTitle(fields []string) bool {
	nonEmpty := 0
	for _, f := range fields {
		if f != "" {
			nonEmpty++
		}
	}
	return nonEmpty == 1 && sectionTitles[strings.ToLower(fields[0])]
}

func isBlankRecord(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

// isRepeatedHeader detecta una cabecera repetida dentro del archivo: el ticket,
// la hora o el tipo coinciden con el nombre de su propia columna.
func isRepeatedHeader(f, header []string, ticket, openTime, typ int) bool {
	return sameName(fieldAt(f, ticket), fieldAt(header, ticket)) ||
		sameName(fieldAt(f, openTime), fieldAt(header, openTime)) ||
		sameName(fieldAt(f, typ), fieldAt(header, typ))
}

func sameName(value, header string) bool {
	return header != "" && strings.EqualFold(value, header)
}
