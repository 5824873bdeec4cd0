package csvimport

import (
	"strings"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// ValidateRow devuelve las razones por las que una fila no es importable.
// Un precio 0 es válido: algunos brokers lo reportan para ciertos tipos de orden.
func ValidateRow(row domain.ParsedTradeRow) []domain.ValidationReason {
	var reasons []domain.ValidationReason
	if strings.TrimSpace(row.TicketID) == "" {
		reasons = append(reasons, domain.MissingTicket)
	}
	if strings.TrimSpace(row.Symbol) == "" {
		reasons = append(reasons, domain.MissingSymbol)
	}
	if row.OpenTime.IsZero() {
		reasons = append(reasons, domain.InvalidOpenTime)
	}
	if row.Volume <= 0 {
		reasons = append(reasons, domain.InvalidVolume)
	}
	if row.OpenPrice < 0 {
		reasons = append(reasons, domain.InvalidPrice)
	}
	return reasons
}

// Validate separa las filas válidas de las inválidas. Cada fila inválida
// produce un único RowError con todas sus razones.
func Validate(rows []domain.ParsedTradeRow) ([]domain.ParsedTradeRow, []domain.RowError) {
	valid := make([]domain.ParsedTradeRow, 0, len(rows))
	var errs []domain.RowError
	for _, row := range rows {
		reasons := ValidateRow(row)
		if len(reasons) == 0 {
			valid = append(valid, row)
			continue
		}
		errs = append(errs, domain.RowError{
			Kind:     domain.ErrValidation,
			Line:     row.Line,
			TicketID: row.TicketID,
			Reasons:  reasons,
		})
	}
	return valid, errs
}
