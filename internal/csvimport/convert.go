package csvimport

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// DefaultSource es el tag de procedencia de los trades importados de MT5.
const DefaultSource = "MT5_VIP"

// Convert transforma una fila nueva en el Trade que se persiste.
// Las métricas de riesgo quedan en 0: se calculan en otra parte del diario.
// Una fila sin hora de cierre es una posición abierta: el estado no sale del profit.
func Convert(row domain.ParsedTradeRow, scope domain.Scope, source string, now time.Time) domain.Trade {
	if source == "" {
		source = DefaultSource
	}
	notes := row.Comment
	if notes == "" {
		notes = fmt.Sprintf("Imported from MT5 ticket %s", row.TicketID)
	}

	t := domain.Trade{
		Pair:       row.Symbol,
		Direction:  row.Side,
		Status:     domain.StatusFromProfit(row.Profit),
		EntryPrice: row.OpenPrice,
		ExitPrice:  row.ClosePrice,
		Pips:       domain.ApproxPips(row.Profit),
		Profit:     row.Profit,
		LotSize:    row.Volume,
		Commission: row.Commission,
		Swap:       row.Swap,
		OpenedAt:   row.OpenTime,
		ClosedAt:   row.CloseTime,
		EntryDate:  row.OpenTime.Format(time.DateOnly),
		EntryTime:  row.OpenTime.Format("15:04"),
		Notes:      notes,
		Source:     source,
		TicketID:   row.TicketID,
		ImportedAt: now.UTC(),
		ProfileID:  scope.ProfileID,
		UserID:     scope.UserID,
	}
	if row.CloseTime.IsZero() {
		t.Status = domain.StatusOpen
	} else {
		t.ExitDate = row.CloseTime.Format(time.DateOnly)
		t.ExitTime = row.CloseTime.Format("15:04")
	}
	return t
}
