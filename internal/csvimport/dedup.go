package csvimport

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// DuplicateBatchSize es el máximo de tickets por consulta IN contra el store.
const DuplicateBatchSize = 30

// TicketLookup es la parte del store que usa el chequeo de duplicados.
type TicketLookup interface {
	ExistingTicketIDs(ctx context.Context, profileID string, ticketIDs []string) ([]string, error)
}

// DuplicateOutcome separa las filas nuevas de las ya importadas.
type DuplicateOutcome struct {
	New      []domain.ParsedTradeRow
	Existing []string // tickets que ya estaban en el store para el perfil
	Skipped  int      // filas descartadas (store + repetidas en el archivo)
}

// CheckDuplicates consulta el store por lotes y descarta los tickets que ya
// existen para profileID. Un lote que falla se registra y se trata como
// "sin duplicados": preferimos un duplicado visible a perder datos.
// Un ticket repetido dentro del mismo archivo cuenta como duplicado a partir
// de su segunda aparición.
func CheckDuplicates(ctx context.Context, store TicketLookup, profileID string, rows []domain.ParsedTradeRow, batchSize int) DuplicateOutcome {
	if batchSize <= 0 || batchSize > DuplicateBatchSize {
		batchSize = DuplicateBatchSize
	}

	tickets := uniqueTickets(rows)
	existing := make(map[string]bool)
	var existingList []string

	for start := 0; start < len(tickets); start += batchSize {
		end := min(start+batchSize, len(tickets))
		batch := tickets[start:end]

		found, err := store.ExistingTicketIDs(ctx, profileID, batch)
		if err != nil {
			slog.Warn("duplicate check batch failed, treating batch as new",
				"err", err, "profile", profileID, "batch_start", start, "batch_size", len(batch))
			continue
		}
		for _, id := range found {
			if !existing[id] {
				existing[id] = true
				existingList = append(existingList, id)
			}
		}
	}

	out := DuplicateOutcome{Existing: existingList}
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if existing[row.TicketID] || seen[row.TicketID] {
			out.Skipped++
			continue
		}
		seen[row.TicketID] = true
		out.New = append(out.New, row)
	}
	return out
}

func uniqueTickets(rows []domain.ParsedTradeRow) []string {
	seen := make(map[string]bool, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if seen[r.TicketID] {
			continue
		}
		seen[r.TicketID] = true
		out = append(out, r.TicketID)
	}
	return out
}
