package csvimport_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/fxjournal/internal/csvimport"
	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() domain.ParsedTradeRow {
	return domain.ParsedTradeRow{
		Line:      2,
		TicketID:  "1001",
		OpenTime:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Side:      domain.SideBuy,
		Symbol:    "EURUSD",
		Volume:    0.1,
		OpenPrice: 1.1,
	}
}

// Una fila es válida si y solo si cumple los cinco predicados; se prueban
// todas las combinaciones.
func TestValidateRow_Predicate(t *testing.T) {
	for mask := 0; mask < 32; mask++ {
		row := validRow()
		var want []domain.ValidationReason
		if mask&1 != 0 {
			row.TicketID = "  "
			want = append(want, domain.MissingTicket)
		}
		if mask&2 != 0 {
			row.Symbol = ""
			want = append(want, domain.MissingSymbol)
		}
		if mask&4 != 0 {
			row.OpenTime = time.Time{}
			want = append(want, domain.InvalidOpenTime)
		}
		if mask&8 != 0 {
			row.Volume = 0
			want = append(want, domain.InvalidVolume)
		}
		if mask&16 != 0 {
			row.OpenPrice = -1
			want = append(want, domain.InvalidPrice)
		}
		assert.Equal(t, want, csvimport.ValidateRow(row), "mask %05b", mask)
	}
}

func TestValidateRow_ZeroPriceAllowed(t *testing.T) {
	row := validRow()
	row.OpenPrice = 0
	assert.Empty(t, csvimport.ValidateRow(row))
}

func TestValidate_SplitsRows(t *testing.T) {
	bad := validRow()
	bad.Line = 7
	bad.TicketID = "1009"
	bad.Volume = -1
	bad.OpenPrice = -5

	valid, errs := csvimport.Validate([]domain.ParsedTradeRow{validRow(), bad})

	require.Len(t, valid, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, domain.ErrValidation, errs[0].Kind)
	assert.Equal(t, 7, errs[0].Line)
	assert.Equal(t, "1009", errs[0].TicketID)
	assert.Equal(t, "line 7 (ticket 1009): invalid volume, invalid price", errs[0].Error())
}
