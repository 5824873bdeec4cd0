package csvimport_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alejandrodnm/fxjournal/internal/csvimport"
	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsFor(tickets ...string) []domain.ParsedTradeRow {
	rows := make([]domain.ParsedTradeRow, len(tickets))
	for i, tk := range tickets {
		r := validRow()
		r.TicketID = tk
		r.Line = i + 2
		rows[i] = r
	}
	return rows
}

func ticketsOf(rows []domain.ParsedTradeRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.TicketID
	}
	return out
}

func TestCheckDuplicates_SkipsExisting(t *testing.T) {
	store := newFakeStore()
	store.seed("P", "A", "B")

	out := csvimport.CheckDuplicates(context.Background(), store, "P", rowsFor("A", "B", "C"), csvimport.DuplicateBatchSize)

	assert.Equal(t, []string{"C"}, ticketsOf(out.New))
	assert.ElementsMatch(t, []string{"A", "B"}, out.Existing)
	assert.Equal(t, 2, out.Skipped)
}

func TestCheckDuplicates_ScopedByProfile(t *testing.T) {
	store := newFakeStore()
	store.seed("P2", "A", "B")

	out := csvimport.CheckDuplicates(context.Background(), store, "P", rowsFor("A", "B", "C"), csvimport.DuplicateBatchSize)

	assert.Equal(t, []string{"A", "B", "C"}, ticketsOf(out.New))
	assert.Zero(t, out.Skipped)
}

func TestCheckDuplicates_Batches(t *testing.T) {
	tickets := make([]string, 65)
	for i := range tickets {
		tickets[i] = fmt.Sprintf("T%03d", i)
	}
	store := newFakeStore()

	out := csvimport.CheckDuplicates(context.Background(), store, "P", rowsFor(tickets...), 0)

	require.Len(t, store.lookupCalls, 3)
	assert.Len(t, store.lookupCalls[0], 30)
	assert.Len(t, store.lookupCalls[1], 30)
	assert.Len(t, store.lookupCalls[2], 5)
	assert.Len(t, out.New, 65)
}

func TestCheckDuplicates_BatchSizeCapped(t *testing.T) {
	store := newFakeStore()
	tickets := make([]string, 40)
	for i := range tickets {
		tickets[i] = fmt.Sprintf("T%d", i)
	}

	csvimport.CheckDuplicates(context.Background(), store, "P", rowsFor(tickets...), 100)

	require.Len(t, store.lookupCalls, 2)
	assert.Len(t, store.lookupCalls[0], 30)
}

func TestCheckDuplicates_FailedBatchTreatedAsNew(t *testing.T) {
	tickets := make([]string, 35)
	for i := range tickets {
		tickets[i] = fmt.Sprintf("T%d", i)
	}
	store := newFakeStore()
	store.seed("P", "T0", "T31")
	store.failLookup[0] = true

	out := csvimport.CheckDuplicates(context.Background(), store, "P", rowsFor(tickets...), 30)

	// T0 cae en el lote fallido y pasa como nuevo; T31 sí se detecta.
	assert.Equal(t, []string{"T31"}, out.Existing)
	assert.Len(t, out.New, 34)
	assert.Contains(t, ticketsOf(out.New), "T0")
	assert.Equal(t, 1, out.Skipped)
}

func TestCheckDuplicates_RepeatedTicketInFile(t *testing.T) {
	store := newFakeStore()

	out := csvimport.CheckDuplicates(context.Background(), store, "P", rowsFor("A", "B", "A"), 30)

	assert.Equal(t, []string{"A", "B"}, ticketsOf(out.New))
	assert.Equal(t, 2, out.New[0].Line, "first occurrence wins")
	assert.Equal(t, 1, out.Skipped)
	require.Len(t, store.lookupCalls, 1)
	assert.Equal(t, []string{"A", "B"}, store.lookupCalls[0])
}

func TestCheckDuplicates_Empty(t *testing.T) {
	store := newFakeStore()
	out := csvimport.CheckDuplicates(context.Background(), store, "P", nil, 30)
	assert.Empty(t, out.New)
	assert.Empty(t, store.lookupCalls)
}
