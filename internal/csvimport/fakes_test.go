package csvimport_test

import (
	"context"
	"errors"
	"sync"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// --- mocks ---

type fakeStore struct {
	mu      sync.Mutex
	trades  []domain.Trade
	logs    []domain.ImportLog
	tickets map[string]map[string]bool // profile → tickets

	lookupCalls [][]string
	failLookup  map[int]bool // índice de llamada → falla
	insertErr   func(n int, t domain.Trade) error
	inserts     int
	logErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tickets: make(map[string]map[string]bool), failLookup: make(map[int]bool)}
}

func (f *fakeStore) seed(profileID string, tickets ...string) {
	if f.tickets[profileID] == nil {
		f.tickets[profileID] = make(map[string]bool)
	}
	for _, t := range tickets {
		f.tickets[profileID][t] = true
	}
}

func (f *fakeStore) InsertTrade(_ context.Context, t domain.Trade) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		if err := f.insertErr(f.inserts, t); err != nil {
			return "", err
		}
	}
	f.trades = append(f.trades, t)
	if f.tickets[t.ProfileID] == nil {
		f.tickets[t.ProfileID] = make(map[string]bool)
	}
	f.tickets[t.ProfileID][t.TicketID] = true
	return t.TicketID, nil
}

func (f *fakeStore) ExistingTicketIDs(_ context.Context, profileID string, ids []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.lookupCalls)
	f.lookupCalls = append(f.lookupCalls, append([]string(nil), ids...))
	if f.failLookup[call] {
		return nil, errors.New("store unavailable")
	}
	var found []string
	for _, id := range ids {
		if f.tickets[profileID][id] {
			found = append(found, id)
		}
	}
	return found, nil
}

func (f *fakeStore) ListTrades(_ context.Context, profileID string) ([]domain.Trade, error) {
	var out []domain.Trade
	for _, t := range f.trades {
		if t.ProfileID == profileID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveImportLog(_ context.Context, l domain.ImportLog) (string, error) {
	if f.logErr != nil {
		return "", f.logErr
	}
	f.logs = append(f.logs, l)
	return "log-1", nil
}

func (f *fakeStore) ListImportLogs(_ context.Context, _ string, _ int) ([]domain.ImportLog, error) {
	return f.logs, nil
}

func (f *fakeStore) Close() error { return nil }
