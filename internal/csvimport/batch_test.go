package csvimport_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/fxjournal/internal/csvimport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportFiles_SequentialAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	jan := filepath.Join(dir, "2024-01.csv")
	feb := filepath.Join(dir, "2024-02.csv")
	require.NoError(t, os.WriteFile(jan, []byte(statement(3)), 0o600))
	// feb repite los tickets de enero y añade dos más.
	require.NoError(t, os.WriteFile(feb, []byte(statement(5)), 0o600))
	missing := filepath.Join(dir, "missing.csv")

	store := newSQLite(t)
	im := csvimport.New(csvimport.DefaultConfig(), store)

	results := im.ImportFiles(context.Background(), []string{jan, missing, feb}, testScope, 4)
	require.Len(t, results, 3)

	assert.Equal(t, jan, results[0].Path)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 3, results[0].Result.NewTrades)

	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Result)

	require.NoError(t, results[2].Err)
	assert.Equal(t, 2, results[2].Result.NewTrades)
	assert.Equal(t, 3, results[2].Result.SkippedTrades)

	trades, err := store.ListTrades(context.Background(), testScope.ProfileID)
	require.NoError(t, err)
	assert.Len(t, trades, 5)
}

func TestImportFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleStatement), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore()
	results := csvimport.New(csvimport.DefaultConfig(), store).ImportFiles(ctx, []string{path}, testScope, 0)

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Zero(t, store.inserts)
}
