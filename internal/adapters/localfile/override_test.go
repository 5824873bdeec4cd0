package localfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/fxjournal/internal/adapters/localfile"
	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverride_MissingFile(t *testing.T) {
	o := localfile.NewOverride(filepath.Join(t.TempDir(), "scope.yaml"))

	sc, ok, err := o.LoadScope()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, sc.IsZero())
}

func TestOverride_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "scope.yaml")
	o := localfile.NewOverride(path)
	want := domain.Scope{ProfileID: "p-1", UserID: "u-1"}

	require.NoError(t, o.SaveScope(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, ok, err := o.LoadScope()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, o.ClearScope())
	_, ok, err = o.LoadScope()
	require.NoError(t, err)
	assert.False(t, ok)

	// Borrar dos veces no es error.
	assert.NoError(t, o.ClearScope())
}

func TestOverride_ReadsHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scope.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scope:\n  profile_id: abc\n  user_id: xyz\n"), 0o600))

	got, ok, err := localfile.NewOverride(path).LoadScope()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.Scope{ProfileID: "abc", UserID: "xyz"}, got)
}

func TestOverride_IncompleteOrInvalid(t *testing.T) {
	dir := t.TempDir()

	partial := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(partial, []byte("scope:\n  profile_id: abc\n"), 0o600))
	_, ok, err := localfile.NewOverride(partial).LoadScope()
	require.NoError(t, err)
	assert.False(t, ok)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("scope: [unclosed"), 0o600))
	_, _, err = localfile.NewOverride(broken).LoadScope()
	assert.Error(t, err)
}
