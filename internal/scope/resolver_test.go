package scope_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/alejandrodnm/fxjournal/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockLocal struct {
	scope   domain.Scope
	loadErr error
	loads   int
	cleared bool
}

func (m *mockLocal) LoadScope() (domain.Scope, bool, error) {
	m.loads++
	if m.loadErr != nil {
		return domain.Scope{}, false, m.loadErr
	}
	return m.scope, !m.scope.IsZero(), nil
}

func (m *mockLocal) SaveScope(s domain.Scope) error {
	m.scope = s
	return nil
}

func (m *mockLocal) ClearScope() error {
	m.scope = domain.Scope{}
	m.cleared = true
	return nil
}

type mockRemote struct {
	docs   map[string]map[string]string
	getErr error
	gets   int
}

func newMockRemote() *mockRemote {
	return &mockRemote{docs: make(map[string]map[string]string)}
}

func (m *mockRemote) GetConfigDocument(_ context.Context, name string) (map[string]string, error) {
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.docs[name], nil
}

func (m *mockRemote) MergeConfigDocument(_ context.Context, name string, fields map[string]string) error {
	if m.docs[name] == nil {
		m.docs[name] = make(map[string]string)
	}
	for k, v := range fields {
		m.docs[name][k] = v
	}
	return nil
}

const doc = "vip_import_scope"

var (
	localScope    = domain.Scope{ProfileID: "local-p", UserID: "local-u"}
	remoteScope   = domain.Scope{ProfileID: "remote-p", UserID: "remote-u"}
	fallbackScope = domain.Scope{ProfileID: "default-p", UserID: "default-u"}
)

func TestResolve_Priority(t *testing.T) {
	ctx := context.Background()
	remote := newMockRemote()
	remote.docs[doc] = map[string]string{scope.FieldProfileID: remoteScope.ProfileID, scope.FieldUserID: remoteScope.UserID}

	tests := []struct {
		name   string
		local  *mockLocal
		remote *mockRemote
		want   domain.Scope
		origin scope.Origin
	}{
		{"local wins over remote", &mockLocal{scope: localScope}, remote, localScope, scope.OriginLocal},
		{"remote when no local", &mockLocal{}, remote, remoteScope, scope.OriginRemote},
		{"default when nothing stored", &mockLocal{}, newMockRemote(), fallbackScope, scope.OriginDefault},
		{"unreadable local falls through", &mockLocal{loadErr: errors.New("bad yaml")}, remote, remoteScope, scope.OriginRemote},
		{"remote error falls through", &mockLocal{}, &mockRemote{getErr: errors.New("offline")}, fallbackScope, scope.OriginDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scope.NewResolver(tt.local, tt.remote, doc, fallbackScope)

			got, origin, err := r.Resolve(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.origin, origin)
		})
	}
}

func TestResolve_IncompleteRemoteIgnored(t *testing.T) {
	remote := newMockRemote()
	remote.docs[doc] = map[string]string{scope.FieldProfileID: "p-only"}
	r := scope.NewResolver(&mockLocal{}, remote, doc, fallbackScope)

	got, origin, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fallbackScope, got)
	assert.Equal(t, scope.OriginDefault, origin)
}

func TestResolve_CachesResult(t *testing.T) {
	ctx := context.Background()
	local := &mockLocal{}
	remote := newMockRemote()
	remote.docs[doc] = map[string]string{scope.FieldProfileID: "remote-p", scope.FieldUserID: "remote-u"}
	r := scope.NewResolver(local, remote, doc, fallbackScope)

	_, origin, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, scope.OriginRemote, origin)

	// Cambiar el override después no afecta hasta Clear.
	local.scope = localScope
	got, origin, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, scope.OriginCache, origin)
	assert.Equal(t, remoteScope, got)
	assert.Equal(t, 1, remote.gets)
}

func TestResolve_CacheIsPerResolver(t *testing.T) {
	ctx := context.Background()
	a := scope.NewResolver(&mockLocal{scope: localScope}, nil, doc, fallbackScope)
	b := scope.NewResolver(nil, nil, doc, fallbackScope)

	gotA, _, err := a.Resolve(ctx)
	require.NoError(t, err)
	gotB, originB, err := b.Resolve(ctx)
	require.NoError(t, err)

	assert.Equal(t, localScope, gotA)
	assert.Equal(t, fallbackScope, gotB)
	assert.Equal(t, scope.OriginDefault, originB)
}

func TestResolve_NothingConfigured(t *testing.T) {
	r := scope.NewResolver(nil, nil, "", domain.Scope{})

	_, _, err := r.Resolve(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyScope)
}

func TestSetLocalOverride(t *testing.T) {
	ctx := context.Background()
	local := &mockLocal{}
	r := scope.NewResolver(local, nil, doc, fallbackScope)

	require.NoError(t, r.SetLocalOverride(localScope))
	assert.Equal(t, localScope, local.scope)

	got, origin, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, localScope, got)
	assert.Equal(t, scope.OriginCache, origin)

	assert.ErrorIs(t, r.SetLocalOverride(domain.Scope{ProfileID: "p"}), domain.ErrEmptyScope)
}

func TestPublishRemote(t *testing.T) {
	ctx := context.Background()
	remote := newMockRemote()
	r := scope.NewResolver(&mockLocal{}, remote, doc, fallbackScope)

	require.NoError(t, r.PublishRemote(ctx, remoteScope))
	assert.Equal(t, map[string]string{"profile_id": "remote-p", "user_id": "remote-u"}, remote.docs[doc])

	got, origin, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, remoteScope, got)
	assert.Equal(t, scope.OriginRemote, origin)
}

func TestPublishRemote_WithoutStore(t *testing.T) {
	r := scope.NewResolver(nil, nil, doc, fallbackScope)
	assert.Error(t, r.PublishRemote(context.Background(), remoteScope))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	local := &mockLocal{scope: localScope}
	remote := newMockRemote()
	remote.docs[doc] = map[string]string{scope.FieldProfileID: "remote-p", scope.FieldUserID: "remote-u"}
	r := scope.NewResolver(local, remote, doc, fallbackScope)

	got, _, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, localScope, got)

	require.NoError(t, r.Clear())
	assert.True(t, local.cleared)

	got, origin, err := r.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, remoteScope, got)
	assert.Equal(t, scope.OriginRemote, origin)
}
