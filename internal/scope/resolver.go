// Package scope resuelve el perfil/usuario dueño de los trades importados.
//
// Orden de prioridad: caché en memoria → override local → documento de
// configuración remoto → valor por defecto de la configuración.
// Un override local viejo gana sobre un documento remoto actualizado hasta que
// se llame a Clear.
package scope

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patrickmn/go-cache"

	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/alejandrodnm/fxjournal/internal/ports"
)

const (
	cacheKey = "scope"

	// Claves del documento remoto.
	FieldProfileID = "profile_id"
	FieldUserID    = "user_id"
)

// Origin indica de qué capa salió el scope resuelto.
type Origin string

const (
	OriginCache   Origin = "cache"
	OriginLocal   Origin = "local"
	OriginRemote  Origin = "remote"
	OriginDefault Origin = "default"
)

// Resolver resuelve el Scope. Cada instancia tiene su propia caché: dos
// resolvers (p.ej. dos tenants en el mismo proceso) no comparten estado.
type Resolver struct {
	cache    *cache.Cache
	local    ports.LocalOverride
	remote   ports.ConfigStore
	document string
	fallback domain.Scope
}

// NewResolver crea un Resolver. local y remote pueden ser nil.
func NewResolver(local ports.LocalOverride, remote ports.ConfigStore, document string, fallback domain.Scope) *Resolver {
	return &Resolver{
		cache:    cache.New(cache.NoExpiration, 0),
		local:    local,
		remote:   remote,
		document: document,
		fallback: fallback,
	}
}

// Resolve devuelve el scope según la prioridad de capas y lo deja en caché.
// Los errores de las capas local y remota se registran y se pasa a la siguiente.
func (r *Resolver) Resolve(ctx context.Context) (domain.Scope, Origin, error) {
	if v, ok := r.cache.Get(cacheKey); ok {
		return v.(domain.Scope), OriginCache, nil
	}

	if sc, ok := r.fromLocal(); ok {
		r.cache.Set(cacheKey, sc, cache.NoExpiration)
		return sc, OriginLocal, nil
	}
	if sc, ok := r.fromRemote(ctx); ok {
		r.cache.Set(cacheKey, sc, cache.NoExpiration)
		return sc, OriginRemote, nil
	}

	if r.fallback.IsZero() {
		return domain.Scope{}, "", fmt.Errorf("scope.Resolve: %w", domain.ErrEmptyScope)
	}
	r.cache.Set(cacheKey, r.fallback, cache.NoExpiration)
	return r.fallback, OriginDefault, nil
}

// SetLocalOverride guarda el scope en el override local y en la caché.
func (r *Resolver) SetLocalOverride(sc domain.Scope) error {
	if sc.IsZero() {
		return fmt.Errorf("scope.SetLocalOverride: %w", domain.ErrEmptyScope)
	}
	if r.local == nil {
		return fmt.Errorf("scope.SetLocalOverride: no local override configured")
	}
	if err := r.local.SaveScope(sc); err != nil {
		return fmt.Errorf("scope.SetLocalOverride: %w", err)
	}
	r.cache.Set(cacheKey, sc, cache.NoExpiration)
	return nil
}

// PublishRemote hace set/merge del scope en el documento remoto.
// No toca la caché ni el override local: si hay override, sigue ganando.
func (r *Resolver) PublishRemote(ctx context.Context, sc domain.Scope) error {
	if sc.IsZero() {
		return fmt.Errorf("scope.PublishRemote: %w", domain.ErrEmptyScope)
	}
	if r.remote == nil {
		return fmt.Errorf("scope.PublishRemote: no config store configured")
	}
	fields := map[string]string{FieldProfileID: sc.ProfileID, FieldUserID: sc.UserID}
	if err := r.remote.MergeConfigDocument(ctx, r.document, fields); err != nil {
		return fmt.Errorf("scope.PublishRemote: %w", err)
	}
	return nil
}

// Clear vacía la caché y borra el override local.
func (r *Resolver) Clear() error {
	r.cache.Flush()
	if r.local == nil {
		return nil
	}
	if err := r.local.ClearScope(); err != nil {
		return fmt.Errorf("scope.Clear: %w", err)
	}
	return nil
}

func (r *Resolver) fromLocal() (domain.Scope, bool) {
	if r.local == nil {
		return domain.Scope{}, false
	}
	sc, ok, err := r.local.LoadScope()
	if err != nil {
		slog.Warn("local scope override unreadable, ignoring", "err", err)
		return domain.Scope{}, false
	}
	return sc, ok
}

func (r *Resolver) fromRemote(ctx context.Context) (domain.Scope, bool) {
	if r.remote == nil || r.document == "" {
		return domain.Scope{}, false
	}
	doc, err := r.remote.GetConfigDocument(ctx, r.document)
	if err != nil {
		slog.Warn("remote scope document unavailable, using default", "err", err, "document", r.document)
		return domain.Scope{}, false
	}
	sc := domain.Scope{ProfileID: doc[FieldProfileID], UserID: doc[FieldUserID]}
	if sc.IsZero() {
		return domain.Scope{}, false
	}
	return sc, true
}
