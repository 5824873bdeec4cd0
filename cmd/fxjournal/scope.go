package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/alejandrodnm/fxjournal/internal/scope"
)

// resolveScope usa los flags -profile/-user si vienen completos; si no, el resolver.
// Un flag suelto pisa solo su campo del scope resuelto.
func resolveScope(ctx context.Context, resolver *scope.Resolver, profile, user string) (domain.Scope, error) {
	if profile != "" && user != "" {
		return domain.Scope{ProfileID: profile, UserID: user}, nil
	}

	sc, origin, err := resolver.Resolve(ctx)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("resolve scope (use -profile and -user): %w", err)
	}
	if profile != "" {
		sc.ProfileID = profile
	}
	if user != "" {
		sc.UserID = user
	}
	slog.Debug("scope resolved", "scope", sc.String(), "origin", origin)
	return sc, nil
}

func runScope(ctx context.Context, resolver *scope.Resolver, set, publish string, clearOverride bool) error {
	if clearOverride {
		if err := resolver.Clear(); err != nil {
			return err
		}
		slog.Info("local scope override cleared")
	}
	if set != "" {
		sc, err := parseScopeFlag(set)
		if err != nil {
			return err
		}
		if err := resolver.SetLocalOverride(sc); err != nil {
			return err
		}
		slog.Info("local scope override saved", "scope", sc.String())
	}
	if publish != "" {
		sc, err := parseScopeFlag(publish)
		if err != nil {
			return err
		}
		if err := resolver.PublishRemote(ctx, sc); err != nil {
			return err
		}
		slog.Info("scope published", "scope", sc.String())
	}
	return nil
}

func parseScopeFlag(v string) (domain.Scope, error) {
	profile, user, ok := strings.Cut(v, ":")
	sc := domain.Scope{ProfileID: strings.TrimSpace(profile), UserID: strings.TrimSpace(user)}
	if !ok || sc.IsZero() {
		return domain.Scope{}, fmt.Errorf("invalid scope %q, want profile:user", v)
	}
	return sc, nil
}
