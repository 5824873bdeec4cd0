package main

import (
	"context"

	"github.com/alejandrodnm/fxjournal/internal/adapters/notify"
	"github.com/alejandrodnm/fxjournal/internal/adapters/storage"
	"github.com/alejandrodnm/fxjournal/internal/scope"
)

func runTrades(ctx context.Context, store *storage.SQLiteStorage, resolver *scope.Resolver, notifier *notify.Console, profile, user string) error {
	sc, err := resolveScope(ctx, resolver, profile, user)
	if err != nil {
		return err
	}
	trades, err := store.ListTrades(ctx, sc.ProfileID)
	if err != nil {
		return err
	}
	notifier.PrintTrades(trades)
	return nil
}

func runHistory(ctx context.Context, store *storage.SQLiteStorage, resolver *scope.Resolver, notifier *notify.Console, profile, user string, limit int) error {
	sc, err := resolveScope(ctx, resolver, profile, user)
	if err != nil {
		return err
	}
	logs, err := store.ListImportLogs(ctx, sc.ProfileID, limit)
	if err != nil {
		return err
	}
	notifier.PrintImportLogs(logs)
	return nil
}
