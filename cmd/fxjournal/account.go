package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alejandrodnm/fxjournal/config"
	"github.com/alejandrodnm/fxjournal/internal/adapters/metaapi"
	"github.com/alejandrodnm/fxjournal/internal/adapters/notify"
	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/alejandrodnm/fxjournal/internal/ports"
)

func runAccount(ctx context.Context, cfg config.MetaAPIConfig, notifier *notify.Console) error {
	if cfg.Token == "" {
		return errors.New("metaapi token missing (set METAAPI_TOKEN)")
	}
	client := metaapi.NewClient(cfg.BaseURL, cfg.Token, cfg.RatePerSec)
	return showAccounts(ctx, client, cfg.AccountID, notifier)
}

func showAccounts(ctx context.Context, provider ports.AccountProvider, accountID string, notifier *notify.Console) error {
	if accountID != "" {
		acc, err := provider.FetchAccount(ctx, accountID)
		if err != nil {
			return err
		}
		notifier.PrintAccounts([]domain.BrokerAccount{acc})
		return nil
	}

	accounts, err := provider.FetchAccounts(ctx)
	if err != nil {
		return err
	}
	slog.Debug("metaapi accounts fetched", "count", len(accounts))
	notifier.PrintAccounts(accounts)
	return nil
}
