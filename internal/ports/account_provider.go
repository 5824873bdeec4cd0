package ports

import (
	"context"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// AccountProvider obtiene las cuentas de broker conectadas vía MetaAPI.
type AccountProvider interface {
	FetchAccounts(ctx context.Context) ([]domain.BrokerAccount, error)
	FetchAccount(ctx context.Context, accountID string) (domain.BrokerAccount, error)
}
