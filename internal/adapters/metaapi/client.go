package metaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

const (
	defaultProvisioningBase = "https://mt-provisioning-api-v1.agiliumtrade.agiliumtrade.ai"

	// La API de provisioning tolera pocas peticiones por segundo por token.
	defaultRatePerSec = 5

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client es el HTTP client de la API de provisioning de MetaAPI con rate limiting y retries.
// Solo lee cuentas: el diario las muestra, no las gestiona.
type Client struct {
	http    *http.Client
	base    string
	token   string
	limiter *rate.Limiter
}

// NewClient crea un Client. Si base está vacío usa el URL de producción;
// ratePerSec <= 0 usa el default.
func NewClient(base, token string, ratePerSec float64) *Client {
	if base == "" {
		base = defaultProvisioningBase
	}
	if ratePerSec <= 0 {
		ratePerSec = defaultRatePerSec
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		base:    base,
		token:   token,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 2),
	}
}

// FetchAccounts devuelve todas las cuentas del usuario del token.
func (c *Client) FetchAccounts(ctx context.Context) ([]domain.BrokerAccount, error) {
	var raw []accountDTO
	if err := c.get(ctx, c.base+"/users/current/accounts", &raw); err != nil {
		return nil, fmt.Errorf("metaapi.FetchAccounts: %w", err)
	}
	accounts := make([]domain.BrokerAccount, 0, len(raw))
	for _, a := range raw {
		accounts = append(accounts, a.toDomain())
	}
	return accounts, nil
}

// FetchAccount devuelve una cuenta por su ID de MetaAPI.
func (c *Client) FetchAccount(ctx context.Context, accountID string) (domain.BrokerAccount, error) {
	var raw accountDTO
	endpoint := c.base + "/users/current/accounts/" + url.PathEscape(accountID)
	if err := c.get(ctx, endpoint, &raw); err != nil {
		return domain.BrokerAccount{}, fmt.Errorf("metaapi.FetchAccount %s: %w", accountID, err)
	}
	return raw.toDomain(), nil
}

// get hace un GET autenticado con rate limiting y retries.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("auth-token", c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by MetaAPI", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
