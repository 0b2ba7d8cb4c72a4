package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds a single quote request. There is no retry.
const DefaultTimeout = 5 * time.Second

// CoinGecko is a Provider backed by the /simple/price endpoint.
type CoinGecko struct {
	baseURL  string
	apiKey   string
	currency string
	http     *http.Client
	now      func() time.Time
}

func NewCoinGecko(baseURL, apiKey, currency string, timeout time.Duration) *CoinGecko {
	if timeout <= 0 || timeout > DefaultTimeout {
		timeout = DefaultTimeout
	}
	return &CoinGecko{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		currency: strings.ToLower(currency),
		http:     &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

// Quote fetches GET /simple/price?ids=<asset>&vs_currencies=<currency>.
// The response shape is {"<asset>": {"<currency>": <price>}}.
func (c *CoinGecko) Quote(ctx context.Context, asset string) (Quote, error) {
	fail := func(err error) (Quote, error) {
		return Quote{}, &Error{Source: "coingecko", Asset: asset, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.http.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("ids", asset)
	q.Set("vs_currencies", c.currency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		if strings.Contains(c.baseURL, "pro-api.coingecko.com") {
			req.Header.Set("x-cg-pro-api-key", c.apiKey)
		} else {
			req.Header.Set("x-cg-demo-api-key", c.apiKey)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fail(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var prices map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return fail(fmt.Errorf("decode response: %w", err))
	}
	byCurrency, ok := prices[asset]
	if !ok {
		return fail(fmt.Errorf("asset missing from response"))
	}
	p, ok := byCurrency[c.currency]
	if !ok {
		return fail(fmt.Errorf("currency %s missing from response", c.currency))
	}
	if !p.IsPositive() {
		return fail(fmt.Errorf("non-positive price %s", p))
	}

	return Quote{
		Asset:       asset,
		Currency:    c.currency,
		FiatPerUnit: p,
		FetchedAt:   c.now().UTC(),
	}, nil
}
