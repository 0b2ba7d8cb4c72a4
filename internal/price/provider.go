// Package price fetches fiat quotes for on-chain assets.
//
// Quotes are fetched fresh on every call and never cached; callers decide what
// a failed fetch means for their cycle.
package price

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the fiat value of one whole unit of an asset at FetchedAt.
type Quote struct {
	Asset       string          `json:"asset"`
	Currency    string          `json:"currency"`
	FiatPerUnit decimal.Decimal `json:"fiat_per_unit"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

// Provider returns a fresh quote for asset in the provider's fiat currency.
type Provider interface {
	Quote(ctx context.Context, asset string) (Quote, error)
}

// Error is returned for any failure to obtain a usable quote: transport
// errors, timeouts, non-200 responses and malformed bodies.
type Error struct {
	Source string
	Asset  string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s quote for %s: %v", e.Source, e.Asset, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Static always returns the same price. Used by the one-shot CLI when an
// operator pins the price, and by tests.
type Static struct {
	Currency    string
	FiatPerUnit decimal.Decimal
	Now         func() time.Time
}

func (s Static) Quote(_ context.Context, asset string) (Quote, error) {
	if !s.FiatPerUnit.IsPositive() {
		return Quote{}, &Error{Source: "static", Asset: asset, Err: fmt.Errorf("non-positive price %s", s.FiatPerUnit)}
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return Quote{
		Asset:       asset,
		Currency:    s.Currency,
		FiatPerUnit: s.FiatPerUnit,
		FetchedAt:   now().UTC(),
	}, nil
}
