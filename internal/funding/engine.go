// Package funding decides whether a payroll contract needs a top-up and, if
// so, builds the unsigned fundContract() call that performs it.
//
// An evaluation is stateless: price fetch, balance read, threshold check,
// amount computation. Nothing is retained between calls.
package funding

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-payroll-funder/internal/chain"
	"github.com/0gfoundation/0g-payroll-funder/internal/price"
)

// DefaultDecimals is the base-unit exponent of an 18-decimal asset (wei).
const DefaultDecimals = 18

// BalanceReader reads a payroll contract's total funds in the smallest unit.
type BalanceReader interface {
	TotalFunds(ctx context.Context, contract common.Address) (*big.Int, error)
}

// Engine is the funding decision routine. It is safe for concurrent use.
type Engine struct {
	prices   price.Provider
	balances BalanceReader
	asset    string
	decimals int32
	log      *zap.Logger
	now      func() time.Time
}

func NewEngine(prices price.Provider, balances BalanceReader, asset string, decimals int32, log *zap.Logger) *Engine {
	return &Engine{
		prices:   prices,
		balances: balances,
		asset:    asset,
		decimals: decimals,
		log:      log,
		now:      time.Now,
	}
}

// Evaluate returns the funding decision for policy. A price source failure
// yields a non-executing decision; a balance read failure is returned as a
// *ContractReadError and an invalid policy as a *PolicyError.
func (e *Engine) Evaluate(ctx context.Context, policy Policy) (Decision, error) {
	rep, err := e.Report(ctx, policy)
	if err != nil {
		return Decision{}, err
	}
	return rep.Decision, nil
}

// Report is Evaluate plus the quote and balance the decision was based on.
func (e *Engine) Report(ctx context.Context, policy Policy) (Report, error) {
	if err := policy.Validate(); err != nil {
		return Report{}, err
	}
	rep := Report{Policy: policy}
	contract := policy.PayrollContract

	// 1. Price. Failure is terminal for the invocation but not an error; the
	// balance is not read without a price.
	quote, err := e.prices.Quote(ctx, e.asset)
	if err == nil && !quote.FiatPerUnit.IsPositive() {
		err = fmt.Errorf("non-positive price %s for %s", quote.FiatPerUnit, e.asset)
	}
	if err != nil {
		e.log.Warn("price source unavailable",
			zap.String("contract", contract.Hex()),
			zap.String("asset", e.asset),
			zap.Error(err),
		)
		rep.Decision = noAction(reasonPricePrefix + err.Error())
		return rep, nil
	}
	rep.Quote = &quote

	// 2. Balance.
	raw, err := e.balances.TotalFunds(ctx, contract)
	if err == nil && raw == nil {
		err = errors.New("empty result")
	}
	if err != nil {
		return Report{}, &ContractReadError{Contract: contract, Err: err}
	}
	rep.Balance = &BalanceSnapshot{RawBalance: new(big.Int).Set(raw), ObservedAt: e.now().UTC()}

	// 3. Convert.
	rep.BalanceFiat = ToFiat(raw, quote.FiatPerUnit, e.decimals)

	e.log.Info("payroll balance",
		zap.String("contract", contract.Hex()),
		zap.String("balance_raw", raw.String()),
		zap.String("balance_fiat", rep.BalanceFiat.String()),
		zap.String("threshold_fiat", policy.ThresholdFiat.String()),
		zap.String("price", quote.FiatPerUnit.String()),
		zap.String("currency", quote.Currency),
	)

	// 4. Threshold, non-strict.
	if rep.BalanceFiat.GreaterThanOrEqual(policy.ThresholdFiat) {
		rep.Decision = noAction(ReasonAboveThreshold)
		return rep, nil
	}

	// 5. Amount.
	units := TopUpUnits(policy.TopUpAmountFiat, quote.FiatPerUnit, e.decimals)
	if units.Sign() <= 0 {
		e.log.Warn("top-up amount rounds to zero",
			zap.String("contract", contract.Hex()),
			zap.String("top_up_fiat", policy.TopUpAmountFiat.String()),
			zap.String("price", quote.FiatPerUnit.String()),
		)
		rep.Decision = noAction(ReasonZeroTopUp)
		return rep, nil
	}

	// 6. Instruction.
	callData, err := chain.FundContractCalldata()
	if err != nil {
		return Report{}, fmt.Errorf("encode funding call: %w", err)
	}
	d, err := execute(Instruction{Target: contract, CallData: callData, Value: units})
	if err != nil {
		return Report{}, err
	}
	rep.Decision = d

	e.log.Info("top-up required",
		zap.String("contract", contract.Hex()),
		zap.String("top_up_fiat", policy.TopUpAmountFiat.String()),
		zap.String("top_up_units", units.String()),
	)
	return rep, nil
}

// ToFiat converts a smallest-unit balance to fiat: raw / 10^decimals * fiatPerUnit.
// The result is exact.
func ToFiat(raw *big.Int, fiatPerUnit decimal.Decimal, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -decimals).Mul(fiatPerUnit)
}

// TopUpUnits converts a fiat amount to smallest units, truncating toward zero:
// floor(topUpFiat / fiatPerUnit * 10^decimals). fiatPerUnit must be positive.
func TopUpUnits(topUpFiat, fiatPerUnit decimal.Decimal, decimals int32) *big.Int {
	q, _ := topUpFiat.Shift(decimals).QuoRem(fiatPerUnit, 0)
	return q.BigInt()
}
