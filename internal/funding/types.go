package funding

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"

	"github.com/0gfoundation/0g-payroll-funder/internal/price"
)

// Decision reasons.
const (
	ReasonAboveThreshold    = "balance above threshold"
	ReasonThresholdBreached = "threshold breached"
	ReasonZeroTopUp         = "top-up amount rounds to zero"
	reasonPricePrefix       = "price source unavailable: "
)

// Policy is the caller-supplied funding configuration for one payroll contract.
type Policy struct {
	PayrollContract common.Address  `json:"payroll_contract"`
	TopUpAmountFiat decimal.Decimal `json:"top_up_amount_fiat"`
	ThresholdFiat   decimal.Decimal `json:"threshold_fiat"`
}

// ParsePolicy builds a Policy from raw configuration strings.
func ParsePolicy(contract, topUpAmountFiat, thresholdFiat string) (Policy, error) {
	if !common.IsHexAddress(strings.TrimSpace(contract)) {
		return Policy{}, &PolicyError{Field: "payroll_contract", Reason: fmt.Sprintf("invalid address %q", contract)}
	}
	topUp, err := decimal.NewFromString(strings.TrimSpace(topUpAmountFiat))
	if err != nil {
		return Policy{}, &PolicyError{Field: "top_up_amount_fiat", Reason: fmt.Sprintf("not a number: %q", topUpAmountFiat)}
	}
	threshold, err := decimal.NewFromString(strings.TrimSpace(thresholdFiat))
	if err != nil {
		return Policy{}, &PolicyError{Field: "threshold_fiat", Reason: fmt.Sprintf("not a number: %q", thresholdFiat)}
	}
	p := Policy{
		PayrollContract: common.HexToAddress(strings.TrimSpace(contract)),
		TopUpAmountFiat: topUp,
		ThresholdFiat:   threshold,
	}
	return p, p.Validate()
}

// Validate checks the policy before any network call is made.
func (p Policy) Validate() error {
	switch {
	case p.PayrollContract == (common.Address{}):
		return &PolicyError{Field: "payroll_contract", Reason: "zero address"}
	case !p.TopUpAmountFiat.IsPositive():
		return &PolicyError{Field: "top_up_amount_fiat", Reason: "must be positive"}
	case p.ThresholdFiat.IsNegative():
		return &PolicyError{Field: "threshold_fiat", Reason: "must not be negative"}
	}
	return nil
}

// BalanceSnapshot is the contract's getTotalFunds() result at ObservedAt.
type BalanceSnapshot struct {
	RawBalance *big.Int  `json:"raw_balance"`
	ObservedAt time.Time `json:"observed_at"`
}

// Instruction is an unsigned call for an external submitter to sign and send.
type Instruction struct {
	Target   common.Address `json:"target"`
	CallData hexutil.Bytes  `json:"call_data"`
	Value    *big.Int       `json:"value"`
}

// Decision is the outcome of one evaluation. An executing decision always
// carries an instruction with a positive value; a non-executing one never
// carries an instruction. Use noAction and execute to build one.
type Decision struct {
	ShouldExecute bool         `json:"should_execute"`
	Reason        string       `json:"reason"`
	Instruction   *Instruction `json:"instruction,omitempty"`
}

// PriceUnavailable reports whether the decision was cut short by the price source.
func (d Decision) PriceUnavailable() bool {
	return !d.ShouldExecute && strings.HasPrefix(d.Reason, reasonPricePrefix)
}

func noAction(reason string) Decision {
	return Decision{ShouldExecute: false, Reason: reason}
}

func execute(in Instruction) (Decision, error) {
	if in.Value == nil || in.Value.Sign() <= 0 {
		return Decision{}, fmt.Errorf("instruction value must be positive, got %v", in.Value)
	}
	if len(in.CallData) == 0 {
		return Decision{}, fmt.Errorf("instruction call data is empty")
	}
	return Decision{ShouldExecute: true, Reason: ReasonThresholdBreached, Instruction: &in}, nil
}

// Report is a Decision together with the observations it was derived from.
// Quote and Balance are nil when the corresponding read did not happen.
type Report struct {
	Decision    Decision         `json:"decision"`
	Policy      Policy           `json:"policy"`
	Quote       *price.Quote     `json:"quote,omitempty"`
	Balance     *BalanceSnapshot `json:"balance,omitempty"`
	BalanceFiat decimal.Decimal  `json:"balance_fiat"`
}
