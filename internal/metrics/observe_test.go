package metrics

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/0gfoundation/0g-payroll-funder/internal/funding"
	"github.com/0gfoundation/0g-payroll-funder/internal/price"
)

var testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func baseReport() funding.Report {
	return funding.Report{
		Policy: funding.Policy{
			PayrollContract: testContract,
			TopUpAmountFiat: decimal.RequireFromString("500"),
			ThresholdFiat:   decimal.RequireFromString("1500"),
		},
	}
}

func TestObserveReport_Execute(t *testing.T) {
	rep := baseReport()
	rep.Quote = &price.Quote{Asset: "ethereum", Currency: "usd", FiatPerUnit: decimal.RequireFromString("2000"), FetchedAt: time.Now()}
	rep.Balance = &funding.BalanceSnapshot{RawBalance: big.NewInt(5e17), ObservedAt: time.Now()}
	rep.BalanceFiat = decimal.RequireFromString("1000")
	rep.Decision = funding.Decision{
		ShouldExecute: true,
		Reason:        funding.ReasonThresholdBreached,
		Instruction:   &funding.Instruction{Target: testContract, CallData: []byte{1}, Value: big.NewInt(25e16)},
	}

	before := testutil.ToFloat64(Decisions.WithLabelValues(testContract.Hex(), OutcomeExecute))
	ObserveReport(rep)

	if got := testutil.ToFloat64(Decisions.WithLabelValues(testContract.Hex(), OutcomeExecute)); got != before+1 {
		t.Errorf("execute counter: got %v want %v", got, before+1)
	}
	if got := testutil.ToFloat64(BalanceFiat.WithLabelValues(testContract.Hex())); got != 1000 {
		t.Errorf("balance gauge: got %v want 1000", got)
	}
	if got := testutil.ToFloat64(FiatPerUnit.WithLabelValues("ethereum", "usd")); got != 2000 {
		t.Errorf("price gauge: got %v want 2000", got)
	}
	if got := testutil.ToFloat64(TopUpUnits.WithLabelValues(testContract.Hex())); got != 25e16 {
		t.Errorf("top-up gauge: got %v want 2.5e17", got)
	}
	if got := testutil.ToFloat64(ThresholdFiat.WithLabelValues(testContract.Hex())); got != 1500 {
		t.Errorf("threshold gauge: got %v want 1500", got)
	}
}

func TestObserveReport_PriceFailure(t *testing.T) {
	rep := baseReport()
	rep.Decision = funding.Decision{Reason: "price source unavailable: timeout"}

	before := testutil.ToFloat64(PriceErrors)
	noAction := testutil.ToFloat64(Decisions.WithLabelValues(testContract.Hex(), OutcomeNoAction))
	ObserveReport(rep)

	if got := testutil.ToFloat64(PriceErrors); got != before+1 {
		t.Errorf("price errors: got %v want %v", got, before+1)
	}
	if got := testutil.ToFloat64(Decisions.WithLabelValues(testContract.Hex(), OutcomeNoAction)); got != noAction+1 {
		t.Errorf("no-action counter: got %v want %v", got, noAction+1)
	}
}

func TestObserveReadError(t *testing.T) {
	c := Decisions.WithLabelValues(testContract.Hex(), OutcomeReadError)
	before := testutil.ToFloat64(c)
	ObserveReadError(testContract.Hex())
	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("read errors: got %v want %v", got, before+1)
	}
}
