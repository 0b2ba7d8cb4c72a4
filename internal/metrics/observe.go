package metrics

import (
	"math/big"

	"github.com/0gfoundation/0g-payroll-funder/internal/funding"
)

// ObserveReport records gauges and the outcome counter for one evaluation.
func ObserveReport(rep funding.Report) {
	contract := rep.Policy.PayrollContract.Hex()
	ThresholdFiat.WithLabelValues(contract).Set(rep.Policy.ThresholdFiat.InexactFloat64())

	if rep.Quote != nil {
		FiatPerUnit.WithLabelValues(rep.Quote.Asset, rep.Quote.Currency).Set(rep.Quote.FiatPerUnit.InexactFloat64())
	}
	if rep.Balance != nil {
		BalanceFiat.WithLabelValues(contract).Set(rep.BalanceFiat.InexactFloat64())
	}

	if rep.Decision.ShouldExecute {
		Decisions.WithLabelValues(contract, OutcomeExecute).Inc()
		v, _ := new(big.Float).SetInt(rep.Decision.Instruction.Value).Float64()
		TopUpUnits.WithLabelValues(contract).Set(v)
		return
	}
	Decisions.WithLabelValues(contract, OutcomeNoAction).Inc()
	if rep.Decision.PriceUnavailable() {
		PriceErrors.Inc()
	}
}

// ObserveReadError counts an evaluation aborted by a failed balance read.
func ObserveReadError(contract string) {
	Decisions.WithLabelValues(contract, OutcomeReadError).Inc()
}
