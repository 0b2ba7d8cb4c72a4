// Package metrics exposes the funder's Prometheus collectors on the default
// registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values for Decisions.
const (
	OutcomeExecute   = "execute"
	OutcomeNoAction  = "no_action"
	OutcomeReadError = "read_error"
)

var (
	BalanceFiat = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "payroll_balance_fiat",
		Help: "Payroll contract balance converted to fiat at the last quote",
	}, []string{"contract"})

	ThresholdFiat = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "payroll_threshold_fiat",
		Help: "Configured top-up threshold in fiat",
	}, []string{"contract"})

	FiatPerUnit = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "payroll_asset_price_fiat",
		Help: "Last fiat price of one whole unit of the funding asset",
	}, []string{"asset", "currency"})

	TopUpUnits = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "payroll_last_top_up_units",
		Help: "Value in smallest units of the last emitted funding instruction",
	}, []string{"contract"})

	Decisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payroll_decisions_total",
		Help: "Evaluations by outcome",
	}, []string{"contract", "outcome"})

	PriceErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payroll_price_errors_total",
		Help: "Evaluations that ended without a usable price",
	})

	PublishErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payroll_publish_errors_total",
		Help: "Records that could not be written to the outbox",
	})

	CycleLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payroll_cycle_duration_seconds",
		Help:    "Time for one evaluation cycle including outbox publish",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		BalanceFiat,
		ThresholdFiat,
		FiatPerUnit,
		TopUpUnits,
		Decisions,
		PriceErrors,
		PublishErrors,
		CycleLatency,
	)
}
