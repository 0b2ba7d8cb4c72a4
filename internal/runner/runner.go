// Package runner drives evaluation cycles: evaluate, record metrics, publish
// to the outbox. Cycles are serialised so a manual trigger and a scheduled
// tick never overlap.
package runner

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/0gfoundation/0g-payroll-funder/internal/funding"
	"github.com/0gfoundation/0g-payroll-funder/internal/metrics"
	"github.com/0gfoundation/0g-payroll-funder/internal/outbox"
)

// CycleTimeout bounds one cycle: price fetch, balance read and publish.
const CycleTimeout = 30 * time.Second

// Evaluator is satisfied by *funding.Engine.
type Evaluator interface {
	Report(ctx context.Context, policy funding.Policy) (funding.Report, error)
}

// Publisher is satisfied by *outbox.Store.
type Publisher interface {
	Publish(ctx context.Context, rec outbox.Record) error
}

type Runner struct {
	mu      sync.Mutex
	engine  Evaluator
	out     Publisher
	policy  funding.Policy
	chainID *big.Int
	log     *zap.Logger
	now     func() time.Time
}

func New(engine Evaluator, out Publisher, policy funding.Policy, chainID *big.Int, log *zap.Logger) *Runner {
	return &Runner{
		engine:  engine,
		out:     out,
		policy:  policy,
		chainID: chainID,
		log:     log,
		now:     time.Now,
	}
}

// RunOnce performs one cycle. A *funding.ContractReadError or
// *funding.PolicyError is returned as is and nothing is published. If the
// publish fails the record is still returned alongside the error.
func (r *Runner) RunOnce(ctx context.Context) (outbox.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, CycleTimeout)
	defer cancel()

	start := r.now()
	defer func() { metrics.CycleLatency.Observe(time.Since(start).Seconds()) }()

	contract := r.policy.PayrollContract.Hex()
	rep, err := r.engine.Report(ctx, r.policy)
	if err != nil {
		var cre *funding.ContractReadError
		if errors.As(err, &cre) {
			metrics.ObserveReadError(contract)
			r.log.Error("runner: read total funds, skip cycle", zap.String("contract", contract), zap.Error(err))
		} else {
			r.log.Error("runner: evaluate", zap.String("contract", contract), zap.Error(err))
		}
		return outbox.Record{}, err
	}
	// A caller cancellation surfaces as a failed price or balance read; the
	// resulting decision says nothing about the contract and is dropped.
	if err := parent.Err(); err != nil {
		r.log.Info("runner: cycle cancelled, record dropped", zap.String("contract", contract), zap.Error(err))
		return outbox.Record{}, err
	}
	metrics.ObserveReport(rep)

	rec := outbox.Record{Report: rep, ChainID: r.chainID, EvaluatedAt: start.UTC()}
	if err := r.out.Publish(ctx, rec); err != nil {
		metrics.PublishErrors.Inc()
		r.log.Error("runner: publish", zap.String("contract", contract), zap.Error(err))
		return rec, err
	}

	fields := []zap.Field{
		zap.String("contract", contract),
		zap.Bool("execute", rep.Decision.ShouldExecute),
		zap.String("reason", rep.Decision.Reason),
	}
	if in := rep.Decision.Instruction; in != nil {
		fields = append(fields, zap.String("value", in.Value.String()))
	}
	r.log.Info("runner: cycle done", fields...)
	return rec, nil
}
