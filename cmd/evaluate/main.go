// cmd/evaluate/main.go — runs one funding evaluation and prints the result.
//
// Intended for an external trigger (cron job, CI step, keeper). Configuration
// comes from the same env / config.yaml as the service; flags override the
// policy for a single run.
//
// Usage examples:
//
//   # evaluate with the live price
//   go run ./cmd/evaluate/
//
//   # pin the price and try a different threshold
//   go run ./cmd/evaluate/ --price 2000 --threshold 1500
//
//   # also hand the result to the submitter queue (configured policy and
//   # live price only; refused together with --price or a policy override)
//   go run ./cmd/evaluate/ --publish
//
// Exit codes: 0 decision produced, 1 contract read or runtime failure,
// 2 invalid policy or flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-payroll-funder/internal/chain"
	"github.com/0gfoundation/0g-payroll-funder/internal/config"
	"github.com/0gfoundation/0g-payroll-funder/internal/funding"
	"github.com/0gfoundation/0g-payroll-funder/internal/outbox"
	"github.com/0gfoundation/0g-payroll-funder/internal/price"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitPolicy  = 2
)

type options struct {
	contract  string
	topUp     string
	threshold string
	price     string
	report    bool
	publish   bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.contract, "contract", "", "payroll contract address (overrides PAYROLL_CONTRACT)")
	fs.StringVar(&o.topUp, "top-up", "", "top-up amount in fiat (overrides TOP_UP_AMOUNT_FIAT)")
	fs.StringVar(&o.threshold, "threshold", "", "threshold in fiat (overrides THRESHOLD_FIAT)")
	fs.StringVar(&o.price, "price", "", "pin the fiat price per unit instead of querying the price source")
	fs.BoolVar(&o.report, "report", false, "print the full report (quote, balance) instead of the decision")
	fs.BoolVar(&o.publish, "publish", false, "publish the result to the Redis outbox")
	return o, fs.Parse(args)
}

// overridden reports whether the run departs from the configured policy or
// the live price. Such a run is a what-if and must not reach the submitter.
func (o options) overridden() bool {
	return o.price != "" || o.contract != "" || o.topUp != "" || o.threshold != ""
}

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, log))
}

func run(args []string, stdout, stderr io.Writer, log *zap.Logger) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return exitPolicy
	}

	if opts.publish && opts.overridden() {
		fmt.Fprintln(stderr, "error: --publish cannot be combined with --price, --contract, --top-up or --threshold")
		return exitPolicy
	}

	cfg, err := config.LoadWith(map[string]string{
		config.KeyPayrollContract: opts.contract,
		config.KeyTopUpAmountFiat: opts.topUp,
		config.KeyThresholdFiat:   opts.threshold,
	})
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitPolicy
	}

	policy, err := funding.ParsePolicy(cfg.Payroll.ContractAddress, cfg.Funding.TopUpAmountFiat, cfg.Funding.ThresholdFiat)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitPolicy
	}

	var prices price.Provider = price.NewCoinGecko(
		cfg.Price.APIURL, cfg.Price.APIKey, cfg.Price.Currency,
		time.Duration(cfg.Price.TimeoutMs)*time.Millisecond,
	)
	if opts.price != "" {
		px, err := decimal.NewFromString(opts.price)
		if err != nil || !px.IsPositive() {
			fmt.Fprintf(stderr, "error: --price must be a positive number, got %q\n", opts.price)
			return exitPolicy
		}
		prices = price.Static{Currency: cfg.Price.Currency, FiatPerUnit: px}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	onchain, err := chain.NewClient(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitRuntime
	}
	defer onchain.Close()

	engine := funding.NewEngine(prices, onchain, cfg.Price.Asset, cfg.Funding.AssetDecimals, log)

	var pub publisher
	if opts.publish {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		pub = outbox.NewStore(rdb, policy.PayrollContract)
	}
	return evaluate(ctx, engine, policy, onchain.ChainID(), pub, opts.report, stdout, stderr)
}

type publisher interface {
	Publish(ctx context.Context, rec outbox.Record) error
}

// evaluate runs the engine once, optionally publishes, and prints JSON.
func evaluate(
	ctx context.Context,
	engine *funding.Engine,
	policy funding.Policy,
	chainID *big.Int,
	pub publisher,
	full bool,
	stdout, stderr io.Writer,
) int {
	rep, err := engine.Report(ctx, policy)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		var pe *funding.PolicyError
		if errors.As(err, &pe) {
			return exitPolicy
		}
		return exitRuntime
	}

	rec := outbox.Record{Report: rep, ChainID: chainID, EvaluatedAt: time.Now().UTC()}
	if pub != nil {
		if err := pub.Publish(ctx, rec); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return exitRuntime
		}
	}

	var out any = rep.Decision
	if full {
		out = rec
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitRuntime
	}
	return exitOK
}
