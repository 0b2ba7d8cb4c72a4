package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-payroll-funder/internal/api"
	"github.com/0gfoundation/0g-payroll-funder/internal/auth"
	"github.com/0gfoundation/0g-payroll-funder/internal/chain"
	"github.com/0gfoundation/0g-payroll-funder/internal/config"
	"github.com/0gfoundation/0g-payroll-funder/internal/funding"
	"github.com/0gfoundation/0g-payroll-funder/internal/outbox"
	"github.com/0gfoundation/0g-payroll-funder/internal/price"
	"github.com/0gfoundation/0g-payroll-funder/internal/runner"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	// ── Funding policy ────────────────────────────────────────────────────────
	policy, err := funding.ParsePolicy(cfg.Payroll.ContractAddress, cfg.Funding.TopUpAmountFiat, cfg.Funding.ThresholdFiat)
	if err != nil {
		log.Fatal("funding policy rejected", zap.Error(err))
	}
	operators, err := cfg.OperatorAddresses()
	if err != nil {
		log.Fatal("operator list rejected", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Redis ─────────────────────────────────────────────────────────────────
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis ping failed", zap.Error(err))
	}

	// ── Chain client (read-only) ──────────────────────────────────────────────
	onchain, err := chain.NewClient(cfg)
	if err != nil {
		log.Fatal("chain client init failed", zap.Error(err))
	}
	defer onchain.Close()
	if err := onchain.VerifyChainID(ctx); err != nil {
		log.Fatal("chain id check failed", zap.Error(err))
	}

	// ── Price source ──────────────────────────────────────────────────────────
	prices := price.NewCoinGecko(
		cfg.Price.APIURL,
		cfg.Price.APIKey,
		cfg.Price.Currency,
		time.Duration(cfg.Price.TimeoutMs)*time.Millisecond,
	)

	// ── Engine, outbox, runner ────────────────────────────────────────────────
	engine := funding.NewEngine(prices, onchain, cfg.Price.Asset, cfg.Funding.AssetDecimals, log)
	store := outbox.NewStore(rdb, policy.PayrollContract)
	run := runner.New(engine, store, policy, onchain.ChainID(), log)

	log.Info("payroll funder configured",
		zap.String("contract", policy.PayrollContract.Hex()),
		zap.String("threshold_fiat", policy.ThresholdFiat.String()),
		zap.String("top_up_fiat", policy.TopUpAmountFiat.String()),
		zap.String("asset", cfg.Price.Asset),
		zap.String("currency", cfg.Price.Currency),
		zap.Int("operators", len(operators)),
	)

	// ── Goroutines ────────────────────────────────────────────────────────────
	go func() {
		if err := run.Schedule(ctx, cfg.Schedule.Cron, cfg.Schedule.RunOnStart); err != nil {
			log.Fatal("scheduler failed", zap.Error(err))
		}
	}()

	// ── HTTP server ───────────────────────────────────────────────────────────
	verifier := auth.NewVerifier(rdb, operators, log)
	handler := api.NewHandler(run, store, log)
	r := api.NewRouter(handler, verifier.Require(api.ActionEvaluate))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	log.Info("shutdown complete")
}
