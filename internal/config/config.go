package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// MaxPriceTimeoutMs caps the price source timeout; a slower feed is treated
// as unavailable for the cycle.
const MaxPriceTimeoutMs = 5000

type Config struct {
	Chain    ChainConfig
	Payroll  PayrollConfig
	Funding  FundingConfig
	Price    PriceConfig
	Schedule ScheduleConfig
	Redis    RedisConfig
	Server   ServerConfig
}

type ChainConfig struct {
	RPCURL  string `mapstructure:"rpc_url"`
	ChainID int64  `mapstructure:"chain_id"`
}

type PayrollConfig struct {
	ContractAddress string `mapstructure:"contract_address"`
}

// FundingConfig amounts stay strings here; they are parsed into decimals by
// funding.ParsePolicy so malformed values surface as policy errors.
type FundingConfig struct {
	TopUpAmountFiat string `mapstructure:"top_up_amount_fiat"`
	ThresholdFiat   string `mapstructure:"threshold_fiat"`
	AssetDecimals   int32  `mapstructure:"asset_decimals"`
}

type PriceConfig struct {
	APIURL    string `mapstructure:"api_url"`
	APIKey    string `mapstructure:"api_key"`
	Asset     string `mapstructure:"asset"`
	Currency  string `mapstructure:"currency"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

type ScheduleConfig struct {
	Cron       string `mapstructure:"cron"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	Operators string `mapstructure:"operators"` // comma-separated wallet addresses
}

// Policy keys a caller may override through LoadWith.
const (
	KeyPayrollContract = "payroll.contract_address"
	KeyTopUpAmountFiat = "funding.top_up_amount_fiat"
	KeyThresholdFiat   = "funding.threshold_fiat"
)

func Load() (*Config, error) {
	return LoadWith(nil)
}

// LoadWith is Load with explicit values that take precedence over the config
// file and the environment. Empty values are ignored. Overrides are applied
// before validation.
func LoadWith(overrides map[string]string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("funding.asset_decimals", 18)
	v.SetDefault("price.api_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("price.asset", "ethereum")
	v.SetDefault("price.currency", "usd")
	v.SetDefault("price.timeout_ms", MaxPriceTimeoutMs)
	v.SetDefault("schedule.cron", "@every 5m")
	v.SetDefault("schedule.run_on_start", true)
	v.SetDefault("redis.addr", "redis:6379")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit env bindings
	bindings := map[string]string{
		"chain.rpc_url":              "RPC_URL",
		"chain.chain_id":             "CHAIN_ID",
		"payroll.contract_address":   "PAYROLL_CONTRACT",
		"funding.top_up_amount_fiat": "TOP_UP_AMOUNT_FIAT",
		"funding.threshold_fiat":     "THRESHOLD_FIAT",
		"funding.asset_decimals":     "ASSET_DECIMALS",
		"price.api_url":              "PRICE_API_URL",
		"price.api_key":              "PRICE_API_KEY",
		"price.asset":                "PRICE_ASSET",
		"price.currency":             "PRICE_CURRENCY",
		"price.timeout_ms":           "PRICE_TIMEOUT_MS",
		"schedule.cron":              "SCHEDULE_CRON",
		"schedule.run_on_start":      "RUN_ON_START",
		"redis.addr":                 "REDIS_ADDR",
		"redis.password":             "REDIS_PASSWORD",
		"server.port":                "PORT",
		"server.operators":           "OPERATORS",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	for key, val := range overrides {
		if val != "" {
			v.Set(key, val)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	type req struct {
		val  string
		name string
	}
	for _, r := range []req{
		{c.Chain.RPCURL, "RPC_URL"},
		{c.Payroll.ContractAddress, "PAYROLL_CONTRACT"},
		{c.Funding.TopUpAmountFiat, "TOP_UP_AMOUNT_FIAT"},
		{c.Funding.ThresholdFiat, "THRESHOLD_FIAT"},
		{c.Price.APIURL, "PRICE_API_URL"},
		{c.Price.Asset, "PRICE_ASSET"},
		{c.Price.Currency, "PRICE_CURRENCY"},
	} {
		if r.val == "" {
			return fmt.Errorf("required config missing: %s", r.name)
		}
	}
	if c.Chain.ChainID == 0 {
		return fmt.Errorf("required config missing: CHAIN_ID")
	}
	if c.Price.TimeoutMs <= 0 || c.Price.TimeoutMs > MaxPriceTimeoutMs {
		return fmt.Errorf("PRICE_TIMEOUT_MS must be in (0, %d], got %d", MaxPriceTimeoutMs, c.Price.TimeoutMs)
	}
	if c.Funding.AssetDecimals < 0 || c.Funding.AssetDecimals > 36 {
		return fmt.Errorf("ASSET_DECIMALS out of range: %d", c.Funding.AssetDecimals)
	}
	if _, err := c.OperatorAddresses(); err != nil {
		return err
	}
	return nil
}

// OperatorAddresses parses the OPERATORS allow-list. An empty list is valid
// and disables the manual trigger endpoint.
func (c *Config) OperatorAddresses() ([]common.Address, error) {
	var out []common.Address
	for _, raw := range strings.Split(c.Server.Operators, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("OPERATORS: invalid address %q", raw)
		}
		out = append(out, common.HexToAddress(raw))
	}
	return out, nil
}
