package config

import (
	"fmt"
	"os"
	"strconv"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/strategy"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider  string `yaml:"provider"` // yahoo, alphavantage, binance, rest, mock
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		SecretKey string `yaml:"secret_key"`
		Symbol    string `yaml:"symbol"`
		Interval  string `yaml:"interval"`
		Lookback  int    `yaml:"lookback"`
	} `yaml:"data_source"`
	Indicators struct {
		SMAFast     int    `yaml:"sma_fast"`
		SMASlow     int    `yaml:"sma_slow"`
		RSIPeriod   int    `yaml:"rsi_period"`
		RSIZeroLoss string `yaml:"rsi_zero_loss"` // saturate or substitute
		MACDFast    int    `yaml:"macd_fast"`
		MACDSlow    int    `yaml:"macd_slow"`
		MACDSignal  int    `yaml:"macd_signal"`
	} `yaml:"indicators"`
	Strategy struct {
		Policy     string  `yaml:"policy"`
		Oversold   float64 `yaml:"oversold"`
		Overbought float64 `yaml:"overbought"`
	} `yaml:"strategy"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	// A missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("DATA_INTERVAL"); v != "" {
		cfg.DataSource.Interval = v
	}
	if v := os.Getenv("DATA_LOOKBACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.Lookback = n
		}
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.DataSource.SecretKey = v
	}
	if v := os.Getenv("REST_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SIGNAL_POLICY"); v != "" {
		cfg.Strategy.Policy = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		cfg.Schedule.RunOnStart = v == "true"
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := calculator.DefaultParams()
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "BTC-USD"
	}
	if c.DataSource.Interval == "" {
		c.DataSource.Interval = "60m"
	}
	if c.DataSource.Lookback == 0 {
		c.DataSource.Lookback = 300
	}
	if c.Indicators.SMAFast == 0 {
		c.Indicators.SMAFast = def.SMAFast
	}
	if c.Indicators.SMASlow == 0 {
		c.Indicators.SMASlow = def.SMASlow
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = def.RSIPeriod
	}
	// "substitute" reproduces the avg-loss-of-one rule; see calculator.GuardSubstituteOne.
	if c.Indicators.RSIZeroLoss == "" {
		c.Indicators.RSIZeroLoss = "saturate"
	}
	if c.Indicators.MACDFast == 0 {
		c.Indicators.MACDFast = def.MACDFast
	}
	if c.Indicators.MACDSlow == 0 {
		c.Indicators.MACDSlow = def.MACDSlow
	}
	if c.Indicators.MACDSignal == 0 {
		c.Indicators.MACDSignal = def.MACDSignal
	}
	if c.Strategy.Policy == "" {
		c.Strategy.Policy = string(strategy.DefaultPolicy)
	}
	th := strategy.DefaultThresholds()
	if c.Strategy.Oversold == 0 {
		c.Strategy.Oversold = th.Oversold
	}
	if c.Strategy.Overbought == 0 {
		c.Strategy.Overbought = th.Overbought
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "@every 60s"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/signal_sentinel.db"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "binance", "mock":
	case "alphavantage":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for alphavantage")
		}
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for rest")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if _, err := strategy.ParsePolicy(c.Strategy.Policy); err != nil {
		return fmt.Errorf("strategy.policy: %w", err)
	}
	if c.Strategy.Oversold >= c.Strategy.Overbought {
		return fmt.Errorf("strategy.oversold must be below strategy.overbought")
	}
	if _, err := c.zeroLossGuard(); err != nil {
		return err
	}
	ind := c.Indicators
	if ind.SMAFast <= 0 || ind.SMASlow <= 0 || ind.RSIPeriod <= 0 {
		return fmt.Errorf("indicator periods must be positive")
	}
	if ind.MACDFast <= 0 || ind.MACDSignal <= 0 || ind.MACDFast >= ind.MACDSlow {
		return fmt.Errorf("indicators.macd_fast must be positive and below macd_slow")
	}
	if c.DataSource.Lookback < c.Params().MinPrices() {
		return fmt.Errorf("data_source.lookback must be at least %d", c.Params().MinPrices())
	}
	return nil
}

func (c *Config) zeroLossGuard() (calculator.ZeroLossGuard, error) {
	switch c.Indicators.RSIZeroLoss {
	case "", "saturate":
		return calculator.GuardSaturate, nil
	case "substitute":
		return calculator.GuardSubstituteOne, nil
	}
	return 0, fmt.Errorf("indicators.rsi_zero_loss %q must be saturate or substitute", c.Indicators.RSIZeroLoss)
}

// Params returns the indicator periods as calculator parameters.
func (c *Config) Params() calculator.Params {
	guard, _ := c.zeroLossGuard()
	return calculator.Params{
		SMAFast:    c.Indicators.SMAFast,
		SMASlow:    c.Indicators.SMASlow,
		RSIPeriod:  c.Indicators.RSIPeriod,
		RSIGuard:   guard,
		MACDFast:   c.Indicators.MACDFast,
		MACDSlow:   c.Indicators.MACDSlow,
		MACDSignal: c.Indicators.MACDSignal,
	}
}

// Engine builds the signal engine for the configured policy and thresholds.
func (c *Config) Engine() (*strategy.Engine, error) {
	p, err := strategy.ParsePolicy(c.Strategy.Policy)
	if err != nil {
		return nil, err
	}
	return &strategy.Engine{
		Policy: p,
		Thresholds: strategy.Thresholds{
			Oversold:   c.Strategy.Oversold,
			Overbought: c.Strategy.Overbought,
		},
	}, nil
}
