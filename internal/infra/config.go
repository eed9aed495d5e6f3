package infra

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// CurrencyConfig declares one fungible currency to preregister at startup,
// with optional seeded balances for local runs.
type CurrencyConfig struct {
	Symbol   string                     `yaml:"symbol"`
	Balances map[string]decimal.Decimal `yaml:"balances"`
}

// Config holds the full application configuration. Sensitive or
// deployment-specific values can be overridden through environment
// variables after loading.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Market struct {
		NativeSymbol  string           `yaml:"native_symbol"`
		EngineAccount string           `yaml:"engine_account"`
		FeeReceiver   string           `yaml:"fee_receiver"`
		Admins        []string         `yaml:"admins"`
		Pausers       []string         `yaml:"pausers"`
		Minters       []string         `yaml:"minters"`
		Currencies    []CurrencyConfig `yaml:"currencies"`
	} `yaml:"market"`

	Server struct {
		APIAddr string `yaml:"api_addr"`
	} `yaml:"server"`

	Storage struct {
		Path string `yaml:"path"` // empty means the per-OS default location
	} `yaml:"storage"`

	Media struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"media"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Market.NativeSymbol == "" {
		return fmt.Errorf("native symbol is required")
	}
	if c.Market.EngineAccount == "" {
		return fmt.Errorf("engine account is required")
	}
	if c.Market.FeeReceiver == c.Market.EngineAccount && c.Market.FeeReceiver != "" {
		return fmt.Errorf("fee receiver must not be the engine account")
	}
	for _, cur := range c.Market.Currencies {
		if cur.Symbol == "" {
			return fmt.Errorf("currency with empty symbol")
		}
		if cur.Symbol == c.Market.NativeSymbol {
			return fmt.Errorf("currency %s shadows the native symbol", cur.Symbol)
		}
	}
	if c.Server.APIAddr == "" {
		return fmt.Errorf("API listen address is required")
	}
	return nil
}

// overrideWithEnv overrides config values from environment variables when present.
func overrideWithEnv(cfg *Config) {
	if addr := os.Getenv("MARKET_API_ADDR"); addr != "" {
		cfg.Server.APIAddr = addr
	}
	if recv := os.Getenv("MARKET_FEE_RECEIVER"); recv != "" {
		cfg.Market.FeeReceiver = recv
	}
	if path := os.Getenv("MARKET_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}
	if level := os.Getenv("MARKET_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
