package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

const sampleConfig = `
app:
  name: market-go
  version: 0.1.0
market:
  native_symbol: NATIVE
  engine_account: marketplace
  fee_receiver: treasury
  admins: [root]
  pausers: [root]
  currencies:
    - symbol: USDT
      balances:
        alice: "500"
server:
  api_addr: ":8080"
logging:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Market.NativeSymbol != "NATIVE" {
		t.Errorf("NativeSymbol = %s, want NATIVE", cfg.Market.NativeSymbol)
	}
	if len(cfg.Market.Currencies) != 1 || cfg.Market.Currencies[0].Symbol != "USDT" {
		t.Fatalf("unexpected currencies: %+v", cfg.Market.Currencies)
	}
	if bal, ok := cfg.Market.Currencies[0].Balances["alice"]; !ok || !bal.Equal(decimal.NewFromInt(500)) {
		t.Errorf("alice balance = %v", bal)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MARKET_FEE_RECEIVER", "vault")
	t.Setenv("MARKET_API_ADDR", ":9090")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Market.FeeReceiver != "vault" {
		t.Errorf("FeeReceiver = %s, want vault", cfg.Market.FeeReceiver)
	}
	if cfg.Server.APIAddr != ":9090" {
		t.Errorf("APIAddr = %s, want :9090", cfg.Server.APIAddr)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing native symbol", func(c *Config) { c.Market.NativeSymbol = "" }},
		{"missing engine account", func(c *Config) { c.Market.EngineAccount = "" }},
		{"fee receiver is engine", func(c *Config) { c.Market.FeeReceiver = c.Market.EngineAccount }},
		{"currency shadows native", func(c *Config) {
			c.Market.Currencies = []CurrencyConfig{{Symbol: c.Market.NativeSymbol}}
		}},
		{"missing api addr", func(c *Config) { c.Server.APIAddr = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, sampleConfig))
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected Validate to fail")
			}
		})
	}
}
