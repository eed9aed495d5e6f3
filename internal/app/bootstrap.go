package app

import (
	"log/slog"

	"market_go/internal/domain"
	"market_go/internal/event"
	"market_go/internal/infra"
	"market_go/internal/infra/storage"
	"market_go/internal/ledger"
	"market_go/internal/market"
	"market_go/internal/registry"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	Storage    *storage.Storage
	Engine     *market.Engine
	Dispatcher *event.Dispatcher
	Bank       *ledger.Bank
	Tokens     map[string]*ledger.Token
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, DB, ledgers, engine)
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping Market Go...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Ledgers and roles
	ownership := ledger.NewOwnershipBook()
	roles := ledger.NewRoleTable()
	for _, acct := range cfg.Market.Admins {
		roles.Grant(domain.RoleAdmin, acct)
	}
	for _, acct := range cfg.Market.Pausers {
		roles.Grant(domain.RolePauser, acct)
	}
	for _, acct := range cfg.Market.Minters {
		roles.Grant(domain.RoleOfficialMinter, acct)
	}
	b.Bank = ledger.NewBank()

	// 5. Currency registry with configured fungible backends
	currencies := registry.NewCurrencyRegistry(cfg.Market.NativeSymbol)
	b.Tokens = make(map[string]*ledger.Token, len(cfg.Market.Currencies))
	for _, cur := range cfg.Market.Currencies {
		token := ledger.NewToken(cur.Symbol)
		for acct, amount := range cur.Balances {
			token.Deposit(acct, amount)
		}
		if err := currencies.Register(cur.Symbol, token); err != nil {
			return err
		}
		b.Tokens[cur.Symbol] = token
	}
	slog.Info("✅ Currencies registered", slog.Any("symbols", currencies.Symbols()))

	// 6. Optional artwork fetcher
	var artwork *infra.ArtworkFetcher
	if cfg.Media.Enabled {
		artwork, err = infra.NewArtworkFetcher()
		if err != nil {
			return err
		}
		slog.Info("✅ Artwork fetcher ready")
	}

	// 7. Event dispatcher and engine
	event.Warmup()
	b.Dispatcher = event.NewDispatcher(1024)

	b.Engine = market.NewEngine(market.EngineConfig{
		Account:     cfg.Market.EngineAccount,
		FeeReceiver: cfg.Market.FeeReceiver,
		Ownership:   ownership,
		Access:      roles,
		Bank:        b.Bank,
		Currencies:  currencies,
		Store:       store,
		Events:      b.Dispatcher,
		Artwork:     artwork,
	})

	return nil
}

// Hydrate replays persisted assets and prices into the engine so the
// marketplace resumes exactly where the previous run stopped.
func (b *Bootstrap) Hydrate() error {
	rows, prices, err := b.Storage.LoadAssets()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		slog.Info("🔄 No persisted assets, starting fresh")
		return nil
	}
	if err := b.Engine.Restore(rows, prices); err != nil {
		return err
	}
	slog.Info("✨ State hydrated", slog.Int("assets", len(rows)), slog.Int("prices", len(prices)))
	return nil
}
