// Package market implements the marketplace engine: mint, list, delist and
// the purchase-settlement paths over the external ownership registry,
// access control and payment backends.
package market

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"market_go/internal/domain"
	"market_go/internal/event"
	"market_go/internal/infra"
	"market_go/internal/infra/storage"
	"market_go/internal/registry"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Flat transaction fee applied to every settled sale. Rounding is floor, so
// amounts below 20 units yield a zero fee and the seller keeps everything.
const (
	feeRateNumerator   = 5
	feeRateDenominator = 100
)

// EngineConfig wires the engine to its collaborators. Store, Events and
// Artwork are optional; nil disables persistence, event emission and
// thumbnail fetching respectively.
type EngineConfig struct {
	// Account is the engine's own identity on the payment ledgers.
	Account     string
	FeeReceiver string

	Ownership  domain.OwnershipRegistry
	Access     domain.AccessController
	Bank       domain.NativeBank
	Currencies *registry.CurrencyRegistry

	Store   *storage.Storage
	Events  *event.Dispatcher
	Artwork *infra.ArtworkFetcher
}

// Engine is the marketplace core. Every mutating operation is atomic: it
// either applies all state changes and value transfers or none. Per-asset
// records carry their own lock, held for a whole operation including the
// external calls, so no caller observes interleaved partial effects.
type Engine struct {
	account    string
	ownership  domain.OwnershipRegistry
	access     domain.AccessController
	bank       domain.NativeBank
	currencies *registry.CurrencyRegistry
	store      *storage.Storage
	events     *event.Dispatcher
	artwork    *infra.ArtworkFetcher

	paused atomic.Bool

	mu          sync.RWMutex
	feeReceiver string
	records     map[uint64]*record
	prices      map[domain.PriceKey]decimal.Decimal
	nextID      uint64
}

// record pairs an asset with the exclusive lock serializing its operations.
// The record lock is taken before any external call and released only after
// the operation has fully committed or rolled back.
type record struct {
	mu    sync.Mutex
	asset domain.Asset
}

// NewEngine creates a marketplace engine.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		account:     cfg.Account,
		feeReceiver: cfg.FeeReceiver,
		ownership:   cfg.Ownership,
		access:      cfg.Access,
		bank:        cfg.Bank,
		currencies:  cfg.Currencies,
		store:       cfg.Store,
		events:      cfg.Events,
		artwork:     cfg.Artwork,
		records:     make(map[uint64]*record),
		prices:      make(map[domain.PriceKey]decimal.Decimal),
	}
}

// Account returns the engine's own ledger identity.
func (e *Engine) Account() string {
	return e.account
}

// NativeSymbol returns the implicit native currency symbol.
func (e *Engine) NativeSymbol() string {
	return e.currencies.NativeSymbol()
}

// ======================================================================================
// Administration
// ======================================================================================

// Paused reports whether the halt flag is set.
func (e *Engine) Paused() bool {
	return e.paused.Load()
}

// Pause sets the process-wide halt flag. Pauser role required.
func (e *Engine) Pause(caller string) error {
	if err := e.requireRole(domain.RolePauser, caller); err != nil {
		return err
	}
	e.paused.Store(true)
	infra.GlobalMetrics.SetPaused(true)
	slog.Info("marketplace paused", slog.String("caller", caller))
	return nil
}

// Unpause clears the halt flag. Pauser role required.
func (e *Engine) Unpause(caller string) error {
	if err := e.requireRole(domain.RolePauser, caller); err != nil {
		return err
	}
	e.paused.Store(false)
	infra.GlobalMetrics.SetPaused(false)
	slog.Info("marketplace unpaused", slog.String("caller", caller))
	return nil
}

// SetFeeReceiver configures the identity collecting the flat fee.
// Admin role required; the engine's own account is rejected.
func (e *Engine) SetFeeReceiver(caller, receiver string) error {
	if err := e.requireRole(domain.RoleAdmin, caller); err != nil {
		return err
	}
	if receiver == "" || receiver == e.account {
		return domain.ErrInvalidAddress
	}

	e.mu.Lock()
	e.feeReceiver = receiver
	e.mu.Unlock()
	return nil
}

// RegisterCurrency binds a symbol to a payment backend. Admin role
// required. Re-registering an existing symbol silently replaces the backend.
func (e *Engine) RegisterCurrency(caller, symbol string, backend domain.FungibleBackend) error {
	if err := e.requireRole(domain.RoleAdmin, caller); err != nil {
		return err
	}
	return e.currencies.Register(symbol, backend)
}

// ======================================================================================
// Asset Lifecycle
// ======================================================================================

// Mint creates a new asset owned by creator with an initial listing. It
// returns the freshly allocated sequential id. A failed mint never advances
// the id counter.
func (e *Engine) Mint(creator string, price decimal.Decimal, forSale bool, metadataRef, symbol string) (uint64, error) {
	if e.paused.Load() {
		return 0, domain.ErrPaused
	}
	if creator == "" || creator == e.account {
		return 0, domain.ErrInvalidAddress
	}
	if !e.currencies.IsSupported(symbol) {
		return 0, domain.ErrUnsupportedCurrency
	}
	if !price.IsPositive() {
		return 0, domain.ErrZeroPrice
	}

	saleState := domain.SaleStateNotForSale
	if forSale {
		saleState = domain.SaleStateForSale
	}

	e.mu.Lock()
	id := e.nextID + 1
	if err := e.ownership.Create(id, creator); err != nil {
		e.mu.Unlock()
		return 0, fmt.Errorf("mint: %w", err)
	}
	e.nextID = id
	rec := &record{asset: domain.Asset{
		ID:          id,
		Creator:     creator,
		SaleState:   saleState,
		MetadataRef: metadataRef,
		// Listing at mint time grants the engine its transfer capability
		// immediately, so settlement needs no second authorization step.
		EngineApproved: forSale,
	}}
	e.records[id] = rec
	e.prices[domain.PriceKey{AssetID: id, Symbol: symbol}] = price
	e.mu.Unlock()

	infra.GlobalMetrics.RecordMint()
	e.persistAsset(rec, creator)
	e.publish(&event.CreatedEvent{
		ID:      uuid.NewString(),
		Ts:      time.Now().UnixMicro(),
		Holder:  creator,
		AssetID: id,
		Price:   price,
		ForSale: forSale,
		Symbol:  symbol,
	})

	if e.artwork != nil {
		go e.fetchArtwork(id, metadataRef)
	}

	slog.Info("asset minted",
		slog.Uint64("asset_id", id),
		slog.String("creator", creator),
		slog.String("symbol", symbol),
		slog.String("price", price.String()))
	return id, nil
}

// List puts an asset up for sale at a price in the given currency. Only the
// current owner may list.
func (e *Engine) List(caller string, id uint64, price decimal.Decimal, symbol string) error {
	if e.paused.Load() {
		return domain.ErrPaused
	}

	rec, err := e.record(id)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	owner, err := e.ownership.OwnerOf(id)
	if err != nil {
		return fmt.Errorf("list: %w", domain.ErrInvalidID)
	}
	if owner != caller {
		return domain.ErrNotOwner
	}
	if !e.currencies.IsSupported(symbol) {
		return domain.ErrUnsupportedCurrency
	}
	if !price.IsPositive() {
		return domain.ErrZeroPrice
	}

	rec.asset.SaleState = domain.SaleStateForSale
	rec.asset.EngineApproved = true
	e.setPrice(id, symbol, price)

	infra.GlobalMetrics.RecordListing()
	e.persistAsset(rec, owner)
	e.publish(&event.ListedEvent{
		ID:      uuid.NewString(),
		Ts:      time.Now().UnixMicro(),
		AssetID: id,
		Price:   price,
		Symbol:  symbol,
	})
	return nil
}

// Delist takes an asset off sale and revokes the engine's transfer
// capability. Price entries are deliberately kept, so relisting in a
// previously priced currency is cheap.
func (e *Engine) Delist(caller string, id uint64) error {
	if e.paused.Load() {
		return domain.ErrPaused
	}

	rec, err := e.record(id)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if !rec.asset.IsForSale() {
		return domain.ErrNotForSale
	}
	owner, err := e.ownership.OwnerOf(id)
	if err != nil {
		return fmt.Errorf("delist: %w", domain.ErrInvalidID)
	}
	if owner != caller {
		return domain.ErrNotOwner
	}

	rec.asset.SaleState = domain.SaleStateNotForSale
	rec.asset.EngineApproved = false

	infra.GlobalMetrics.RecordDelisting()
	e.persistAsset(rec, owner)
	e.publish(&event.DelistedEvent{
		ID:      uuid.NewString(),
		Ts:      time.Now().UnixMicro(),
		AssetID: id,
	})
	return nil
}

// ======================================================================================
// Purchase Settlement
// ======================================================================================

// PurchaseWithNative settles a purchase in the native currency. The buyer
// pays paid (at least the listed price); the seller receives paid minus the
// flat fee.
func (e *Engine) PurchaseWithNative(buyer string, id uint64, paid decimal.Decimal) error {
	return e.settle(buyer, id, paid, e.currencies.NativeSymbol(), nil, true)
}

// PurchaseWithFungible settles a purchase in a registered fungible
// currency. The buyer must have pre-authorized the engine for at least
// amount on the backend; the allowance is checked before any transfer.
func (e *Engine) PurchaseWithFungible(buyer string, id uint64, amount decimal.Decimal, symbol string) error {
	backend, isNative, err := e.currencies.Resolve(symbol)
	if err != nil || isNative {
		return domain.ErrUnsupportedCurrency
	}
	return e.settle(buyer, id, amount, symbol, backend, false)
}

// settle is the shared settlement path. Internal state is mutated before
// any external call; on an external failure every completed step is
// compensated under the still-held record lock, so no partial effect is
// ever observable.
func (e *Engine) settle(buyer string, id uint64, amount decimal.Decimal, symbol string, backend domain.FungibleBackend, isNative bool) error {
	start := time.Now()

	if e.paused.Load() {
		return domain.ErrPaused
	}

	rec, err := e.record(id)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if !rec.asset.IsForSale() {
		return domain.ErrNotForSale
	}

	e.mu.RLock()
	feeReceiver := e.feeReceiver
	e.mu.RUnlock()
	if feeReceiver == "" {
		return domain.ErrFeeReceiverUnset
	}

	listed, hasPrice := e.price(id, symbol)
	if !hasPrice {
		return domain.ErrNoPriceForCurrency
	}
	if !listed.IsPositive() {
		return domain.ErrZeroPrice
	}

	seller, err := e.ownership.OwnerOf(id)
	if err != nil {
		return fmt.Errorf("settle: %w", domain.ErrInvalidID)
	}
	if buyer == "" || buyer == seller || buyer == e.account {
		return domain.ErrInvalidAddress
	}

	if amount.LessThan(listed) {
		return domain.ErrInsufficientPayment
	}

	// Pre-authorization gate, checked before any transfer is attempted.
	if !isNative && backend.Allowance(buyer, e.account).LessThan(amount) {
		return domain.ErrInsufficientAuthorization
	}

	fee := amount.Mul(decimal.NewFromInt(feeRateNumerator)).
		Div(decimal.NewFromInt(feeRateDenominator)).Floor()
	net := amount.Sub(fee)

	// Effects before external calls: clear the sale and overwrite the price
	// entry with the amount actually paid (last-sale-price semantics).
	prev := rec.asset
	prevPrice := listed
	rec.asset.SaleState = domain.SaleStateNotForSale
	rec.asset.EngineApproved = false
	e.setPrice(id, symbol, amount)

	restore := func() {
		rec.asset = prev
		e.setPrice(id, symbol, prevPrice)
	}

	if err := e.ownership.Transfer(id, seller, buyer); err != nil {
		restore()
		infra.GlobalMetrics.RecordSettlementFailure()
		return fmt.Errorf("ownership transfer: %w: %v", domain.ErrPaymentTransferFailed, err)
	}

	if err := e.pay(buyer, seller, net, backend, isNative); err != nil {
		e.compensateOwnership(id, buyer, seller)
		restore()
		infra.GlobalMetrics.RecordSettlementFailure()
		return fmt.Errorf("seller payment: %w: %v", domain.ErrPaymentTransferFailed, err)
	}

	if fee.IsPositive() {
		if err := e.pay(buyer, feeReceiver, fee, backend, isNative); err != nil {
			// Undo the completed seller leg before anything else.
			if payErr := e.pay(seller, buyer, net, backend, isNative); payErr != nil {
				slog.Error("compensation failed, ledger inconsistent",
					slog.Uint64("asset_id", id), slog.Any("error", payErr))
			}
			e.compensateOwnership(id, buyer, seller)
			restore()
			infra.GlobalMetrics.RecordSettlementFailure()
			return fmt.Errorf("fee payment: %w: %v", domain.ErrPaymentTransferFailed, err)
		}
	}

	infra.GlobalMetrics.RecordTrade(time.Since(start).Nanoseconds())
	e.persistAsset(rec, buyer)
	e.persistTrade(id, buyer, seller, symbol, listed, amount, fee)

	sold := event.AcquireSoldEvent()
	sold.ID = uuid.NewString()
	sold.Ts = time.Now().UnixMicro()
	sold.Buyer = buyer
	sold.AssetID = id
	sold.Price = listed // originally listed price, not the paid amount
	sold.Symbol = symbol
	e.publish(sold)

	slog.Info("asset sold",
		slog.Uint64("asset_id", id),
		slog.String("buyer", buyer),
		slog.String("seller", seller),
		slog.String("symbol", symbol),
		slog.String("paid", amount.String()),
		slog.String("fee", fee.String()))
	return nil
}

// pay moves one settlement leg over the right primitive.
func (e *Engine) pay(from, to string, amount decimal.Decimal, backend domain.FungibleBackend, isNative bool) error {
	if isNative {
		return e.bank.Transfer(from, to, amount)
	}
	return backend.TransferFrom(from, to, amount)
}

// compensateOwnership gives the asset back to the seller after a failed
// payment leg. A failure here is logged loudly; it cannot happen with an
// in-process registry because the record lock is still held.
func (e *Engine) compensateOwnership(id uint64, buyer, seller string) {
	if err := e.ownership.Transfer(id, buyer, seller); err != nil {
		slog.Error("ownership compensation failed, registry inconsistent",
			slog.Uint64("asset_id", id), slog.Any("error", err))
	}
}

// ======================================================================================
// Query
// ======================================================================================

// GetAssetInfo returns a read-only view of an asset for one currency.
// It works while paused and has no side effects.
func (e *Engine) GetAssetInfo(id uint64, symbol string) (domain.AssetInfo, error) {
	rec, err := e.record(id)
	if err != nil {
		return domain.AssetInfo{}, err
	}
	if !e.currencies.IsSupported(symbol) {
		return domain.AssetInfo{}, domain.ErrUnsupportedCurrency
	}

	rec.mu.Lock()
	asset := rec.asset
	rec.mu.Unlock()

	price, hasPrice := e.price(id, symbol)
	owner, _ := e.ownership.OwnerOf(id)

	return domain.AssetInfo{
		ID:          id,
		Price:       price,
		SaleState:   asset.SaleState,
		MetadataRef: asset.MetadataRef,
		HasPrice:    hasPrice,
		Creator:     asset.Creator,
		Owner:       owner,
	}, nil
}

// TotalAssets returns the number of assets known to the ownership registry.
func (e *Engine) TotalAssets() int {
	return e.ownership.TotalCount()
}

// ======================================================================================
// Hydration & helpers
// ======================================================================================

// Restore reloads persisted assets and prices and re-seeds the ownership
// registry. Called once at bootstrap before the engine serves traffic.
func (e *Engine) Restore(rows []domain.AssetRow, prices []domain.PriceRow) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, row := range rows {
		if !e.ownership.Exists(row.ID) {
			if err := e.ownership.Create(row.ID, row.Owner); err != nil {
				return fmt.Errorf("restore asset %d: %w", row.ID, err)
			}
		}
		e.records[row.ID] = &record{asset: domain.Asset{
			ID:             row.ID,
			Creator:        row.Creator,
			SaleState:      row.SaleState,
			MetadataRef:    row.MetadataRef,
			EngineApproved: row.EngineApproved,
		}}
		if row.ID > e.nextID {
			e.nextID = row.ID
		}
	}

	for _, p := range prices {
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return fmt.Errorf("restore price (%d,%s): %w", p.AssetID, p.Symbol, err)
		}
		e.prices[domain.PriceKey{AssetID: p.AssetID, Symbol: p.Symbol}] = amount
	}
	return nil
}

func (e *Engine) requireRole(role, caller string) error {
	if !e.access.HasRole(role, caller) {
		return domain.NewRoleError(role, caller)
	}
	return nil
}

func (e *Engine) record(id uint64) (*record, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rec, ok := e.records[id]
	if !ok {
		return nil, domain.ErrInvalidID
	}
	return rec, nil
}

func (e *Engine) price(id uint64, symbol string) (decimal.Decimal, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	amount, ok := e.prices[domain.PriceKey{AssetID: id, Symbol: symbol}]
	return amount, ok
}

func (e *Engine) setPrice(id uint64, symbol string, amount decimal.Decimal) {
	e.mu.Lock()
	e.prices[domain.PriceKey{AssetID: id, Symbol: symbol}] = amount
	e.mu.Unlock()
}

func (e *Engine) publish(ev event.Event) {
	if e.events != nil {
		e.events.Publish(ev)
		return
	}
	if sold, ok := ev.(*event.SoldEvent); ok {
		event.ReleaseSoldEvent(sold)
	}
}

// persistAsset writes the record and its price entries through the storage
// layer. Persistence is a journal here, not the source of truth, so a
// failure is logged and does not abort the already-committed operation.
func (e *Engine) persistAsset(rec *record, owner string) {
	if e.store == nil {
		return
	}

	asset := rec.asset
	row := &domain.AssetRow{
		ID:             asset.ID,
		Creator:        asset.Creator,
		Owner:          owner,
		SaleState:      asset.SaleState,
		MetadataRef:    asset.MetadataRef,
		EngineApproved: asset.EngineApproved,
		UpdatedAt:      time.Now(),
	}

	var priceRows []domain.PriceRow
	e.mu.RLock()
	for key, amount := range e.prices {
		if key.AssetID == asset.ID {
			priceRows = append(priceRows, domain.PriceRow{
				AssetID:   key.AssetID,
				Symbol:    key.Symbol,
				Amount:    amount.String(),
				UpdatedAt: time.Now(),
			})
		}
	}
	e.mu.RUnlock()

	if err := e.store.SaveAsset(row, priceRows); err != nil {
		slog.Warn("failed to persist asset",
			slog.Uint64("asset_id", asset.ID), slog.Any("error", err))
	}
}

func (e *Engine) persistTrade(id uint64, buyer, seller, symbol string, listed, paid, fee decimal.Decimal) {
	if e.store == nil {
		return
	}

	trade := &domain.TradeRow{
		TradeID:     uuid.NewString(),
		AssetID:     id,
		Buyer:       buyer,
		Seller:      seller,
		Symbol:      symbol,
		ListedPrice: listed.String(),
		PaidAmount:  paid.String(),
		Fee:         fee.String(),
		SettledAt:   time.Now(),
	}
	if err := e.store.RecordTrade(trade); err != nil {
		slog.Warn("failed to record trade",
			slog.Uint64("asset_id", id), slog.Any("error", err))
	}
}

func (e *Engine) fetchArtwork(id uint64, metadataRef string) {
	path, err := e.artwork.FetchThumbnail(id, metadataRef)
	if err != nil {
		slog.Warn("failed to fetch artwork",
			slog.Uint64("asset_id", id), slog.Any("error", err))
		return
	}
	if path != "" {
		slog.Debug("artwork cached",
			slog.Uint64("asset_id", id), slog.String("path", path))
	}
}
