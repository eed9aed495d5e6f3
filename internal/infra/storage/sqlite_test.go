package storage

import (
	"path/filepath"
	"testing"
	"time"

	"market_go/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *Storage {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&domain.AssetRow{}, &domain.PriceRow{}, &domain.TradeRow{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return &Storage{db: db}
}

func TestSaveAndGetAsset(t *testing.T) {
	s := setupTestDB(t)

	row := &domain.AssetRow{
		ID:          1,
		Creator:     "alice",
		Owner:       "alice",
		SaleState:   domain.SaleStateForSale,
		MetadataRef: "ipfs://abc",
		UpdatedAt:   time.Now(),
	}
	prices := []domain.PriceRow{
		{AssetID: 1, Symbol: "NATIVE", Amount: "100"},
	}

	if err := s.SaveAsset(row, prices); err != nil {
		t.Fatalf("SaveAsset failed: %v", err)
	}

	fetched, err := s.GetAsset(1)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("fetched asset is nil")
	}
	if fetched.Creator != "alice" || fetched.SaleState != domain.SaleStateForSale {
		t.Errorf("unexpected row: %+v", fetched)
	}
}

func TestSaveAssetUpdatesPrices(t *testing.T) {
	s := setupTestDB(t)

	row := &domain.AssetRow{ID: 2, Creator: "bob", Owner: "bob", SaleState: domain.SaleStateForSale}
	s.SaveAsset(row, []domain.PriceRow{{AssetID: 2, Symbol: "USDT", Amount: "50"}})

	// Price overwrite for the same (asset, symbol) key
	row.SaleState = domain.SaleStateNotForSale
	if err := s.SaveAsset(row, []domain.PriceRow{{AssetID: 2, Symbol: "USDT", Amount: "75"}}); err != nil {
		t.Fatalf("second SaveAsset failed: %v", err)
	}

	_, prices, err := s.LoadAssets()
	if err != nil {
		t.Fatalf("LoadAssets failed: %v", err)
	}
	if len(prices) != 1 {
		t.Fatalf("expected 1 price row, got %d", len(prices))
	}
	if prices[0].Amount != "75" {
		t.Errorf("amount = %s, want 75", prices[0].Amount)
	}
}

func TestLoadAssetsOrdered(t *testing.T) {
	s := setupTestDB(t)

	for id := uint64(3); id >= 1; id-- {
		s.SaveAsset(&domain.AssetRow{ID: id, Creator: "c", Owner: "c", SaleState: domain.SaleStateNotForSale}, nil)
	}

	rows, _, err := s.LoadAssets()
	if err != nil {
		t.Fatalf("LoadAssets failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.ID != uint64(i+1) {
			t.Errorf("rows[%d].ID = %d, want %d", i, row.ID, i+1)
		}
	}
}

func TestTradeJournal(t *testing.T) {
	s := setupTestDB(t)

	trades := []domain.TradeRow{
		{TradeID: "t1", AssetID: 1, Buyer: "bob", Seller: "alice", Symbol: "NATIVE", ListedPrice: "100", PaidAmount: "100", Fee: "5", SettledAt: time.Now().Add(-time.Minute)},
		{TradeID: "t2", AssetID: 1, Buyer: "carol", Seller: "bob", Symbol: "NATIVE", ListedPrice: "120", PaidAmount: "130", Fee: "6", SettledAt: time.Now()},
		{TradeID: "t3", AssetID: 2, Buyer: "dave", Seller: "erin", Symbol: "USDT", ListedPrice: "10", PaidAmount: "18", Fee: "0", SettledAt: time.Now()},
	}
	for i := range trades {
		if err := s.RecordTrade(&trades[i]); err != nil {
			t.Fatalf("RecordTrade failed: %v", err)
		}
	}

	forAsset, err := s.TradesForAsset(1)
	if err != nil {
		t.Fatalf("TradesForAsset failed: %v", err)
	}
	if len(forAsset) != 2 {
		t.Fatalf("expected 2 trades for asset 1, got %d", len(forAsset))
	}
	if forAsset[0].TradeID != "t1" {
		t.Errorf("oldest trade = %s, want t1", forAsset[0].TradeID)
	}

	all, err := s.AllTrades()
	if err != nil {
		t.Fatalf("AllTrades failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 trades, got %d", len(all))
	}
}
