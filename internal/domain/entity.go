package domain

import "time"

// AssetRow is the persisted form of an asset record. Owner mirrors the
// ownership registry purely so the registry can be re-seeded at startup;
// operations never read it.
type AssetRow struct {
	ID             uint64 `gorm:"primaryKey"`
	Creator        string
	Owner          string
	SaleState      string `gorm:"index"`
	MetadataRef    string
	EngineApproved bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PriceRow is one entry of the flat (asset, symbol) price table. Amounts are
// stored as decimal strings to survive the round trip losslessly.
type PriceRow struct {
	AssetID   uint64 `gorm:"primaryKey;autoIncrement:false"`
	Symbol    string `gorm:"primaryKey"`
	Amount    string
	UpdatedAt time.Time
}

// TradeRow is one settled sale in the trade journal.
type TradeRow struct {
	TradeID     string `gorm:"primaryKey"`
	AssetID     uint64 `gorm:"index"`
	Buyer       string
	Seller      string
	Symbol      string
	ListedPrice string
	PaidAmount  string
	Fee         string
	SettledAt   time.Time
}
