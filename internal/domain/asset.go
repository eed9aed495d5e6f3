package domain

import "github.com/shopspring/decimal"

// Sale states for an asset. Stored as strings so dumps and DB rows stay readable.
const (
	SaleStateNotForSale = "NOT_FOR_SALE"
	SaleStateForSale    = "FOR_SALE"
)

// Roles consulted by the engine. RoleOfficialMinter is provisioned at setup
// but no operation checks it.
const (
	RoleAdmin          = "ADMIN"
	RolePauser         = "PAUSER"
	RoleOfficialMinter = "OFFICIAL_MINTER"
)

// Asset is the marketplace-side record of a unique asset.
// The current owner is NOT part of this record; ownership is always read
// from the ownership registry and never cached beyond a single operation.
type Asset struct {
	ID          uint64 `json:"id"`
	Creator     string `json:"creator"`
	SaleState   string `json:"sale_state"`
	MetadataRef string `json:"metadata_ref"`

	// EngineApproved marks the standing transfer capability the owner grants
	// the engine when listing, so settlement can reassign ownership without
	// a second authorization step.
	EngineApproved bool `json:"engine_approved"`
}

// IsForSale reports whether the asset is currently listed.
func (a *Asset) IsForSale() bool {
	return a.SaleState == SaleStateForSale
}

// PriceKey addresses one entry of the flat (asset, symbol) price table.
type PriceKey struct {
	AssetID uint64
	Symbol  string
}

// AssetInfo is the read-only view returned by the engine's query path.
type AssetInfo struct {
	ID          uint64          `json:"id"`
	Price       decimal.Decimal `json:"price"`
	SaleState   string          `json:"sale_state"`
	MetadataRef string          `json:"metadata_ref"`
	HasPrice    bool            `json:"has_price"`
	Creator     string          `json:"creator"`
	Owner       string          `json:"owner"`
}
