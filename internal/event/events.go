package event

import "github.com/shopspring/decimal"

// Event types emitted by the marketplace engine.
const (
	TypeCreated  = "CREATED"
	TypeListed   = "LISTED"
	TypeDelisted = "DELISTED"
	TypeSold     = "SOLD"
)

// Event is the common shape consumed by the dispatcher and its subscribers.
type Event interface {
	GetID() string
	GetType() string
}

// CreatedEvent is emitted when an asset is minted.
type CreatedEvent struct {
	ID      string          `json:"id"`
	Ts      int64           `json:"ts"`
	Holder  string          `json:"holder"`
	AssetID uint64          `json:"asset_id"`
	Price   decimal.Decimal `json:"price"`
	ForSale bool            `json:"for_sale"`
	Symbol  string          `json:"symbol"`
}

func (e *CreatedEvent) GetID() string   { return e.ID }
func (e *CreatedEvent) GetType() string { return TypeCreated }

// ListedEvent is emitted when an owner lists an asset for sale.
type ListedEvent struct {
	ID      string          `json:"id"`
	Ts      int64           `json:"ts"`
	AssetID uint64          `json:"asset_id"`
	Price   decimal.Decimal `json:"price"`
	Symbol  string          `json:"symbol"`
}

func (e *ListedEvent) GetID() string   { return e.ID }
func (e *ListedEvent) GetType() string { return TypeListed }

// DelistedEvent is emitted when an owner takes an asset off sale.
type DelistedEvent struct {
	ID      string `json:"id"`
	Ts      int64  `json:"ts"`
	AssetID uint64 `json:"asset_id"`
}

func (e *DelistedEvent) GetID() string   { return e.ID }
func (e *DelistedEvent) GetType() string { return TypeDelisted }

// SoldEvent is emitted after a settled purchase. Price carries the
// originally listed price, not the amount actually paid.
type SoldEvent struct {
	ID      string          `json:"id"`
	Ts      int64           `json:"ts"`
	Buyer   string          `json:"buyer"`
	AssetID uint64          `json:"asset_id"`
	Price   decimal.Decimal `json:"price"`
	Symbol  string          `json:"symbol"`
}

func (e *SoldEvent) GetID() string   { return e.ID }
func (e *SoldEvent) GetType() string { return TypeSold }
