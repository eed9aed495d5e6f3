package domain

import "github.com/shopspring/decimal"

// OwnershipRegistry is the authoritative owner-of-asset mapping. The engine
// requests ownership changes here and never keeps its own owner column.
type OwnershipRegistry interface {
	// Create registers a freshly minted asset under its creator.
	Create(id uint64, owner string) error
	// Transfer reassigns ownership. It fails if from is not the current owner.
	Transfer(id uint64, from, to string) error
	// OwnerOf returns the current owner, failing for unknown ids.
	OwnerOf(id uint64) (string, error)
	// Exists reports whether the id is known to the registry.
	Exists(id uint64) bool
	// TotalCount returns the number of registered assets.
	TotalCount() int
}

// AccessController answers role membership queries.
type AccessController interface {
	HasRole(role, caller string) bool
}

// FungibleBackend is an external token ledger with ERC20-style allowance
// semantics. A registered currency symbol resolves to one of these.
type FungibleBackend interface {
	// Allowance returns how much spender may move on behalf of owner.
	Allowance(owner, spender string) decimal.Decimal
	// TransferFrom moves funds between accounts; it fails outright instead
	// of blocking or retrying.
	TransferFrom(from, to string, amount decimal.Decimal) error
}

// NativeBank is the value-transfer primitive for the native currency.
type NativeBank interface {
	// Transfer moves native funds between accounts, failing on insufficient balance.
	Transfer(from, to string, amount decimal.Decimal) error
	// BalanceOf returns the current native balance of an account.
	BalanceOf(account string) decimal.Decimal
}
