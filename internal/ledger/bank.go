package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Bank is the native currency ledger. Transfers are synchronous and
// fail-fast; there is no blocking or retry.
type Bank struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// NewBank creates an empty native ledger.
func NewBank() *Bank {
	return &Bank{balances: make(map[string]decimal.Decimal)}
}

// Deposit credits an account. Used by bootstrap seeding and tests.
func (b *Bank) Deposit(account string, amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] = b.balances[account].Add(amount)
}

// BalanceOf returns the current balance of an account.
func (b *Bank) BalanceOf(account string) decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[account]
}

// Transfer moves funds between accounts, failing on insufficient balance.
func (b *Bank) Transfer(from, to string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("bank: negative amount %s", amount)
	}
	if amount.IsZero() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[from].LessThan(amount) {
		return fmt.Errorf("bank: %s has %s, needs %s", from, b.balances[from], amount)
	}
	b.balances[from] = b.balances[from].Sub(amount)
	b.balances[to] = b.balances[to].Add(amount)
	return nil
}
