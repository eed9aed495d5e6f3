package ledger

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Token is an in-memory fungible backend with ERC20-style allowance
// semantics, used as the payment backend for registered currencies.
type Token struct {
	symbol string

	mu         sync.RWMutex
	balances   map[string]decimal.Decimal
	allowances map[string]map[string]decimal.Decimal // owner -> spender -> amount
}

// NewToken creates an empty token ledger for a currency symbol.
func NewToken(symbol string) *Token {
	return &Token{
		symbol:     symbol,
		balances:   make(map[string]decimal.Decimal),
		allowances: make(map[string]map[string]decimal.Decimal),
	}
}

// Symbol returns the currency symbol this ledger backs.
func (t *Token) Symbol() string {
	return t.symbol
}

// Deposit credits an account. Used by bootstrap seeding and tests.
func (t *Token) Deposit(account string, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[account] = t.balances[account].Add(amount)
}

// BalanceOf returns the current balance of an account.
func (t *Token) BalanceOf(account string) decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balances[account]
}

// Approve authorizes spender to move up to amount on behalf of owner.
func (t *Token) Approve(owner, spender string, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	spenders, ok := t.allowances[owner]
	if !ok {
		spenders = make(map[string]decimal.Decimal)
		t.allowances[owner] = spenders
	}
	spenders[spender] = amount
}

// Allowance returns how much spender may move on behalf of owner.
func (t *Token) Allowance(owner, spender string) decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allowances[owner][spender]
}

// TransferFrom moves funds between accounts, failing on insufficient balance.
func (t *Token) TransferFrom(from, to string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("token %s: negative amount %s", t.symbol, amount)
	}
	if amount.IsZero() {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.balances[from].LessThan(amount) {
		return fmt.Errorf("token %s: %s has %s, needs %s", t.symbol, from, t.balances[from], amount)
	}
	t.balances[from] = t.balances[from].Sub(amount)
	t.balances[to] = t.balances[to].Add(amount)
	return nil
}
