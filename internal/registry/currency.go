// Package registry maps currency symbols to payment backends. The native
// symbol is implicit and never registered.
package registry

import (
	"sort"
	"sync"

	"market_go/internal/domain"
)

// CurrencyRegistry resolves currency symbols to fungible backends.
type CurrencyRegistry struct {
	mu       sync.RWMutex
	native   string
	backends map[string]domain.FungibleBackend
}

// NewCurrencyRegistry creates a registry with the given native symbol.
func NewCurrencyRegistry(nativeSymbol string) *CurrencyRegistry {
	return &CurrencyRegistry{
		native:   nativeSymbol,
		backends: make(map[string]domain.FungibleBackend),
	}
}

// NativeSymbol returns the implicit native currency symbol.
func (r *CurrencyRegistry) NativeSymbol() string {
	return r.native
}

// Register binds a symbol to a backend. Re-registering an existing symbol
// silently replaces the previous backend; there is deliberately no
// existence guard. Role enforcement is the engine's job.
func (r *CurrencyRegistry) Register(symbol string, backend domain.FungibleBackend) error {
	if symbol == "" || backend == nil {
		return domain.ErrInvalidAddress
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[symbol] = backend
	return nil
}

// Resolve returns the backend for a symbol. A nil backend with isNative set
// means the native currency; ErrUnsupportedCurrency means neither.
func (r *CurrencyRegistry) Resolve(symbol string) (backend domain.FungibleBackend, isNative bool, err error) {
	if symbol == r.native {
		return nil, true, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[symbol]
	if !ok {
		return nil, false, domain.ErrUnsupportedCurrency
	}
	return b, false, nil
}

// IsSupported reports whether a symbol resolves at all.
func (r *CurrencyRegistry) IsSupported(symbol string) bool {
	_, _, err := r.Resolve(symbol)
	return err == nil
}

// Symbols returns all registered symbols plus the native one, sorted for
// consistent ordering.
func (r *CurrencyRegistry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.backends)+1)
	result = append(result, r.native)
	for s := range r.backends {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}
