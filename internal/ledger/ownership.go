// Package ledger hosts the in-memory external collaborators of the engine:
// the ownership registry, the role table, the native bank and fungible
// token backends. The engine only ever sees their interfaces.
package ledger

import (
	"fmt"
	"sync"
)

// OwnershipBook is the authoritative owner-of-asset mapping.
type OwnershipBook struct {
	mu     sync.RWMutex
	owners map[uint64]string
}

// NewOwnershipBook creates an empty ownership registry.
func NewOwnershipBook() *OwnershipBook {
	return &OwnershipBook{owners: make(map[uint64]string)}
}

// Create registers a new asset under its first owner.
func (b *OwnershipBook) Create(id uint64, owner string) error {
	if owner == "" {
		return fmt.Errorf("ownership: empty owner for asset %d", id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.owners[id]; exists {
		return fmt.Errorf("ownership: asset %d already exists", id)
	}
	b.owners[id] = owner
	return nil
}

// Transfer reassigns ownership. It fails if from does not currently own the asset.
func (b *OwnershipBook) Transfer(id uint64, from, to string) error {
	if to == "" {
		return fmt.Errorf("ownership: empty receiver for asset %d", id)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	cur, exists := b.owners[id]
	if !exists {
		return fmt.Errorf("ownership: asset %d unknown", id)
	}
	if cur != from {
		return fmt.Errorf("ownership: %s does not own asset %d", from, id)
	}
	b.owners[id] = to
	return nil
}

// OwnerOf returns the current owner, failing for unknown ids.
func (b *OwnershipBook) OwnerOf(id uint64) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	owner, exists := b.owners[id]
	if !exists {
		return "", fmt.Errorf("ownership: asset %d unknown", id)
	}
	return owner, nil
}

// Exists reports whether the asset is registered.
func (b *OwnershipBook) Exists(id uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, exists := b.owners[id]
	return exists
}

// TotalCount returns the number of registered assets.
func (b *OwnershipBook) TotalCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.owners)
}
