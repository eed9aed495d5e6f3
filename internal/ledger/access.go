package ledger

import "sync"

// RoleTable is a minimal role-membership store backing the engine's
// access-control precondition.
type RoleTable struct {
	mu     sync.RWMutex
	grants map[string]map[string]bool // role -> caller -> granted
}

// NewRoleTable creates an empty role table.
func NewRoleTable() *RoleTable {
	return &RoleTable{grants: make(map[string]map[string]bool)}
}

// Grant adds a caller to a role.
func (t *RoleTable) Grant(role, caller string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	members, ok := t.grants[role]
	if !ok {
		members = make(map[string]bool)
		t.grants[role] = members
	}
	members[caller] = true
}

// Revoke removes a caller from a role.
func (t *RoleTable) Revoke(role, caller string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if members, ok := t.grants[role]; ok {
		delete(members, caller)
	}
}

// HasRole reports whether the caller holds the role.
func (t *RoleTable) HasRole(role, caller string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.grants[role][caller]
}
