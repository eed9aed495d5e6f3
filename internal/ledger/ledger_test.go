package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOwnershipLifecycle(t *testing.T) {
	book := NewOwnershipBook()

	if err := book.Create(1, "alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := book.Create(1, "bob"); err == nil {
		t.Error("expected duplicate Create to fail")
	}

	owner, err := book.OwnerOf(1)
	if err != nil {
		t.Fatalf("OwnerOf failed: %v", err)
	}
	if owner != "alice" {
		t.Errorf("owner = %s, want alice", owner)
	}

	if err := book.Transfer(1, "bob", "carol"); err == nil {
		t.Error("expected Transfer from non-owner to fail")
	}
	if err := book.Transfer(1, "alice", "bob"); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	owner, _ = book.OwnerOf(1)
	if owner != "bob" {
		t.Errorf("owner after transfer = %s, want bob", owner)
	}

	if _, err := book.OwnerOf(99); err == nil {
		t.Error("expected OwnerOf unknown id to fail")
	}
	if book.Exists(99) {
		t.Error("unknown id should not exist")
	}
	if book.TotalCount() != 1 {
		t.Errorf("TotalCount = %d, want 1", book.TotalCount())
	}
}

func TestRoleTable(t *testing.T) {
	roles := NewRoleTable()

	roles.Grant("ADMIN", "alice")
	if !roles.HasRole("ADMIN", "alice") {
		t.Error("alice should hold ADMIN")
	}
	if roles.HasRole("ADMIN", "bob") {
		t.Error("bob should not hold ADMIN")
	}

	roles.Revoke("ADMIN", "alice")
	if roles.HasRole("ADMIN", "alice") {
		t.Error("alice should be revoked")
	}
}

func TestBankTransfer(t *testing.T) {
	bank := NewBank()
	bank.Deposit("alice", decimal.NewFromInt(100))

	if err := bank.Transfer("alice", "bob", decimal.NewFromInt(150)); err == nil {
		t.Error("expected overdraft to fail")
	}
	if err := bank.Transfer("alice", "bob", decimal.NewFromInt(60)); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if !bank.BalanceOf("alice").Equal(decimal.NewFromInt(40)) {
		t.Errorf("alice balance = %s, want 40", bank.BalanceOf("alice"))
	}
	if !bank.BalanceOf("bob").Equal(decimal.NewFromInt(60)) {
		t.Errorf("bob balance = %s, want 60", bank.BalanceOf("bob"))
	}
}

func TestTokenAllowanceAndTransfer(t *testing.T) {
	token := NewToken("USDT")
	token.Deposit("alice", decimal.NewFromInt(500))

	if !token.Allowance("alice", "engine").IsZero() {
		t.Error("allowance should start at zero")
	}

	token.Approve("alice", "engine", decimal.NewFromInt(200))
	if !token.Allowance("alice", "engine").Equal(decimal.NewFromInt(200)) {
		t.Errorf("allowance = %s, want 200", token.Allowance("alice", "engine"))
	}

	if err := token.TransferFrom("alice", "bob", decimal.NewFromInt(600)); err == nil {
		t.Error("expected transfer beyond balance to fail")
	}
	if err := token.TransferFrom("alice", "bob", decimal.NewFromInt(150)); err != nil {
		t.Fatalf("TransferFrom failed: %v", err)
	}
	if !token.BalanceOf("bob").Equal(decimal.NewFromInt(150)) {
		t.Errorf("bob balance = %s, want 150", token.BalanceOf("bob"))
	}
}
