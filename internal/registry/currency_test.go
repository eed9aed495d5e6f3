package registry

import (
	"errors"
	"testing"

	"market_go/internal/domain"
	"market_go/internal/ledger"
)

func TestResolveNative(t *testing.T) {
	reg := NewCurrencyRegistry("NATIVE")

	backend, isNative, err := reg.Resolve("NATIVE")
	if err != nil {
		t.Fatalf("Resolve native failed: %v", err)
	}
	if !isNative || backend != nil {
		t.Error("native symbol should resolve to nil backend with isNative set")
	}
}

func TestResolveUnsupported(t *testing.T) {
	reg := NewCurrencyRegistry("NATIVE")

	_, _, err := reg.Resolve("DOGE")
	if !errors.Is(err, domain.ErrUnsupportedCurrency) {
		t.Errorf("err = %v, want ErrUnsupportedCurrency", err)
	}
	if reg.IsSupported("DOGE") {
		t.Error("unregistered symbol should not be supported")
	}
}

func TestRegisterAndOverwrite(t *testing.T) {
	reg := NewCurrencyRegistry("NATIVE")

	first := ledger.NewToken("USDT")
	second := ledger.NewToken("USDT")

	if err := reg.Register("USDT", first); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	backend, _, err := reg.Resolve("USDT")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if backend != domain.FungibleBackend(first) {
		t.Error("expected first backend")
	}

	// Re-registering the same symbol replaces the backend without error.
	if err := reg.Register("USDT", second); err != nil {
		t.Fatalf("re-Register failed: %v", err)
	}
	backend, _, _ = reg.Resolve("USDT")
	if backend != domain.FungibleBackend(second) {
		t.Error("expected backend to be replaced")
	}
}

func TestRegisterRejectsNilBackend(t *testing.T) {
	reg := NewCurrencyRegistry("NATIVE")

	if err := reg.Register("USDT", nil); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Errorf("err = %v, want ErrInvalidAddress", err)
	}
	if err := reg.Register("", ledger.NewToken("X")); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Errorf("err = %v, want ErrInvalidAddress", err)
	}
}

func TestSymbolsSorted(t *testing.T) {
	reg := NewCurrencyRegistry("NATIVE")
	reg.Register("USDT", ledger.NewToken("USDT"))
	reg.Register("DAI", ledger.NewToken("DAI"))

	symbols := reg.Symbols()
	want := []string{"DAI", "NATIVE", "USDT"}
	if len(symbols) != len(want) {
		t.Fatalf("symbols = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbols[%d] = %s, want %s", i, symbols[i], want[i])
		}
	}
}
