package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestRoleError(t *testing.T) {
	err := NewRoleError(RoleAdmin, "mallory")

	if err.Error() != "caller mallory lacks role ADMIN" {
		t.Errorf("Error message = %q, want %q", err.Error(), "caller mallory lacks role ADMIN")
	}

	t.Run("errors.As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("register currency: %w", err)

		var re *RoleError
		if !errors.As(wrapped, &re) {
			t.Fatal("expected errors.As to find RoleError")
		}
		if re.Role != RoleAdmin {
			t.Errorf("Role = %q, want %q", re.Role, RoleAdmin)
		}
	})

	t.Run("IsUnauthorized helper", func(t *testing.T) {
		if !IsUnauthorized(err) {
			t.Error("IsUnauthorized should return true for RoleError")
		}
		if IsUnauthorized(ErrPaused) {
			t.Error("IsUnauthorized should return false for plain sentinel")
		}
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	kinds := []error{
		ErrInvalidID, ErrNotOwner, ErrNotForSale, ErrUnsupportedCurrency,
		ErrNoPriceForCurrency, ErrZeroPrice, ErrInsufficientPayment,
		ErrInsufficientAuthorization, ErrPaymentTransferFailed,
		ErrFeeReceiverUnset, ErrInvalidAddress, ErrPaused,
	}

	for i, a := range kinds {
		for j, b := range kinds {
			if i != j && errors.Is(a, b) {
				t.Errorf("error kinds %d and %d should be distinguishable", i, j)
			}
		}
	}
}
