package domain

import (
	"errors"
	"fmt"
)

// Marketplace error kinds. Every precondition failure maps to exactly one of
// these and causes zero state mutation. Match with errors.Is.
var (
	// ErrInvalidID is returned when no asset exists for the given id.
	ErrInvalidID = errors.New("unknown asset id")

	// ErrNotOwner is returned when the caller is not the current owner.
	ErrNotOwner = errors.New("caller is not the asset owner")

	// ErrNotForSale is returned when the asset is not listed.
	ErrNotForSale = errors.New("asset is not for sale")

	// ErrUnsupportedCurrency is returned for a symbol that is neither the
	// native currency nor registered with a backend.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrNoPriceForCurrency is returned when the asset has no price entry
	// for the requested symbol.
	ErrNoPriceForCurrency = errors.New("no price for currency")

	// ErrZeroPrice is returned when a price or payment of zero (or less) is given.
	ErrZeroPrice = errors.New("price must be positive")

	// ErrInsufficientPayment is returned when the offered amount is below the listed price.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrInsufficientAuthorization is returned when the fungible backend
	// reports an allowance below the payment amount.
	ErrInsufficientAuthorization = errors.New("insufficient authorization")

	// ErrPaymentTransferFailed is returned when a payment leg is rejected by
	// the backend; the whole purchase is rolled back.
	ErrPaymentTransferFailed = errors.New("payment transfer failed")

	// ErrFeeReceiverUnset is returned when settlement runs without a configured fee receiver.
	ErrFeeReceiverUnset = errors.New("fee receiver not configured")

	// ErrInvalidAddress is returned for an empty or self-referential identity.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrPaused is returned by every mutating operation while the halt flag is set.
	ErrPaused = errors.New("marketplace is paused")
)

// RoleError reports a missing role membership.
type RoleError struct {
	Role   string
	Caller string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("caller %s lacks role %s", e.Caller, e.Role)
}

// NewRoleError creates an authorization failure for the given role.
func NewRoleError(role, caller string) *RoleError {
	return &RoleError{Role: role, Caller: caller}
}

// IsUnauthorized checks whether an error is a role membership failure.
func IsUnauthorized(err error) bool {
	var re *RoleError
	return errors.As(err, &re)
}
