package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
)

// InsufficientStockError names the product and variant and states exactly how
// many are available, so the storefront can show it inline.
type InsufficientStockError struct {
	ProductName string
	VariantName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s (%s) only has %d in stock", e.ProductName, e.VariantName, e.Available)
}

// NoEligibleItemsError means every line was filtered out before payment.
// AllAgeRestricted distinguishes the case where the whole cart was NSFW so
// the caller can point the buyer at the separate fulfillment path.
type NoEligibleItemsError struct {
	AllAgeRestricted bool
}

func (e *NoEligibleItemsError) Error() string {
	if e.AllAgeRestricted {
		return "age-restricted products cannot be purchased with card checkout"
	}
	return "no valid items to checkout"
}

// IsValidationError reports whether err should surface as a 400 rather than
// a 500 at the request boundary.
func IsValidationError(err error) bool {
	var stockErr *InsufficientStockError
	var eligErr *NoEligibleItemsError
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.As(err, &stockErr) ||
		errors.As(err, &eligErr)
}
