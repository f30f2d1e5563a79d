package domain

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInvalidQuantity   = errors.New("quantity has to be 1 or more")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateOrder    = errors.New("duplicate order request")

	// ErrStoreUnavailable marks transient store failures (connectivity,
	// lock contention). It is the only kind eligible for retry.
	ErrStoreUnavailable = errors.New("inventory store unavailable")
)
