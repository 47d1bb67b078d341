package orders

import "errors"

// ValidationError is a client-caused rejection of a request. Code is the
// stable machine-readable identifier surfaced over HTTP.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrEmptyCart            = &ValidationError{Code: "empty_cart", Message: "cart is empty"}
	ErrIncompleteAddress    = &ValidationError{Code: "incomplete_address", Message: "complete shipping address is required"}
	ErrInvalidPaymentMethod = &ValidationError{Code: "invalid_payment_method", Message: "invalid payment method"}
	ErrInvalidItem          = &ValidationError{Code: "invalid_item", Message: "invalid cart item"}
	ErrTotalsMismatch       = &ValidationError{Code: "totals_mismatch", Message: "submitted totals do not match the cart"}
	ErrInvalidStatus        = &ValidationError{Code: "invalid_status", Message: "invalid status"}
)

var (
	ErrNotFound            = errors.New("order not found")
	ErrForbidden           = errors.New("access denied")
	ErrInvalidTransition   = errors.New("cannot cancel order at this stage")
	ErrConflict            = errors.New("order was modified concurrently")
	ErrIdempotencyInFlight = errors.New("a request with this idempotency key is still in progress")
)
