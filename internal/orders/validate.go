package orders

import (
	"fmt"
	"strings"
)

// CreateInput is a checkout submission as received from the cart. Totals are
// optional; when present they are checked against the server-side quote.
type CreateInput struct {
	Items           []Item
	ShippingAddress *ShippingAddress
	PaymentMethod   string
	Subtotal        *float64
	Tax             *float64
	Total           *float64
}

// Validate rejects malformed submissions. It has no side effects.
func Validate(in CreateInput) error {
	if len(in.Items) == 0 {
		return ErrEmptyCart
	}
	if err := validateAddress(in.ShippingAddress); err != nil {
		return err
	}
	if _, err := ParsePaymentMethod(in.PaymentMethod); err != nil {
		return err
	}
	for i, it := range in.Items {
		switch {
		case strings.TrimSpace(it.BookID) == "":
			return fmt.Errorf("%w: item %d has no bookId", ErrInvalidItem, i)
		case strings.TrimSpace(it.Title) == "":
			return fmt.Errorf("%w: item %d has no title", ErrInvalidItem, i)
		case it.Quantity < 1:
			return fmt.Errorf("%w: item %d quantity must be at least 1", ErrInvalidItem, i)
		case it.UnitPrice < 0:
			return fmt.Errorf("%w: item %d price must not be negative", ErrInvalidItem, i)
		}
	}
	return nil
}

func validateAddress(a *ShippingAddress) error {
	if a == nil {
		return ErrIncompleteAddress
	}
	fields := []struct {
		name, value string
	}{
		{"fullName", a.FullName},
		{"email", a.Email},
		{"phone", a.Phone},
		{"address", a.Address},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: missing %s", ErrIncompleteAddress, f.name)
		}
	}
	return nil
}
