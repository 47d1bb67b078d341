package orders

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultTaxRate   = 0.10
	DefaultTolerance = 0.01
)

// Pricing computes order totals. Both figures are used as given, so a
// zero TaxRate charges no tax and a zero Tolerance demands exact totals.
type Pricing struct {
	TaxRate   float64
	Tolerance float64
}

func DefaultPricing() Pricing {
	return Pricing{TaxRate: DefaultTaxRate, Tolerance: DefaultTolerance}
}

type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Quote returns subtotal, tax and total rounded to cents, with
// Total == Subtotal + Tax.
func (p Pricing) Quote(items []Item) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(p.TaxRate)).Round(2)
	total := subtotal.Add(tax)
	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// Verify compares client-submitted figures with a quote. Nil figures are
// not checked.
func (p Pricing) Verify(in CreateInput, q Totals) error {
	checks := []struct {
		name      string
		submitted *float64
		computed  float64
	}{
		{"subtotal", in.Subtotal, q.Subtotal},
		{"tax", in.Tax, q.Tax},
		{"total", in.Total, q.Total},
	}
	tol := decimal.NewFromFloat(p.Tolerance)
	for _, c := range checks {
		if c.submitted == nil {
			continue
		}
		diff := decimal.NewFromFloat(*c.submitted).Sub(decimal.NewFromFloat(c.computed)).Abs()
		if diff.GreaterThan(tol) {
			return fmt.Errorf("%w: %s is %.2f, expected %.2f", ErrTotalsMismatch, c.name, *c.submitted, c.computed)
		}
	}
	return nil
}
