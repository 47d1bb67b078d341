package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestQuoteSingleLine(t *testing.T) {
	q := DefaultPricing().Quote([]Item{{BookID: "b1", UnitPrice: 10.00, Quantity: 2}})
	assert.Equal(t, 20.00, q.Subtotal)
	assert.Equal(t, 2.00, q.Tax)
	assert.Equal(t, 22.00, q.Total)
}

func TestQuoteRoundsToCents(t *testing.T) {
	q := DefaultPricing().Quote([]Item{
		{BookID: "b1", UnitPrice: 12.99, Quantity: 3},
		{BookID: "b2", UnitPrice: 0.10, Quantity: 1},
	})
	assert.Equal(t, 39.07, q.Subtotal)
	assert.Equal(t, 3.91, q.Tax)
	assert.Equal(t, 42.98, q.Total)
}

func TestQuoteCustomRate(t *testing.T) {
	q := Pricing{TaxRate: 0.15}.Quote([]Item{{BookID: "b1", UnitPrice: 100, Quantity: 1}})
	assert.Equal(t, 15.0, q.Tax)
	assert.Equal(t, 115.0, q.Total)
}

func TestQuoteZeroRate(t *testing.T) {
	q := Pricing{}.Quote([]Item{{BookID: "b1", UnitPrice: 10.00, Quantity: 2}})
	assert.Equal(t, 20.00, q.Subtotal)
	assert.Zero(t, q.Tax)
	assert.Equal(t, 20.00, q.Total)
}

func TestVerifyZeroToleranceIsExact(t *testing.T) {
	p := Pricing{TaxRate: DefaultTaxRate}
	q := p.Quote([]Item{{BookID: "b1", UnitPrice: 10, Quantity: 2}})
	require.NoError(t, p.Verify(CreateInput{Total: ptr(22.00)}, q))
	assert.ErrorIs(t, p.Verify(CreateInput{Total: ptr(22.01)}, q), ErrTotalsMismatch)
}

func TestVerifyWithinTolerance(t *testing.T) {
	p := DefaultPricing()
	q := p.Quote([]Item{{BookID: "b1", UnitPrice: 12.99, Quantity: 3}})
	// a client computing tax without rounding
	in := CreateInput{Subtotal: ptr(38.97), Tax: ptr(3.897), Total: ptr(42.867)}
	require.NoError(t, p.Verify(in, q))
}

func TestVerifyRejectsMismatch(t *testing.T) {
	p := DefaultPricing()
	q := p.Quote([]Item{{BookID: "b1", UnitPrice: 10, Quantity: 2}})
	err := p.Verify(CreateInput{Total: ptr(1.00)}, q)
	require.ErrorIs(t, err, ErrTotalsMismatch)
	assert.Contains(t, err.Error(), "total")
}

func TestVerifySkipsOmittedFigures(t *testing.T) {
	p := DefaultPricing()
	q := p.Quote([]Item{{BookID: "b1", UnitPrice: 10, Quantity: 2}})
	assert.NoError(t, p.Verify(CreateInput{}, q))
}
