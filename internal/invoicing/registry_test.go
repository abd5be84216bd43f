package invoicing

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rairai/go-order-fanout/internal/orders"
)

func ptr(f float64) *float64 { return &f }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleOrder(id string) *orders.Order {
	return &orders.Order{
		ID:       id,
		Customer: "acme",
		Items: []orders.OrderLine{
			{ProductID: "p1", Quantity: 2, Price: 30},
			{ProductID: "p2", Quantity: 1, Price: 40},
		},
	}
}

func TestGenerateComputesTotalsFromLines(t *testing.T) {
	r := NewRegistry()

	inv, created, err := r.Generate(sampleOrder("o1"))
	require.NoError(t, err)
	require.True(t, created)

	require.Equal(t, "o1", inv.OrderID)
	require.Equal(t, "acme", inv.Customer)
	require.Len(t, inv.Lines, 2)
	require.True(t, inv.Lines[0].LineTotal.Equal(dec("60")))
	require.True(t, inv.Total.Equal(dec("100")))
	require.True(t, inv.Tax.Equal(dec("10")))
	require.True(t, inv.TotalWithTax.Equal(dec("110")))
	require.Equal(t, StatusIssued, inv.Status)
	require.False(t, inv.IssuedAt.IsZero())
	require.NotEmpty(t, inv.Document)
}

func TestGenerateDeclaredTotalWins(t *testing.T) {
	r := NewRegistry()
	o := sampleOrder("o1")
	o.Total = ptr(80)

	inv, _, err := r.Generate(o)
	require.NoError(t, err)
	require.True(t, inv.Total.Equal(dec("80")))
	require.True(t, inv.Tax.Equal(dec("8")))
	require.True(t, inv.TotalWithTax.Equal(dec("88")))
}

func TestGenerateTaxRoundsHalfUpAtCent(t *testing.T) {
	r := NewRegistry()
	o := &orders.Order{
		ID:       "o1",
		Customer: "acme",
		Items:    []orders.OrderLine{{ProductID: "p1", Quantity: 3, Price: 6.665}},
	}

	inv, _, err := r.Generate(o)
	require.NoError(t, err)
	// line sum 19.995 -> tax 1.9995 rounds up to 2.00
	require.True(t, inv.Total.Equal(dec("19.995")))
	require.True(t, inv.Tax.Equal(dec("2")))
	require.True(t, inv.TotalWithTax.Equal(dec("22")))
}

func TestGenerateMissingQuantityAndPriceTreatedAsZero(t *testing.T) {
	r := NewRegistry()
	o := &orders.Order{ID: "o1", Customer: "acme", Items: []orders.OrderLine{{ProductID: "p1"}}}

	inv, _, err := r.Generate(o)
	require.NoError(t, err)
	require.True(t, inv.Total.IsZero())
	require.True(t, inv.Tax.IsZero())
	require.True(t, inv.TotalWithTax.IsZero())
}

func TestGenerateIdempotentPerOrderID(t *testing.T) {
	r := NewRegistry()
	o := sampleOrder("o1")

	first, created, err := r.Generate(o)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := r.Generate(o)
	require.NoError(t, err)
	require.False(t, created)
	require.Same(t, first, second)
	require.Equal(t, first.InvoiceID, second.InvoiceID)
	require.True(t, first.Total.Equal(second.Total))
	require.True(t, first.Tax.Equal(second.Tax))
	require.True(t, first.TotalWithTax.Equal(second.TotalWithTax))
}

func TestGenerateConcurrentFirstCallsCreateOne(t *testing.T) {
	r := NewRegistry()

	invs := make(chan *Invoice, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, _, err := r.Generate(sampleOrder("o1"))
			if err == nil {
				invs <- inv
			}
		}()
	}
	wg.Wait()
	close(invs)

	var ids []string
	for inv := range invs {
		ids = append(ids, inv.InvoiceID)
	}
	require.Len(t, ids, 2)
	require.Equal(t, ids[0], ids[1])
	require.Len(t, r.ListAll(), 1)
}

func TestGenerateInvalidOrder(t *testing.T) {
	r := NewRegistry()

	_, _, err := r.Generate(nil)
	require.ErrorIs(t, err, orders.ErrInvalidOrder)

	_, _, err = r.Generate(&orders.Order{ID: "o1", Customer: "acme"})
	require.ErrorIs(t, err, orders.ErrInvalidOrder)
	require.Empty(t, r.ListAll())
}

func TestLookup(t *testing.T) {
	r := NewRegistry()
	require.Nil(t, r.Lookup("missing"))

	inv, _, err := r.Generate(sampleOrder("o1"))
	require.NoError(t, err)
	require.Same(t, inv, r.Lookup("o1"))
}
