package invoicing

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rairai/go-order-fanout/internal/orders"
)

var taxRate = decimal.RequireFromString("0.10")

// Registry stores at most one invoice per order id for the lifetime of
// the process. Check-existing-else-create runs under one mutex, so two
// concurrent first calls for the same order id still produce a single
// stored invoice.
type Registry struct {
	mu        sync.Mutex
	byOrderID map[string]*Invoice
}

func NewRegistry() *Registry {
	return &Registry{byOrderID: make(map[string]*Invoice)}
}

// Generate returns the invoice for the order, creating it on first
// call. created reports whether this call issued it; repeated calls
// return the stored invoice unchanged, same invoice id and totals.
func (r *Registry) Generate(o *orders.Order) (inv *Invoice, created bool, err error) {
	if err := o.Validate(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byOrderID[o.ID]; ok {
		return existing, false, nil
	}

	inv = buildInvoice(o)
	inv.Document = renderDocument(inv)
	// issue only after the document exists
	inv.Status = StatusIssued
	inv.IssuedAt = time.Now().UTC()
	r.byOrderID[o.ID] = inv
	return inv, true, nil
}

// Lookup returns the invoice for an order id, or nil when none exists.
func (r *Registry) Lookup(orderID string) *Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byOrderID[orderID]
}

// ListAll snapshots every stored invoice. Stored invoices are
// immutable, so sharing the pointers is safe.
func (r *Registry) ListAll() []*Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Invoice, 0, len(r.byOrderID))
	for _, inv := range r.byOrderID {
		out = append(out, inv)
	}
	return out
}

func buildInvoice(o *orders.Order) *Invoice {
	inv := &Invoice{
		InvoiceID: uuid.NewString(),
		OrderID:   o.ID,
		Customer:  o.Customer,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	lineSum := decimal.Zero
	inv.Lines = make([]InvoiceLine, 0, len(o.Items))
	for _, it := range o.Items {
		unit := decimal.NewFromFloat(it.Price)
		line := InvoiceLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: unit,
			LineTotal: unit.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
		lineSum = lineSum.Add(line.LineTotal)
		inv.Lines = append(inv.Lines, line)
	}

	// declared order total wins; line sum is the fallback
	if o.Total != nil {
		inv.Total = decimal.NewFromFloat(*o.Total)
	} else {
		inv.Total = lineSum
	}
	// Round is half away from zero, i.e. half-up for non-negative amounts.
	inv.Tax = inv.Total.Mul(taxRate).Round(2)
	inv.TotalWithTax = inv.Total.Add(inv.Tax).Round(2)
	return inv
}

func renderDocument(inv *Invoice) []byte {
	var b strings.Builder
	b.WriteString("INVOICE\n")
	fmt.Fprintf(&b, "InvoiceId: %s\n", inv.InvoiceID)
	fmt.Fprintf(&b, "OrderId: %s\n", inv.OrderID)
	fmt.Fprintf(&b, "Customer: %s\n", inv.Customer)
	fmt.Fprintf(&b, "Total: %s\n", inv.Total)
	fmt.Fprintf(&b, "Tax: %s\n", inv.Tax)
	fmt.Fprintf(&b, "TotalWithTax: %s\n", inv.TotalWithTax)
	b.WriteString("Items:\n")
	for _, l := range inv.Lines {
		fmt.Fprintf(&b, " - %s x%d @%s = %s\n", l.ProductID, l.Quantity, l.UnitPrice, l.LineTotal)
	}
	return []byte(b.String())
}
