package inventory

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rairai/go-order-fanout/internal/orders"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Shortage reports one line whose requirement exceeded availability.
type Shortage struct {
	ProductID string
	Required  int
	Available int
}

// ShortageError carries every failing line of a rejected reservation.
type ShortageError struct {
	OrderID   string
	Shortages []Shortage
}

func (e *ShortageError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s required=%d available=%d", s.ProductID, s.Required, s.Available))
	}
	return fmt.Sprintf("insufficient stock for order %s: %s", e.OrderID, strings.Join(parts, ", "))
}

func (e *ShortageError) Unwrap() error { return ErrInsufficientStock }

// Ledger holds the available stock per product. All access goes
// through one mutex spanning both phases of Reserve, so a reservation
// never validates against state another reservation is mid-way through
// changing. State is process-lifetime only; nothing persists.
type Ledger struct {
	mu       sync.Mutex
	stock    map[string]int
	reserved map[string]struct{} // order ids whose decrement was applied
}

func NewLedger(seed map[string]int) *Ledger {
	stock := make(map[string]int, len(seed))
	for id, qty := range seed {
		stock[id] = qty
	}
	return &Ledger{stock: stock, reserved: make(map[string]struct{})}
}

// DefaultCatalog is the stock the process starts with.
func DefaultCatalog() map[string]int {
	return map[string]int{"p1": 10, "p2": 5, "p3": 0}
}

// Reserve applies an all-or-nothing decrement for every line of the
// order. applied is false when the order id was reserved earlier:
// redelivery of the same event is then a no-op success. Rejected
// orders are not recorded, so a redelivery after restocking may still
// succeed.
func (l *Ledger) Reserve(o *orders.Order) (applied bool, err error) {
	if err := o.Validate(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, done := l.reserved[o.ID]; done {
		return false, nil
	}

	// Phase 1: every line must be satisfiable before anything moves.
	var shortages []Shortage
	for _, line := range o.Items {
		available := l.stock[line.ProductID]
		if available < line.Quantity {
			shortages = append(shortages, Shortage{
				ProductID: line.ProductID,
				Required:  line.Quantity,
				Available: available,
			})
		}
	}
	if len(shortages) > 0 {
		return false, &ShortageError{OrderID: o.ID, Shortages: shortages}
	}

	// Phase 2: apply all decrements.
	for _, line := range o.Items {
		l.stock[line.ProductID] -= line.Quantity
	}
	l.reserved[o.ID] = struct{}{}
	return true, nil
}

// Query returns the current level for a product, 0 when unknown.
func (l *Ledger) Query(productID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[productID]
}

// Restock adjusts a product's level by a signed amount and returns the
// new level. Operational correction and test setup only.
func (l *Ledger) Restock(productID string, amount int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stock[productID] += amount
	return l.stock[productID]
}

// Snapshot copies the full ledger for diagnostics.
func (l *Ledger) Snapshot() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.stock))
	for id, qty := range l.stock {
		out[id] = qty
	}
	return out
}
