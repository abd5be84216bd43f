package orders

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Order is the wire document published to the orders topic and the
// unit of work for both downstream roles. The id doubles as partition
// key and idempotency key; it never changes once assigned.
type Order struct {
	ID        string      `json:"id"`
	Customer  string      `json:"customer"`
	Items     []OrderLine `json:"items"`
	Total     *float64    `json:"total,omitempty"` // declared total; derived from lines when absent
	CreatedAt time.Time   `json:"createdAt"`
}

type OrderLine struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

var (
	ErrInvalidOrder = errors.New("invalid order")
	ErrDecode       = errors.New("order decode failed")
)

// Validate rejects orders no downstream effect can act on.
func (o *Order) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: nil order", ErrInvalidOrder)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order %s has no items", ErrInvalidOrder, o.ID)
	}
	return nil
}

// Decode parses an event value into an Order. Absent quantity/price
// fields decode to zero.
func Decode(b []byte) (*Order, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}
	var o Order
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &o, nil
}
