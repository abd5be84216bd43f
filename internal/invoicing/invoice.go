package invoicing

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusIssued  Status = "ISSUED"
	// StatusCancelled is declared but no transition reaches it.
	StatusCancelled Status = "CANCELLED"
)

// Invoice is the billing document derived once per order. Once stored
// in the registry it is never mutated.
type Invoice struct {
	InvoiceID    string          `json:"invoiceId"`
	OrderID      string          `json:"orderId"`
	Customer     string          `json:"customer"`
	Lines        []InvoiceLine   `json:"lines"`
	Total        decimal.Decimal `json:"total"`
	Tax          decimal.Decimal `json:"tax"`
	TotalWithTax decimal.Decimal `json:"totalWithTax"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	IssuedAt     time.Time       `json:"issuedAt"`
	Document     []byte          `json:"-"` // rendered plain text, served separately
}

type InvoiceLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}
