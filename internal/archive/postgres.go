package archive

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rairai/go-order-fanout/internal/invoicing"
)

// Store is a write-behind audit sink for issued invoices. The registry
// stays the source of truth for the process lifetime; rows here are
// insert-only and a write failure never blocks issuance.
type Store struct{ DB *pgxpool.Pool }

func Connect(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{DB: pool}, nil
}

func (s *Store) Close() { s.DB.Close() }

func (s *Store) Save(ctx context.Context, inv *invoicing.Invoice) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO invoices(invoice_id, order_id, customer, total, tax, total_with_tax, status, created_at, issued_at, document)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (order_id) DO NOTHING
	`, inv.InvoiceID, inv.OrderID, inv.Customer,
		inv.Total, inv.Tax, inv.TotalWithTax,
		string(inv.Status), inv.CreatedAt, inv.IssuedAt, inv.Document)
	return err
}
