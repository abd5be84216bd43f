package invoicing

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rairai/go-order-fanout/internal/orders"
)

// Archiver persists issued invoices outside the process. Optional;
// the registry stays the source of truth and archive failures must
// never block issuance.
type Archiver interface {
	Save(ctx context.Context, inv *Invoice) error
}

// Service consumes order events and issues invoices. Like the stock
// role, every failure is terminal at the event boundary.
type Service struct {
	Registry *Registry
	Archive  Archiver // nil disables archiving
	Log      *zap.Logger
}

// HandleOrderEvent is wired as the consumer handler.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	pos := []zap.Field{
		zap.ByteString("key", m.Key),
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	}

	o, err := orders.Decode(m.Value)
	if err != nil {
		s.Log.Warn("skipping undecodable order event", append(pos, zap.Error(err))...)
		return nil
	}
	pos = append(pos, zap.String("order_id", o.ID))

	inv, created, err := s.Registry.Generate(o)
	switch {
	case errors.Is(err, orders.ErrInvalidOrder):
		s.Log.Warn("order not invoiceable", append(pos, zap.Error(err))...)
		return nil
	case err != nil:
		s.Log.Error("invoice generation failed", append(pos, zap.Error(err))...)
		return nil
	}

	if !created {
		s.Log.Info("invoice already issued, redelivery ignored",
			append(pos, zap.String("invoice_id", inv.InvoiceID))...)
		return nil
	}

	s.Log.Info("invoice issued",
		append(pos,
			zap.String("invoice_id", inv.InvoiceID),
			zap.String("total_with_tax", inv.TotalWithTax.String()),
		)...)

	if s.Archive != nil {
		if err := s.Archive.Save(ctx, inv); err != nil {
			s.Log.Warn("invoice archive write failed",
				zap.String("invoice_id", inv.InvoiceID), zap.Error(err))
		}
	}
	return nil
}
