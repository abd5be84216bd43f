package inventory

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rairai/go-order-fanout/internal/orders"
)

// Service consumes order events and reserves stock against the ledger.
// Every failure is terminal here: the outcome is logged with its
// stream position and the offset commits. Nothing flows back to the
// producer or to the invoicing role.
type Service struct {
	Ledger *Ledger
	Log    *zap.Logger
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

	applied, err := s.Ledger.Reserve(o)
	switch {
	case err == nil && applied:
		s.Log.Info("stock reserved", pos...)
	case err == nil:
		s.Log.Info("stock already reserved, redelivery ignored", pos...)
	case errors.Is(err, orders.ErrInvalidOrder):
		s.Log.Warn("order not reservable", append(pos, zap.Error(err))...)
	case errors.Is(err, ErrInsufficientStock):
		s.Log.Warn("reservation rejected", append(pos, zap.Error(err))...)
	default:
		s.Log.Error("reservation failed", append(pos, zap.Error(err))...)
	}
	return nil
}
