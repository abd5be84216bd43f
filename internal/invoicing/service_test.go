package invoicing

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rairai/go-order-fanout/internal/inventory"
	kafkax "github.com/rairai/go-order-fanout/internal/kafka"
	"github.com/rairai/go-order-fanout/internal/orders"
)

type captureArchive struct {
	saved []*Invoice
	fail  bool
}

func (a *captureArchive) Save(_ context.Context, inv *Invoice) error {
	if a.fail {
		return errors.New("archive down")
	}
	a.saved = append(a.saved, inv)
	return nil
}

func evt(o *orders.Order) kafkago.Message {
	return kafkago.Message{Key: []byte(o.ID), Value: kafkax.MustMarshal(o), Partition: 0, Offset: 7}
}

func TestHandleOrderEventIssuesOnceAndArchives(t *testing.T) {
	reg := NewRegistry()
	arch := &captureArchive{}
	s := &Service{Registry: reg, Archive: arch, Log: zap.NewNop()}

	o := sampleOrder("o1")
	require.NoError(t, s.HandleOrderEvent(context.Background(), evt(o)))
	require.NoError(t, s.HandleOrderEvent(context.Background(), evt(o))) // redelivery

	require.Len(t, reg.ListAll(), 1)
	require.Len(t, arch.saved, 1)
}

func TestHandleOrderEventArchiveFailureDoesNotBlockIssuance(t *testing.T) {
	reg := NewRegistry()
	s := &Service{Registry: reg, Archive: &captureArchive{fail: true}, Log: zap.NewNop()}

	require.NoError(t, s.HandleOrderEvent(context.Background(), evt(sampleOrder("o1"))))
	require.NotNil(t, reg.Lookup("o1"))
}

func TestHandleOrderEventBadPayloadIsSkipped(t *testing.T) {
	reg := NewRegistry()
	s := &Service{Registry: reg, Log: zap.NewNop()}

	require.NoError(t, s.HandleOrderEvent(context.Background(), kafkago.Message{Value: []byte("nope")}))
	require.NoError(t, s.HandleOrderEvent(context.Background(), kafkago.Message{}))
	require.Empty(t, reg.ListAll())
}

func TestHandleOrderEventEmptyOrderIsTerminal(t *testing.T) {
	reg := NewRegistry()
	s := &Service{Registry: reg, Log: zap.NewNop()}

	o := &orders.Order{ID: "o1", Customer: "acme"}
	require.NoError(t, s.HandleOrderEvent(context.Background(), evt(o)))
	require.Empty(t, reg.ListAll())
}

// A stock rejection has no bearing on invoice issuance: the two roles
// consume the stream independently.
func TestRolesAreIndependent(t *testing.T) {
	ledger := inventory.NewLedger(map[string]int{"p1": 0})
	reg := NewRegistry()

	o := &orders.Order{
		ID:       "o1",
		Customer: "acme",
		Items:    []orders.OrderLine{{ProductID: "p1", Quantity: 1, Price: 10}},
	}

	_, err := ledger.Reserve(o)
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	inv, created, err := reg.Generate(o)
	require.NoError(t, err)
	require.True(t, created)
	require.NotNil(t, inv)
}
