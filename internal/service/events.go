package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/kiwari-pos/orderengine/internal/money"
	"github.com/sirupsen/logrus"
)

// Event types published after a successful commit.
const (
	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventOrderStatusChanged = "order.status_changed"
	EventPaymentAdded       = "payment.added"
)

// Event is a committed change to an order. Consumers receive it as JSON.
type Event struct {
	Type        string    `json:"type"`
	OutletID    uuid.UUID `json:"outlet_id"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	Amount      string    `json:"amount,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher delivers events to live subscribers or a broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Publishers fans an event out to every publisher and joins their errors.
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range ps {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func orderEvent(typ string, o database.Order, at time.Time) Event {
	return Event{
		Type:        typ,
		OutletID:    o.OutletID,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		TotalAmount: money.NumericString(o.TotalAmount),
		OccurredAt:  at,
	}
}

// emit publishes ev and logs a failure. The change it describes is already
// committed, so the caller never sees the error.
func emit(ctx context.Context, pub Publisher, log logrus.FieldLogger, ev Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		log.WithFields(logrus.Fields{
			"event":     ev.Type,
			"order_id":  ev.OrderID,
			"outlet_id": ev.OutletID,
		}).WithError(err).Warn("publish event")
	}
}
