package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/sirupsen/logrus"
)

// DefaultOrderNumberPrefix is used when Options.Prefix is empty.
const DefaultOrderNumberPrefix = "KWR"

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Options configures the order, status and payment services.
type Options struct {
	// Prefix of every order number, e.g. "KWR" in "KWR-001".
	Prefix string
	// Location defines the outlet calendar day used for order numbering.
	Location *time.Location
	// LockTimeout bounds the wait for an order row lock. Zero leaves the
	// server default in place.
	LockTimeout time.Duration
	Clock       Clock
	Publisher   Publisher
	Logger      logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = DefaultOrderNumberPrefix
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	if o.Publisher == nil {
		o.Publisher = NopPublisher{}
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// businessDate returns the outlet-local calendar day of t.
func (o Options) businessDate(t time.Time) pgtype.Date {
	y, m, d := t.In(o.Location).Date()
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

// orderLocker is the part of a store needed to take the order row lock.
type orderLocker interface {
	SetLockTimeout(ctx context.Context, lockTimeout string) error
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
}

// lockOrder takes the row lock on an outlet's order for the rest of the
// transaction. Concurrent writers block until the holder commits or rolls back.
func lockOrder(ctx context.Context, store orderLocker, timeout time.Duration, outletID, orderID uuid.UUID) (database.Order, error) {
	if timeout > 0 {
		if err := store.SetLockTimeout(ctx, fmt.Sprintf("%dms", timeout.Milliseconds())); err != nil {
			return database.Order{}, fmt.Errorf("set lock timeout: %w", err)
		}
	}
	order, err := store.GetOrderForUpdate(ctx, database.GetOrderForUpdateParams{
		ID:       orderID,
		OutletID: outletID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("lock order: %w", lockErr(err))
	}
	return order, nil
}
