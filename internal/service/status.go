package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/kiwari-pos/orderengine/internal/money"
	"github.com/sirupsen/logrus"
)

// StatusStore defines the DB methods needed for status transitions.
type StatusStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateCateringStatus(ctx context.Context, arg database.UpdateCateringStatusParams) (database.Order, error)
	SetLockTimeout(ctx context.Context, lockTimeout string) error
}

// NewStatusStore creates a StatusStore from a DBTX (pool or tx).
type NewStatusStore func(db database.DBTX) StatusStore

// allowedTransitions defines valid status transitions.
// Key is current status, value is the set of statuses it can transition to.
var allowedTransitions = map[database.OrderStatus][]database.OrderStatus{
	database.OrderStatusNEW:       {database.OrderStatusPREPARING, database.OrderStatusCANCELLED},
	database.OrderStatusPREPARING: {database.OrderStatusREADY, database.OrderStatusCANCELLED},
	database.OrderStatusREADY:     {database.OrderStatusCOMPLETED, database.OrderStatusCANCELLED},
}

// StatusService moves orders through their lifecycle with compare-and-swap updates.
type StatusService struct {
	pool     TxBeginner
	newStore NewStatusStore
	opts     Options
}

// NewStatusService creates a new StatusService.
func NewStatusService(pool TxBeginner, newStore NewStatusStore, opts Options) *StatusService {
	return &StatusService{pool: pool, newStore: newStore, opts: opts.withDefaults()}
}

// TransitionStatus moves an order from expected to next. The update only
// applies while the stored status still equals expected; otherwise the caller
// gets ErrStaleStatus and must re-read. Completing requires the order to be
// fully paid, checked under the row lock.
func (s *StatusService) TransitionStatus(ctx context.Context, outletID, orderID uuid.UUID, expected, next database.OrderStatus) (database.Order, error) {
	if !isValidOrderStatus(expected) || !isValidOrderStatus(next) {
		return database.Order{}, ErrInvalidStatus
	}
	if err := validateStatusTransition(expected, next); err != nil {
		return database.Order{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if next == database.OrderStatusCOMPLETED || next == database.OrderStatusCANCELLED {
		locked, err := lockOrder(ctx, store, s.opts.LockTimeout, outletID, orderID)
		if err != nil {
			return database.Order{}, err
		}
		if locked.Status != expected {
			return database.Order{}, ErrStaleStatus
		}
		if next == database.OrderStatusCOMPLETED {
			if err := requireFullyPaid(ctx, store, locked); err != nil {
				return database.Order{}, err
			}
		}
	}

	updated, err := swapStatus(ctx, store, outletID, orderID, expected, next)
	if err != nil {
		return database.Order{}, err
	}
	if next == database.OrderStatusCANCELLED {
		if updated, err = cancelCatering(ctx, store, updated); err != nil {
			return database.Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	s.logTransition(updated, expected)
	emit(ctx, s.opts.Publisher, s.opts.Logger, orderEvent(EventOrderStatusChanged, updated, s.opts.Clock.Now()))
	return updated, nil
}

// Cancel cancels an order from whatever non-terminal status it is in.
func (s *StatusService) Cancel(ctx context.Context, outletID, orderID uuid.UUID) (database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	locked, err := lockOrder(ctx, store, s.opts.LockTimeout, outletID, orderID)
	if err != nil {
		return database.Order{}, err
	}
	if err := validateStatusTransition(locked.Status, database.OrderStatusCANCELLED); err != nil {
		return database.Order{}, err
	}

	updated, err := swapStatus(ctx, store, outletID, orderID, locked.Status, database.OrderStatusCANCELLED)
	if err != nil {
		return database.Order{}, err
	}
	if updated, err = cancelCatering(ctx, store, updated); err != nil {
		return database.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	s.logTransition(updated, locked.Status)
	emit(ctx, s.opts.Publisher, s.opts.Logger, orderEvent(EventOrderStatusChanged, updated, s.opts.Clock.Now()))
	return updated, nil
}

func (s *StatusService) logTransition(o database.Order, from database.OrderStatus) {
	s.opts.Logger.WithFields(logrus.Fields{
		"outlet_id":    o.OutletID,
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"from":         from,
		"to":           o.Status,
	}).Info("order status changed")
}

type statusSwapper interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

// swapStatus applies the conditional status update. Zero affected rows means
// the order is gone or its status moved on since the caller read it.
func swapStatus(ctx context.Context, store statusSwapper, outletID, orderID uuid.UUID, expected, next database.OrderStatus) (database.Order, error) {
	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		Status:         next,
		ID:             orderID,
		OutletID:       outletID,
		ExpectedStatus: expected,
	})
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if _, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, OutletID: outletID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}
	return database.Order{}, ErrStaleStatus
}

type cateringSwapper interface {
	UpdateCateringStatus(ctx context.Context, arg database.UpdateCateringStatusParams) (database.Order, error)
}

// swapCateringStatus moves the catering sub-status from expected to next.
func swapCateringStatus(ctx context.Context, store cateringSwapper, orderID uuid.UUID, expected, next database.CateringStatus) (database.Order, error) {
	updated, err := store.UpdateCateringStatus(ctx, database.UpdateCateringStatusParams{
		CateringStatus:         database.NullCateringStatus{CateringStatus: next, Valid: true},
		ID:                     orderID,
		ExpectedCateringStatus: database.NullCateringStatus{CateringStatus: expected, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrStaleStatus
		}
		return database.Order{}, fmt.Errorf("update catering status to %s: %w", next, err)
	}
	return updated, nil
}

// cancelCatering cancels the catering sub-status of a cancelled catering order.
func cancelCatering(ctx context.Context, store cateringSwapper, o database.Order) (database.Order, error) {
	if o.OrderType != database.OrderTypeCATERING || !o.CateringStatus.Valid ||
		o.CateringStatus.CateringStatus == database.CateringStatusCANCELLED {
		return o, nil
	}
	return swapCateringStatus(ctx, store, o.ID, o.CateringStatus.CateringStatus, database.CateringStatusCANCELLED)
}

type paymentSummer interface {
	SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
}

// requireFullyPaid rejects completing an order whose completed payments do
// not cover its total.
func requireFullyPaid(ctx context.Context, store paymentSummer, o database.Order) error {
	paid, err := store.SumPaymentsByOrder(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("sum payments: %w", err)
	}
	if money.FromNumeric(paid).LessThan(money.FromNumeric(o.TotalAmount)) {
		return ErrUnpaidBalance
	}
	return nil
}

// isValidOrderStatus checks if the given status is a valid order status.
func isValidOrderStatus(s database.OrderStatus) bool {
	switch s {
	case database.OrderStatusNEW,
		database.OrderStatusPREPARING,
		database.OrderStatusREADY,
		database.OrderStatusCOMPLETED,
		database.OrderStatusCANCELLED:
		return true
	}
	return false
}

// validateStatusTransition checks if the transition from current to next is allowed.
func validateStatusTransition(current, next database.OrderStatus) error {
	for _, s := range allowedTransitions[current] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, current, next)
}
