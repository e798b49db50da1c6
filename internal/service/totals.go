package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/kiwari-pos/orderengine/internal/money"
	"github.com/kiwari-pos/orderengine/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type totalsStore interface {
	statusSwapper
	cateringSwapper
	paymentSummer
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	SetOrderTotals(ctx context.Context, arg database.SetOrderTotalsParams) (database.Order, error)
}

// RecalculateTotals recomputes an order's subtotal, discount and total from
// its current items under the order row lock.
func (s *OrderService) RecalculateTotals(ctx context.Context, outletID, orderID uuid.UUID) (database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	order, err := lockOrder(ctx, store, s.opts.LockTimeout, outletID, orderID)
	if err != nil {
		return database.Order{}, err
	}

	updated, completed, err := recalculateTotals(ctx, store, order)
	if err != nil {
		return database.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	s.emitTotalsChanged(ctx, updated, order.Status, completed)
	return updated, nil
}

func (s *OrderService) emitTotalsChanged(ctx context.Context, o database.Order, from database.OrderStatus, completed bool) {
	emit(ctx, s.opts.Publisher, s.opts.Logger, orderEvent(EventOrderUpdated, o, s.opts.Clock.Now()))
	if !completed {
		return
	}
	s.opts.Logger.WithFields(logrus.Fields{
		"outlet_id":    o.OutletID,
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"from":         from,
		"to":           o.Status,
	}).Info("order completed by recalculated total")
	emit(ctx, s.opts.Publisher, s.opts.Logger, orderEvent(EventOrderStatusChanged, o, s.opts.Clock.Now()))
}

// recalculateTotals sums the stored item subtotals and re-applies the order's
// stored discount and tax. Item prices are snapshots and are not re-priced
// from the catalog. The caller holds the order row lock.
//
// The new total may not drop below the completed payments. When the payments
// cover it exactly, the order is completed in the same transaction and the
// returned flag is set.
func recalculateTotals(ctx context.Context, store totalsStore, order database.Order) (database.Order, bool, error) {
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return database.Order{}, false, fmt.Errorf("list order items: %w", err)
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(money.FromNumeric(item.Subtotal))
	}

	discount, total, err := pricing.Total(
		subtotal,
		storedDiscount(order.DiscountType, order.DiscountValue),
		money.FromNumeric(order.TaxAmount),
	)
	if err != nil {
		return database.Order{}, false, err
	}

	paidNumeric, err := store.SumPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return database.Order{}, false, fmt.Errorf("sum payments: %w", err)
	}
	paid := money.FromNumeric(paidNumeric)
	if total.LessThan(paid) {
		return database.Order{}, false, ErrBelowPaidAmount
	}

	updated, err := store.SetOrderTotals(ctx, database.SetOrderTotalsParams{
		ID:             order.ID,
		Subtotal:       money.ToNumeric(subtotal),
		DiscountAmount: money.ToNumeric(discount),
		TotalAmount:    money.ToNumeric(total),
	})
	if err != nil {
		return database.Order{}, false, fmt.Errorf("set order totals: %w", err)
	}

	if !paid.IsPositive() || paid.LessThan(total) {
		return updated, false, nil
	}
	switch updated.Status {
	case database.OrderStatusCOMPLETED, database.OrderStatusCANCELLED:
		return updated, false, nil
	}

	if updated.OrderType == database.OrderTypeCATERING && updated.CateringStatus.Valid {
		if updated, err = advanceCatering(ctx, store, updated, false, true); err != nil {
			return database.Order{}, false, err
		}
	}
	completed, err := swapStatus(ctx, store, updated.OutletID, updated.ID, updated.Status, database.OrderStatusCOMPLETED)
	if err != nil {
		return database.Order{}, false, err
	}
	return completed, true, nil
}
