package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/kiwari-pos/orderengine/internal/pricing"
)

// AddItem prices a new line from the catalog and appends it to a NEW order,
// then recalculates the order totals in the same transaction.
func (s *OrderService) AddItem(ctx context.Context, outletID, orderID uuid.UUID, req CreateOrderItemRequest) (*OrderDetail, error) {
	in, err := parseItem(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	order, err := lockOrder(ctx, store, s.opts.LockTimeout, outletID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != database.OrderStatusNEW {
		return nil, ErrOrderNotEditable
	}

	ri, err := resolveItem(ctx, store, outletID, in)
	if err != nil {
		return nil, err
	}
	lr, err := pricing.PriceLine(ri.line)
	if err != nil {
		return nil, err
	}
	if _, err := insertItem(ctx, store, order.ID, ri, lr); err != nil {
		return nil, err
	}

	return s.finishItemChange(ctx, tx, store, order)
}

// RemoveItem deletes a line from a NEW order and recalculates its totals.
// The last remaining line cannot be removed; cancel the order instead. A
// removal that would leave the total below the amount already paid is
// rejected with ErrBelowPaidAmount.
func (s *OrderService) RemoveItem(ctx context.Context, outletID, orderID, itemID uuid.UUID) (*OrderDetail, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	order, err := lockOrder(ctx, store, s.opts.LockTimeout, outletID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != database.OrderStatusNEW {
		return nil, ErrOrderNotEditable
	}

	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	found := false
	for _, item := range items {
		if item.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrItemNotFound
	}
	if len(items) == 1 {
		return nil, ErrLastItem
	}

	n, err := store.DeleteOrderItem(ctx, database.DeleteOrderItemParams{ID: itemID, OrderID: order.ID})
	if err != nil {
		return nil, fmt.Errorf("delete order item: %w", err)
	}
	if n == 0 {
		return nil, ErrItemNotFound
	}

	return s.finishItemChange(ctx, tx, store, order)
}

type txCommitter interface {
	Commit(ctx context.Context) error
}

func (s *OrderService) finishItemChange(ctx context.Context, tx txCommitter, store OrderStore, order database.Order) (*OrderDetail, error) {
	updated, completed, err := recalculateTotals(ctx, store, order)
	if err != nil {
		return nil, err
	}
	items, err := loadItems(ctx, store, order.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	s.emitTotalsChanged(ctx, updated, order.Status, completed)
	return &OrderDetail{Order: updated, Items: items}, nil
}
