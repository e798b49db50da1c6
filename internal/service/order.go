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
	"github.com/kiwari-pos/orderengine/internal/money"
	"github.com/kiwari-pos/orderengine/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxOrderNumberRetries = 3

// CatalogLookup resolves catalog references into the prices frozen onto an order.
type CatalogLookup interface {
	GetProductForOrder(ctx context.Context, arg database.GetProductForOrderParams) (database.GetProductForOrderRow, error)
	GetVariantForOrder(ctx context.Context, id uuid.UUID) (database.GetVariantForOrderRow, error)
	GetModifierForOrder(ctx context.Context, id uuid.UUID) (database.GetModifierForOrderRow, error)
}

// OrderStore defines the DB methods needed to create, read and edit orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	CatalogLookup
	GetNextOrderNumber(ctx context.Context, arg database.GetNextOrderNumberParams) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	CreateOrderItemModifier(ctx context.Context, arg database.CreateOrderItemModifierParams) (database.OrderItemModifier, error)
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemModifiersByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.OrderItemModifier, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)
	DeleteOrderItem(ctx context.Context, arg database.DeleteOrderItemParams) (int64, error)
	SetOrderTotals(ctx context.Context, arg database.SetOrderTotalsParams) (database.Order, error)
	SetLockTimeout(ctx context.Context, lockTimeout string) error
	SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateCateringStatus(ctx context.Context, arg database.UpdateCateringStatusParams) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the input for creating an order. Identifiers, dates
// and amounts arrive as strings and are validated before any transaction opens.
type CreateOrderRequest struct {
	OutletID         uuid.UUID
	CreatedBy        uuid.UUID
	OrderType        string
	TableNumber      string
	CustomerID       string
	Notes            string
	DiscountType     string
	DiscountValue    string
	CateringDate     string // RFC3339
	CateringDpAmount string
	DeliveryPlatform string
	DeliveryAddress  string
	Items            []CreateOrderItemRequest
}

// CreateOrderItemRequest is a single item in the order.
type CreateOrderItemRequest struct {
	ProductID     string
	VariantID     string
	Quantity      int32
	Notes         string
	DiscountType  string
	DiscountValue string
	Modifiers     []CreateOrderItemModifierRequest
}

// CreateOrderItemModifierRequest is a modifier on an order item.
type CreateOrderItemModifierRequest struct {
	ModifierID string
	Quantity   int32
}

// OrderDetail is an order with its items and, on reads, its payments.
type OrderDetail struct {
	Order    database.Order
	Items    []OrderItemResult
	Payments []database.Payment
}

// OrderItemResult is an item with its modifiers.
type OrderItemResult struct {
	Item      database.OrderItem
	Modifiers []database.OrderItemModifier
}

// ListOrdersRequest filters an outlet's orders. Empty filters match everything.
type ListOrdersRequest struct {
	OutletID     uuid.UUID
	Status       string
	OrderType    string
	BusinessDate string // YYYY-MM-DD
	Limit        int32
	Offset       int32
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	opts     Options
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, opts Options) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, opts: opts.withDefaults()}
}

// orderInput is a CreateOrderRequest after request-level validation.
type orderInput struct {
	req              CreateOrderRequest
	orderType        database.OrderType
	customerID       pgtype.UUID
	discount         *pricing.Discount
	cateringDate     pgtype.Timestamptz
	cateringStatus   database.NullCateringStatus
	cateringDpAmount pgtype.Numeric
	items            []itemInput
}

type itemInput struct {
	productID uuid.UUID
	variantID *uuid.UUID
	quantity  int32
	notes     string
	discount  *pricing.Discount
	modifiers []modifierInput
}

type modifierInput struct {
	id       uuid.UUID
	quantity int32
}

// resolvedItem is an item whose catalog references have been looked up.
type resolvedItem struct {
	line      pricing.Line
	variantID pgtype.UUID
	station   database.NullKitchenStation
	notes     pgtype.Text
}

// CreateOrder validates, prices and persists an order atomically. The whole
// transaction is retried up to maxOrderNumberRetries times when a concurrent
// creation took the same order number.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderDetail, error) {
	in, err := validateCreateOrder(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, in)
		if err == nil {
			s.opts.Logger.WithFields(logrus.Fields{
				"outlet_id":    result.Order.OutletID,
				"order_id":     result.Order.ID,
				"order_number": result.Order.OrderNumber,
				"attempt":      attempt,
			}).Info("order created")
			emit(ctx, s.opts.Publisher, s.opts.Logger, orderEvent(EventOrderCreated, result.Order, s.opts.Clock.Now()))
			return result, nil
		}
		if !isOrderNumberConflict(err) {
			return nil, err
		}
		lastErr = err
		s.opts.Logger.WithFields(logrus.Fields{
			"outlet_id": req.OutletID,
			"attempt":   attempt,
		}).Debug("order number taken, retrying")
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrOrderNumberConflict, lastErr)
}

// createOrderTx executes the full order creation in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, in orderInput) (*OrderDetail, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	req := in.req

	businessDate := s.opts.businessDate(s.opts.Clock.Now())
	orderNumber, err := s.allocateOrderNumber(ctx, store, req.OutletID, businessDate)
	if err != nil {
		return nil, err
	}

	resolved := make([]resolvedItem, len(in.items))
	lines := make([]pricing.Line, len(in.items))
	for i, item := range in.items {
		ri, err := resolveItem(ctx, store, req.OutletID, item)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		resolved[i] = ri
		lines[i] = ri.line
	}

	priced, err := pricing.Calculate(lines, in.discount, decimal.Zero)
	if err != nil {
		return nil, err
	}
	if priced.Clamped {
		s.opts.Logger.WithFields(logrus.Fields{
			"outlet_id":       req.OutletID,
			"order_number":    orderNumber,
			"subtotal":        money.String(priced.Subtotal),
			"discount_amount": money.String(priced.DiscountAmount),
		}).Warn("discount exceeds payable amount, clamped to zero")
	}
	if priced.Total.IsZero() {
		// Payments are refused on a zero total; only TransitionStatus can complete it.
		s.opts.Logger.WithFields(logrus.Fields{
			"outlet_id":    req.OutletID,
			"order_number": orderNumber,
		}).Warn("order total is zero, complete it with a status transition")
	}

	discountType, discountValue := discountColumns(in.discount)
	deliveryPlatform, deliveryAddress := pgtype.Text{}, pgtype.Text{}
	if in.orderType == database.OrderTypeDELIVERY {
		deliveryPlatform = optionalText(req.DeliveryPlatform)
		deliveryAddress = optionalText(req.DeliveryAddress)
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OutletID:         req.OutletID,
		OrderNumber:      orderNumber,
		BusinessDate:     businessDate,
		CustomerID:       in.customerID,
		OrderType:        in.orderType,
		TableNumber:      optionalText(req.TableNumber),
		Notes:            optionalText(req.Notes),
		Subtotal:         money.ToNumeric(priced.Subtotal),
		DiscountType:     discountType,
		DiscountValue:    discountValue,
		DiscountAmount:   money.ToNumeric(priced.DiscountAmount),
		TaxAmount:        money.ToNumeric(priced.TaxAmount),
		TotalAmount:      money.ToNumeric(priced.Total),
		CateringDate:     in.cateringDate,
		CateringStatus:   in.cateringStatus,
		CateringDpAmount: in.cateringDpAmount,
		DeliveryPlatform: deliveryPlatform,
		DeliveryAddress:  deliveryAddress,
		CreatedBy:        req.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]OrderItemResult, 0, len(resolved))
	for i, ri := range resolved {
		ir, err := insertItem(ctx, store, order.ID, ri, priced.Lines[i])
		if err != nil {
			return nil, err
		}
		items = append(items, ir)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderDetail{Order: order, Items: items}, nil
}

// allocateOrderNumber reads the next free sequence number for the outlet's
// business day. Two transactions may read the same value; the unique
// constraint on the order number rejects the second insert or commit.
func (s *OrderService) allocateOrderNumber(ctx context.Context, store OrderStore, outletID uuid.UUID, day pgtype.Date) (string, error) {
	next, err := store.GetNextOrderNumber(ctx, database.GetNextOrderNumberParams{
		OutletID:     outletID,
		BusinessDate: day,
	})
	if err != nil {
		return "", fmt.Errorf("get next order number: %w", err)
	}
	return fmt.Sprintf("%s-%03d", s.opts.Prefix, next), nil
}

// GetOrder returns an outlet's order with items, modifiers and payments.
func (s *OrderService) GetOrder(ctx context.Context, outletID, orderID uuid.UUID) (*OrderDetail, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	order, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, OutletID: outletID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := loadItems(ctx, store, orderID)
	if err != nil {
		return nil, err
	}

	payments, err := store.ListPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &OrderDetail{Order: order, Items: items, Payments: payments}, nil
}

// ListOrders returns an outlet's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, req ListOrdersRequest) ([]database.Order, error) {
	params := database.ListOrdersParams{
		OutletID: req.OutletID,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if req.Status != "" {
		st := database.OrderStatus(req.Status)
		if !isValidOrderStatus(st) {
			return nil, ErrInvalidStatus
		}
		params.Status = database.NullOrderStatus{OrderStatus: st, Valid: true}
	}
	if req.OrderType != "" {
		ot, err := validateOrderType(req.OrderType)
		if err != nil {
			return nil, err
		}
		params.OrderType = database.NullOrderType{OrderType: ot, Valid: true}
	}
	if req.BusinessDate != "" {
		t, err := time.Parse(time.DateOnly, req.BusinessDate)
		if err != nil {
			return nil, ErrInvalidBusinessDate
		}
		params.BusinessDate = pgtype.Date{Time: t, Valid: true}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	orders, err := s.newStore(tx).ListOrders(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return orders, nil
}

// --- Validation ---

func validateCreateOrder(req CreateOrderRequest) (orderInput, error) {
	in := orderInput{req: req}

	orderType, err := validateOrderType(req.OrderType)
	if err != nil {
		return in, err
	}
	in.orderType = orderType

	if len(req.Items) == 0 {
		return in, pricing.ErrEmptyItems
	}

	if orderType == database.OrderTypeCATERING {
		if req.CateringDate == "" {
			return in, ErrCateringDate
		}
		if req.CustomerID == "" {
			return in, ErrCateringCustomer
		}
	}

	if in.discount, err = pricing.ParseDiscount(req.DiscountType, req.DiscountValue); err != nil {
		return in, err
	}

	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return in, ErrInvalidCustomerID
		}
		in.customerID = pgtype.UUID{Bytes: cid, Valid: true}
	}

	if orderType == database.OrderTypeCATERING {
		t, err := time.Parse(time.RFC3339, req.CateringDate)
		if err != nil {
			return in, fmt.Errorf("%w: %w", ErrInvalidCateringDate, err)
		}
		in.cateringDate = pgtype.Timestamptz{Time: t, Valid: true}
		in.cateringStatus = database.NullCateringStatus{
			CateringStatus: database.CateringStatusBOOKED,
			Valid:          true,
		}
		if req.CateringDpAmount != "" {
			dp, err := money.Parse(req.CateringDpAmount)
			if err != nil || dp.IsNegative() {
				return in, ErrInvalidCateringDpAmt
			}
			in.cateringDpAmount = money.ToNumeric(dp)
		}
	}

	in.items = make([]itemInput, len(req.Items))
	for i, item := range req.Items {
		parsed, err := parseItem(item)
		if err != nil {
			return in, fmt.Errorf("item[%d]: %w", i, err)
		}
		in.items[i] = parsed
	}
	return in, nil
}

func parseItem(req CreateOrderItemRequest) (itemInput, error) {
	if req.Quantity <= 0 {
		return itemInput{}, pricing.ErrInvalidQuantity
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return itemInput{}, ErrInvalidProductID
	}
	in := itemInput{productID: productID, quantity: req.Quantity, notes: req.Notes}

	if req.VariantID != "" {
		vid, err := uuid.Parse(req.VariantID)
		if err != nil {
			return itemInput{}, ErrInvalidVariantID
		}
		in.variantID = &vid
	}

	if in.discount, err = pricing.ParseDiscount(req.DiscountType, req.DiscountValue); err != nil {
		return itemInput{}, err
	}

	for j, mod := range req.Modifiers {
		if mod.Quantity <= 0 {
			return itemInput{}, fmt.Errorf("modifiers[%d]: %w", j, pricing.ErrInvalidQuantity)
		}
		mid, err := uuid.Parse(mod.ModifierID)
		if err != nil {
			return itemInput{}, fmt.Errorf("modifiers[%d]: %w", j, ErrInvalidModifierID)
		}
		in.modifiers = append(in.modifiers, modifierInput{id: mid, quantity: mod.Quantity})
	}
	return in, nil
}

func validateOrderType(s string) (database.OrderType, error) {
	switch t := database.OrderType(s); t {
	case database.OrderTypeDINEIN, database.OrderTypeTAKEAWAY,
		database.OrderTypeDELIVERY, database.OrderTypeCATERING:
		return t, nil
	}
	return "", ErrInvalidOrderType
}

// --- Catalog resolution and persistence ---

// resolveItem looks up the product, variant and modifiers of one item in the
// outlet's catalog. Ownership mismatches are left to the pricing calculator.
func resolveItem(ctx context.Context, catalog CatalogLookup, outletID uuid.UUID, in itemInput) (resolvedItem, error) {
	product, err := catalog.GetProductForOrder(ctx, database.GetProductForOrderParams{
		ID:       in.productID,
		OutletID: outletID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resolvedItem{}, ErrProductNotFound
		}
		return resolvedItem{}, fmt.Errorf("get product: %w", err)
	}

	ri := resolvedItem{
		line: pricing.Line{
			ProductID: product.ID,
			BasePrice: money.FromNumeric(product.BasePrice),
			Quantity:  in.quantity,
			Discount:  in.discount,
		},
		station: product.Station,
		notes:   optionalText(in.notes),
	}

	if in.variantID != nil {
		variant, err := catalog.GetVariantForOrder(ctx, *in.variantID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return resolvedItem{}, ErrVariantNotFound
			}
			return resolvedItem{}, fmt.Errorf("get variant: %w", err)
		}
		ri.line.Variant = &pricing.Variant{
			ID:              variant.ID,
			ProductID:       variant.ProductID,
			PriceAdjustment: money.FromNumeric(variant.PriceAdjustment),
		}
		ri.variantID = pgtype.UUID{Bytes: variant.ID, Valid: true}
	}

	for j, mod := range in.modifiers {
		modifier, err := catalog.GetModifierForOrder(ctx, mod.id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return resolvedItem{}, fmt.Errorf("modifiers[%d]: %w", j, ErrModifierNotFound)
			}
			return resolvedItem{}, fmt.Errorf("modifiers[%d]: get modifier: %w", j, err)
		}
		ri.line.Modifiers = append(ri.line.Modifiers, pricing.Modifier{
			ID:        modifier.ID,
			ProductID: modifier.ProductID,
			Price:     money.FromNumeric(modifier.Price),
			Quantity:  mod.quantity,
		})
	}
	return ri, nil
}

type itemWriter interface {
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	CreateOrderItemModifier(ctx context.Context, arg database.CreateOrderItemModifierParams) (database.OrderItemModifier, error)
}

// insertItem writes a priced item and its modifiers with their price snapshots.
func insertItem(ctx context.Context, store itemWriter, orderID uuid.UUID, ri resolvedItem, lr pricing.LineResult) (OrderItemResult, error) {
	discountType, discountValue := discountColumns(ri.line.Discount)
	item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
		OrderID:        orderID,
		ProductID:      ri.line.ProductID,
		VariantID:      ri.variantID,
		Quantity:       ri.line.Quantity,
		UnitPrice:      money.ToNumeric(lr.UnitPrice),
		DiscountType:   discountType,
		DiscountValue:  discountValue,
		DiscountAmount: money.ToNumeric(lr.DiscountAmount),
		Subtotal:       money.ToNumeric(lr.Subtotal),
		Notes:          ri.notes,
		Station:        ri.station,
	})
	if err != nil {
		return OrderItemResult{}, fmt.Errorf("create order item: %w", err)
	}

	mods := make([]database.OrderItemModifier, 0, len(ri.line.Modifiers))
	for _, m := range ri.line.Modifiers {
		oim, err := store.CreateOrderItemModifier(ctx, database.CreateOrderItemModifierParams{
			OrderItemID: item.ID,
			ModifierID:  m.ID,
			Quantity:    m.Quantity,
			UnitPrice:   money.ToNumeric(m.Price),
		})
		if err != nil {
			return OrderItemResult{}, fmt.Errorf("create order item modifier: %w", err)
		}
		mods = append(mods, oim)
	}
	return OrderItemResult{Item: item, Modifiers: mods}, nil
}

type itemReader interface {
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderItemModifiersByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.OrderItemModifier, error)
}

func loadItems(ctx context.Context, store itemReader, orderID uuid.UUID) ([]OrderItemResult, error) {
	items, err := store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	out := make([]OrderItemResult, len(items))
	for i, item := range items {
		mods, err := store.ListOrderItemModifiersByOrderItem(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("list order item modifiers: %w", err)
		}
		out[i] = OrderItemResult{Item: item, Modifiers: mods}
	}
	return out, nil
}

// --- Helpers ---

func discountColumns(d *pricing.Discount) (database.NullDiscountType, pgtype.Numeric) {
	if d == nil {
		return database.NullDiscountType{}, pgtype.Numeric{}
	}
	return database.NullDiscountType{DiscountType: database.DiscountType(d.Type), Valid: true},
		money.ToNumeric(d.Value)
}

// storedDiscount reads a discount back from its columns.
func storedDiscount(t database.NullDiscountType, v pgtype.Numeric) *pricing.Discount {
	if !t.Valid {
		return nil
	}
	return &pricing.Discount{Type: string(t.DiscountType), Value: money.FromNumeric(v)}
}

func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
