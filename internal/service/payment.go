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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PaymentStore defines the DB methods needed by the payment ledger.
type PaymentStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateCateringStatus(ctx context.Context, arg database.UpdateCateringStatusParams) (database.Order, error)
	SetLockTimeout(ctx context.Context, lockTimeout string) error
}

// NewPaymentStore creates a PaymentStore from a DBTX (pool or tx).
type NewPaymentStore func(db database.DBTX) PaymentStore

// AddPaymentRequest is the input for recording a payment against an order.
type AddPaymentRequest struct {
	OutletID        uuid.UUID
	OrderID         uuid.UUID
	ProcessedBy     uuid.UUID
	PaymentMethod   string
	Amount          string
	AmountReceived  string
	ReferenceNumber string
}

// AddPaymentResult is the recorded payment and the order's paid state after it.
type AddPaymentResult struct {
	Payment   database.Payment
	Order     database.Order
	TotalPaid decimal.Decimal
	Remaining decimal.Decimal
	FullyPaid bool
}

// PaymentService appends payments to orders.
type PaymentService struct {
	pool     TxBeginner
	newStore NewPaymentStore
	opts     Options
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(pool TxBeginner, newStore NewPaymentStore, opts Options) *PaymentService {
	return &PaymentService{pool: pool, newStore: newStore, opts: opts.withDefaults()}
}

// paymentInput is an AddPaymentRequest after validation.
type paymentInput struct {
	method          database.PaymentMethod
	amount          decimal.Decimal
	amountReceived  pgtype.Numeric
	changeAmount    pgtype.Numeric
	referenceNumber pgtype.Text
}

func validatePayment(req AddPaymentRequest) (paymentInput, error) {
	in := paymentInput{method: database.PaymentMethod(req.PaymentMethod)}
	if !isValidPaymentMethod(in.method) {
		return in, ErrInvalidPaymentMethod
	}

	amount, err := money.Parse(req.Amount)
	if err != nil || !amount.IsPositive() {
		return in, ErrInvalidAmount
	}
	in.amount = amount

	if in.method == database.PaymentMethodCASH {
		if req.AmountReceived == "" {
			return in, ErrAmountReceivedRequired
		}
		received, err := money.Parse(req.AmountReceived)
		if err != nil {
			return in, ErrInsufficientReceived
		}
		if received.LessThan(amount) {
			return in, ErrInsufficientReceived
		}
		in.amountReceived = money.ToNumeric(received)
		in.changeAmount = money.ToNumeric(received.Sub(amount))
	}

	in.referenceNumber = optionalText(req.ReferenceNumber)
	return in, nil
}

// AddPayment records a payment while holding the order row lock, so
// concurrent payments on the same order are applied one at a time and the
// paid sum never exceeds the total. A payment that covers the total completes
// the order; on catering orders it also advances the catering status.
func (s *PaymentService) AddPayment(ctx context.Context, req AddPaymentRequest) (*AddPaymentResult, error) {
	in, err := validatePayment(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := lockOrder(ctx, store, s.opts.LockTimeout, req.OutletID, req.OrderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case database.OrderStatusCOMPLETED:
		return nil, ErrOrderClosed
	case database.OrderStatusCANCELLED:
		return nil, ErrOrderCancelled
	}

	paidNumeric, err := store.SumPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	paid := money.FromNumeric(paidNumeric)
	total := money.FromNumeric(order.TotalAmount)

	if paid.GreaterThanOrEqual(total) {
		return nil, ErrAlreadyPaid
	}
	newPaid := paid.Add(in.amount)
	if newPaid.GreaterThan(total) {
		return nil, ErrOverpayment
	}

	payment, err := store.CreatePayment(ctx, database.CreatePaymentParams{
		OrderID:         order.ID,
		PaymentMethod:   in.method,
		Amount:          money.ToNumeric(in.amount),
		Status:          database.PaymentStatusCOMPLETED,
		ReferenceNumber: in.referenceNumber,
		AmountReceived:  in.amountReceived,
		ChangeAmount:    in.changeAmount,
		ProcessedBy:     req.ProcessedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	fullyPaid := newPaid.GreaterThanOrEqual(total)
	updated := order

	if order.OrderType == database.OrderTypeCATERING && order.CateringStatus.Valid {
		if updated, err = advanceCatering(ctx, store, updated, paid.IsZero(), fullyPaid); err != nil {
			return nil, err
		}
	}

	if fullyPaid {
		completed, err := swapStatus(ctx, store, order.OutletID, order.ID, order.Status, database.OrderStatusCOMPLETED)
		if err != nil {
			return nil, err
		}
		updated = completed
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.opts.Logger.WithFields(logrus.Fields{
		"outlet_id":  order.OutletID,
		"order_id":   order.ID,
		"payment_id": payment.ID,
		"method":     payment.PaymentMethod,
		"amount":     money.String(in.amount),
		"fully_paid": fullyPaid,
	}).Info("payment added")

	ev := orderEvent(EventPaymentAdded, updated, s.opts.Clock.Now())
	ev.Amount = money.String(in.amount)
	emit(ctx, s.opts.Publisher, s.opts.Logger, ev)
	if fullyPaid {
		emit(ctx, s.opts.Publisher, s.opts.Logger, orderEvent(EventOrderStatusChanged, updated, s.opts.Clock.Now()))
	}

	return &AddPaymentResult{
		Payment:   payment,
		Order:     updated,
		TotalPaid: newPaid,
		Remaining: money.ClampZero(total.Sub(newPaid)),
		FullyPaid: fullyPaid,
	}, nil
}

// advanceCatering applies the catering deposit lifecycle: the first payment
// moves BOOKED to DP_PAID, and the payment that covers the total moves it to
// SETTLED.
func advanceCatering(ctx context.Context, store cateringSwapper, o database.Order, firstPayment, fullyPaid bool) (database.Order, error) {
	var err error
	if firstPayment && o.CateringStatus.CateringStatus == database.CateringStatusBOOKED {
		o, err = swapCateringStatus(ctx, store, o.ID, database.CateringStatusBOOKED, database.CateringStatusDPPAID)
		if err != nil {
			return database.Order{}, err
		}
	}
	if fullyPaid {
		switch o.CateringStatus.CateringStatus {
		case database.CateringStatusBOOKED, database.CateringStatusDPPAID:
			o, err = swapCateringStatus(ctx, store, o.ID, o.CateringStatus.CateringStatus, database.CateringStatusSETTLED)
			if err != nil {
				return database.Order{}, err
			}
		}
	}
	return o, nil
}

// ListPayments returns the payments recorded for an outlet's order.
func (s *PaymentService) ListPayments(ctx context.Context, outletID, orderID uuid.UUID) ([]database.Payment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	if _, err := store.GetOrder(ctx, database.GetOrderParams{ID: orderID, OutletID: outletID}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	payments, err := store.ListPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return payments, nil
}

// isValidPaymentMethod checks if the given payment method is valid.
func isValidPaymentMethod(pm database.PaymentMethod) bool {
	switch pm {
	case database.PaymentMethodCASH,
		database.PaymentMethodQRIS,
		database.PaymentMethodTRANSFER:
		return true
	}
	return false
}
