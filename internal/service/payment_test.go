package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kiwari-pos/orderengine/internal/apperr"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func payReq(o database.Order, method, amount, received string) AddPaymentRequest {
	return AddPaymentRequest{
		OutletID:       o.OutletID,
		OrderID:        o.ID,
		ProcessedBy:    uuid.New(),
		PaymentMethod:  method,
		Amount:         amount,
		AmountReceived: received,
	}
}

func TestAddPayment_Validation(t *testing.T) {
	o := database.Order{ID: uuid.New(), OutletID: uuid.New()}
	tests := []struct {
		name string
		req  AddPaymentRequest
		want error
	}{
		{"unknown method", payReq(o, "CARD", "1000", ""), ErrInvalidPaymentMethod},
		{"zero amount", payReq(o, "QRIS", "0", ""), ErrInvalidAmount},
		{"negative amount", payReq(o, "QRIS", "-10", ""), ErrInvalidAmount},
		{"unparseable amount", payReq(o, "TRANSFER", "ten", ""), ErrInvalidAmount},
		{"cash without received", payReq(o, "CASH", "1000", ""), ErrAmountReceivedRequired},
		{"cash received short", payReq(o, "CASH", "1000", "999"), ErrInsufficientReceived},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB()
			svc := newPaymentServiceFor(db, testOptions(nil))
			_, err := svc.AddPayment(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if begins, _ := db.counts(); begins != 0 {
				t.Errorf("no transaction should open on invalid input")
			}
		})
	}
}

func TestAddPayment_PartialThenFull(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusREADY, "100000")
	pub := &recordingPublisher{}
	svc := newPaymentServiceFor(db, testOptions(pub))
	ctx := context.Background()

	first, err := svc.AddPayment(ctx, payReq(order, "CASH", "40000", "50000"))
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if first.FullyPaid {
		t.Error("first payment should not settle the order")
	}
	if !first.Remaining.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("remaining: got %s, want 60000", first.Remaining)
	}
	if !numericEquals(first.Payment.ChangeAmount, "10000") || !numericEquals(first.Payment.AmountReceived, "50000") {
		t.Errorf("cash change: received=%v change=%v", first.Payment.AmountReceived, first.Payment.ChangeAmount)
	}
	if first.Payment.Status != database.PaymentStatusCOMPLETED {
		t.Errorf("payment status: got %v", first.Payment.Status)
	}
	if first.Order.Status != database.OrderStatusREADY {
		t.Errorf("order status: got %v, want READY", first.Order.Status)
	}

	second, err := svc.AddPayment(ctx, payReq(order, "QRIS", "60000", ""))
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if !second.FullyPaid || !second.Remaining.IsZero() {
		t.Errorf("second payment should settle: fully=%v remaining=%s", second.FullyPaid, second.Remaining)
	}
	if second.Payment.AmountReceived.Valid || second.Payment.ChangeAmount.Valid {
		t.Error("non-cash payments carry no received or change amount")
	}
	if second.Order.Status != database.OrderStatusCOMPLETED || !second.Order.CompletedAt.Valid {
		t.Errorf("order should be completed, got %v", second.Order.Status)
	}

	stored := db.order(order.ID)
	if stored.Status != database.OrderStatusCOMPLETED {
		t.Errorf("stored status: got %v", stored.Status)
	}
	if !db.paid(order.ID).Equal(decimal.NewFromInt(100000)) {
		t.Errorf("paid: got %s", db.paid(order.ID))
	}

	want := []string{EventPaymentAdded, EventPaymentAdded, EventOrderStatusChanged}
	got := pub.types()
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAddPayment_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		status database.OrderStatus
		paid   string
		amount string
		want   error
	}{
		{"completed order", database.OrderStatusCOMPLETED, "", "1000", ErrOrderClosed},
		{"cancelled order", database.OrderStatusCANCELLED, "", "1000", ErrOrderCancelled},
		{"overpayment", database.OrderStatusNEW, "", "50001", ErrOverpayment},
		{"overpayment after partial", database.OrderStatusNEW, "30000", "20001", ErrOverpayment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB()
			order := db.addOrder(uuid.New(), tt.status, "50000")
			if tt.paid != "" {
				db.payments = append(db.payments, database.Payment{
					ID: uuid.New(), OrderID: order.ID, Amount: makeNumeric(tt.paid), Status: database.PaymentStatusCOMPLETED,
				})
			}
			svc := newPaymentServiceFor(db, testOptions(nil))

			_, err := svc.AddPayment(context.Background(), payReq(order, "TRANSFER", tt.amount, ""))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if apperr.KindOf(err) != apperr.KindConflict {
				t.Errorf("kind: got %v, want conflict", apperr.KindOf(err))
			}
		})
	}
}

func TestAddPayment_ExactRemainderAccepted(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusNEW, "50000.50")
	svc := newPaymentServiceFor(db, testOptions(nil))

	res, err := svc.AddPayment(context.Background(), payReq(order, "TRANSFER", "50000.50", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.FullyPaid {
		t.Error("paying the exact total should settle the order")
	}
}

func TestAddPayment_ZeroTotalIsAlreadyPaid(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusNEW, "0")
	svc := newPaymentServiceFor(db, testOptions(nil))

	_, err := svc.AddPayment(context.Background(), payReq(order, "QRIS", "1", ""))
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestAddPayment_OrderNotFound(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusNEW, "10000")
	svc := newPaymentServiceFor(db, testOptions(nil))

	req := payReq(order, "QRIS", "1000", "")
	req.OutletID = uuid.New()
	if _, err := svc.AddPayment(context.Background(), req); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestAddPayment_LockTimeout(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusNEW, "10000")
	db.fail("GetOrderForUpdate", &pgconn.PgError{Code: pgLockNotAvailable, Message: "canceling statement due to lock timeout"})
	svc := newPaymentServiceFor(db, testOptions(nil))

	_, err := svc.AddPayment(context.Background(), payReq(order, "QRIS", "1000", ""))
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
	if apperr.KindOf(err) != apperr.KindUnavailable {
		t.Errorf("kind: got %v, want unavailable", apperr.KindOf(err))
	}
	if len(db.lockTimeouts) == 0 || db.lockTimeouts[0] != "2000ms" {
		t.Errorf("lock timeout should be set before locking, got %v", db.lockTimeouts)
	}
	if db.paymentCount(order.ID) != 0 {
		t.Error("no payment should be recorded")
	}
}

func TestAddPayment_CommitFailureLeavesNoPayment(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusNEW, "10000")
	db.fail("Commit", errors.New("connection lost"))
	pub := &recordingPublisher{}
	svc := newPaymentServiceFor(db, testOptions(pub))

	if _, err := svc.AddPayment(context.Background(), payReq(order, "QRIS", "10000", "")); err == nil {
		t.Fatal("expected error, got nil")
	}
	if db.paymentCount(order.ID) != 0 {
		t.Error("payment should be rolled back")
	}
	if db.order(order.ID).Status != database.OrderStatusNEW {
		t.Error("status change should be rolled back")
	}
	if len(pub.types()) != 0 {
		t.Error("nothing should be published for a failed commit")
	}
}

func TestAddPayment_PublishFailureIsLogged(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusNEW, "10000")
	logger, hook := logtest.NewNullLogger()
	opts := testOptions(&recordingPublisher{err: errors.New("broker down")})
	opts.Logger = logger
	svc := newPaymentServiceFor(db, opts)

	if _, err := svc.AddPayment(context.Background(), payReq(order, "QRIS", "5000", "")); err != nil {
		t.Fatalf("publish failures must not fail the payment: %v", err)
	}
	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "publish event" {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning for the failed publish")
	}
}

func TestAddPayment_Catering(t *testing.T) {
	db := newFakeDB()
	order := db.addCateringOrder(uuid.New(), "500000")
	svc := newPaymentServiceFor(db, testOptions(nil))
	ctx := context.Background()

	dp, err := svc.AddPayment(ctx, payReq(order, "TRANSFER", "150000", ""))
	if err != nil {
		t.Fatalf("down payment: %v", err)
	}
	if got := dp.Order.CateringStatus.CateringStatus; got != database.CateringStatusDPPAID {
		t.Errorf("after down payment: got %v, want DP_PAID", got)
	}
	if dp.Order.Status != database.OrderStatusNEW {
		t.Errorf("order status: got %v, want NEW", dp.Order.Status)
	}

	mid, err := svc.AddPayment(ctx, payReq(order, "TRANSFER", "100000", ""))
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if got := mid.Order.CateringStatus.CateringStatus; got != database.CateringStatusDPPAID {
		t.Errorf("after second payment: got %v, want DP_PAID", got)
	}

	settle, err := svc.AddPayment(ctx, payReq(order, "CASH", "250000", "250000"))
	if err != nil {
		t.Fatalf("settlement: %v", err)
	}
	if got := settle.Order.CateringStatus.CateringStatus; got != database.CateringStatusSETTLED {
		t.Errorf("after settlement: got %v, want SETTLED", got)
	}
	if settle.Order.Status != database.OrderStatusCOMPLETED {
		t.Errorf("order status: got %v, want COMPLETED", settle.Order.Status)
	}
}

func TestAddPayment_CateringPaidInFull(t *testing.T) {
	db := newFakeDB()
	order := db.addCateringOrder(uuid.New(), "500000")
	svc := newPaymentServiceFor(db, testOptions(nil))

	res, err := svc.AddPayment(context.Background(), payReq(order, "QRIS", "500000", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := db.order(order.ID)
	if stored.CateringStatus.CateringStatus != database.CateringStatusSETTLED {
		t.Errorf("catering status: got %v, want SETTLED", stored.CateringStatus.CateringStatus)
	}
	if res.Order.Status != database.OrderStatusCOMPLETED {
		t.Errorf("order status: got %v", res.Order.Status)
	}
}

func TestAddPayment_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusNEW, "100000")
	svc := newPaymentServiceFor(db, testOptions(nil))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddPayment(context.Background(), payReq(order, "QRIS", "30000", ""))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rejected = append(rejected, err)
				return
			}
			succeeded++
		}()
	}
	wg.Wait()

	if succeeded != 3 {
		t.Errorf("succeeded: got %d, want 3", succeeded)
	}
	for _, err := range rejected {
		if !errors.Is(err, ErrOverpayment) {
			t.Errorf("expected ErrOverpayment, got %v", err)
		}
	}
	if !db.paid(order.ID).Equal(decimal.NewFromInt(90000)) {
		t.Errorf("paid: got %s, want 90000", db.paid(order.ID))
	}
}

func TestAddPayment_ConcurrentSettlementCompletesOnce(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusREADY, "100000")
	pub := &recordingPublisher{}
	svc := newPaymentServiceFor(db, testOptions(pub))

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddPayment(context.Background(), payReq(order, "QRIS", "50000", ""))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrOrderClosed):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 2 {
		t.Errorf("successful payments: got %d, want 2", ok)
	}
	if !db.paid(order.ID).Equal(decimal.NewFromInt(100000)) {
		t.Errorf("paid: got %s, want 100000", db.paid(order.ID))
	}

	completions := 0
	for _, typ := range pub.types() {
		if typ == EventOrderStatusChanged {
			completions++
		}
	}
	if completions != 1 {
		t.Errorf("order should complete exactly once, got %d", completions)
	}
}

func TestListPayments(t *testing.T) {
	db := newFakeDB()
	order := db.addOrder(uuid.New(), database.OrderStatusNEW, "100000")
	svc := newPaymentServiceFor(db, testOptions(nil))
	ctx := context.Background()

	for _, amount := range []string{"10000", "20000"} {
		if _, err := svc.AddPayment(ctx, payReq(order, "QRIS", amount, "")); err != nil {
			t.Fatalf("add payment: %v", err)
		}
	}
	payments, err := svc.ListPayments(ctx, order.OutletID, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 {
		t.Errorf("payments: got %d, want 2", len(payments))
	}

	if _, err := svc.ListPayments(ctx, uuid.New(), order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("other outlet: expected ErrOrderNotFound, got %v", err)
	}
}
