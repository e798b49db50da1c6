package service

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/kiwari-pos/orderengine/internal/money"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// --- In-memory store ---

// fakeDB is a transactional in-memory store. Reads inside a transaction see
// committed rows plus the transaction's own writes. The order number unique
// constraint is checked on insert and again on commit, and GetOrderForUpdate
// blocks on a per-order lock held until commit or rollback.
type fakeDB struct {
	mu sync.Mutex

	products  map[uuid.UUID]database.GetProductForOrderRow
	variants  map[uuid.UUID]database.GetVariantForOrderRow
	modifiers map[uuid.UUID]database.GetModifierForOrderRow

	orders   map[uuid.UUID]database.Order
	items    []database.OrderItem
	mods     []database.OrderItemModifier
	payments []database.Payment

	rowLocks map[uuid.UUID]*sync.Mutex

	begins       int
	commits      int
	lockTimeouts []string

	failures     map[string]error
	beforeCommit func(tx *fakeTx)
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		products:  make(map[uuid.UUID]database.GetProductForOrderRow),
		variants:  make(map[uuid.UUID]database.GetVariantForOrderRow),
		modifiers: make(map[uuid.UUID]database.GetModifierForOrderRow),
		orders:    make(map[uuid.UUID]database.Order),
		rowLocks:  make(map[uuid.UUID]*sync.Mutex),
		failures:  make(map[string]error),
	}
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.failures["Begin"]; err != nil {
		return nil, err
	}
	db.begins++
	return &fakeTx{
		db:      db,
		held:    make(map[uuid.UUID]*sync.Mutex),
		orders:  make(map[uuid.UUID]database.Order),
		deleted: make(map[uuid.UUID]bool),
	}, nil
}

func (db *fakeDB) fail(method string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.failures[method] = err
}

func (db *fakeDB) failed(method string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.failures[method]
}

func (db *fakeDB) rowLock(id uuid.UUID) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		db.rowLocks[id] = l
	}
	return l
}

// numberTaken reports whether a committed order other than o already holds
// o's number for the same outlet and day. Caller holds db.mu.
func (db *fakeDB) numberTaken(o database.Order) bool {
	for _, c := range db.orders {
		if c.ID != o.ID && c.OutletID == o.OutletID &&
			c.BusinessDate.Time.Equal(o.BusinessDate.Time) && c.OrderNumber == o.OrderNumber {
			return true
		}
	}
	return false
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{
		Code:           pgUniqueViolation,
		Message:        "duplicate key value violates unique constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

// --- Seeding and inspection ---

func (db *fakeDB) addProduct(outletID uuid.UUID, price string, station database.KitchenStation) uuid.UUID {
	id := uuid.New()
	db.products[id] = database.GetProductForOrderRow{
		ID:        id,
		OutletID:  outletID,
		BasePrice: makeNumeric(price),
		Station:   database.NullKitchenStation{KitchenStation: station, Valid: station != ""},
	}
	return id
}

func (db *fakeDB) addVariant(productID uuid.UUID, adjustment string) uuid.UUID {
	id := uuid.New()
	db.variants[id] = database.GetVariantForOrderRow{ID: id, ProductID: productID, PriceAdjustment: makeNumeric(adjustment)}
	return id
}

func (db *fakeDB) addModifier(productID uuid.UUID, price string) uuid.UUID {
	id := uuid.New()
	db.modifiers[id] = database.GetModifierForOrderRow{ID: id, ProductID: productID, Price: makeNumeric(price)}
	return id
}

// addOrder stores a committed order with a single item priced at total.
func (db *fakeDB) addOrder(outletID uuid.UUID, status database.OrderStatus, total string) database.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	o := database.Order{
		ID:             uuid.New(),
		OutletID:       outletID,
		OrderNumber:    "KWR-" + strconv.Itoa(len(db.orders)+1),
		BusinessDate:   pgtype.Date{Time: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), Valid: true},
		OrderType:      database.OrderTypeDINEIN,
		Status:         status,
		Subtotal:       makeNumeric(total),
		DiscountAmount: makeNumeric("0"),
		TaxAmount:      makeNumeric("0"),
		TotalAmount:    makeNumeric(total),
		CreatedBy:      uuid.New(),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	db.orders[o.ID] = o
	db.items = append(db.items, database.OrderItem{
		ID:             uuid.New(),
		OrderID:        o.ID,
		ProductID:      uuid.New(),
		Quantity:       1,
		UnitPrice:      makeNumeric(total),
		DiscountAmount: makeNumeric("0"),
		Subtotal:       makeNumeric(total),
		Status:         database.OrderItemStatusPENDING,
	})
	return o
}

func (db *fakeDB) addCateringOrder(outletID uuid.UUID, total string) database.Order {
	o := db.addOrder(outletID, database.OrderStatusNEW, total)
	db.mu.Lock()
	defer db.mu.Unlock()
	o.OrderType = database.OrderTypeCATERING
	o.CateringStatus = database.NullCateringStatus{CateringStatus: database.CateringStatusBOOKED, Valid: true}
	db.orders[o.ID] = o
	return o
}

func (db *fakeDB) order(id uuid.UUID) database.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.orders[id]
}

func (db *fakeDB) paid(orderID uuid.UUID) decimal.Decimal {
	db.mu.Lock()
	defer db.mu.Unlock()
	sum := decimal.Zero
	for _, p := range db.payments {
		if p.OrderID == orderID && p.Status == database.PaymentStatusCOMPLETED {
			sum = sum.Add(money.FromNumeric(p.Amount))
		}
	}
	return sum
}

func (db *fakeDB) paymentCount(orderID uuid.UUID) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, p := range db.payments {
		if p.OrderID == orderID {
			n++
		}
	}
	return n
}

func (db *fakeDB) committedItems(orderID uuid.UUID) []database.OrderItem {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []database.OrderItem
	for _, it := range db.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

func (db *fakeDB) counts() (begins, commits int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.begins, db.commits
}

// --- Transaction ---

// fakeTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type fakeTx struct {
	db   *fakeDB
	done bool
	held map[uuid.UUID]*sync.Mutex

	orders   map[uuid.UUID]database.Order
	inserted []uuid.UUID
	items    []database.OrderItem
	deleted  map[uuid.UUID]bool
	mods     []database.OrderItemModifier
	payments []database.Payment
}

func (tx *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	if hook := tx.db.beforeCommit; hook != nil {
		hook(tx)
	}

	db := tx.db
	db.mu.Lock()
	defer db.mu.Unlock()
	defer tx.finish()

	if err := db.failures["Commit"]; err != nil {
		return err
	}
	for _, id := range tx.inserted {
		if db.numberTaken(tx.orders[id]) {
			return uniqueViolation(orderNumberUniqueKey)
		}
	}

	for id, o := range tx.orders {
		db.orders[id] = o
	}
	kept := db.items[:0:0]
	for _, it := range db.items {
		if !tx.deleted[it.ID] {
			kept = append(kept, it)
		}
	}
	db.items = append(kept, tx.items...)
	db.mods = append(db.mods, tx.mods...)
	db.payments = append(db.payments, tx.payments...)
	db.commits++
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.finish()
	return nil
}

func (tx *fakeTx) finish() {
	tx.done = true
	for _, l := range tx.held {
		l.Unlock()
	}
	tx.held = nil
}

// acquire takes the row lock on an order unless this transaction already
// holds it. Updates lock the row as in Postgres, so a concurrent writer waits
// for the holder to finish and then sees its committed row.
func (tx *fakeTx) acquire(id uuid.UUID) {
	if _, ok := tx.held[id]; ok {
		return
	}
	l := tx.db.rowLock(id)
	l.Lock()
	tx.held[id] = l
}

func (tx *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (tx *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (tx *fakeTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (tx *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (tx *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (tx *fakeTx) Conn() *pgx.Conn { panic("not implemented") }

// Visibility helpers; caller holds db.mu.

func (tx *fakeTx) visibleOrder(id uuid.UUID) (database.Order, bool) {
	if o, ok := tx.orders[id]; ok {
		return o, true
	}
	o, ok := tx.db.orders[id]
	return o, ok
}

func (tx *fakeTx) visibleItems(orderID uuid.UUID) []database.OrderItem {
	out := []database.OrderItem{}
	for _, it := range append(append([]database.OrderItem{}, tx.db.items...), tx.items...) {
		if it.OrderID == orderID && !tx.deleted[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

func (tx *fakeTx) visiblePayments(orderID uuid.UUID) []database.Payment {
	out := []database.Payment{}
	for _, p := range append(append([]database.Payment{}, tx.db.payments...), tx.payments...) {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out
}

// --- Store bound to a transaction ---

// fakeStore satisfies OrderStore, StatusStore and PaymentStore.
type fakeStore struct {
	tx *fakeTx
}

func storeFor(db database.DBTX) *fakeStore { return &fakeStore{tx: db.(*fakeTx)} }

func (s *fakeStore) lock() func() {
	s.tx.db.mu.Lock()
	return s.tx.db.mu.Unlock
}

func (s *fakeStore) GetProductForOrder(ctx context.Context, arg database.GetProductForOrderParams) (database.GetProductForOrderRow, error) {
	defer s.lock()()
	if err := s.tx.db.failures["GetProductForOrder"]; err != nil {
		return database.GetProductForOrderRow{}, err
	}
	p, ok := s.tx.db.products[arg.ID]
	if !ok || p.OutletID != arg.OutletID {
		return database.GetProductForOrderRow{}, pgx.ErrNoRows
	}
	return p, nil
}

func (s *fakeStore) GetVariantForOrder(ctx context.Context, id uuid.UUID) (database.GetVariantForOrderRow, error) {
	defer s.lock()()
	v, ok := s.tx.db.variants[id]
	if !ok {
		return database.GetVariantForOrderRow{}, pgx.ErrNoRows
	}
	return v, nil
}

func (s *fakeStore) GetModifierForOrder(ctx context.Context, id uuid.UUID) (database.GetModifierForOrderRow, error) {
	defer s.lock()()
	m, ok := s.tx.db.modifiers[id]
	if !ok {
		return database.GetModifierForOrderRow{}, pgx.ErrNoRows
	}
	return m, nil
}

func (s *fakeStore) GetNextOrderNumber(ctx context.Context, arg database.GetNextOrderNumberParams) (int32, error) {
	defer s.lock()()
	if err := s.tx.db.failures["GetNextOrderNumber"]; err != nil {
		return 0, err
	}
	var max int32
	for _, o := range s.tx.db.orders {
		if o.OutletID != arg.OutletID || !o.BusinessDate.Time.Equal(arg.BusinessDate.Time) {
			continue
		}
		n, err := strconv.Atoi(o.OrderNumber[strings.LastIndex(o.OrderNumber, "-")+1:])
		if err == nil && int32(n) > max {
			max = int32(n)
		}
	}
	return max + 1, nil
}

func (s *fakeStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	defer s.lock()()
	if err := s.tx.db.failures["CreateOrder"]; err != nil {
		return database.Order{}, err
	}
	now := time.Now()
	o := database.Order{
		ID:               uuid.New(),
		OutletID:         arg.OutletID,
		OrderNumber:      arg.OrderNumber,
		BusinessDate:     arg.BusinessDate,
		CustomerID:       arg.CustomerID,
		OrderType:        arg.OrderType,
		Status:           database.OrderStatusNEW,
		TableNumber:      arg.TableNumber,
		Notes:            arg.Notes,
		Subtotal:         arg.Subtotal,
		DiscountType:     arg.DiscountType,
		DiscountValue:    arg.DiscountValue,
		DiscountAmount:   arg.DiscountAmount,
		TaxAmount:        arg.TaxAmount,
		TotalAmount:      arg.TotalAmount,
		CateringDate:     arg.CateringDate,
		CateringStatus:   arg.CateringStatus,
		CateringDpAmount: arg.CateringDpAmount,
		DeliveryPlatform: arg.DeliveryPlatform,
		DeliveryAddress:  arg.DeliveryAddress,
		CreatedBy:        arg.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if s.tx.db.numberTaken(o) {
		return database.Order{}, uniqueViolation(orderNumberUniqueKey)
	}
	s.tx.orders[o.ID] = o
	s.tx.inserted = append(s.tx.inserted, o.ID)
	return o, nil
}

func (s *fakeStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	defer s.lock()()
	if err := s.tx.db.failures["CreateOrderItem"]; err != nil {
		return database.OrderItem{}, err
	}
	item := database.OrderItem{
		ID:             uuid.New(),
		OrderID:        arg.OrderID,
		ProductID:      arg.ProductID,
		VariantID:      arg.VariantID,
		Quantity:       arg.Quantity,
		UnitPrice:      arg.UnitPrice,
		DiscountType:   arg.DiscountType,
		DiscountValue:  arg.DiscountValue,
		DiscountAmount: arg.DiscountAmount,
		Subtotal:       arg.Subtotal,
		Notes:          arg.Notes,
		Status:         database.OrderItemStatusPENDING,
		Station:        arg.Station,
		CreatedAt:      time.Now(),
	}
	s.tx.items = append(s.tx.items, item)
	return item, nil
}

func (s *fakeStore) CreateOrderItemModifier(ctx context.Context, arg database.CreateOrderItemModifierParams) (database.OrderItemModifier, error) {
	defer s.lock()()
	mod := database.OrderItemModifier{
		ID:          uuid.New(),
		OrderItemID: arg.OrderItemID,
		ModifierID:  arg.ModifierID,
		Quantity:    arg.Quantity,
		UnitPrice:   arg.UnitPrice,
	}
	s.tx.mods = append(s.tx.mods, mod)
	return mod, nil
}

func (s *fakeStore) GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
	defer s.lock()()
	o, ok := s.tx.visibleOrder(arg.ID)
	if !ok || o.OutletID != arg.OutletID {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (s *fakeStore) GetOrderForUpdate(ctx context.Context, arg database.GetOrderForUpdateParams) (database.Order, error) {
	if err := s.tx.db.failed("GetOrderForUpdate"); err != nil {
		return database.Order{}, err
	}
	s.tx.acquire(arg.ID)
	return s.GetOrder(ctx, database.GetOrderParams{ID: arg.ID, OutletID: arg.OutletID})
}

func (s *fakeStore) ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	defer s.lock()()
	seen := make(map[uuid.UUID]bool)
	var all []database.Order
	for _, src := range []map[uuid.UUID]database.Order{s.tx.orders, s.tx.db.orders} {
		for id, o := range src {
			if seen[id] {
				continue
			}
			seen[id] = true
			if o.OutletID != arg.OutletID ||
				(arg.Status.Valid && o.Status != arg.Status.OrderStatus) ||
				(arg.OrderType.Valid && o.OrderType != arg.OrderType.OrderType) ||
				(arg.BusinessDate.Valid && !o.BusinessDate.Time.Equal(arg.BusinessDate.Time)) {
				continue
			}
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	out := []database.Order{}
	for i := int(arg.Offset); i < len(all) && len(out) < int(arg.Limit); i++ {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *fakeStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	defer s.lock()()
	if err := s.tx.db.failures["ListOrderItemsByOrder"]; err != nil {
		return nil, err
	}
	return s.tx.visibleItems(orderID), nil
}

func (s *fakeStore) ListOrderItemModifiersByOrderItem(ctx context.Context, orderItemID uuid.UUID) ([]database.OrderItemModifier, error) {
	defer s.lock()()
	out := []database.OrderItemModifier{}
	for _, m := range append(append([]database.OrderItemModifier{}, s.tx.db.mods...), s.tx.mods...) {
		if m.OrderItemID == orderItemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error) {
	defer s.lock()()
	return s.tx.visiblePayments(orderID), nil
}

func (s *fakeStore) DeleteOrderItem(ctx context.Context, arg database.DeleteOrderItemParams) (int64, error) {
	defer s.lock()()
	for i, it := range s.tx.items {
		if it.ID == arg.ID && it.OrderID == arg.OrderID {
			s.tx.items = append(s.tx.items[:i], s.tx.items[i+1:]...)
			return 1, nil
		}
	}
	for _, it := range s.tx.db.items {
		if it.ID == arg.ID && it.OrderID == arg.OrderID && !s.tx.deleted[it.ID] {
			s.tx.deleted[it.ID] = true
			return 1, nil
		}
	}
	return 0, nil
}

func (s *fakeStore) SetOrderTotals(ctx context.Context, arg database.SetOrderTotalsParams) (database.Order, error) {
	s.tx.acquire(arg.ID)
	defer s.lock()()
	o, ok := s.tx.visibleOrder(arg.ID)
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Subtotal = arg.Subtotal
	o.DiscountAmount = arg.DiscountAmount
	o.TotalAmount = arg.TotalAmount
	o.UpdatedAt = time.Now()
	s.tx.orders[o.ID] = o
	return o, nil
}

func (s *fakeStore) SetLockTimeout(ctx context.Context, lockTimeout string) error {
	defer s.lock()()
	s.tx.db.lockTimeouts = append(s.tx.db.lockTimeouts, lockTimeout)
	return s.tx.db.failures["SetLockTimeout"]
}

func (s *fakeStore) SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	defer s.lock()()
	sum := decimal.Zero
	for _, p := range s.tx.visiblePayments(orderID) {
		if p.Status == database.PaymentStatusCOMPLETED {
			sum = sum.Add(money.FromNumeric(p.Amount))
		}
	}
	return money.ToNumeric(sum), nil
}

func (s *fakeStore) CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
	defer s.lock()()
	if err := s.tx.db.failures["CreatePayment"]; err != nil {
		return database.Payment{}, err
	}
	p := database.Payment{
		ID:              uuid.New(),
		OrderID:         arg.OrderID,
		PaymentMethod:   arg.PaymentMethod,
		Amount:          arg.Amount,
		Status:          arg.Status,
		ReferenceNumber: arg.ReferenceNumber,
		AmountReceived:  arg.AmountReceived,
		ChangeAmount:    arg.ChangeAmount,
		ProcessedBy:     arg.ProcessedBy,
		ProcessedAt:     time.Now(),
	}
	s.tx.payments = append(s.tx.payments, p)
	return p, nil
}

func (s *fakeStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	s.tx.acquire(arg.ID)
	defer s.lock()()
	if err := s.tx.db.failures["UpdateOrderStatus"]; err != nil {
		return database.Order{}, err
	}
	o, ok := s.tx.visibleOrder(arg.ID)
	if !ok || o.OutletID != arg.OutletID || o.Status != arg.ExpectedStatus {
		return database.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	o.UpdatedAt = time.Now()
	if arg.Status == database.OrderStatusCOMPLETED {
		o.CompletedAt = pgtype.Timestamptz{Time: o.UpdatedAt, Valid: true}
	}
	s.tx.orders[o.ID] = o
	return o, nil
}

func (s *fakeStore) UpdateCateringStatus(ctx context.Context, arg database.UpdateCateringStatusParams) (database.Order, error) {
	s.tx.acquire(arg.ID)
	defer s.lock()()
	o, ok := s.tx.visibleOrder(arg.ID)
	if !ok || o.CateringStatus != arg.ExpectedCateringStatus {
		return database.Order{}, pgx.ErrNoRows
	}
	o.CateringStatus = arg.CateringStatus
	o.UpdatedAt = time.Now()
	s.tx.orders[o.ID] = o
	return o, nil
}

// --- Publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// --- Test helpers ---

// testNow is 03:00 on 2026-03-15 in the outlet's UTC+7 zone, still the 14th in UTC.
var (
	testZone = time.FixedZone("WIB", 7*60*60)
	testNow  = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
)

func testOptions(pub Publisher) Options {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return Options{
		Location:    testZone,
		LockTimeout: 2 * time.Second,
		Clock:       ClockFunc(func() time.Time { return testNow }),
		Publisher:   pub,
		Logger:      logger,
	}
}

func newOrderServiceFor(db *fakeDB, opts Options) *OrderService {
	return NewOrderService(db, func(d database.DBTX) OrderStore { return storeFor(d) }, opts)
}

func newStatusServiceFor(db *fakeDB, opts Options) *StatusService {
	return NewStatusService(db, func(d database.DBTX) StatusStore { return storeFor(d) }, opts)
}

func newPaymentServiceFor(db *fakeDB, opts Options) *PaymentService {
	return NewPaymentService(db, func(d database.DBTX) PaymentStore { return storeFor(d) }, opts)
}

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	return money.FromNumeric(n).Equal(decimal.RequireFromString(expected))
}
