package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/kiwari-pos/orderengine/internal/middleware"
	"github.com/kiwari-pos/orderengine/internal/money"
	"github.com/kiwari-pos/orderengine/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderDetail, error)
	GetOrder(ctx context.Context, outletID, orderID uuid.UUID) (*service.OrderDetail, error)
	ListOrders(ctx context.Context, req service.ListOrdersRequest) ([]database.Order, error)
	AddItem(ctx context.Context, outletID, orderID uuid.UUID, req service.CreateOrderItemRequest) (*service.OrderDetail, error)
	RemoveItem(ctx context.Context, outletID, orderID, itemID uuid.UUID) (*service.OrderDetail, error)
}

// StatusServicer defines the status transition methods. Satisfied by
// *service.StatusService.
type StatusServicer interface {
	TransitionStatus(ctx context.Context, outletID, orderID uuid.UUID, expected, next database.OrderStatus) (database.Order, error)
	Cancel(ctx context.Context, outletID, orderID uuid.UUID) (database.Order, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orders OrderServicer
	status StatusServicer
	log    logrus.FieldLogger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders OrderServicer, status StatusServicer, log logrus.FieldLogger) *OrderHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OrderHandler{orders: orders, status: status, log: log.WithField("handler", "orders")}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside an outlet-scoped subrouter: /outlets/{oid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Cancel)
	r.Post("/{id}/items", h.AddItem)
	r.Delete("/{id}/items/{itemId}", h.RemoveItem)
}

// --- Request / Response types ---

type createOrderRequest struct {
	OrderType        string                   `json:"order_type"`
	TableNumber      string                   `json:"table_number"`
	CustomerID       string                   `json:"customer_id"`
	Notes            string                   `json:"notes"`
	DiscountType     string                   `json:"discount_type"`
	DiscountValue    string                   `json:"discount_value"`
	CateringDate     string                   `json:"catering_date"`
	CateringDpAmount string                   `json:"catering_dp_amount"`
	DeliveryPlatform string                   `json:"delivery_platform"`
	DeliveryAddress  string                   `json:"delivery_address"`
	Items            []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	ProductID     string                           `json:"product_id"`
	VariantID     string                           `json:"variant_id"`
	Quantity      int32                            `json:"quantity"`
	Notes         string                           `json:"notes"`
	DiscountType  string                           `json:"discount_type"`
	DiscountValue string                           `json:"discount_value"`
	Modifiers     []createOrderItemModifierRequest `json:"modifiers"`
}

type createOrderItemModifierRequest struct {
	ModifierID string `json:"modifier_id"`
	Quantity   int32  `json:"quantity"`
}

type updateStatusRequest struct {
	ExpectedStatus string `json:"expected_status"`
	Status         string `json:"status"`
}

type orderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OutletID         uuid.UUID           `json:"outlet_id"`
	OrderNumber      string              `json:"order_number"`
	BusinessDate     string              `json:"business_date"`
	CustomerID       *string             `json:"customer_id"`
	OrderType        string              `json:"order_type"`
	Status           string              `json:"status"`
	TableNumber      *string             `json:"table_number"`
	Notes            *string             `json:"notes"`
	Subtotal         string              `json:"subtotal"`
	DiscountType     *string             `json:"discount_type"`
	DiscountValue    *string             `json:"discount_value"`
	DiscountAmount   string              `json:"discount_amount"`
	TaxAmount        string              `json:"tax_amount"`
	TotalAmount      string              `json:"total_amount"`
	CateringDate     *time.Time          `json:"catering_date"`
	CateringStatus   *string             `json:"catering_status"`
	CateringDpAmount *string             `json:"catering_dp_amount"`
	DeliveryPlatform *string             `json:"delivery_platform"`
	DeliveryAddress  *string             `json:"delivery_address"`
	CreatedBy        uuid.UUID           `json:"created_by"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	CompletedAt      *time.Time          `json:"completed_at"`
	Items            []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID             uuid.UUID                   `json:"id"`
	ProductID      uuid.UUID                   `json:"product_id"`
	VariantID      *string                     `json:"variant_id"`
	Quantity       int32                       `json:"quantity"`
	UnitPrice      string                      `json:"unit_price"`
	DiscountType   *string                     `json:"discount_type"`
	DiscountValue  *string                     `json:"discount_value"`
	DiscountAmount string                      `json:"discount_amount"`
	Subtotal       string                      `json:"subtotal"`
	Notes          *string                     `json:"notes"`
	Status         string                      `json:"status"`
	Station        *string                     `json:"station"`
	Modifiers      []orderItemModifierResponse `json:"modifiers"`
}

type orderItemModifierResponse struct {
	ID         uuid.UUID `json:"id"`
	ModifierID uuid.UUID `json:"modifier_id"`
	Quantity   int32     `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
}

// orderDetailResponse extends orderResponse with payments for the GET detail endpoint.
type orderDetailResponse struct {
	orderResponse
	Payments []paymentResponse `json:"payments"`
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// --- Handlers ---

// Create handles POST /outlets/{oid}/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	outletID, err := uuid.Parse(chi.URLParam(r, "oid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OrderType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_type is required"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}
	for i, item := range req.Items {
		if msg := checkItem(item); msg != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": formatItemError(i, msg)})
			return
		}
	}

	svcItems := make([]service.CreateOrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		svcItems[i] = toServiceItem(item)
	}

	result, err := h.orders.CreateOrder(r.Context(), service.CreateOrderRequest{
		OutletID:         outletID,
		CreatedBy:        claims.UserID,
		OrderType:        req.OrderType,
		TableNumber:      req.TableNumber,
		CustomerID:       req.CustomerID,
		Notes:            req.Notes,
		DiscountType:     req.DiscountType,
		DiscountValue:    req.DiscountValue,
		CateringDate:     req.CateringDate,
		CateringDpAmount: req.CateringDpAmount,
		DeliveryPlatform: req.DeliveryPlatform,
		DeliveryAddress:  req.DeliveryAddress,
		Items:            svcItems,
	})
	if err != nil {
		writeError(w, r, h.log, "create order", err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderDetailResponse(result))
}

// List handles GET /outlets/{oid}/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	outletID, err := uuid.Parse(chi.URLParam(r, "oid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return
	}

	q := r.URL.Query()
	limit := defaultListLimit
	if s := q.Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := 0
	if s := q.Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	orders, err := h.orders.ListOrders(r.Context(), service.ListOrdersRequest{
		OutletID:     outletID,
		Status:       q.Get("status"),
		OrderType:    q.Get("type"),
		BusinessDate: q.Get("business_date"),
		Limit:        int32(limit),
		Offset:       int32(offset),
	})
	if err != nil {
		writeError(w, r, h.log, "list orders", err)
		return
	}

	resp := orderListResponse{
		Orders: make([]orderResponse, len(orders)),
		Limit:  limit,
		Offset: offset,
	}
	for i, o := range orders {
		resp.Orders[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /outlets/{oid}/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := parseOrderPath(w, r)
	if !ok {
		return
	}

	detail, err := h.orders.GetOrder(r.Context(), outletID, orderID)
	if err != nil {
		writeError(w, r, h.log, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// UpdateStatus handles PATCH /outlets/{oid}/orders/{id}/status. The caller
// sends the status it last saw; a concurrent change yields 409.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := parseOrderPath(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}
	if req.ExpectedStatus == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected_status is required"})
		return
	}

	updated, err := h.status.TransitionStatus(r.Context(), outletID, orderID,
		database.OrderStatus(req.ExpectedStatus), database.OrderStatus(req.Status))
	if err != nil {
		writeError(w, r, h.log, "update order status", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// Cancel handles DELETE /outlets/{oid}/orders/{id}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := parseOrderPath(w, r)
	if !ok {
		return
	}

	cancelled, err := h.status.Cancel(r.Context(), outletID, orderID)
	if err != nil {
		writeError(w, r, h.log, "cancel order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(cancelled))
}

// AddItem handles POST /outlets/{oid}/orders/{id}/items.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := parseOrderPath(w, r)
	if !ok {
		return
	}

	var req createOrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if msg := checkItem(req); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	detail, err := h.orders.AddItem(r.Context(), outletID, orderID, toServiceItem(req))
	if err != nil {
		writeError(w, r, h.log, "add order item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderDetailResponse(detail))
}

// RemoveItem handles DELETE /outlets/{oid}/orders/{id}/items/{itemId}.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := parseOrderPath(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	detail, err := h.orders.RemoveItem(r.Context(), outletID, orderID, itemID)
	if err != nil {
		writeError(w, r, h.log, "remove order item", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDetailResponse(detail))
}

// --- Helpers ---

func parseOrderPath(w http.ResponseWriter, r *http.Request) (outletID, orderID uuid.UUID, ok bool) {
	outletID, err := uuid.Parse(chi.URLParam(r, "oid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return uuid.Nil, uuid.Nil, false
	}
	orderID, err = uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return uuid.Nil, uuid.Nil, false
	}
	return outletID, orderID, true
}

func checkItem(item createOrderItemRequest) string {
	if item.ProductID == "" {
		return "product_id is required"
	}
	if item.Quantity <= 0 {
		return "quantity must be > 0"
	}
	return ""
}

func formatItemError(idx int, msg string) string {
	return fmt.Sprintf("items[%d]: %s", idx, msg)
}

func toServiceItem(item createOrderItemRequest) service.CreateOrderItemRequest {
	mods := make([]service.CreateOrderItemModifierRequest, len(item.Modifiers))
	for j, mod := range item.Modifiers {
		mods[j] = service.CreateOrderItemModifierRequest{
			ModifierID: mod.ModifierID,
			Quantity:   mod.Quantity,
		}
	}
	return service.CreateOrderItemRequest{
		ProductID:     item.ProductID,
		VariantID:     item.VariantID,
		Quantity:      item.Quantity,
		Notes:         item.Notes,
		DiscountType:  item.DiscountType,
		DiscountValue: item.DiscountValue,
		Modifiers:     mods,
	}
}

// toOrderDetailResponse converts an order with its items and payments.
func toOrderDetailResponse(d *service.OrderDetail) orderDetailResponse {
	resp := orderDetailResponse{orderResponse: toOrderResponse(d.Order)}
	resp.Items = make([]orderItemResponse, len(d.Items))
	for i, ir := range d.Items {
		resp.Items[i] = toOrderItemResponse(ir)
	}
	resp.Payments = make([]paymentResponse, len(d.Payments))
	for i, p := range d.Payments {
		resp.Payments[i] = toPaymentResponse(p)
	}
	return resp
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		OutletID:       o.OutletID,
		OrderNumber:    o.OrderNumber,
		OrderType:      string(o.OrderType),
		Status:         string(o.Status),
		Subtotal:       money.NumericString(o.Subtotal),
		DiscountAmount: money.NumericString(o.DiscountAmount),
		TaxAmount:      money.NumericString(o.TaxAmount),
		TotalAmount:    money.NumericString(o.TotalAmount),
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	if o.BusinessDate.Valid {
		resp.BusinessDate = o.BusinessDate.Time.Format(time.DateOnly)
	}
	if o.CustomerID.Valid {
		s := uuid.UUID(o.CustomerID.Bytes).String()
		resp.CustomerID = &s
	}
	if o.TableNumber.Valid {
		resp.TableNumber = &o.TableNumber.String
	}
	if o.Notes.Valid {
		resp.Notes = &o.Notes.String
	}
	if o.DiscountType.Valid {
		s := string(o.DiscountType.DiscountType)
		resp.DiscountType = &s
	}
	if o.DiscountValue.Valid {
		s := money.NumericString(o.DiscountValue)
		resp.DiscountValue = &s
	}
	if o.CateringDate.Valid {
		resp.CateringDate = &o.CateringDate.Time
	}
	if o.CateringStatus.Valid {
		s := string(o.CateringStatus.CateringStatus)
		resp.CateringStatus = &s
	}
	if o.CateringDpAmount.Valid {
		s := money.NumericString(o.CateringDpAmount)
		resp.CateringDpAmount = &s
	}
	if o.DeliveryPlatform.Valid {
		resp.DeliveryPlatform = &o.DeliveryPlatform.String
	}
	if o.DeliveryAddress.Valid {
		resp.DeliveryAddress = &o.DeliveryAddress.String
	}
	if o.CompletedAt.Valid {
		resp.CompletedAt = &o.CompletedAt.Time
	}
	return resp
}

func toOrderItemResponse(ir service.OrderItemResult) orderItemResponse {
	item := ir.Item
	resp := orderItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		Quantity:       item.Quantity,
		UnitPrice:      money.NumericString(item.UnitPrice),
		DiscountAmount: money.NumericString(item.DiscountAmount),
		Subtotal:       money.NumericString(item.Subtotal),
		Status:         string(item.Status),
	}

	if item.VariantID.Valid {
		s := uuid.UUID(item.VariantID.Bytes).String()
		resp.VariantID = &s
	}
	if item.DiscountType.Valid {
		s := string(item.DiscountType.DiscountType)
		resp.DiscountType = &s
	}
	if item.DiscountValue.Valid {
		s := money.NumericString(item.DiscountValue)
		resp.DiscountValue = &s
	}
	if item.Notes.Valid {
		resp.Notes = &item.Notes.String
	}
	if item.Station.Valid {
		s := string(item.Station.KitchenStation)
		resp.Station = &s
	}

	resp.Modifiers = make([]orderItemModifierResponse, len(ir.Modifiers))
	for j, mod := range ir.Modifiers {
		resp.Modifiers[j] = orderItemModifierResponse{
			ID:         mod.ID,
			ModifierID: mod.ModifierID,
			Quantity:   mod.Quantity,
			UnitPrice:  money.NumericString(mod.UnitPrice),
		}
	}
	return resp
}
