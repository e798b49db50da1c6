package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiwari-pos/orderengine/internal/database"
	"github.com/kiwari-pos/orderengine/internal/middleware"
	"github.com/kiwari-pos/orderengine/internal/money"
	"github.com/kiwari-pos/orderengine/internal/service"
	"github.com/sirupsen/logrus"
)

// PaymentServicer is satisfied by *service.PaymentService.
type PaymentServicer interface {
	AddPayment(ctx context.Context, req service.AddPaymentRequest) (*service.AddPaymentResult, error)
	ListPayments(ctx context.Context, outletID, orderID uuid.UUID) ([]database.Payment, error)
}

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	svc PaymentServicer
	log logrus.FieldLogger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc PaymentServicer, log logrus.FieldLogger) *PaymentHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PaymentHandler{svc: svc, log: log.WithField("handler", "payments")}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
// Expected to be mounted at /outlets/{oid}/orders/{id}/payments
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Add)
	r.Get("/", h.List)
}

// --- Request / Response types ---

type addPaymentRequest struct {
	PaymentMethod   string `json:"payment_method"`
	Amount          string `json:"amount"`
	AmountReceived  string `json:"amount_received"`
	ReferenceNumber string `json:"reference_number"`
}

type paymentResponse struct {
	ID              uuid.UUID `json:"id"`
	OrderID         uuid.UUID `json:"order_id"`
	PaymentMethod   string    `json:"payment_method"`
	Amount          string    `json:"amount"`
	Status          string    `json:"status"`
	ReferenceNumber *string   `json:"reference_number"`
	AmountReceived  *string   `json:"amount_received"`
	ChangeAmount    *string   `json:"change_amount"`
	ProcessedBy     uuid.UUID `json:"processed_by"`
	ProcessedAt     time.Time `json:"processed_at"`
}

type addPaymentResponse struct {
	Payment   paymentResponse `json:"payment"`
	Order     orderResponse   `json:"order"`
	TotalPaid string          `json:"total_paid"`
	Remaining string          `json:"remaining"`
	FullyPaid bool            `json:"fully_paid"`
}

// --- Handlers ---

// Add handles POST /outlets/{oid}/orders/{id}/payments.
func (h *PaymentHandler) Add(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := parseOrderPath(w, r)
	if !ok {
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.PaymentMethod == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_method is required"})
		return
	}
	if req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}

	result, err := h.svc.AddPayment(r.Context(), service.AddPaymentRequest{
		OutletID:        outletID,
		OrderID:         orderID,
		ProcessedBy:     claims.UserID,
		PaymentMethod:   req.PaymentMethod,
		Amount:          req.Amount,
		AmountReceived:  req.AmountReceived,
		ReferenceNumber: req.ReferenceNumber,
	})
	if err != nil {
		writeError(w, r, h.log, "add payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, addPaymentResponse{
		Payment:   toPaymentResponse(result.Payment),
		Order:     toOrderResponse(result.Order),
		TotalPaid: money.String(result.TotalPaid),
		Remaining: money.String(result.Remaining),
		FullyPaid: result.FullyPaid,
	})
}

// List handles GET /outlets/{oid}/orders/{id}/payments.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := parseOrderPath(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.ListPayments(r.Context(), outletID, orderID)
	if err != nil {
		writeError(w, r, h.log, "list payments", err)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func toPaymentResponse(p database.Payment) paymentResponse {
	resp := paymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		PaymentMethod: string(p.PaymentMethod),
		Amount:        money.NumericString(p.Amount),
		Status:        string(p.Status),
		ProcessedBy:   p.ProcessedBy,
		ProcessedAt:   p.ProcessedAt,
	}
	if p.ReferenceNumber.Valid {
		resp.ReferenceNumber = &p.ReferenceNumber.String
	}
	if p.AmountReceived.Valid {
		s := money.NumericString(p.AmountReceived)
		resp.AmountReceived = &s
	}
	if p.ChangeAmount.Valid {
		s := money.NumericString(p.ChangeAmount)
		resp.ChangeAmount = &s
	}
	return resp
}
