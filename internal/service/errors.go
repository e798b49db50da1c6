package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kiwari-pos/orderengine/internal/apperr"
)

// Errors returned by the order, status and payment services. Pricing
// rejections come from the pricing package unchanged.
var (
	ErrInvalidOrderType     = apperr.Validation("invalid order_type")
	ErrCateringDate         = apperr.Validation("catering_date is required for CATERING orders")
	ErrCateringCustomer     = apperr.Validation("customer_id is required for CATERING orders")
	ErrInvalidProductID     = apperr.Validation("invalid product_id")
	ErrInvalidVariantID     = apperr.Validation("invalid variant_id")
	ErrInvalidModifierID    = apperr.Validation("invalid modifier_id")
	ErrInvalidCustomerID    = apperr.Validation("invalid customer_id")
	ErrInvalidCateringDate  = apperr.Validation("invalid catering_date")
	ErrInvalidCateringDpAmt = apperr.Validation("invalid catering_dp_amount")
	ErrInvalidStatus        = apperr.Validation("invalid status")
	ErrInvalidBusinessDate  = apperr.Validation("invalid business_date format, use YYYY-MM-DD")
	ErrLastItem             = apperr.Validation("cannot remove the last item of an order")

	ErrInvalidPaymentMethod   = apperr.Validation("invalid payment_method")
	ErrInvalidAmount          = apperr.Validation("amount must be positive")
	ErrAmountReceivedRequired = apperr.Validation("amount_received is required for CASH payments")
	ErrInsufficientReceived   = apperr.Validation("amount_received must be >= amount")

	ErrProductNotFound  = apperr.NotFound("product not found in outlet")
	ErrVariantNotFound  = apperr.NotFound("variant not found")
	ErrModifierNotFound = apperr.NotFound("modifier not found")
	ErrOrderNotFound    = apperr.NotFound("order not found")
	ErrItemNotFound     = apperr.NotFound("order item not found")

	ErrOrderNumberConflict = apperr.Conflict("could not allocate a unique order number, please retry")
	ErrInvalidTransition   = apperr.Conflict("status transition not allowed")
	ErrStaleStatus         = apperr.Conflict("order status changed, please retry")
	ErrUnpaidBalance       = apperr.Conflict("order has an unpaid balance")
	ErrOrderNotEditable    = apperr.Conflict("items can only be changed while the order is NEW")
	ErrBelowPaidAmount     = apperr.Conflict("order total cannot drop below the amount already paid")
	ErrOrderClosed         = apperr.Conflict("order is already completed")
	ErrOrderCancelled      = apperr.Conflict("cannot add payment to cancelled order")
	ErrAlreadyPaid         = apperr.Conflict("order is already fully paid")
	ErrOverpayment         = apperr.Conflict("payment exceeds remaining balance")

	ErrLockTimeout = apperr.Unavailable("order is busy, please retry")
)

const (
	pgUniqueViolation    = "23505"
	pgLockNotAvailable   = "55P03"
	pgQueryCanceled      = "57014"
	orderNumberUniqueKey = "orders_outlet_id_business_date_order_number_key"
)

// isOrderNumberConflict reports whether err is the unique violation on the
// per-outlet, per-day order number.
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == orderNumberUniqueKey
	}
	return false
}

// lockErr translates a failure to take the order row lock.
func lockErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgLockNotAvailable || pgErr.Code == pgQueryCanceled) {
		return errors.Join(ErrLockTimeout, err)
	}
	return err
}
