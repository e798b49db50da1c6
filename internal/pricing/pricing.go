// Package pricing computes unit prices, line subtotals, discounts and order
// totals from catalog snapshots. It performs no I/O: callers resolve product,
// variant and modifier references first and pass the prices in.
package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kiwari-pos/orderengine/internal/apperr"
	"github.com/kiwari-pos/orderengine/internal/money"
	"github.com/shopspring/decimal"
)

// Discount types accepted at line and order level.
const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFixed      = "FIXED_AMOUNT"
)

var (
	ErrEmptyItems           = apperr.Validation("items are required")
	ErrInvalidQuantity      = apperr.Validation("quantity must be > 0")
	ErrInvalidDiscount      = apperr.Validation("invalid discount_type")
	ErrInvalidDiscountValue = apperr.Validation("invalid discount_value")
	ErrVariantMismatch      = apperr.NotFound("variant does not belong to product")
	ErrModifierMismatch     = apperr.NotFound("modifier does not belong to product")
)

// Discount is a parsed discount instruction.
type Discount struct {
	Type  string
	Value decimal.Decimal
}

// Variant is the catalog snapshot of a selected variant.
type Variant struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	PriceAdjustment decimal.Decimal
}

// Modifier is the catalog snapshot of a selected modifier and its quantity.
type Modifier struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Price     decimal.Decimal
	Quantity  int32
}

// Line is one requested order line with its resolved catalog prices.
type Line struct {
	ProductID uuid.UUID
	BasePrice decimal.Decimal
	Quantity  int32
	Variant   *Variant
	Modifiers []Modifier
	Discount  *Discount
}

// LineResult holds the frozen prices for one line.
type LineResult struct {
	UnitPrice      decimal.Decimal
	ModifiersTotal decimal.Decimal
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
	Subtotal       decimal.Decimal
	// Clamped is set when the discount exceeded the gross and the subtotal
	// was floored at zero.
	Clamped bool
}

// Result is the priced order.
type Result struct {
	Lines          []LineResult
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	// Clamped reports that a line or the order-level discount exceeded its
	// base. The request is still accepted; callers surface it.
	Clamped bool
}

// ParseDiscount validates a (type, value) pair from a request. An empty type
// means no discount and yields nil.
func ParseDiscount(typ, value string) (*Discount, error) {
	if typ == "" {
		return nil, nil
	}
	if typ != DiscountPercentage && typ != DiscountFixed {
		return nil, ErrInvalidDiscount
	}
	v, err := decimal.NewFromString(value)
	if err != nil || v.IsNegative() {
		return nil, ErrInvalidDiscountValue
	}
	return &Discount{Type: typ, Value: v}, nil
}

// ApplyDiscount returns the discount amount for base. The amount itself is not
// clamped to base; callers clamp the resulting subtotal.
func ApplyDiscount(base decimal.Decimal, d *Discount) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, nil
	}
	if d.Value.IsNegative() {
		return decimal.Zero, ErrInvalidDiscountValue
	}
	switch d.Type {
	case DiscountPercentage:
		return money.Percent(base, d.Value), nil
	case DiscountFixed:
		return money.Round(d.Value), nil
	}
	return decimal.Zero, ErrInvalidDiscount
}

// PriceLine prices a single line. Modifiers are part of the discountable gross.
func PriceLine(l Line) (LineResult, error) {
	if l.Quantity <= 0 {
		return LineResult{}, ErrInvalidQuantity
	}

	unitPrice := l.BasePrice
	if l.Variant != nil {
		if l.Variant.ProductID != l.ProductID {
			return LineResult{}, ErrVariantMismatch
		}
		unitPrice = unitPrice.Add(l.Variant.PriceAdjustment)
	}
	unitPrice = money.Round(unitPrice)

	modifiersTotal := decimal.Zero
	for j, m := range l.Modifiers {
		if m.Quantity <= 0 {
			return LineResult{}, fmt.Errorf("modifiers[%d]: %w", j, ErrInvalidQuantity)
		}
		if m.ProductID != l.ProductID {
			return LineResult{}, fmt.Errorf("modifiers[%d]: %w", j, ErrModifierMismatch)
		}
		modifiersTotal = modifiersTotal.Add(money.Times(m.Price, m.Quantity))
	}

	gross := money.Times(unitPrice, l.Quantity).Add(modifiersTotal)
	discount, err := ApplyDiscount(gross, l.Discount)
	if err != nil {
		return LineResult{}, err
	}

	return LineResult{
		UnitPrice:      unitPrice,
		ModifiersTotal: money.Round(modifiersTotal),
		Gross:          money.Round(gross),
		DiscountAmount: discount,
		Subtotal:       money.Round(money.ClampZero(gross.Sub(discount))),
		Clamped:        discount.GreaterThan(gross),
	}, nil
}

// Total applies the order-level discount and tax to an order subtotal.
func Total(subtotal decimal.Decimal, d *Discount, tax decimal.Decimal) (discount, total decimal.Decimal, err error) {
	discount, err = ApplyDiscount(subtotal, d)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	total = money.ClampZero(subtotal.Sub(discount)).Add(tax)
	return discount, money.Round(total), nil
}

// Calculate prices every line and the order totals.
func Calculate(lines []Line, orderDiscount *Discount, tax decimal.Decimal) (Result, error) {
	if len(lines) == 0 {
		return Result{}, ErrEmptyItems
	}

	res := Result{Lines: make([]LineResult, 0, len(lines)), Subtotal: decimal.Zero}
	for i, l := range lines {
		lr, err := PriceLine(l)
		if err != nil {
			return Result{}, fmt.Errorf("item[%d]: %w", i, err)
		}
		res.Lines = append(res.Lines, lr)
		res.Subtotal = res.Subtotal.Add(lr.Subtotal)
		res.Clamped = res.Clamped || lr.Clamped
	}

	discount, total, err := Total(res.Subtotal, orderDiscount, tax)
	if err != nil {
		return Result{}, err
	}
	res.DiscountAmount = discount
	res.Clamped = res.Clamped || discount.GreaterThan(res.Subtotal)
	res.TaxAmount = money.Round(tax)
	res.Total = total
	return res, nil
}
