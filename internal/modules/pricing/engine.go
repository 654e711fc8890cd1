package pricing

import (
	"math"
	"time"

	"flexirent/internal/config"
	"flexirent/internal/domain"
)

// ItemInput is the client-supplied shape of one requested line item. Add-ons
// are referenced by id and resolved against the live product, never trusted
// from the request body.
type ItemInput struct {
	ProductID      int64
	Quantity       int
	Duration       int
	DurationType   domain.DurationType
	SelectedAddOns []string
	StartDate      time.Time
	EndDate        time.Time
}

// Totals is the priced summary over a set of line items.
type Totals struct {
	Subtotal   float64
	ServiceFee float64
	Tax        float64
	Total      float64
}

// Engine computes all monetary figures. It is pure: every input comes in as
// an argument, rates come from configuration.
type Engine struct {
	rates config.Pricing
}

func NewEngine(rates config.Pricing) *Engine {
	return &Engine{rates: rates}
}

// UnitBasePrice picks the snapshot price tier for a duration type.
func UnitBasePrice(snap domain.ProductSnapshot, dt domain.DurationType) (float64, error) {
	switch dt {
	case domain.DurationHour:
		return snap.PricePerHour, nil
	case domain.DurationDay:
		return snap.PricePerDay, nil
	case domain.DurationWeek:
		return snap.PricePerWeek, nil
	default:
		return 0, ErrInvalidDurationType
	}
}

// BuildLineItem snapshots the product, resolves the selected add-ons and
// computes the line total: unitBasePrice*quantity*duration + addOnTotal.
func (e *Engine) BuildLineItem(product *domain.Product, in ItemInput) (domain.LineItem, error) {
	snap := domain.ProductSnapshot{
		Name:         product.Name,
		Category:     product.Category,
		PricePerHour: product.PricePerHour,
		PricePerDay:  product.PricePerDay,
		PricePerWeek: product.PricePerWeek,
	}

	unit, err := UnitBasePrice(snap, in.DurationType)
	if err != nil {
		return domain.LineItem{}, err
	}

	selected := resolveAddOns(product.AddOns, in.SelectedAddOns)
	addOnTotal := 0.0
	for _, a := range selected {
		addOnTotal += a.Price
	}

	lineTotal := unit*float64(in.Quantity)*float64(in.Duration) + addOnTotal

	return domain.LineItem{
		ProductID:       product.ID,
		ProductSnapshot: snap,
		Quantity:        in.Quantity,
		Duration:        in.Duration,
		DurationType:    in.DurationType,
		SelectedAddOns:  selected,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		UnitBasePrice:   unit,
		AddOnTotal:      addOnTotal,
		LineTotal:       lineTotal,
	}, nil
}

// RentalTotals prices a rental cart: 5% service fee and the rental tax rate,
// both rounded to whole currency units.
func (e *Engine) RentalTotals(items []domain.LineItem) Totals {
	return e.totals(items, e.rates.Rental)
}

// QuotationTotals prices a quotation with the quotation (GST) tax rate.
func (e *Engine) QuotationTotals(items []domain.LineItem) Totals {
	return e.totals(items, e.rates.Quotation)
}

func (e *Engine) totals(items []domain.LineItem, r config.Rates) Totals {
	subtotal := 0.0
	for _, it := range items {
		subtotal += it.LineTotal
	}
	serviceFee := math.Round(subtotal * r.ServiceFee)
	tax := math.Round(subtotal * r.Tax)
	return Totals{
		Subtotal:   subtotal,
		ServiceFee: serviceFee,
		Tax:        tax,
		Total:      subtotal + serviceFee + tax,
	}
}

// DepositSplit returns the deposit and outstanding balance for a total. In
// full mode the deposit is zero and the whole total is due.
func (e *Engine) DepositSplit(total float64, mode domain.PaymentMode) (deposit, balanceDue float64) {
	if mode == domain.PayDeposit {
		deposit = math.Round(total * e.rates.DepositRate)
	}
	return deposit, total - deposit
}

func resolveAddOns(available []domain.AddOn, ids []string) []domain.AddOn {
	if len(ids) == 0 {
		return []domain.AddOn{}
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]domain.AddOn, 0, len(ids))
	for _, a := range available {
		if want[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
