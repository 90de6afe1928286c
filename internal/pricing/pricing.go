// Package pricing computes what a registrant pays for a ticket.
//
// The discount applies to the base ticket price only. Add-ons are added
// after the discount, and the transaction fee and platform fee are added on
// top. The platform fee is a rate applied to the undiscounted base price.
package pricing

import "math"

// Input is the snapshot of everything that influences the total.
// Absent values are zero.
type Input struct {
	Price              float64
	DiscountPercentage float64
	TransactionFee     float64
	PlatformFeeRate    float64
	AddOnPrice         float64
}

// Breakdown is the itemized result of Calculate
type Breakdown struct {
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discountPercentage"`
	DiscountedPrice    float64 `json:"discountedPrice"`
	AddOnPrice         float64 `json:"addOnPrice"`
	Subtotal           float64 `json:"subtotal"`
	TransactionFee     float64 `json:"transactionFee"`
	PlatformFeeAmount  float64 `json:"platformFeeAmount"`
	Total              float64 `json:"total"`
}

// IsFree reports whether nothing has to be paid
func (b Breakdown) IsFree() bool {
	return b.Total == 0
}

// AmountBeforeFee is the amount a transaction fee is quoted on
func (b Breakdown) AmountBeforeFee() float64 {
	return Round(b.Subtotal + b.PlatformFeeAmount)
}

// Calculate returns the itemized total for the input
func Calculate(in Input) Breakdown {
	price := nonNegative(in.Price)
	discount := clampPercentage(in.DiscountPercentage)
	addOn := nonNegative(in.AddOnPrice)
	fee := nonNegative(in.TransactionFee)

	discounted := DiscountedPrice(price, discount)
	platformFee := price * nonNegative(in.PlatformFeeRate)
	subtotal := discounted + addOn

	return Breakdown{
		Price:              price,
		DiscountPercentage: discount,
		DiscountedPrice:    Round(discounted),
		AddOnPrice:         addOn,
		Subtotal:           Round(subtotal),
		TransactionFee:     fee,
		PlatformFeeAmount:  Round(platformFee),
		Total:              Round(subtotal + fee + platformFee),
	}
}

// DiscountedPrice applies a percentage discount to price
func DiscountedPrice(price, discountPercentage float64) float64 {
	return nonNegative(price) * (1 - clampPercentage(discountPercentage)/100)
}

// Round rounds an amount to two decimal places
func Round(amount float64) float64 {
	rounded := math.Round(amount*100) / 100
	if rounded == 0 {
		// normalizes -0
		return 0
	}
	return rounded
}

func clampPercentage(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
