package calculators

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// VATMode names which of the three amounts the caller supplied.
type VATMode string

const (
	VATFromSupply VATMode = "supply"
	VATFromTax    VATMode = "vat"
	VATFromTotal  VATMode = "total"
)

// DefaultVATRate is the Korean standard rate in percent.
const DefaultVATRate = 10.0

var (
	// ErrUnknownVATMode indicates a mode other than supply, vat, or total.
	ErrUnknownVATMode = errors.New("calculators: unknown vat mode")
	// ErrNegativeRate indicates a rate below zero.
	ErrNegativeRate = errors.New("calculators: rate must not be negative")
)

// ParseVATMode accepts supply, vat, or total. An empty value means total.
func ParseVATMode(value string) (VATMode, error) {
	switch mode := VATMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case VATFromSupply, VATFromTax, VATFromTotal:
		return mode, nil
	case "":
		return VATFromTotal, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVATMode, value)
}

// VATSplit is a supply amount, its tax, and their sum.
type VATSplit struct {
	Supply float64 `json:"supply"`
	VAT    float64 `json:"vat"`
	Total  float64 `json:"total"`
}

// VAT derives the other two amounts from the one given by mode. Rounded
// amounts round half up to the nearest won. With a zero rate the supply of a
// vat amount is zero and a total is all supply.
func VAT(mode VATMode, amount, ratePercent float64) (VATSplit, error) {
	if ratePercent < 0 {
		return VATSplit{}, ErrNegativeRate
	}
	rate := ratePercent / 100

	var out VATSplit
	switch mode {
	case VATFromSupply:
		out.Supply = amount
		out.VAT = roundHalfUp(amount * rate)
		out.Total = out.Supply + out.VAT
	case VATFromTax:
		out.VAT = amount
		if rate > 0 {
			out.Supply = roundHalfUp(amount / rate)
		}
		out.Total = out.Supply + out.VAT
	case VATFromTotal:
		out.Total = amount
		out.Supply = amount
		if rate > 0 {
			out.Supply = roundHalfUp(amount / (1 + rate))
		}
		out.VAT = out.Total - out.Supply
	default:
		return VATSplit{}, fmt.Errorf("%w: %q", ErrUnknownVATMode, mode)
	}
	return out, nil
}

func roundHalfUp(value float64) float64 {
	return math.Floor(value + 0.5)
}
