package calculators

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Season selects the tariff table.
type Season string

const (
	SeasonSummer Season = "summer"
	SeasonOther  Season = "other"
)

// ErrUnknownSeason indicates a season other than summer or other.
var ErrUnknownSeason = errors.New("calculators: unknown season")

// ParseSeason accepts "summer" or "other", case-insensitively.
func ParseSeason(value string) (Season, error) {
	switch Season(strings.ToLower(strings.TrimSpace(value))) {
	case SeasonSummer:
		return SeasonSummer, nil
	case SeasonOther, "":
		return SeasonOther, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSeason, value)
}

const (
	climateRate = 9.0
	fuelRate    = 5.0
	vatRate     = 0.1
	fundRate    = 0.037
)

type tier struct {
	from      float64
	to        float64
	baseFee   float64
	unitPrice float64
}

// 2024 residential low-voltage tariff. Summer is July and August.
var (
	summerTiers = []tier{
		{from: 0, to: 300, baseFee: 730, unitPrice: 112.0},
		{from: 300, to: 450, baseFee: 1260, unitPrice: 206.6},
		{from: 450, to: math.Inf(1), baseFee: 6060, unitPrice: 299.3},
	}
	otherTiers = []tier{
		{from: 0, to: 200, baseFee: 730, unitPrice: 112.0},
		{from: 200, to: 400, baseFee: 1260, unitPrice: 206.6},
		{from: 400, to: math.Inf(1), baseFee: 6060, unitPrice: 299.3},
	}
)

// TierCharge is the energy charge for the usage that fell into one tier.
// To is the usage itself for the open-ended top tier.
type TierCharge struct {
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	KWh    float64 `json:"kwh"`
	Rate   float64 `json:"rate"`
	Charge float64 `json:"charge"`
}

// ElectricityBill is a monthly bill estimate in won.
type ElectricityBill struct {
	BaseFee       float64      `json:"base_fee"`
	EnergyCharge  float64      `json:"energy_charge"`
	ClimateCharge float64      `json:"climate_charge"`
	FuelAdjust    float64      `json:"fuel_adjust"`
	Subtotal      float64      `json:"subtotal"`
	VAT           float64      `json:"vat"`
	Fund          float64      `json:"fund"`
	Total         float64      `json:"total"`
	UnitPrice     float64      `json:"unit_price"`
	Breakdown     []TierCharge `json:"breakdown"`
}

// Electricity estimates the bill for kwh of monthly usage. The base fee is
// the one of the highest tier the usage reaches. VAT, the power fund, and the
// final total are floored to 10 won.
func Electricity(kwh float64, season Season) ElectricityBill {
	tiers := otherTiers
	if season == SeasonSummer {
		tiers = summerTiers
	}

	bill := ElectricityBill{Breakdown: []TierCharge{}}
	for _, t := range tiers {
		if kwh > t.from {
			bill.BaseFee = t.baseFee
		}
	}

	for _, t := range tiers {
		if kwh <= t.from {
			break
		}
		upper := math.Min(kwh, t.to)
		used := upper - t.from
		if used <= 0 {
			continue
		}
		charge := used * t.unitPrice
		bill.EnergyCharge += charge
		bill.Breakdown = append(bill.Breakdown, TierCharge{
			From:   t.from,
			To:     upper,
			KWh:    used,
			Rate:   t.unitPrice,
			Charge: charge,
		})
	}

	bill.ClimateCharge = kwh * climateRate
	bill.FuelAdjust = kwh * fuelRate
	bill.Subtotal = bill.BaseFee + bill.EnergyCharge + bill.ClimateCharge + bill.FuelAdjust
	bill.VAT = floorTen(bill.Subtotal * vatRate)
	bill.Fund = floorTen(bill.Subtotal * fundRate)
	bill.Total = floorTen(bill.Subtotal + bill.VAT + bill.Fund)
	if kwh > 0 {
		bill.UnitPrice = bill.Total / kwh
	}
	return bill
}

func floorTen(value float64) float64 {
	return math.Floor(value/10) * 10
}
