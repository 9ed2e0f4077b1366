// Package pricing converts a stay into a fee under time-of-day and
// weekend tiers. The engine is pure: timestamps come from the caller
// and no state is kept between calls.
package pricing

import (
	"math"
	"time"

	"urbanpark/internal/core"
)

// RuleLabel identifies the tiered hourly rule on receipts.
const RuleLabel = "Hourly Pricing (Peak/Off-peak/Weekend)"

// Base rates in cents per billed hour.
const (
	weekendRate = 500
	peakRate    = 600
	offPeakRate = 400
)

// BilledHours rounds a duration up to whole hours with a floor of one.
// A zero duration still bills one hour.
func BilledHours(d time.Duration) int {
	hours := int(math.Ceil(d.Seconds() / 3600.0))
	if hours < 1 {
		return 1
	}
	return hours
}

// rateAt returns the base rate for the hour starting at t: weekend
// days bill 5.00/h, weekday hours in [8,18) bill 6.00/h, the rest 4.00/h.
func rateAt(t time.Time) int64 {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return weekendRate
	}
	if h := t.Hour(); h >= 8 && h < 18 {
		return peakRate
	}
	return offPeakRate
}

// Price walks the billed hours one simulated clock-hour at a time
// starting at entry. Each hour is charged at the rate of its start
// timestamp times the vehicle multiplier, so a stay crossing a tier
// boundary pays different rates for different hours, and the last
// billed hour is charged in full even when it exceeds the actual exit.
func Price(entry, exit time.Time, multiplier float64) core.Money {
	var total int64
	current := entry
	for i := 0; i < BilledHours(exit.Sub(entry)); i++ {
		total += int64(math.Round(float64(rateAt(current)) * multiplier))
		current = current.Add(time.Hour)
	}
	return core.Money{Cents: total}
}
