package pricing

import (
	"testing"
	"time"
)

// 2026-01-05 is a Monday, 2026-01-10 a Saturday.
func weekday(hour, min int) time.Time {
	return time.Date(2026, 1, 5, hour, min, 0, 0, time.UTC)
}

func TestBilledHours(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{0, 1},
		{-5 * time.Minute, 1},
		{30 * time.Minute, 1},
		{time.Hour, 1},
		{3601 * time.Second, 2},
		{2*time.Hour + time.Second, 3},
		{10 * time.Hour, 10},
	}
	for _, tc := range cases {
		if got := BilledHours(tc.d); got != tc.want {
			t.Fatalf("BilledHours(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestPriceWeekdayPeak(t *testing.T) {
	// Three full hours inside [8,18) on a weekday: 3 x 6.00.
	entry := weekday(9, 0)
	fee := Price(entry, entry.Add(3*time.Hour), 1.0)
	if fee.Cents != 1800 {
		t.Fatalf("fee = %d, want 1800", fee.Cents)
	}
}

func TestPriceWeekdayOffPeak(t *testing.T) {
	entry := weekday(5, 0)
	fee := Price(entry, entry.Add(2*time.Hour), 1.0)
	if fee.Cents != 800 {
		t.Fatalf("fee = %d, want 800", fee.Cents)
	}
}

func TestPriceWeekend(t *testing.T) {
	entry := time.Date(2026, 1, 10, 10, 0, 0, 0, time.UTC) // Saturday
	fee := Price(entry, entry.Add(4*time.Hour), 1.0)
	if fee.Cents != 2000 {
		t.Fatalf("fee = %d, want 2000", fee.Cents)
	}
}

func TestPriceCrossesPeakBoundary(t *testing.T) {
	// Entry 17:00, exit 18:30: two billed hours, the first at the peak
	// rate, the second starting 18:00 at off-peak. Not 2x either rate.
	entry := weekday(17, 0)
	fee := Price(entry, entry.Add(90*time.Minute), 1.0)
	if fee.Cents != 1000 {
		t.Fatalf("fee = %d, want 1000 (600 + 400)", fee.Cents)
	}
}

func TestPriceCrossesIntoWeekend(t *testing.T) {
	// Friday 23:30 entry, 90 minutes: 23:30 Friday off-peak, 00:30
	// Saturday weekend.
	entry := time.Date(2026, 1, 9, 23, 30, 0, 0, time.UTC)
	fee := Price(entry, entry.Add(90*time.Minute), 1.0)
	if fee.Cents != 900 {
		t.Fatalf("fee = %d, want 900 (400 + 500)", fee.Cents)
	}
}

func TestPriceMultipliers(t *testing.T) {
	entry := weekday(10, 0)
	exit := entry.Add(time.Hour)
	cases := []struct {
		mult float64
		want int64
	}{
		{1.0, 600},
		{0.8, 480},
		{1.5, 900},
	}
	for _, tc := range cases {
		if got := Price(entry, exit, tc.mult); got.Cents != tc.want {
			t.Fatalf("multiplier %v: fee = %d, want %d", tc.mult, got.Cents, tc.want)
		}
	}
}

func TestPriceMinimumOneHour(t *testing.T) {
	// A five-minute stay still bills a full hour.
	entry := weekday(12, 0)
	fee := Price(entry, entry.Add(5*time.Minute), 1.0)
	if fee.Cents != 600 {
		t.Fatalf("fee = %d, want 600", fee.Cents)
	}
}

func TestPriceLastHourBilledInFull(t *testing.T) {
	// 61 minutes from 17:30: billed hours start 17:30 (peak) and 18:30
	// (off-peak), even though the stay barely enters the second hour.
	entry := weekday(17, 30)
	fee := Price(entry, entry.Add(61*time.Minute), 1.0)
	if fee.Cents != 1000 {
		t.Fatalf("fee = %d, want 1000", fee.Cents)
	}
}
