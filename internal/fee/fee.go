// Package fee implements the parking fee and duration calculator.  It
// is pure: every function is a function of its inputs plus the rate
// table, with no database or clock access.  Callers resolve "now"
// themselves and pass it in, which keeps the package testable and the
// billing rules in one place.
package fee

import (
	"fmt"
	"time"

	"github.com/iliyamo/parking-lot-service/internal/model"
)

// day is the billing period.  Any started period is charged in full.
const day = 24 * time.Hour

// InvalidDurationError is returned when the exit timestamp precedes
// the entry timestamp.  The old system silently treated a negative
// delta as "less than one day" and charged the minimum fee; that bug
// is exactly why this case must surface as an error carrying both
// timestamps and the negative delta, and must never produce an amount.
type InvalidDurationError struct {
	EntryTime time.Time
	ExitTime  time.Time
	Delta     time.Duration
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: exit %s precedes entry %s (delta %s)",
		e.ExitTime.Format(time.RFC3339), e.EntryTime.Format(time.RFC3339), e.Delta)
}

// UnknownVehicleTypeError is returned when no daily rate is configured
// for the requested vehicle type.  There is deliberately no fallback
// rate: charging a default silently under- or over-bills.
type UnknownVehicleTypeError struct {
	VehicleType string
}

func (e *UnknownVehicleTypeError) Error() string {
	return fmt.Sprintf("no daily rate configured for vehicle type %q", e.VehicleType)
}

// Options carries the overstay penalty policy.  A zero Options
// disables penalties entirely.
type Options struct {
	// OverstayThreshold is how long a vehicle may stay before penalty
	// billing starts.  Zero disables the penalty.
	OverstayThreshold time.Duration
	// PenaltyRatePercent is the total multiplier applied to penalty
	// days, in percent: 150 bills penalty days at rate plus half.
	// Values at or below 100 disable the penalty.
	PenaltyRatePercent int64
}

// Breakdown is the result of a fee calculation.
type Breakdown struct {
	VehicleType    string  `json:"vehicle_type"`
	DurationHours  float64 `json:"duration_hours"`
	Duration       string  `json:"duration"`
	Days           int64   `json:"days"`
	DailyRateCents int64   `json:"daily_rate_cents"`
	BaseFeeCents   int64   `json:"base_fee_cents"`
	OverstayDays   int64   `json:"overstay_days"`
	PenaltyCents   int64   `json:"penalty_cents"`
	TotalCents     int64   `json:"total_cents"`
}

// Calculate computes the fee for a stay.  A nil exitTime means the
// vehicle is still parked and the fee is computed against now.  It
// returns *InvalidDurationError when exit precedes entry and
// *UnknownVehicleTypeError when the rate table has no entry for the
// vehicle type.
func Calculate(vehicleType string, entryTime time.Time, exitTime *time.Time, now time.Time, rates model.RateTable, opts Options) (*Breakdown, error) {
	exit := now
	if exitTime != nil {
		exit = *exitTime
	}
	delta := exit.Sub(entryTime)
	if delta < 0 {
		return nil, &InvalidDurationError{EntryTime: entryTime, ExitTime: exit, Delta: delta}
	}
	rate, ok := rates[vehicleType]
	if !ok {
		return nil, &UnknownVehicleTypeError{VehicleType: vehicleType}
	}
	days := billableDays(delta)
	b := &Breakdown{
		VehicleType:    vehicleType,
		DurationHours:  delta.Hours(),
		Duration:       FormatDuration(delta),
		Days:           days,
		DailyRateCents: rate,
		BaseFeeCents:   days * rate,
	}
	if opts.OverstayThreshold > 0 && opts.PenaltyRatePercent > 100 && delta > opts.OverstayThreshold {
		b.OverstayDays = billableDays(delta - opts.OverstayThreshold)
		b.PenaltyCents = b.OverstayDays * rate * (opts.PenaltyRatePercent - 100) / 100
	}
	b.TotalCents = b.BaseFeeCents + b.PenaltyCents
	return b, nil
}

// Estimate returns the fee for a projected stay of the given number of
// hours.  It shares the day-ceiling rule with Calculate and backs the
// rate quote endpoint, where no entry exists yet.
func Estimate(vehicleType string, hours float64, rates model.RateTable) (int64, error) {
	if hours < 0 {
		return 0, &InvalidDurationError{Delta: time.Duration(hours * float64(time.Hour))}
	}
	rate, ok := rates[vehicleType]
	if !ok {
		return 0, &UnknownVehicleTypeError{VehicleType: vehicleType}
	}
	return billableDays(time.Duration(hours * float64(time.Hour))) * rate, nil
}

// billableDays converts a non-negative stay into charged days: any
// stay under 24 hours is one day (minimum-stay policy), longer stays
// round up to the next started day.  Exactly 24 hours is one day.
func billableDays(delta time.Duration) int64 {
	days := int64(delta / day)
	if delta%day > 0 {
		days++
	}
	if days == 0 {
		days = 1
	}
	return days
}

// FormatDuration renders a stay for the operator UI.  Negative deltas
// render a distinct failure message instead of a signed number, so a
// future-dated entry is visible as broken data rather than a plausible
// value.
func FormatDuration(delta time.Duration) string {
	if delta < 0 {
		return "Invalid — future entry date detected"
	}
	totalMinutes := int64(delta / time.Minute)
	if delta < time.Hour {
		return fmt.Sprintf("%d minutes", totalMinutes)
	}
	return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60)
}
