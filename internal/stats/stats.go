// Package stats recomputes a shift's aggregate counters from the full
// set of entries linked to it.  The aggregation is a pure fold over
// the entry slice: running it twice over the same entries always
// yields the same summary, so a lost or duplicated recompute request
// is harmless.
package stats

import "github.com/iliyamo/parking-lot-service/internal/model"

// Summary holds everything the shift row caches about its entries.
type Summary struct {
	VehiclesEntered   int64 `json:"vehicles_entered"`
	VehiclesExited    int64 `json:"vehicles_exited"`
	CurrentlyParked   int64 `json:"currently_parked"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
	CashCents         int64 `json:"cash_collected_cents"`
	DigitalCents      int64 `json:"digital_collected_cents"`
}

// EffectiveFee resolves the fee that counts as revenue for an entry.
// Old records accumulated three overlapping fee columns; the agreed
// resolution order is actual fee (post adjustment), then calculated
// fee, then the raw parking fee.  New records always carry a
// calculated fee, so the chain only matters for legacy rows.  The
// second return is false when no fee column is populated.
func EffectiveFee(e model.ParkingEntry) (int64, bool) {
	switch {
	case e.ActualFeeCents != nil:
		return *e.ActualFeeCents, true
	case e.CalculatedFeeCents != nil:
		return *e.CalculatedFeeCents, true
	case e.ParkingFeeCents != nil:
		return *e.ParkingFeeCents, true
	}
	return 0, false
}

// Aggregate computes the summary for a set of entries linked to one
// shift.  Revenue only counts exited entries; entries still parked
// contribute to CurrentlyParked and nothing else.
func Aggregate(entries []model.ParkingEntry) Summary {
	var s Summary
	for _, e := range entries {
		s.VehiclesEntered++
		if e.ExitTime == nil {
			s.CurrentlyParked++
			continue
		}
		s.VehiclesExited++
		amount, ok := EffectiveFee(e)
		if !ok {
			continue
		}
		s.TotalRevenueCents += amount
		if e.PaymentType != nil {
			switch *e.PaymentType {
			case model.PaymentTypeCash:
				s.CashCents += amount
			case model.PaymentTypeDigital:
				s.DigitalCents += amount
			}
		}
	}
	return s
}
