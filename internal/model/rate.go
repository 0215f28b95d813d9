package model

import "time"

// VehicleRate maps a vehicle type to its daily parking rate.  The
// table is tiny and read on every fee calculation, so handlers load
// it in full and pass it to the calculator as a plain map.
//
// Fields:
//  VehicleType    – one of the VehicleType* constants (primary key).
//  DailyRateCents – charge per started 24-hour period.
//  UpdatedAt      – last update timestamp.
type VehicleRate struct {
	VehicleType    string    // vehicle_rates.vehicle_type
	DailyRateCents int64     // vehicle_rates.daily_rate_cents
	UpdatedAt      time.Time // vehicle_rates.updated_at
}

// RateTable is the in-memory form of vehicle_rates used by the fee
// calculator: vehicle type -> daily rate in cents.
type RateTable map[string]int64
