package model

import "time"

// Vehicle types known to the rate table.  These are the exact
// categories the lot charges for; anything else must be rejected at
// validation time rather than silently billed at a default rate.
const (
	VehicleTypeTrailer     = "Trailer"
	VehicleTypeSixWheeler  = "6 Wheeler"
	VehicleTypeFourWheeler = "4 Wheeler"
	VehicleTypeTwoWheeler  = "2 Wheeler"
)

// Entry statuses.
const (
	EntryStatusParked = "Parked"
	EntryStatusExited = "Exited"
)

// Payment channels recorded at exit.
const (
	PaymentTypeCash    = "cash"
	PaymentTypeDigital = "digital"
)

// PaymentStatuses for an entry's fee.
const (
	PaymentStatusUnpaid = "Unpaid"
	PaymentStatusPaid   = "Paid"
)

// ParkingEntry records a vehicle arriving at the lot and, once it
// leaves, the exit time and the fee charged.  Entries are append-only
// audit records: they are created at entry, mutated once at exit and
// never deleted.
//
// Fields:
//  ID                – primary key identifier.
//  VehicleNumber     – registration plate, stored upper-cased.
//  TransportName     – transport company the vehicle belongs to.
//  VehicleType       – one of the VehicleType* constants.
//  DriverName        – driver's name, if recorded.
//  DriverPhone       – driver's phone, if recorded.
//  Notes             – free-form operator notes.
//  EntryTime         – when the vehicle entered (UTC).
//  ExitTime          – when it left; nil while still parked.
//  Status            – Parked or Exited.
//  ParkingFeeCents   – legacy fee column carried over from old records.
//  CalculatedFeeCents– system-computed fee, set at exit.
//  ActualFeeCents    – fee after adjustments; nil when no adjustment applies.
//  PaymentStatus     – Paid or Unpaid.
//  PaymentType       – cash or digital; nil until paid.
//  ShiftID           – shift the entry is attributed to, if any.
//  CreatedBy         – operator who recorded the entry.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type ParkingEntry struct {
	ID                 uint64     // parking_entries.id
	VehicleNumber      string     // parking_entries.vehicle_number
	TransportName      string     // parking_entries.transport_name
	VehicleType        string     // parking_entries.vehicle_type
	DriverName         string     // parking_entries.driver_name
	DriverPhone        string     // parking_entries.driver_phone
	Notes              string     // parking_entries.notes
	EntryTime          time.Time  // parking_entries.entry_time
	ExitTime           *time.Time // parking_entries.exit_time (nullable)
	Status             string     // parking_entries.status
	ParkingFeeCents    *int64     // parking_entries.parking_fee_cents (nullable)
	CalculatedFeeCents *int64     // parking_entries.calculated_fee_cents (nullable)
	ActualFeeCents     *int64     // parking_entries.actual_fee_cents (nullable)
	PaymentStatus      string     // parking_entries.payment_status
	PaymentType        *string    // parking_entries.payment_type (nullable)
	ShiftID            *uint64    // parking_entries.shift_id (nullable)
	CreatedBy          string     // parking_entries.created_by
	CreatedAt          time.Time  // parking_entries.created_at
	UpdatedAt          time.Time  // parking_entries.updated_at
}

// KnownVehicleType reports whether t is one of the supported vehicle
// categories.
func KnownVehicleType(t string) bool {
	switch t {
	case VehicleTypeTrailer, VehicleTypeSixWheeler, VehicleTypeFourWheeler, VehicleTypeTwoWheeler:
		return true
	}
	return false
}
