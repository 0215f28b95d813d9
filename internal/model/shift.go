package model

import "time"

// Shift statuses.
const (
	ShiftStatusActive    = "active"
	ShiftStatusCompleted = "completed"
)

// ShiftSession is a bounded work period for one employee.  Entries
// recorded during the shift are linked to it for revenue attribution,
// and the aggregate counters below are recomputed from the linked
// entries whenever one of them changes.
//
// Fields:
//  ID                – primary key identifier.
//  EmployeeName      – employee working the shift.
//  StartTime         – when the shift opened (UTC).
//  EndTime           – when it closed; nil while active.
//  Status            – active or completed.
//  OpeningCashCents  – cash in the drawer at handover-in.
//  ClosingCashCents  – cash counted at handover-out; nil while active.
//  HandoverNote      – free-form note written when closing.
//  VehiclesEntered   – number of entries linked to the shift.
//  VehiclesExited    – linked entries with an exit time.
//  CurrentlyParked   – linked entries still parked.
//  TotalRevenueCents – revenue over exited linked entries.
//  CashCents         – revenue collected in cash.
//  DigitalCents      – revenue collected digitally.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type ShiftSession struct {
	ID                uint64     // shift_sessions.id
	EmployeeName      string     // shift_sessions.employee_name
	StartTime         time.Time  // shift_sessions.start_time
	EndTime           *time.Time // shift_sessions.end_time (nullable)
	Status            string     // shift_sessions.status
	OpeningCashCents  int64      // shift_sessions.opening_cash_cents
	ClosingCashCents  *int64     // shift_sessions.closing_cash_cents (nullable)
	HandoverNote      string     // shift_sessions.handover_note
	VehiclesEntered   int64      // shift_sessions.vehicles_entered
	VehiclesExited    int64      // shift_sessions.vehicles_exited
	CurrentlyParked   int64      // shift_sessions.currently_parked
	TotalRevenueCents int64      // shift_sessions.total_revenue_cents
	CashCents         int64      // shift_sessions.cash_collected_cents
	DigitalCents      int64      // shift_sessions.digital_collected_cents
	CreatedAt         time.Time  // shift_sessions.created_at
	UpdatedAt         time.Time  // shift_sessions.updated_at
}
