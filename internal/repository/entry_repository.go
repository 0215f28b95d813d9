package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/parking-lot-service/internal/model"
)

// EntryRepo provides persistence for parking entries.  Entries are
// append-only audit records: Create inserts one, RecordExitTx mutates
// it exactly once when the vehicle leaves, and there is no delete.
// All timestamp fields are stored in UTC.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo returns a new EntryRepo bound to the given database.
func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning entries, adjustments and shifts.
func (r *EntryRepo) DB() *sql.DB { return r.db }

// entryColumns is the canonical column list shared by every SELECT in
// this repository so scanEntry stays in sync with the queries.
const entryColumns = `id, vehicle_number, transport_name, vehicle_type, driver_name, driver_phone, notes,
	entry_time, exit_time, status, parking_fee_cents, calculated_fee_cents, actual_fee_cents,
	payment_status, payment_type, shift_id, created_by, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one entry row, converting nullable columns into
// pointer fields on the model.
func scanEntry(sc rowScanner, e *model.ParkingEntry) error {
	var (
		exitTime    sql.NullTime
		parkingFee  sql.NullInt64
		calcFee     sql.NullInt64
		actualFee   sql.NullInt64
		paymentType sql.NullString
		shiftID     sql.NullInt64
	)
	if err := sc.Scan(
		&e.ID, &e.VehicleNumber, &e.TransportName, &e.VehicleType, &e.DriverName, &e.DriverPhone, &e.Notes,
		&e.EntryTime, &exitTime, &e.Status, &parkingFee, &calcFee, &actualFee,
		&e.PaymentStatus, &paymentType, &shiftID, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return err
	}
	if exitTime.Valid {
		t := exitTime.Time.UTC()
		e.ExitTime = &t
	}
	if parkingFee.Valid {
		v := parkingFee.Int64
		e.ParkingFeeCents = &v
	}
	if calcFee.Valid {
		v := calcFee.Int64
		e.CalculatedFeeCents = &v
	}
	if actualFee.Valid {
		v := actualFee.Int64
		e.ActualFeeCents = &v
	}
	if paymentType.Valid {
		v := paymentType.String
		e.PaymentType = &v
	}
	if shiftID.Valid {
		v := uint64(shiftID.Int64)
		e.ShiftID = &v
	}
	return nil
}

// Create inserts a new entry and assigns the generated ID back to the
// struct.  The vehicle number is stored upper-cased so the same plate
// always matches regardless of how the operator typed it.
func (r *EntryRepo) Create(ctx context.Context, e *model.ParkingEntry) error {
	const q = `INSERT INTO parking_entries
		(vehicle_number, transport_name, vehicle_type, driver_name, driver_phone, notes, entry_time, shift_id, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var shiftID any
	if e.ShiftID != nil {
		shiftID = *e.ShiftID
	}
	res, err := r.db.ExecContext(ctx, q,
		strings.ToUpper(strings.TrimSpace(e.VehicleNumber)), e.TransportName, e.VehicleType,
		e.DriverName, e.DriverPhone, e.Notes, e.EntryTime.UTC(), shiftID, e.CreatedBy,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	// Fetch the freshly inserted row to populate defaults (status,
	// payment_status, created_at, updated_at).
	const sel = `SELECT ` + entryColumns + ` FROM parking_entries WHERE id = ?`
	return scanEntry(r.db.QueryRowContext(ctx, sel, e.ID), e)
}

// GetByID retrieves an entry by its ID.  It returns ErrEntryNotFound
// when no matching row exists.
func (r *EntryRepo) GetByID(ctx context.Context, id uint64) (*model.ParkingEntry, error) {
	const q = `SELECT ` + entryColumns + ` FROM parking_entries WHERE id = ?`
	var e model.ParkingEntry
	if err := scanEntry(r.db.QueryRowContext(ctx, q, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByIDTx is GetByID inside an existing transaction, locking the row
// so exit processing and adjustments serialize per entry.
func (r *EntryRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ParkingEntry, error) {
	const q = `SELECT ` + entryColumns + ` FROM parking_entries WHERE id = ? FOR UPDATE`
	var e model.ParkingEntry
	if err := scanEntry(tx.QueryRowContext(ctx, q, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns entries filtered by optional status and shift ID,
// newest entry time first.  When no entry matches it returns an empty
// slice and nil error.
func (r *EntryRepo) List(ctx context.Context, status string, shiftID *uint64) ([]model.ParkingEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM parking_entries`
	var (
		conds []string
		args  []any
	)
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if shiftID != nil {
		conds = append(conds, "shift_id = ?")
		args = append(args, *shiftID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY entry_time DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.ParkingEntry, 0)
	for rows.Next() {
		var e model.ParkingEntry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByShiftTx returns every entry linked to the shift within an
// existing transaction.  The statistics sync runs over this full set
// so the recompute stays idempotent.
func (r *EntryRepo) ListByShiftTx(ctx context.Context, tx *sql.Tx, shiftID uint64) ([]model.ParkingEntry, error) {
	const q = `SELECT ` + entryColumns + ` FROM parking_entries WHERE shift_id = ? ORDER BY entry_time`
	rows, err := tx.QueryContext(ctx, q, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.ParkingEntry, 0)
	for rows.Next() {
		var e model.ParkingEntry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// RecordExitTx flips a parked entry to Exited within a transaction,
// storing the exit time, the system-computed fee, the resolved actual
// fee and the payment channel.  It returns ErrConflict when the entry
// already exited: the exit mutation happens at most once.
func (r *EntryRepo) RecordExitTx(ctx context.Context, tx *sql.Tx, id uint64, exitTime time.Time, calculatedFeeCents int64, actualFeeCents *int64, paymentType string) error {
	const q = `UPDATE parking_entries
		SET exit_time = ?, status = ?, calculated_fee_cents = ?, actual_fee_cents = ?, payment_type = ?, payment_status = ?
		WHERE id = ? AND status = ?`
	var actual any
	if actualFeeCents != nil {
		actual = *actualFeeCents
	}
	res, err := tx.ExecContext(ctx, q,
		exitTime.UTC(), model.EntryStatusExited, calculatedFeeCents, actual, paymentType, model.PaymentStatusPaid,
		id, model.EntryStatusParked,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// SetActualFeeTx overwrites the entry's actual fee inside a
// transaction.  Used after an adjustment is recorded: the actual fee
// is always calculated fee plus the adjustment sum.
func (r *EntryRepo) SetActualFeeTx(ctx context.Context, tx *sql.Tx, id uint64, actualFeeCents int64) error {
	const q = `UPDATE parking_entries SET actual_fee_cents = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, actualFeeCents, id)
	return err
}

// LinkToShiftTx backfills the shift linkage of an entry.  The handler
// locks the entry and verifies the shift exists first; this only
// writes the foreign key.
func (r *EntryRepo) LinkToShiftTx(ctx context.Context, tx *sql.Tx, entryID, shiftID uint64) error {
	const q = `UPDATE parking_entries SET shift_id = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, shiftID, entryID)
	return err
}
