package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/parking-lot-service/internal/model"
	"github.com/iliyamo/parking-lot-service/internal/stats"
)

// ShiftRepo provides persistence for shift sessions and owns the
// statistics recompute.  At most one shift is active at a time; the
// aggregate counters on a shift row are a cache over its linked
// entries and are only ever written by SyncStatistics-style full
// recomputes, never by increments.
type ShiftRepo struct {
	db      *sql.DB
	entries *EntryRepo
}

// NewShiftRepo returns a new ShiftRepo.  The entry repository is
// needed to load linked entries during statistics recomputes.
func NewShiftRepo(db *sql.DB, entries *EntryRepo) *ShiftRepo {
	return &ShiftRepo{db: db, entries: entries}
}

// DB exposes the underlying handle for handler-driven transactions.
func (r *ShiftRepo) DB() *sql.DB { return r.db }

const shiftColumns = `id, employee_name, start_time, end_time, status, opening_cash_cents, closing_cash_cents,
	handover_note, vehicles_entered, vehicles_exited, currently_parked,
	total_revenue_cents, cash_collected_cents, digital_collected_cents, created_at, updated_at`

func scanShift(sc rowScanner, s *model.ShiftSession) error {
	var (
		endTime     sql.NullTime
		closingCash sql.NullInt64
	)
	if err := sc.Scan(
		&s.ID, &s.EmployeeName, &s.StartTime, &endTime, &s.Status, &s.OpeningCashCents, &closingCash,
		&s.HandoverNote, &s.VehiclesEntered, &s.VehiclesExited, &s.CurrentlyParked,
		&s.TotalRevenueCents, &s.CashCents, &s.DigitalCents, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return err
	}
	if endTime.Valid {
		t := endTime.Time.UTC()
		s.EndTime = &t
	}
	if closingCash.Valid {
		v := closingCash.Int64
		s.ClosingCashCents = &v
	}
	return nil
}

// Start opens a new shift for the employee.  It returns ErrConflict
// when another shift is still active; two active shifts would make
// revenue attribution ambiguous.
func (r *ShiftRepo) Start(ctx context.Context, s *model.ShiftSession) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const check = `SELECT id FROM shift_sessions WHERE status = ? LIMIT 1 FOR UPDATE`
	var activeID uint64
	err = tx.QueryRowContext(ctx, check, model.ShiftStatusActive).Scan(&activeID)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	const q = `INSERT INTO shift_sessions (employee_name, start_time, opening_cash_cents) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.EmployeeName, s.StartTime.UTC(), s.OpeningCashCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + shiftColumns + ` FROM shift_sessions WHERE id = ?`
	if err := scanShift(tx.QueryRowContext(ctx, sel, s.ID), s); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a shift by its ID.  It returns ErrShiftNotFound
// when no matching row exists.
func (r *ShiftRepo) GetByID(ctx context.Context, id uint64) (*model.ShiftSession, error) {
	const q = `SELECT ` + shiftColumns + ` FROM shift_sessions WHERE id = ?`
	var s model.ShiftSession
	if err := scanShift(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetActive returns the single active shift, or ErrShiftNotFound when
// no shift is open.
func (r *ShiftRepo) GetActive(ctx context.Context) (*model.ShiftSession, error) {
	const q = `SELECT ` + shiftColumns + ` FROM shift_sessions WHERE status = ? LIMIT 1`
	var s model.ShiftSession
	if err := scanShift(r.db.QueryRowContext(ctx, q, model.ShiftStatusActive), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SyncStatistics recomputes the shift's counters and revenue from the
// full set of linked entries and writes them back, all in one
// transaction.  The recompute is a pure fold over the entries, so
// re-running it against an unchanged set is a no-op.  It returns
// ErrShiftNotFound for unknown shifts and never creates one.
func (r *ShiftRepo) SyncStatistics(ctx context.Context, shiftID uint64) (*stats.Summary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	summary, err := r.syncStatisticsTx(ctx, tx, shiftID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return summary, nil
}

// syncStatisticsTx is the transactional body of SyncStatistics, also
// reused by End so closing a shift always stores final numbers.
func (r *ShiftRepo) syncStatisticsTx(ctx context.Context, tx *sql.Tx, shiftID uint64) (*stats.Summary, error) {
	const check = `SELECT id FROM shift_sessions WHERE id = ? FOR UPDATE`
	var id uint64
	if err := tx.QueryRowContext(ctx, check, shiftID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	entries, err := r.entries.ListByShiftTx(ctx, tx, shiftID)
	if err != nil {
		return nil, err
	}
	summary := stats.Aggregate(entries)
	const upd = `UPDATE shift_sessions
		SET vehicles_entered = ?, vehicles_exited = ?, currently_parked = ?,
			total_revenue_cents = ?, cash_collected_cents = ?, digital_collected_cents = ?
		WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd,
		summary.VehiclesEntered, summary.VehiclesExited, summary.CurrentlyParked,
		summary.TotalRevenueCents, summary.CashCents, summary.DigitalCents, shiftID,
	); err != nil {
		return nil, err
	}
	return &summary, nil
}

// End closes an active shift: it runs a final statistics sync, stores
// the counted closing cash and the handover note, and flips the status
// to completed.  It returns ErrShiftNotFound for unknown shifts and
// ErrConflict when the shift is already completed.
func (r *ShiftRepo) End(ctx context.Context, shiftID uint64, endTime time.Time, closingCashCents int64, handoverNote string) (*model.ShiftSession, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := r.syncStatisticsTx(ctx, tx, shiftID); err != nil {
		return nil, err
	}
	const q = `UPDATE shift_sessions
		SET end_time = ?, status = ?, closing_cash_cents = ?, handover_note = ?
		WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q,
		endTime.UTC(), model.ShiftStatusCompleted, closingCashCents, handoverNote,
		shiftID, model.ShiftStatusActive,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrConflict
	}
	const sel = `SELECT ` + shiftColumns + ` FROM shift_sessions WHERE id = ?`
	var s model.ShiftSession
	if err := scanShift(tx.QueryRowContext(ctx, sel, shiftID), &s); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &s, nil
}
