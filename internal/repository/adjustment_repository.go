package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/parking-lot-service/internal/model"
)

// AdjustmentRepo persists typed fee adjustments.  Adjustments replace
// the old habit of overwriting fee columns in place: each change to a
// computed fee is its own signed, reasoned record, and the entry's
// actual fee is derived as calculated fee plus the adjustment sum.
type AdjustmentRepo struct {
	db *sql.DB
}

// NewAdjustmentRepo returns a new AdjustmentRepo bound to the given database.
func NewAdjustmentRepo(db *sql.DB) *AdjustmentRepo { return &AdjustmentRepo{db: db} }

// CreateTx inserts an adjustment within an existing transaction and
// assigns the generated ID back to the struct.
func (r *AdjustmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.FeeAdjustment) error {
	const q = `INSERT INTO fee_adjustments (entry_id, kind, amount_cents, reason, created_by) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, a.EntryID, a.Kind, a.AmountCents, a.Reason, a.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const sel = `SELECT id, entry_id, kind, amount_cents, reason, created_by, created_at FROM fee_adjustments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, a.ID).Scan(
		&a.ID, &a.EntryID, &a.Kind, &a.AmountCents, &a.Reason, &a.CreatedBy, &a.CreatedAt,
	)
}

// SumByEntryTx returns the signed adjustment total for an entry within
// a transaction.
func (r *AdjustmentRepo) SumByEntryTx(ctx context.Context, tx *sql.Tx, entryID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(amount_cents), 0) FROM fee_adjustments WHERE entry_id = ?`
	var sum int64
	if err := tx.QueryRowContext(ctx, q, entryID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// ListByEntry returns all adjustments recorded for an entry, oldest
// first, forming its fee audit trail.
func (r *AdjustmentRepo) ListByEntry(ctx context.Context, entryID uint64) ([]model.FeeAdjustment, error) {
	const q = `SELECT id, entry_id, kind, amount_cents, reason, created_by, created_at
		FROM fee_adjustments WHERE entry_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	adjustments := make([]model.FeeAdjustment, 0)
	for rows.Next() {
		var a model.FeeAdjustment
		if err := rows.Scan(&a.ID, &a.EntryID, &a.Kind, &a.AmountCents, &a.Reason, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return adjustments, nil
}
