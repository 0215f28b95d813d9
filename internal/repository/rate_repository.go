package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/parking-lot-service/internal/model"
)

// RateRepo provides access to the vehicle rate table.  The table has
// one row per vehicle type; fee calculation loads it in full and works
// on the resulting map.
type RateRepo struct {
	db *sql.DB
}

// NewRateRepo returns a new RateRepo bound to the given database.
func NewRateRepo(db *sql.DB) *RateRepo { return &RateRepo{db: db} }

// All returns every configured rate, ordered by vehicle type.
func (r *RateRepo) All(ctx context.Context) ([]model.VehicleRate, error) {
	const q = `SELECT vehicle_type, daily_rate_cents, updated_at FROM vehicle_rates ORDER BY vehicle_type`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rates := make([]model.VehicleRate, 0)
	for rows.Next() {
		var vr model.VehicleRate
		if err := rows.Scan(&vr.VehicleType, &vr.DailyRateCents, &vr.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, vr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rates, nil
}

// Table returns the rate table as a map for the fee calculator.
func (r *RateRepo) Table(ctx context.Context) (model.RateTable, error) {
	rates, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	table := make(model.RateTable, len(rates))
	for _, vr := range rates {
		table[vr.VehicleType] = vr.DailyRateCents
	}
	return table, nil
}

// Update sets the daily rate for a vehicle type.  It returns
// ErrRateNotFound when the type has no row; rates are seeded by
// migration and new vehicle categories require a schema change, so
// there is no implicit insert here.
func (r *RateRepo) Update(ctx context.Context, vehicleType string, dailyRateCents int64) (*model.VehicleRate, error) {
	const q = `UPDATE vehicle_rates SET daily_rate_cents = ? WHERE vehicle_type = ?`
	if _, err := r.db.ExecContext(ctx, q, dailyRateCents, vehicleType); err != nil {
		return nil, err
	}
	const sel = `SELECT vehicle_type, daily_rate_cents, updated_at FROM vehicle_rates WHERE vehicle_type = ?`
	var vr model.VehicleRate
	if err := r.db.QueryRowContext(ctx, sel, vehicleType).Scan(&vr.VehicleType, &vr.DailyRateCents, &vr.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRateNotFound
		}
		return nil, err
	}
	return &vr, nil
}
