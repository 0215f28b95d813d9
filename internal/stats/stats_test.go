package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/parking-lot-service/internal/model"
)

func i64(v int64) *int64    { return &v }
func str(s string) *string  { return &s }
func ts(s string) time.Time { t, _ := time.Parse(time.RFC3339, s); return t }

func exited(fee int64, payment string) model.ParkingEntry {
	exit := ts("2026-03-01T18:00:00Z")
	return model.ParkingEntry{
		EntryTime:          ts("2026-03-01T08:00:00Z"),
		ExitTime:           &exit,
		Status:             model.EntryStatusExited,
		CalculatedFeeCents: i64(fee),
		PaymentType:        str(payment),
	}
}

func parked() model.ParkingEntry {
	return model.ParkingEntry{
		EntryTime: ts("2026-03-01T08:00:00Z"),
		Status:    model.EntryStatusParked,
	}
}

func TestAggregateCountsAndRevenue(t *testing.T) {
	entries := []model.ParkingEntry{
		exited(10000, model.PaymentTypeCash),
		exited(22500, model.PaymentTypeDigital),
		parked(),
	}

	s := Aggregate(entries)

	assert.Equal(t, int64(3), s.VehiclesEntered)
	assert.Equal(t, int64(2), s.VehiclesExited)
	assert.Equal(t, int64(1), s.CurrentlyParked)
	assert.Equal(t, int64(32500), s.TotalRevenueCents)
	assert.Equal(t, int64(10000), s.CashCents)
	assert.Equal(t, int64(22500), s.DigitalCents)
}

func TestAggregateParkedEntriesCarryNoRevenue(t *testing.T) {
	// A parked entry with a stale fee column must not count as revenue.
	e := parked()
	e.CalculatedFeeCents = i64(9999)

	s := Aggregate([]model.ParkingEntry{e})

	assert.Equal(t, int64(1), s.CurrentlyParked)
	assert.Zero(t, s.VehiclesExited)
	assert.Zero(t, s.TotalRevenueCents)
}

func TestAggregateIsIdempotent(t *testing.T) {
	entries := []model.ParkingEntry{
		exited(5000, model.PaymentTypeCash),
		exited(15000, model.PaymentTypeDigital),
		parked(),
		parked(),
	}

	first := Aggregate(entries)
	second := Aggregate(entries)

	assert.Equal(t, first, second)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Aggregate(nil))
	assert.Equal(t, Summary{}, Aggregate([]model.ParkingEntry{}))
}

func TestEffectiveFeeResolutionOrder(t *testing.T) {
	e := model.ParkingEntry{
		ParkingFeeCents:    i64(150),
		CalculatedFeeCents: i64(200),
	}

	// Calculated wins over the raw parking fee when no actual is set.
	got, ok := EffectiveFee(e)
	assert.True(t, ok)
	assert.Equal(t, int64(200), got)

	// Actual wins over everything once recorded.
	e.ActualFeeCents = i64(180)
	got, ok = EffectiveFee(e)
	assert.True(t, ok)
	assert.Equal(t, int64(180), got)

	// Legacy rows may carry only the raw parking fee.
	got, ok = EffectiveFee(model.ParkingEntry{ParkingFeeCents: i64(150)})
	assert.True(t, ok)
	assert.Equal(t, int64(150), got)

	_, ok = EffectiveFee(model.ParkingEntry{})
	assert.False(t, ok)
}

func TestAggregateUsesEffectiveFee(t *testing.T) {
	exit := ts("2026-03-01T18:00:00Z")
	legacy := model.ParkingEntry{
		ExitTime:        &exit,
		Status:          model.EntryStatusExited,
		ParkingFeeCents: i64(150),
		PaymentType:     str(model.PaymentTypeCash),
	}
	adjusted := exited(10000, model.PaymentTypeDigital)
	adjusted.ActualFeeCents = i64(8000)

	s := Aggregate([]model.ParkingEntry{legacy, adjusted})

	assert.Equal(t, int64(8150), s.TotalRevenueCents)
	assert.Equal(t, int64(150), s.CashCents)
	assert.Equal(t, int64(8000), s.DigitalCents)
}

func TestAggregateUnpaidExitStillCounts(t *testing.T) {
	exit := ts("2026-03-01T18:00:00Z")
	e := model.ParkingEntry{
		ExitTime: &exit,
		Status:   model.EntryStatusExited,
	}

	s := Aggregate([]model.ParkingEntry{e})

	assert.Equal(t, int64(1), s.VehiclesExited)
	assert.Zero(t, s.TotalRevenueCents)
}
