package fee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-lot-service/internal/model"
)

var testRates = model.RateTable{
	model.VehicleTypeTrailer:     22500,
	model.VehicleTypeSixWheeler:  15000,
	model.VehicleTypeFourWheeler: 10000,
	model.VehicleTypeTwoWheeler:  5000,
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return parsed
}

func TestCalculateShortStayChargesOneDay(t *testing.T) {
	entry := mustTime(t, "2026-03-01T10:00:00Z")
	exit := mustTime(t, "2026-03-01T11:30:00Z")

	b, err := Calculate(model.VehicleTypeFourWheeler, entry, &exit, exit, testRates, Options{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), b.Days)
	assert.Equal(t, int64(10000), b.TotalCents)
	assert.Equal(t, "1h 30m", b.Duration)
	assert.InDelta(t, 1.5, b.DurationHours, 0.001)
}

func TestCalculateMultiDayRoundsUp(t *testing.T) {
	entry := mustTime(t, "2026-03-01T10:00:00Z")

	cases := []struct {
		name  string
		exit  string
		days  int64
		total int64
	}{
		{"exactly 24h is one day", "2026-03-02T10:00:00Z", 1, 10000},
		{"24h plus a second starts day two", "2026-03-02T10:00:01Z", 2, 20000},
		{"48h is two days", "2026-03-03T10:00:00Z", 2, 20000},
		{"49h starts day three", "2026-03-03T11:00:00Z", 3, 30000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exit := mustTime(t, tc.exit)
			b, err := Calculate(model.VehicleTypeFourWheeler, entry, &exit, exit, testRates, Options{})
			require.NoError(t, err)
			assert.Equal(t, tc.days, b.Days)
			assert.Equal(t, tc.total, b.TotalCents)
		})
	}
}

func TestCalculateUsesConfiguredRatePerType(t *testing.T) {
	entry := mustTime(t, "2026-03-01T08:00:00Z")
	exit := mustTime(t, "2026-03-01T20:00:00Z")

	b, err := Calculate(model.VehicleTypeTrailer, entry, &exit, exit, testRates, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(22500), b.TotalCents)

	b, err = Calculate(model.VehicleTypeTwoWheeler, entry, &exit, exit, testRates, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), b.TotalCents)
}

func TestCalculateNegativeDurationFails(t *testing.T) {
	entry := mustTime(t, "2026-03-02T10:00:00Z")
	exit := mustTime(t, "2026-03-01T10:00:00Z")

	b, err := Calculate(model.VehicleTypeFourWheeler, entry, &exit, exit, testRates, Options{})
	assert.Nil(t, b)

	var invalid *InvalidDurationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, entry, invalid.EntryTime)
	assert.Equal(t, exit, invalid.ExitTime)
	assert.Equal(t, -24*time.Hour, invalid.Delta)
}

func TestCalculateUnknownVehicleTypeFails(t *testing.T) {
	entry := mustTime(t, "2026-03-01T10:00:00Z")
	exit := mustTime(t, "2026-03-01T12:00:00Z")

	b, err := Calculate("Hovercraft", entry, &exit, exit, testRates, Options{})
	assert.Nil(t, b)

	var unknown *UnknownVehicleTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Hovercraft", unknown.VehicleType)
}

func TestCalculateParkedUsesNow(t *testing.T) {
	entry := mustTime(t, "2026-03-01T10:00:00Z")
	now := mustTime(t, "2026-03-01T13:00:00Z")

	b, err := Calculate(model.VehicleTypeFourWheeler, entry, nil, now, testRates, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Days)
	assert.Equal(t, "3h 0m", b.Duration)
}

func TestCalculateOverstayPenalty(t *testing.T) {
	opts := Options{OverstayThreshold: 24 * time.Hour, PenaltyRatePercent: 150}
	entry := mustTime(t, "2026-03-01T10:00:00Z")

	cases := []struct {
		name         string
		exit         string
		overstayDays int64
		penalty      int64
		total        int64
	}{
		{"within threshold no penalty", "2026-03-02T10:00:00Z", 0, 0, 10000},
		{"one hour over adds one penalty day", "2026-03-02T11:00:00Z", 1, 5000, 25000},
		{"25h over adds two penalty days", "2026-03-03T11:00:00Z", 2, 10000, 40000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exit := mustTime(t, tc.exit)
			b, err := Calculate(model.VehicleTypeFourWheeler, entry, &exit, exit, testRates, opts)
			require.NoError(t, err)
			assert.Equal(t, tc.overstayDays, b.OverstayDays)
			assert.Equal(t, tc.penalty, b.PenaltyCents)
			assert.Equal(t, tc.total, b.TotalCents)
		})
	}
}

func TestCalculatePenaltyDisabledAtOrBelowHundredPercent(t *testing.T) {
	entry := mustTime(t, "2026-03-01T10:00:00Z")
	exit := mustTime(t, "2026-03-03T10:00:00Z")

	b, err := Calculate(model.VehicleTypeFourWheeler, entry, &exit, exit, testRates,
		Options{OverstayThreshold: 24 * time.Hour, PenaltyRatePercent: 100})
	require.NoError(t, err)
	assert.Zero(t, b.PenaltyCents)
	assert.Equal(t, b.BaseFeeCents, b.TotalCents)
}

func TestEstimate(t *testing.T) {
	got, err := Estimate(model.VehicleTypeSixWheeler, 30, testRates)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), got)

	got, err = Estimate(model.VehicleTypeSixWheeler, 0.5, testRates)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), got)

	_, err = Estimate(model.VehicleTypeSixWheeler, -1, testRates)
	var invalid *InvalidDurationError
	assert.ErrorAs(t, err, &invalid)

	_, err = Estimate("Boat", 2, testRates)
	var unknown *UnknownVehicleTypeError
	assert.ErrorAs(t, err, &unknown)
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		delta time.Duration
		want  string
	}{
		{-time.Hour, "Invalid — future entry date detected"},
		{0, "0 minutes"},
		{45 * time.Minute, "45 minutes"},
		{59*time.Minute + 59*time.Second, "59 minutes"},
		{time.Hour, "1h 0m"},
		{90 * time.Minute, "1h 30m"},
		{26*time.Hour + 5*time.Minute, "26h 5m"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.delta), "delta %s", tc.delta)
	}
}

func TestBillableDays(t *testing.T) {
	assert.Equal(t, int64(1), billableDays(0))
	assert.Equal(t, int64(1), billableDays(time.Second))
	assert.Equal(t, int64(1), billableDays(24*time.Hour))
	assert.Equal(t, int64(2), billableDays(24*time.Hour+time.Second))
	assert.Equal(t, int64(2), billableDays(48*time.Hour))
	assert.Equal(t, int64(3), billableDays(48*time.Hour+time.Minute))
}

func TestErrorsExposeContext(t *testing.T) {
	entry := mustTime(t, "2026-03-02T10:00:00Z")
	exit := mustTime(t, "2026-03-01T10:00:00Z")

	_, err := Calculate(model.VehicleTypeFourWheeler, entry, &exit, exit, testRates, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2026-03-02T10:00:00Z")
	assert.Contains(t, err.Error(), "2026-03-01T10:00:00Z")

	_, err = Calculate("Submarine", entry, nil, entry.Add(time.Hour), testRates, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Submarine")
}
