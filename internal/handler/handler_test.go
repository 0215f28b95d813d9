package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-lot-service/internal/fee"
	"github.com/iliyamo/parking-lot-service/internal/model"
)

func TestValidVehicleNumber(t *testing.T) {
	assert.True(t, validVehicleNumber("KA01AB1234"))
	assert.True(t, validVehicleNumber("ab-12"))
	assert.True(t, validVehicleNumber("  A 1 2  "))

	assert.False(t, validVehicleNumber(""))
	assert.False(t, validVehicleNumber("--"))
	assert.False(t, validVehicleNumber("A1"))
}

func TestParseID(t *testing.T) {
	e := echo.New()

	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	ctx.SetParamNames("id")
	ctx.SetParamValues("42")
	id, ok := parseID(ctx, "id")
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		ctx.SetParamNames("id")
		ctx.SetParamValues(bad)
		_, ok := parseID(ctx, "id")
		assert.False(t, ok, "id %q", bad)
	}
}

func TestToEntryResponseParkedDurationTracksNow(t *testing.T) {
	entry := model.ParkingEntry{
		ID:            7,
		VehicleNumber: "KA01AB1234",
		VehicleType:   model.VehicleTypeFourWheeler,
		EntryTime:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:        model.EntryStatusParked,
	}
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	resp := toEntryResponse(&entry, now)

	assert.Equal(t, "2h 30m", resp.Duration)
	assert.Nil(t, resp.ExitTime)
	assert.Equal(t, "2026-03-01T10:00:00Z", resp.EntryTime)
}

func TestToEntryResponseExitedDurationUsesExitTime(t *testing.T) {
	exit := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	entry := model.ParkingEntry{
		ID:        8,
		EntryTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		ExitTime:  &exit,
		Status:    model.EntryStatusExited,
	}
	// Now is far past the exit; the recorded exit still wins.
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	resp := toEntryResponse(&entry, now)

	assert.Equal(t, "24h 0m", resp.Duration)
	require.NotNil(t, resp.ExitTime)
	assert.Equal(t, "2026-03-02T10:00:00Z", *resp.ExitTime)
}

func TestFeeErrorInvalidDurationIs422(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	entry := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	exit := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err := feeError(ctx, &fee.InvalidDurationError{EntryTime: entry, ExitTime: exit, Delta: exit.Sub(entry)})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid — future entry date detected", body["duration"])
	assert.Equal(t, "2026-03-02T10:00:00Z", body["entry_time"])
}

func TestFeeErrorUnknownVehicleTypeIs400(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	err := feeError(ctx, &fee.UnknownVehicleTypeError{VehicleType: "Boat"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Boat")
}
