package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-lot-service/internal/fee"
	"github.com/iliyamo/parking-lot-service/internal/model"
	"github.com/iliyamo/parking-lot-service/internal/repository"
)

// RateHandler serves the daily rate table.
type RateHandler struct {
	RateRepo *repository.RateRepo
}

// NewRateHandler constructs a new RateHandler.
func NewRateHandler(rateRepo *repository.RateRepo) *RateHandler {
	if rateRepo == nil {
		panic("nil repository passed to NewRateHandler")
	}
	return &RateHandler{RateRepo: rateRepo}
}

type rateResponse struct {
	VehicleType    string `json:"vehicle_type"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	UpdatedAt      string `json:"updated_at"`
}

// List handles GET /v1/rates.
func (h *RateHandler) List(c echo.Context) error {
	rates, err := h.RateRepo.All(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]rateResponse, 0, len(rates))
	for _, r := range rates {
		out = append(out, rateResponse{
			VehicleType:    r.VehicleType,
			DailyRateCents: r.DailyRateCents,
			UpdatedAt:      r.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"rates": out})
}

// Estimate handles GET /v1/rates/estimate.  It quotes a projected
// stay (?vehicle_type=...&hours=N) without any entry existing yet,
// using the same day-ceiling rule as exit processing.
func (h *RateHandler) Estimate(c echo.Context) error {
	vehicleType := c.QueryParam("vehicle_type")
	if !model.KnownVehicleType(vehicleType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown vehicle type: " + vehicleType})
	}
	hours, err := strconv.ParseFloat(c.QueryParam("hours"), 64)
	if err != nil || hours < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hours must be a non-negative number"})
	}
	rates, err := h.RateRepo.Table(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	amount, err := fee.Estimate(vehicleType, hours, rates)
	if err != nil {
		return feeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"vehicle_type":   vehicleType,
		"hours":          hours,
		"estimate_cents": amount,
	})
}

// Update handles PUT /v1/rates/:vehicleType.  Only the four known
// vehicle types can be priced; the change applies to future fee
// calculations and never rewrites fees already recorded.
func (h *RateHandler) Update(c echo.Context) error {
	vehicleType := c.Param("vehicleType")
	if !model.KnownVehicleType(vehicleType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown vehicle type: " + vehicleType})
	}
	var body struct {
		DailyRateCents int64 `json:"daily_rate_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.DailyRateCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "daily_rate_cents must be positive"})
	}
	r, err := h.RateRepo.Update(c.Request().Context(), vehicleType, body.DailyRateCents)
	if err != nil {
		if errors.Is(err, repository.ErrRateNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rate not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update rate"})
	}
	return c.JSON(http.StatusOK, rateResponse{
		VehicleType:    r.VehicleType,
		DailyRateCents: r.DailyRateCents,
		UpdatedAt:      r.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
