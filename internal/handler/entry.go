package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-lot-service/internal/fee"
	"github.com/iliyamo/parking-lot-service/internal/model"
	"github.com/iliyamo/parking-lot-service/internal/queue"
	"github.com/iliyamo/parking-lot-service/internal/repository"
)

// EntryHandler serves vehicle entry and exit processing.  Exit runs
// inside a transaction: the fee calculation must succeed before any
// row changes, and a calculator error blocks the exit entirely rather
// than falling back to a default amount.
type EntryHandler struct {
	EntryRepo      *repository.EntryRepo      // entry persistence
	RateRepo       *repository.RateRepo       // daily rates for the calculator
	AdjustmentRepo *repository.AdjustmentRepo // typed fee adjustments
	ShiftRepo      *repository.ShiftRepo      // active shift lookup for linkage
	Policy         fee.EntryPolicy            // temporal validation policy
	FeeOpts        fee.Options                // overstay penalty settings
}

// NewEntryHandler constructs a new EntryHandler with the provided
// repositories.  All repository dependencies must be non-nil.
func NewEntryHandler(entryRepo *repository.EntryRepo, rateRepo *repository.RateRepo, adjustmentRepo *repository.AdjustmentRepo, shiftRepo *repository.ShiftRepo, policy fee.EntryPolicy, feeOpts fee.Options) *EntryHandler {
	if entryRepo == nil || rateRepo == nil || adjustmentRepo == nil || shiftRepo == nil {
		panic("nil repository passed to NewEntryHandler")
	}
	return &EntryHandler{
		EntryRepo:      entryRepo,
		RateRepo:       rateRepo,
		AdjustmentRepo: adjustmentRepo,
		ShiftRepo:      shiftRepo,
		Policy:         policy,
		FeeOpts:        feeOpts,
	}
}

// entryResponse is the JSON shape of a parking entry.
type entryResponse struct {
	ID                 uint64  `json:"id"`
	VehicleNumber      string  `json:"vehicle_number"`
	TransportName      string  `json:"transport_name"`
	VehicleType        string  `json:"vehicle_type"`
	DriverName         string  `json:"driver_name,omitempty"`
	DriverPhone        string  `json:"driver_phone,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	EntryTime          string  `json:"entry_time"`
	ExitTime           *string `json:"exit_time"`
	Status             string  `json:"status"`
	Duration           string  `json:"duration"`
	ParkingFeeCents    *int64  `json:"parking_fee_cents"`
	CalculatedFeeCents *int64  `json:"calculated_fee_cents"`
	ActualFeeCents     *int64  `json:"actual_fee_cents"`
	PaymentStatus      string  `json:"payment_status"`
	PaymentType        *string `json:"payment_type"`
	ShiftID            *uint64 `json:"shift_id"`
	CreatedBy          string  `json:"created_by"`
}

// toEntryResponse renders an entry, computing the display duration
// against the exit time or, for parked vehicles, against now.
func toEntryResponse(e *model.ParkingEntry, now time.Time) entryResponse {
	end := now
	if e.ExitTime != nil {
		end = *e.ExitTime
	}
	resp := entryResponse{
		ID:                 e.ID,
		VehicleNumber:      e.VehicleNumber,
		TransportName:      e.TransportName,
		VehicleType:        e.VehicleType,
		DriverName:         e.DriverName,
		DriverPhone:        e.DriverPhone,
		Notes:              e.Notes,
		EntryTime:          e.EntryTime.UTC().Format(time.RFC3339),
		Status:             e.Status,
		Duration:           fee.FormatDuration(end.Sub(e.EntryTime)),
		ParkingFeeCents:    e.ParkingFeeCents,
		CalculatedFeeCents: e.CalculatedFeeCents,
		ActualFeeCents:     e.ActualFeeCents,
		PaymentStatus:      e.PaymentStatus,
		PaymentType:        e.PaymentType,
		ShiftID:            e.ShiftID,
		CreatedBy:          e.CreatedBy,
	}
	if e.ExitTime != nil {
		s := e.ExitTime.UTC().Format(time.RFC3339)
		resp.ExitTime = &s
	}
	return resp
}

// Create handles POST /v1/entries.  It validates the plate, vehicle
// type and entry timestamp (future timestamps are always rejected;
// backdating follows the configured policy), links the entry to the
// active shift unless an explicit shift_id is given, and stores it.
func (h *EntryHandler) Create(c echo.Context) error {
	var body struct {
		VehicleNumber string  `json:"vehicle_number"`
		TransportName string  `json:"transport_name"`
		VehicleType   string  `json:"vehicle_type"`
		DriverName    string  `json:"driver_name"`
		DriverPhone   string  `json:"driver_phone"`
		Notes         string  `json:"notes"`
		EntryTime     string  `json:"entry_time"` // RFC3339; empty means now
		ShiftID       *uint64 `json:"shift_id"`
		CreatedBy     string  `json:"created_by"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !validVehicleNumber(body.VehicleNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle number must contain at least 3 alphanumeric characters"})
	}
	if strings.TrimSpace(body.TransportName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "transport name is required"})
	}
	if !model.KnownVehicleType(body.VehicleType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown vehicle type: " + body.VehicleType})
	}
	now := time.Now().UTC()
	entryTime := now
	if body.EntryTime != "" {
		t, err := time.Parse(time.RFC3339, body.EntryTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "entry_time must be RFC3339"})
		}
		entryTime = t.UTC()
	}
	if err := fee.ValidateEntryTime(entryTime, now, h.Policy); err != nil {
		var futureErr *fee.FutureEntryError
		if errors.As(err, &futureErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "entry rejected: " + err.Error()})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	shiftID := body.ShiftID
	if shiftID == nil {
		// Attribute the entry to the running shift, if one is open.
		if active, err := h.ShiftRepo.GetActive(ctx); err == nil {
			shiftID = &active.ID
		} else if !errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	} else {
		if _, err := h.ShiftRepo.GetByID(ctx, *shiftID); err != nil {
			if errors.Is(err, repository.ErrShiftNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	createdBy := strings.TrimSpace(body.CreatedBy)
	if createdBy == "" {
		createdBy = "System"
	}
	e := &model.ParkingEntry{
		VehicleNumber: body.VehicleNumber,
		TransportName: strings.TrimSpace(body.TransportName),
		VehicleType:   body.VehicleType,
		DriverName:    strings.TrimSpace(body.DriverName),
		DriverPhone:   strings.TrimSpace(body.DriverPhone),
		Notes:         strings.TrimSpace(body.Notes),
		EntryTime:     entryTime,
		ShiftID:       shiftID,
		CreatedBy:     createdBy,
	}
	if err := h.EntryRepo.Create(ctx, e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create entry"})
	}
	publishEntryChanged(e.ID, e.ShiftID, queue.ChangeEntered)
	return c.JSON(http.StatusCreated, toEntryResponse(e, now))
}

// List handles GET /v1/entries with optional status and shift_id
// filters.
func (h *EntryHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && status != model.EntryStatusParked && status != model.EntryStatusExited {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Parked or Exited"})
	}
	var shiftID *uint64
	if s := c.QueryParam("shift_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift_id"})
		}
		shiftID = &id
	}
	entries, err := h.EntryRepo.List(c.Request().Context(), status, shiftID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	now := time.Now().UTC()
	out := make([]entryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryResponse(&entries[i], now))
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out})
}

// Get handles GET /v1/entries/:id.
func (h *EntryHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	e, err := h.EntryRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toEntryResponse(e, time.Now().UTC()))
}

// FeePreview handles GET /v1/entries/:id/fee.  For parked vehicles the
// fee is computed against now; for exited ones against the recorded
// exit time.  A negative duration yields 422 with the invalid-duration
// rendering so the operator sees broken data instead of a plausible
// amount.
func (h *EntryHandler) FeePreview(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	ctx := c.Request().Context()
	e, err := h.EntryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rates, err := h.RateRepo.Table(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	breakdown, err := fee.Calculate(e.VehicleType, e.EntryTime, e.ExitTime, time.Now().UTC(), rates, h.FeeOpts)
	if err != nil {
		return feeError(c, err)
	}
	return c.JSON(http.StatusOK, breakdown)
}

// Exit handles POST /v1/entries/:id/exit.  The whole operation is one
// transaction: lock the entry, compute the fee, optionally record an
// inline adjustment, then flip the entry to Exited.  Any calculator
// error aborts before the row changes.
func (h *EntryHandler) Exit(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	var body struct {
		PaymentType string `json:"payment_type"`
		ExitTime    string `json:"exit_time"` // RFC3339; empty means now
		Adjustment  *struct {
			Kind        string `json:"kind"`
			AmountCents int64  `json:"amount_cents"`
			Reason      string `json:"reason"`
			CreatedBy   string `json:"created_by"`
		} `json:"adjustment"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PaymentType != model.PaymentTypeCash && body.PaymentType != model.PaymentTypeDigital {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_type must be cash or digital"})
	}
	exitTime := time.Now().UTC()
	if body.ExitTime != "" {
		t, err := time.Parse(time.RFC3339, body.ExitTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "exit_time must be RFC3339"})
		}
		exitTime = t.UTC()
	}
	if body.Adjustment != nil {
		if !model.KnownAdjustmentKind(body.Adjustment.Kind) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown adjustment kind: " + body.Adjustment.Kind})
		}
		if strings.TrimSpace(body.Adjustment.Reason) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "adjustment reason is required"})
		}
	}
	ctx := c.Request().Context()
	rates, err := h.RateRepo.Table(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	tx, err := h.EntryRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	e, err := h.EntryRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if e.Status == model.EntryStatusExited {
		return c.JSON(http.StatusConflict, echo.Map{"error": "entry already exited"})
	}
	breakdown, err := fee.Calculate(e.VehicleType, e.EntryTime, &exitTime, exitTime, rates, h.FeeOpts)
	if err != nil {
		return feeError(c, err)
	}
	var actualFee *int64
	if body.Adjustment != nil {
		createdBy := strings.TrimSpace(body.Adjustment.CreatedBy)
		if createdBy == "" {
			createdBy = "System"
		}
		adj := &model.FeeAdjustment{
			EntryID:     e.ID,
			Kind:        body.Adjustment.Kind,
			AmountCents: body.Adjustment.AmountCents,
			Reason:      strings.TrimSpace(body.Adjustment.Reason),
			CreatedBy:   createdBy,
		}
		if err := h.AdjustmentRepo.CreateTx(ctx, tx, adj); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record adjustment"})
		}
		total := breakdown.TotalCents + adj.AmountCents
		actualFee = &total
	}
	if err := h.EntryRepo.RecordExitTx(ctx, tx, e.ID, exitTime, breakdown.TotalCents, actualFee, body.PaymentType); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "entry already exited"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record exit"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	updated, err := h.EntryRepo.GetByID(ctx, e.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	publishEntryChanged(updated.ID, updated.ShiftID, queue.ChangeExited)
	return c.JSON(http.StatusOK, echo.Map{
		"entry": toEntryResponse(updated, exitTime),
		"fee":   breakdown,
	})
}

// AddAdjustment handles POST /v1/entries/:id/adjustments.  It appends
// a typed adjustment to the entry's audit trail and rewrites the
// derived actual fee as calculated fee plus the adjustment sum.
func (h *EntryHandler) AddAdjustment(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	var body struct {
		Kind        string `json:"kind"`
		AmountCents int64  `json:"amount_cents"`
		Reason      string `json:"reason"`
		CreatedBy   string `json:"created_by"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !model.KnownAdjustmentKind(body.Kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown adjustment kind: " + body.Kind})
	}
	if body.AmountCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents must be non-zero"})
	}
	if strings.TrimSpace(body.Reason) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}
	ctx := c.Request().Context()
	tx, err := h.EntryRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	e, err := h.EntryRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if e.CalculatedFeeCents == nil && e.ParkingFeeCents == nil {
		// Nothing to adjust until a fee exists.
		return c.JSON(http.StatusConflict, echo.Map{"error": "entry has no fee to adjust"})
	}
	createdBy := strings.TrimSpace(body.CreatedBy)
	if createdBy == "" {
		createdBy = "System"
	}
	adj := &model.FeeAdjustment{
		EntryID:     e.ID,
		Kind:        body.Kind,
		AmountCents: body.AmountCents,
		Reason:      strings.TrimSpace(body.Reason),
		CreatedBy:   createdBy,
	}
	if err := h.AdjustmentRepo.CreateTx(ctx, tx, adj); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record adjustment"})
	}
	sum, err := h.AdjustmentRepo.SumByEntryTx(ctx, tx, e.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to total adjustments"})
	}
	base := int64(0)
	if e.CalculatedFeeCents != nil {
		base = *e.CalculatedFeeCents
	} else if e.ParkingFeeCents != nil {
		base = *e.ParkingFeeCents
	}
	actual := base + sum
	if err := h.EntryRepo.SetActualFeeTx(ctx, tx, e.ID, actual); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update actual fee"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	publishEntryChanged(e.ID, e.ShiftID, queue.ChangeAdjusted)
	return c.JSON(http.StatusCreated, echo.Map{
		"adjustment_id":    adj.ID,
		"kind":             adj.Kind,
		"amount_cents":     adj.AmountCents,
		"actual_fee_cents": actual,
	})
}

// ListAdjustments handles GET /v1/entries/:id/adjustments.
func (h *EntryHandler) ListAdjustments(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	ctx := c.Request().Context()
	if _, err := h.EntryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	adjustments, err := h.AdjustmentRepo.ListByEntry(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(adjustments))
	for _, a := range adjustments {
		out = append(out, echo.Map{
			"id":           a.ID,
			"kind":         a.Kind,
			"amount_cents": a.AmountCents,
			"reason":       a.Reason,
			"created_by":   a.CreatedBy,
			"created_at":   a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"adjustments": out})
}

// feeError maps calculator errors onto HTTP responses: invalid
// durations are 422 (the data is broken, not the request) and unknown
// vehicle types 400.
func feeError(c echo.Context, err error) error {
	var invalid *fee.InvalidDurationError
	if errors.As(err, &invalid) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error":      "invalid duration: exit precedes entry",
			"duration":   fee.FormatDuration(invalid.Delta),
			"entry_time": invalid.EntryTime.UTC().Format(time.RFC3339),
			"exit_time":  invalid.ExitTime.UTC().Format(time.RFC3339),
		})
	}
	var unknown *fee.UnknownVehicleTypeError
	if errors.As(err, &unknown) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": unknown.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fee calculation failed"})
}
