package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-lot-service/internal/model"
	"github.com/iliyamo/parking-lot-service/internal/queue"
	"github.com/iliyamo/parking-lot-service/internal/repository"
)

// ShiftHandler serves shift session lifecycle and statistics.
type ShiftHandler struct {
	ShiftRepo *repository.ShiftRepo
	EntryRepo *repository.EntryRepo
}

// NewShiftHandler constructs a new ShiftHandler.
func NewShiftHandler(shiftRepo *repository.ShiftRepo, entryRepo *repository.EntryRepo) *ShiftHandler {
	if shiftRepo == nil || entryRepo == nil {
		panic("nil repository passed to NewShiftHandler")
	}
	return &ShiftHandler{ShiftRepo: shiftRepo, EntryRepo: entryRepo}
}

// shiftResponse is the JSON shape of a shift session.
type shiftResponse struct {
	ID                uint64  `json:"id"`
	EmployeeName      string  `json:"employee_name"`
	StartTime         string  `json:"start_time"`
	EndTime           *string `json:"end_time"`
	Status            string  `json:"status"`
	OpeningCashCents  int64   `json:"opening_cash_cents"`
	ClosingCashCents  *int64  `json:"closing_cash_cents"`
	HandoverNote      string  `json:"handover_note,omitempty"`
	VehiclesEntered   int64   `json:"vehicles_entered"`
	VehiclesExited    int64   `json:"vehicles_exited"`
	CurrentlyParked   int64   `json:"currently_parked"`
	TotalRevenueCents int64   `json:"total_revenue_cents"`
	CashCents         int64   `json:"cash_collected_cents"`
	DigitalCents      int64   `json:"digital_collected_cents"`
}

func toShiftResponse(s *model.ShiftSession) shiftResponse {
	resp := shiftResponse{
		ID:                s.ID,
		EmployeeName:      s.EmployeeName,
		StartTime:         s.StartTime.UTC().Format(time.RFC3339),
		Status:            s.Status,
		OpeningCashCents:  s.OpeningCashCents,
		ClosingCashCents:  s.ClosingCashCents,
		HandoverNote:      s.HandoverNote,
		VehiclesEntered:   s.VehiclesEntered,
		VehiclesExited:    s.VehiclesExited,
		CurrentlyParked:   s.CurrentlyParked,
		TotalRevenueCents: s.TotalRevenueCents,
		CashCents:         s.CashCents,
		DigitalCents:      s.DigitalCents,
	}
	if s.EndTime != nil {
		t := s.EndTime.UTC().Format(time.RFC3339)
		resp.EndTime = &t
	}
	return resp
}

// Start handles POST /v1/shifts.  At most one shift may be active at a
// time, so a second start while one is open returns 409.
func (h *ShiftHandler) Start(c echo.Context) error {
	var body struct {
		EmployeeName     string `json:"employee_name"`
		OpeningCashCents int64  `json:"opening_cash_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.EmployeeName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_name is required"})
	}
	if body.OpeningCashCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "opening_cash_cents must not be negative"})
	}
	s := &model.ShiftSession{
		EmployeeName:     strings.TrimSpace(body.EmployeeName),
		StartTime:        time.Now().UTC(),
		OpeningCashCents: body.OpeningCashCents,
	}
	if err := h.ShiftRepo.Start(c.Request().Context(), s); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "another shift is already active"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start shift"})
	}
	return c.JSON(http.StatusCreated, toShiftResponse(s))
}

// End handles POST /v1/shifts/:id/end.  Statistics are recomputed from
// the linked entries one final time before the row flips to completed,
// so the closing numbers never depend on incremental counter updates
// having all landed.
func (h *ShiftHandler) End(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift id"})
	}
	var body struct {
		ClosingCashCents int64  `json:"closing_cash_cents"`
		HandoverNote     string `json:"handover_note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ClosingCashCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "closing_cash_cents must not be negative"})
	}
	s, err := h.ShiftRepo.End(c.Request().Context(), id, time.Now().UTC(), body.ClosingCashCents, strings.TrimSpace(body.HandoverNote))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "shift already completed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to end shift"})
	}
	// Cash reconciliation: counted drawer cash against opening float
	// plus recorded cash revenue.
	expected := s.OpeningCashCents + s.CashCents
	return c.JSON(http.StatusOK, echo.Map{
		"shift":               toShiftResponse(s),
		"expected_cash_cents": expected,
		"cash_variance_cents": *s.ClosingCashCents - expected,
	})
}

// GetActive handles GET /v1/shifts/active.
func (h *ShiftHandler) GetActive(c echo.Context) error {
	s, err := h.ShiftRepo.GetActive(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active shift"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toShiftResponse(s))
}

// Get handles GET /v1/shifts/:id.
func (h *ShiftHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift id"})
	}
	s, err := h.ShiftRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toShiftResponse(s))
}

// SyncStatistics handles POST /v1/shifts/:id/statistics/sync.  The
// recompute is a full fold over the linked entries, so running it any
// number of times yields the same counters.
func (h *ShiftHandler) SyncStatistics(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift id"})
	}
	summary, err := h.ShiftRepo.SyncStatistics(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sync statistics"})
	}
	return c.JSON(http.StatusOK, summary)
}

// LinkEntry handles POST /v1/shifts/:id/entries/:entryID/link.  It
// moves an entry onto the given shift and queues recomputes for both
// the new shift and, when the entry moved, the one it left.
func (h *ShiftHandler) LinkEntry(c echo.Context) error {
	shiftID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift id"})
	}
	entryID, ok := parseID(c, "entryID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ShiftRepo.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		}
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
	e, err := h.EntryRepo.GetByIDTx(ctx, tx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	previous := e.ShiftID
	if err := h.EntryRepo.LinkToShiftTx(ctx, tx, entryID, shiftID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link entry"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	publishEntryChanged(entryID, &shiftID, queue.ChangeLinked)
	if previous != nil && *previous != shiftID {
		publishEntryChanged(entryID, previous, queue.ChangeLinked)
	}
	return c.JSON(http.StatusOK, echo.Map{"entry_id": entryID, "shift_id": shiftID})
}
