package handler // handler defines http handlers

import (
	"context"
	"strconv"
	"time"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-lot-service/internal/queue"
	queue_publisher "github.com/iliyamo/parking-lot-service/internal/service"
)

// parseID parses a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// validVehicleNumber applies the plate rules carried over from the old
// system: required, and at least three alphanumeric characters once
// punctuation is stripped.
func validVehicleNumber(s string) bool {
	count := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
		}
	}
	return count >= 3
}

// publishEntryChanged fires an entry change event without blocking the
// request.  The publisher logs its own failures; a lost event only
// delays the shift recompute until the next change or explicit sync.
func publishEntryChanged(entryID uint64, shiftID *uint64, change string) {
	ev := queue.EntryChangedEvent{
		EntryID:    entryID,
		ShiftID:    shiftID,
		Change:     change,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishEntryChanged(ctx, ev)
	}()
}
