package fee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntryTimeRejectsFuture(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")

	err := ValidateEntryTime(now.Add(5*time.Minute), now, EntryPolicy{Backdate: BackdateAllow})
	var future *FutureEntryError
	require.ErrorAs(t, err, &future)
	assert.Equal(t, now, future.Now)

	// Future timestamps fail under every policy.
	err = ValidateEntryTime(now.Add(time.Second), now, EntryPolicy{Backdate: BackdateDeny})
	assert.ErrorAs(t, err, &future)
}

func TestValidateEntryTimeAcceptsNow(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")

	assert.NoError(t, ValidateEntryTime(now, now, EntryPolicy{Backdate: BackdateDeny}))
	// Submission lag of under a minute is a live entry, not a backdate.
	assert.NoError(t, ValidateEntryTime(now.Add(-30*time.Second), now, EntryPolicy{Backdate: BackdateDeny}))
}

func TestValidateEntryTimeBackdateDenied(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")

	err := ValidateEntryTime(now.Add(-2*time.Hour), now, EntryPolicy{Backdate: BackdateDeny})
	var backdate *BackdateError
	require.ErrorAs(t, err, &backdate)
	assert.Zero(t, backdate.MaxAge)
}

func TestValidateEntryTimeBackdateAllowed(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")

	assert.NoError(t, ValidateEntryTime(now.Add(-2*time.Hour), now, EntryPolicy{Backdate: BackdateAllow}))
	// Unbounded window accepts arbitrarily old timestamps.
	assert.NoError(t, ValidateEntryTime(now.Add(-30*24*time.Hour), now, EntryPolicy{Backdate: BackdateAllow}))
}

func TestValidateEntryTimeBackdateWindow(t *testing.T) {
	now := mustTime(t, "2026-03-01T12:00:00Z")
	policy := EntryPolicy{Backdate: BackdateAllow, MaxBackdate: 24 * time.Hour}

	assert.NoError(t, ValidateEntryTime(now.Add(-23*time.Hour), now, policy))
	assert.NoError(t, ValidateEntryTime(now.Add(-24*time.Hour), now, policy))

	err := ValidateEntryTime(now.Add(-25*time.Hour), now, policy)
	var backdate *BackdateError
	require.ErrorAs(t, err, &backdate)
	assert.Equal(t, 24*time.Hour, backdate.MaxAge)
	assert.Contains(t, err.Error(), "backdate window")
}
