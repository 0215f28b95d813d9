package fee

import (
	"fmt"
	"time"
)

// Backdate policies.  Whether operators may record an entry with a
// past timestamp is a business decision that has gone back and forth
// (corrections vs. fraud risk), so it is configuration rather than a
// hardcoded rule.
const (
	BackdateAllow = "allow"
	BackdateDeny  = "deny"
)

// EntryPolicy controls temporal validation of new entries.
type EntryPolicy struct {
	// Backdate is BackdateAllow or BackdateDeny.
	Backdate string
	// MaxBackdate bounds how far in the past an entry may be recorded
	// when backdating is allowed.  Zero means unbounded.
	MaxBackdate time.Duration
}

// FutureEntryError is returned when a proposed entry timestamp is
// later than the submission time.
type FutureEntryError struct {
	EntryTime time.Time
	Now       time.Time
}

func (e *FutureEntryError) Error() string {
	return fmt.Sprintf("entry time %s is in the future (now %s)",
		e.EntryTime.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

// BackdateError is returned when a past entry timestamp is rejected by
// policy, either because backdating is denied outright or because the
// timestamp is older than the allowed window.
type BackdateError struct {
	EntryTime time.Time
	Now       time.Time
	MaxAge    time.Duration
}

func (e *BackdateError) Error() string {
	if e.MaxAge > 0 {
		return fmt.Sprintf("entry time %s is older than the allowed backdate window of %s",
			e.EntryTime.Format(time.RFC3339), e.MaxAge)
	}
	return fmt.Sprintf("backdated entry time %s rejected by policy", e.EntryTime.Format(time.RFC3339))
}

// ValidateEntryTime checks a proposed entry timestamp against the
// submission time.  Future timestamps always fail with
// *FutureEntryError.  Past timestamps fail with *BackdateError when
// the policy denies backdating or the timestamp falls outside the
// configured window.
func ValidateEntryTime(entryTime, now time.Time, policy EntryPolicy) error {
	if entryTime.After(now) {
		return &FutureEntryError{EntryTime: entryTime, Now: now}
	}
	if entryTime.Equal(now) || entryTime.After(now.Add(-time.Minute)) {
		// Within a minute of now counts as a live entry, not a backdate.
		return nil
	}
	if policy.Backdate == BackdateDeny {
		return &BackdateError{EntryTime: entryTime, Now: now}
	}
	if policy.MaxBackdate > 0 && entryTime.Before(now.Add(-policy.MaxBackdate)) {
		return &BackdateError{EntryTime: entryTime, Now: now, MaxAge: policy.MaxBackdate}
	}
	return nil
}
