package model

import "time"

// Adjustment kinds.  Every manual change to a computed fee is recorded
// as one of these instead of overwriting fee columns in place.
const (
	AdjustmentKindDiscount   = "discount"
	AdjustmentKindSurcharge  = "surcharge"
	AdjustmentKindCorrection = "correction"
)

// FeeAdjustment is a typed, signed delta applied on top of an entry's
// calculated fee.  The entry's actual fee is always the calculated fee
// plus the sum of its adjustments, which keeps the audit trail intact.
//
// Fields:
//  ID          – primary key identifier.
//  EntryID     – entry the adjustment applies to.
//  Kind        – discount, surcharge or correction.
//  AmountCents – signed delta in cents (discounts negative).
//  Reason      – why the adjustment was made.
//  CreatedBy   – operator who recorded it.
//  CreatedAt   – creation timestamp.
type FeeAdjustment struct {
	ID          uint64    // fee_adjustments.id
	EntryID     uint64    // fee_adjustments.entry_id
	Kind        string    // fee_adjustments.kind
	AmountCents int64     // fee_adjustments.amount_cents
	Reason      string    // fee_adjustments.reason
	CreatedBy   string    // fee_adjustments.created_by
	CreatedAt   time.Time // fee_adjustments.created_at
}

// KnownAdjustmentKind reports whether k is a supported adjustment kind.
func KnownAdjustmentKind(k string) bool {
	switch k {
	case AdjustmentKindDiscount, AdjustmentKindSurcharge, AdjustmentKindCorrection:
		return true
	}
	return false
}
