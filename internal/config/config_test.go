package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/parking-lot-service/internal/fee"
)

func TestEntryPolicyMapping(t *testing.T) {
	cfg := Config{BackdatePolicy: fee.BackdateAllow, BackdateMaxAgeHours: 48}

	p := cfg.EntryPolicy()
	assert.Equal(t, fee.BackdateAllow, p.Backdate)
	assert.Equal(t, 48*time.Hour, p.MaxBackdate)

	cfg = Config{BackdatePolicy: fee.BackdateDeny}
	p = cfg.EntryPolicy()
	assert.Equal(t, fee.BackdateDeny, p.Backdate)
	assert.Zero(t, p.MaxBackdate)
}

func TestFeeOptionsMapping(t *testing.T) {
	cfg := Config{OverstayThresholdHours: 24, OverstayPenaltyPercent: 150}

	o := cfg.FeeOptions()
	assert.Equal(t, 24*time.Hour, o.OverstayThreshold)
	assert.Equal(t, int64(150), o.PenaltyRatePercent)
}

func TestParseMethods(t *testing.T) {
	m := parseMethods("get, post ,PUT")
	assert.True(t, m["GET"])
	assert.True(t, m["POST"])
	assert.True(t, m["PUT"])
	assert.False(t, m["DELETE"])
}
