package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 10, 15, 5, 0, 0, 0, loc)
	assert.Equal(t, "2026-10-14", DateKey(ts))
}

func TestIndex_StablePerDay(t *testing.T) {
	morning := time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC)

	a := Index(morning, "salt", 18)
	assert.Equal(t, a, Index(evening, "salt", 18))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 18)
	assert.Equal(t, 0, Index(morning, "salt", 0))
}

func TestIndex_VariesAcrossDays(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	seen := map[int]bool{}
	for d := 0; d < 30; d++ {
		seen[Index(start.AddDate(0, 0, d), "salt", 1000)] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestPicker(t *testing.T) {
	day := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	p := &Picker{Salt: "s", Now: func() time.Time { return day }}
	assert.Equal(t, Index(day, "s", 18), p.Pick(18))
	assert.Equal(t, p.Pick(18), p.Pick(18))
}
