// Package daily picks a deterministic "character of the day": everyone who
// starts a daily session on the same UTC date gets the same target.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index maps a UTC date onto a position in a dataset of n characters. The
// result is stable for a given salt, date and dataset order, so reordering or
// growing the character file changes the day's pick. Without the salt the
// schedule could be computed ahead of time.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(DateKey(date)))
	seed := binary.BigEndian.Uint64(mac.Sum(nil)[:8])
	return int(seed % uint64(n))
}

// Picker satisfies game.Picker with the index of the day.
type Picker struct {
	Salt string
	Now  func() time.Time // defaults to time.Now
}

// NewPicker returns a Picker bound to salt and the wall clock.
func NewPicker(salt string) *Picker {
	return &Picker{Salt: salt, Now: time.Now}
}

func (p *Picker) Pick(n int) int {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return Index(now(), p.Salt, n)
}
