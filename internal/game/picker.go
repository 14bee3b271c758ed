package game

import (
	"crypto/rand"
	"math/big"
)

// Picker chooses the target index out of n characters (n > 0).
type Picker interface {
	Pick(n int) int
}

// PickerFunc adapts a plain function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) Pick(n int) int { return f(n) }

// CryptoPicker picks uniformly at random using crypto/rand.
type CryptoPicker struct{}

func (CryptoPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
