// Package keygen generates short keys for URL entries.
package keygen

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultKeyLength is the number of characters in a generated short code.
const DefaultKeyLength = 6

// Generator produces random lowercase alphanumeric keys.
// It gives no uniqueness guarantee; callers must check generated keys
// against the store and retry on collision.
type Generator struct {
	length int
}

// New returns a Generator producing keys of the given length.
// A non-positive length falls back to DefaultKeyLength.
func New(length int) *Generator {
	if length <= 0 {
		length = DefaultKeyLength
	}

	return &Generator{length: length}
}

// NewKey returns a fresh random key. It never fails: on the (practically
// unreachable) case of an entropy source error the affected position
// falls back to the first alphabet character.
func (g *Generator) NewKey() string {
	key := make([]byte, g.length)
	for i := range key {
		index, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			key[i] = alphabet[0]
			continue
		}
		key[i] = alphabet[index.Int64()]
	}

	return string(key)
}
