// Package random draws match seeds from the operating system entropy pool.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed returns a fresh seed for the deterministic agents. Matches started
// without an explicit seed use one of these; logging the seed makes the run
// reproducible.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("draw seed: %w", err)
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}
