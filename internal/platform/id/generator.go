package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// Generator produces opaque identifiers for externally visible records,
// such as scan run ids.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator emits 128-bit hex identifiers from crypto/rand.
type RandomGenerator struct {
	size int
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{size: 16}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.size)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
