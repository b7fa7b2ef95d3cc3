// Package ids generates the short random identifiers carried by run-sets and panels.
//
// Identifiers are base-36 strings (lowercase letters and digits) of a fixed length,
// drawn from the random bits of a version 4 UUID. They only need to be unique
// within one report, so no cryptographic strength is implied.
package ids

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// DefaultLength is the length of generated identifiers
const DefaultLength = 10

// Generator produces identifiers
type Generator interface {
	NewID() string
}

// RandomGenerator draws identifiers from UUID randomness
type RandomGenerator struct {
	Length int
}

// NewID returns a fresh base-36 identifier
func (g RandomGenerator) NewID() string {
	length := g.Length
	if length <= 0 {
		length = DefaultLength
	}
	var b strings.Builder
	for b.Len() < length {
		u := uuid.New()
		b.WriteString(new(big.Int).SetBytes(u[:]).Text(36))
	}
	return b.String()[:length]
}

// SequenceGenerator hands out a fixed list of identifiers, then falls back to
// random ones. Used where deterministic ids are needed.
type SequenceGenerator struct {
	IDs  []string
	next int
}

// NewID returns the next queued identifier
func (g *SequenceGenerator) NewID() string {
	if g.next < len(g.IDs) {
		id := g.IDs[g.next]
		g.next++
		return id
	}
	return RandomGenerator{}.NewID()
}

var defaultGenerator Generator = RandomGenerator{}

// New returns an identifier from the package generator
func New() string {
	return defaultGenerator.NewID()
}

// SetGenerator replaces the package generator and returns the previous one
func SetGenerator(g Generator) Generator {
	prev := defaultGenerator
	if g == nil {
		g = RandomGenerator{}
	}
	defaultGenerator = g
	return prev
}
