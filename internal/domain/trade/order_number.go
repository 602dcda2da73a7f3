package trade

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultOrderNumberPrefix is the region prefix for storefront orders
const DefaultOrderNumberPrefix = "UK"

// OrderNumberGenerator produces human-readable order numbers of the form
// PREFIX-dddddd-r: the last six digits of the epoch millisecond clock and a
// random suffix in [0, 999]. Numbers are practically but not strictly unique;
// the orders table enforces uniqueness.
type OrderNumberGenerator struct {
	prefix string
	now    func() time.Time
	intn   func(n int) int
}

// NewOrderNumberGenerator creates a generator using the wall clock and math/rand
func NewOrderNumberGenerator(prefix string) *OrderNumberGenerator {
	if prefix == "" {
		prefix = DefaultOrderNumberPrefix
	}
	return &OrderNumberGenerator{prefix: prefix, now: time.Now, intn: rand.Intn}
}

// WithClock replaces the clock and random source, for tests
func (g *OrderNumberGenerator) WithClock(now func() time.Time, intn func(n int) int) *OrderNumberGenerator {
	return &OrderNumberGenerator{prefix: g.prefix, now: now, intn: intn}
}

// Next returns a fresh order number
func (g *OrderNumberGenerator) Next() string {
	ms := g.now().UnixMilli() % 1_000_000
	return fmt.Sprintf("%s-%06d-%d", g.prefix, ms, g.intn(1000))
}

// Prefix returns the configured region prefix
func (g *OrderNumberGenerator) Prefix() string {
	return g.prefix
}
