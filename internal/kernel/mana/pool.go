// Package mana implements cost parsing, pool management, and the unified
// payability/payment search (spec §4.2). CanPay and Pay are built on the
// exact same search function so that a cost declared payable can never
// fail to pay.
package mana

import "sync"

// ManaType is one of the five colors plus colorless. Unlike the teacher's
// mana.ManaType, there is no separate "GENERIC" pool member: generic is a
// property of a cost, never of mana sitting in a pool.
type ManaType string

const (
	White     ManaType = "W"
	Blue      ManaType = "U"
	Black     ManaType = "B"
	Red       ManaType = "R"
	Green     ManaType = "G"
	Colorless ManaType = "C"
)

// colorOrder fixes a deterministic iteration order for every pool/cost
// scan in this package, so two runs over the same state make the same
// choices. Colorless is listed first because the payment search prefers
// to spend colorless mana toward generic costs before touching colored
// mana (spec S5: "must not leave extra colored").
var colorOrder = [...]ManaType{Colorless, White, Blue, Black, Red, Green}

// Pool is a player's mana pool: a mapping from color to non-negative
// count, plus a floating bucket for mana an effect explicitly floats past
// the cleanup that would otherwise empty the pool (spec §8 invariant 4).
type Pool struct {
	mu       sync.Mutex
	regular  map[ManaType]int
	floating map[ManaType]int
}

// NewPool returns an empty mana pool.
func NewPool() *Pool {
	return &Pool{
		regular:  make(map[ManaType]int, len(colorOrder)),
		floating: make(map[ManaType]int, len(colorOrder)),
	}
}

// Add adds regular mana to the pool. Tapping a land or resolving a mana
// ability calls this; mana abilities never use the stack (spec §4.2).
func (p *Pool) Add(t ManaType, amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regular[t] += amount
}

// AddFloating adds mana that survives the next step-transition cleanup.
func (p *Pool) AddFloating(t ManaType, amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.floating[t] += amount
}

// Total returns the regular plus floating amount of one color.
func (p *Pool) Total(t ManaType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.regular[t] + p.floating[t]
}

// TotalAll returns the sum across every color.
func (p *Pool) TotalAll() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	sum := 0
	for _, t := range colorOrder {
		sum += p.regular[t] + p.floating[t]
	}
	return sum
}

// Empty empties the regular pool on every step transition, per spec §4.2
// and the dependency-granularity Open Question resolved in SPEC_FULL.md
// (emptying happens on steps, not only phases). Floating mana is
// untouched; it empties only when its explicit grant expires.
func (p *Pool) Empty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range colorOrder {
		p.regular[t] = 0
	}
}

// EmptyFloating clears floating mana whose grant has expired.
func (p *Pool) EmptyFloating() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range colorOrder {
		p.floating[t] = 0
	}
}

// spendLocked deducts amount of t, regular first then floating. Caller
// must hold p.mu and must have already verified availability.
func (p *Pool) spendLocked(t ManaType, amount int) {
	fromRegular := amount
	if fromRegular > p.regular[t] {
		fromRegular = p.regular[t]
	}
	p.regular[t] -= fromRegular
	p.floating[t] -= amount - fromRegular
}

// Copy returns a deep copy, used by the payment search to try an
// assignment without mutating the real pool until it is certain to
// succeed.
func (p *Pool) Copy() *Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := NewPool()
	for _, t := range colorOrder {
		c.regular[t] = p.regular[t]
		c.floating[t] = p.floating[t]
	}
	return c
}

// snapshot captures regular+floating counts and restore puts them back.
// search does not call either; it works on the copy its caller passes in.
func (p *Pool) snapshot() map[ManaType][2]int {
	snap := make(map[ManaType][2]int, len(colorOrder))
	for _, t := range colorOrder {
		snap[t] = [2]int{p.regular[t], p.floating[t]}
	}
	return snap
}

func (p *Pool) restore(snap map[ManaType][2]int) {
	for t, v := range snap {
		p.regular[t] = v[0]
		p.floating[t] = v[1]
	}
}
