package mana

// Plan is the result of a successful payment search: the exact quanta to
// deduct from the pool, plus any life paid to phyrexian symbols.
type Plan struct {
	Spend    map[ManaType]int
	LifePaid int
}

// assignment is the mutable trial state threaded through the backtracking
// search. It is built once per call to search and discarded on backtrack.
type assignment struct {
	pool          *Pool
	genericNeeded int
	lifePaid      int
	spent         map[ManaType]int
}

func (a *assignment) spendColor(t ManaType, n int) bool {
	if a.pool.regular[t]+a.pool.floating[t] < n {
		return false
	}
	a.pool.spendLocked(t, n)
	a.spent[t] += n
	return true
}

func (a *assignment) unspendColor(t ManaType, n int) {
	a.pool.regular[t] += n
	a.spent[t] -= n
}

// search is the single algorithm behind both CanPay and Pay (spec §4.2:
// "Payment must use the same algorithm as the payability check"). It
// tries, in a fixed deterministic order, every way to resolve colored,
// hybrid, and phyrexian symbols, then satisfies the combined generic
// requirement from whatever mana remains (colorless preferred, per the
// payment-search's documented color order). trialPool is consumed
// in-place; the caller passes a working copy and only applies the result
// to the real pool on success.
func search(cost *Cost, trialPool *Pool, xValue int) (*Plan, bool) {
	trialPool.mu.Lock()
	defer trialPool.mu.Unlock()

	if cost.X && xValue < 0 {
		return nil, false
	}

	a := &assignment{pool: trialPool, spent: make(map[ManaType]int, len(colorOrder))}

	for _, t := range colorOrder {
		need := *cost.colorField(t)
		if need == 0 {
			continue
		}
		if !a.spendColor(t, need) {
			return nil, false
		}
	}

	a.genericNeeded = cost.Generic
	if cost.X {
		a.genericNeeded += xValue
	}

	if ok := resolveHybrid(a, cost.Hybrid, 0); !ok {
		return nil, false
	}
	if ok := resolvePhyrexian(a, cost.Phyrexian, 0); !ok {
		return nil, false
	}
	if !resolveGeneric(a) {
		return nil, false
	}

	plan := &Plan{Spend: make(map[ManaType]int, len(a.spent)), LifePaid: a.lifePaid}
	for t, n := range a.spent {
		if n > 0 {
			plan.Spend[t] = n
		}
	}
	return plan, true
}

// resolveHybrid tries, for hybrid symbol i, each color option in order and
// then the generic alternative, recursing into i+1 on success and
// backtracking on failure. This is the exhaustive-but-bounded search
// spec §4.2 calls for: pool sizes in practice are small enough that the
// branching factor (at most a handful of colors plus one generic option,
// per symbol) never blows up.
func resolveHybrid(a *assignment, hybrids []HybridCost, i int) bool {
	if i == len(hybrids) {
		return true
	}
	h := hybrids[i]
	for _, t := range h.ColorOptions {
		if a.spendColor(t, 1) {
			if resolveHybrid(a, hybrids, i+1) {
				return true
			}
			a.unspendColor(t, 1)
		}
	}
	if h.GenericAmount > 0 {
		a.genericNeeded += h.GenericAmount
		if resolveHybrid(a, hybrids, i+1) {
			return true
		}
		a.genericNeeded -= h.GenericAmount
	}
	return false
}

// resolvePhyrexian tries, for phyrexian symbol i, paying with its color
// mana first, then falling back to life, preferring to conserve mana for
// later generic needs only insofar as the deterministic order happens to
// try mana first — the same order CanPay and Pay both walk.
func resolvePhyrexian(a *assignment, phyrexian []PhyrexianCost, i int) bool {
	if i == len(phyrexian) {
		return true
	}
	p := phyrexian[i]
	if a.spendColor(p.Color, 1) {
		if resolvePhyrexian(a, phyrexian, i+1) {
			return true
		}
		a.unspendColor(p.Color, 1)
	}
	a.lifePaid += p.LifeCost
	if resolvePhyrexian(a, phyrexian, i+1) {
		return true
	}
	a.lifePaid -= p.LifeCost
	return false
}

// resolveGeneric pays the accumulated generic requirement from whatever
// mana remains, preferring colorless, then the colored pools in
// colorOrder — matching spec S5's requirement that payment "must not
// leave extra colored" mana unspent when colorless would do.
func resolveGeneric(a *assignment) bool {
	remaining := a.genericNeeded
	for _, t := range colorOrder {
		if remaining == 0 {
			break
		}
		available := a.pool.regular[t] + a.pool.floating[t]
		take := available
		if take > remaining {
			take = remaining
		}
		if take > 0 {
			a.pool.spendLocked(t, take)
			a.spent[t] += take
			remaining -= take
		}
	}
	return remaining == 0
}

// CanPay reports whether pool can pay cost with the given X value, without
// mutating pool.
func CanPay(cost *Cost, pool *Pool, xValue int) bool {
	trial := pool.Copy()
	_, ok := search(cost, trial, xValue)
	return ok
}

// Pay attempts to pay cost from pool. On success it deducts exactly the
// quanta chosen by the search and returns the plan (including any life
// owed for phyrexian symbols, which the caller must apply to the payer's
// life total). On failure pool is left untouched.
func Pay(cost *Cost, pool *Pool, xValue int) (*Plan, bool) {
	trial := pool.Copy()
	plan, ok := search(cost, trial, xValue)
	if !ok {
		return nil, false
	}
	pool.mu.Lock()
	for t, n := range plan.Spend {
		pool.spendLocked(t, n)
	}
	pool.mu.Unlock()
	return plan, true
}

// Refund restores exactly the quanta a successful Plan deducted, to
// regular mana. Used by rollback paths (spec §7: a failed cast/activate
// attempt rolls back completely) and by the round-trip law in spec §8
// ("paying a cost then refunding the same quanta restores the pool
// exactly").
func Refund(plan *Plan, pool *Pool) {
	if plan == nil {
		return
	}
	pool.mu.Lock()
	defer pool.mu.Unlock()
	for t, n := range plan.Spend {
		pool.regular[t] += n
	}
}
