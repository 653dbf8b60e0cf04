/*
Package tuple implements C3, the TupleGenerator: a stateful cursor that
enumerates each strictly increasing k-subset of a variable index universe
exactly once, in lexicographic order.

It is grounded on the teacher's queue/queue.go: a single mutex guards the
entire cursor, held only for the duration of one combinatorial step, never
spanning any of the caller's actual work (queue.memQueue.Pull holds its lock
only long enough to pop one task; Generator.Next holds its lock only long
enough to advance one combination) — the same "coarse but cheap" contention
discipline spec.md §5 requires for the generator mutex.
*/
package tuple

import "sync"

// Generator enumerates every k-combination of a universe of indices exactly
// once, in lexicographic order. The zero value is not usable; build with
// New or NewRestricted.
//
// Generator is safe for concurrent use: Next is internally synchronized.
// Per spec.md §4.3/§5, the synchronized region spans only the
// constant-time combinatorial step, not any caller work.
type Generator struct {
	mu        sync.Mutex
	universe  []int // nil means "0..universeN", non-nil is an explicit restricted list
	universeN int
	k         int
	c         []int // c[0] sentinel, c[1..k] current combination indices into the universe
	done      bool
	started   bool
}

// New returns a Generator over the universe {0,...,variableCount-1}.
func New(variableCount, k int) *Generator {
	return &Generator{universeN: variableCount, k: k}
}

// NewRestricted returns a Generator over a restricted universe: tuples are
// drawn as k-subsets of positions into interestingVars, but Next yields the
// original variable ids held in interestingVars (spec.md §4.3). The input
// must already be sorted ascending.
func NewRestricted(interestingVars []int, k int) *Generator {
	return &Generator{universe: interestingVars, universeN: len(interestingVars), k: k}
}

// HasNext reports false once the generator is known to be exhausted. After
// the last tuple has been returned it still reports true, and the following
// call to Next returns false; callers must check Next's result. It takes the generator's mutex, consistent with spec.md §5's single
// generator-mutex region spanning both HasNext and Next.
func (g *Generator) HasNext() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hasNextLocked()
}

func (g *Generator) hasNextLocked() bool {
	if g.done {
		return false
	}
	if !g.started {
		return g.k <= g.universeN
	}
	return !g.done
}

// Next writes the next combination into out (len(out) must equal k) as
// original variable ids (from the universe, or from interestingVars for a
// restricted generator) and advances the cursor. It returns false if the
// generator is exhausted, in which case out is left untouched.
func (g *Generator) Next(out []int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hasNextLocked() {
		return false
	}
	if !g.started {
		g.c = make([]int, g.k+1)
		for i := 1; i <= g.k; i++ {
			g.c[i] = i - 1
		}
		g.started = true
	} else {
		g.advanceLocked()
		if g.done {
			return false
		}
	}
	for i := 0; i < g.k; i++ {
		idx := g.c[i+1]
		if g.universe != nil {
			out[i] = g.universe[idx]
		} else {
			out[i] = idx
		}
	}
	return true
}

// advanceLocked implements the combinadic cursor update of spec.md §4.3:
// increment the last position; on overflow, back up and retry; on refill,
// cascade the following positions.
func (g *Generator) advanceLocked() {
	k := g.k
	d := k
	for d >= 1 {
		g.c[d]++
		if g.c[d] <= g.universeN-(k-d)-1 {
			break
		}
		d--
	}
	if d < 1 {
		g.done = true
		return
	}
	for i := d + 1; i <= k; i++ {
		g.c[i] = g.c[i-1] + 1
	}
}
