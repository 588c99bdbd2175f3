package search

import "sync"

// SequenceGuard numbers invocations and admits only the completion of the
// newest one. Completions of superseded invocations are stale.
type SequenceGuard struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Next issues the next sequence number
func (g *SequenceGuard) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

// Complete reports whether the completion of seq may be applied.
// It returns true at most once per sequence number.
func (g *SequenceGuard) Complete(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.issued || seq <= g.applied {
		return false
	}
	g.applied = seq
	return true
}

// Latest returns the highest issued sequence number
func (g *SequenceGuard) Latest() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}
