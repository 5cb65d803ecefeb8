// Package ged computes an exact graph edit distance between two breakpoint
// graph topologies under a uniform unit-cost model.
//
// # Cost Model
//
// Nodes of the first graph are visited in order. Each one is either
// substituted by an unused node of the second graph ([CostSubstitute]) or
// deleted ([CostDelete]). Once every node has been assigned, each node of the
// second graph left unmapped adds [CostInsert]. The distance is the minimum
// total over all complete assignments.
//
// Substitution is charged even when both nodes are structurally identical,
// so a graph compared with itself scores its node count rather than 0. Edges
// and attributes are not scored. Two empty graphs are at distance 0.
//
// # Limits
//
// The search is exponential in the node count. A lower bound on the
// remaining cost prunes branches that cannot improve on the best assignment
// found so far, which keeps the result exact. [DistanceLimit] refuses inputs
// above a node budget with [ErrTooLarge]; use it for untrusted input.
package ged

import (
	"errors"
	"fmt"

	"github.com/matzehuels/brkgraph/pkg/core/bpgraph"
)

// Unit costs of the three edit operations.
const (
	CostSubstitute = 1
	CostDelete     = 1
	CostInsert     = 1
)

// DefaultMaxNodes is the node budget used by callers that do not configure one.
const DefaultMaxNodes = 32

// ErrTooLarge is returned by [DistanceLimit] when an input exceeds the node budget.
var ErrTooLarge = errors.New("graph too large for exact edit distance")

// Compare strips both graphs to their topologies and returns [Distance].
func Compare(g1, g2 *bpgraph.Graph) int {
	return Distance(g1.Topology(), g2.Topology())
}

// DistanceLimit is [Distance] guarded by a node budget. A maxNodes of 0 or
// less disables the guard.
func DistanceLimit(a, b *bpgraph.Topology, maxNodes int) (int, error) {
	if err := CheckLimit(a.NodeCount(), b.NodeCount(), maxNodes); err != nil {
		return 0, err
	}
	return Distance(a, b), nil
}

// CheckLimit reports [ErrTooLarge] when either node count exceeds maxNodes.
// A maxNodes of 0 or less accepts any size.
func CheckLimit(n1, n2, maxNodes int) error {
	if maxNodes <= 0 {
		return nil
	}
	for _, n := range []int{n1, n2} {
		if n > maxNodes {
			return fmt.Errorf("%w: %d nodes (max %d)", ErrTooLarge, n, maxNodes)
		}
	}
	return nil
}

// Distance returns the minimum edit cost of turning a's node set into b's.
func Distance(a, b *bpgraph.Topology) int {
	s := &search{
		n1:   a.NodeCount(),
		n2:   b.NodeCount(),
		used: make([]bool, b.NodeCount()),
	}
	// Deleting everything and inserting everything is always a valid
	// assignment, so it seeds the bound.
	s.best = s.n1*CostDelete + s.n2*CostInsert
	s.assign(0, 0, 0)
	return s.best
}

type search struct {
	n1, n2 int
	used   []bool
	best   int
}

// assign places node i of the first graph, with mapped nodes of the second
// graph already used and cost accumulated so far.
func (s *search) assign(i, mapped, cost int) {
	if cost+s.lowerBound(i, mapped) >= s.best {
		return
	}
	if i == s.n1 {
		s.best = cost + (s.n2-mapped)*CostInsert
		return
	}

	for j := range s.used {
		if s.used[j] {
			continue
		}
		s.used[j] = true
		s.assign(i+1, mapped+1, cost+CostSubstitute)
		s.used[j] = false
	}
	s.assign(i+1, mapped, cost+CostDelete)
}

// lowerBound is the cheapest possible completion: every remaining node of
// the first graph costs at least one operation, and nodes of the second graph
// that cannot all be matched by them must be inserted.
func (s *search) lowerBound(i, mapped int) int {
	remaining := s.n1 - i
	free := s.n2 - mapped
	unmatched := max(free-remaining, 0)
	return remaining*min(CostSubstitute, CostDelete) + unmatched*CostInsert
}
