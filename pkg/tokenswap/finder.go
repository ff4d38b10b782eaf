package tokenswap

import (
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
	"github.com/matzehuels/qmap/pkg/perm"
)

// Finder computes a swap sequence transforming from into to. Positions
// undefined in to are unconstrained.
type Finder interface {
	Find(from, to perm.Assignment) (perm.SwapSeq, error)
}

// problem is a full permutation instance: the item starting at position i
// must reach target[i]. Empty positions become hole items.
type problem struct {
	target []int
	hole   []bool
}

// newProblem checks preconditions and completes the target permutation by
// sending unconstrained items to the nearest unclaimed free position.
func newProblem(g *coupling.Graph, from, to perm.Assignment) (*problem, error) {
	n := g.Size()
	if len(from) != n || len(to) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"assignment sizes %d and %d do not match %d physical qubits", len(from), len(to), n)
	}

	posOf := make(map[int]int, n)
	for p, tok := range from {
		if tok == perm.Undef {
			continue
		}
		if _, dup := posOf[tok]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "token %d placed twice", tok)
		}
		posOf[tok] = p
	}

	pr := &problem{target: make([]int, n), hole: make([]bool, n)}
	for i := range pr.target {
		pr.target[i] = perm.Undef
		pr.hole[i] = from[i] == perm.Undef
	}
	claimed := make([]bool, n)
	for q, tok := range to {
		if tok == perm.Undef {
			continue
		}
		p, ok := posOf[tok]
		if !ok {
			return nil, errors.New(errors.ErrCodeNonMonotonicMapping,
				"token %d is required at %d but not placed", tok, q)
		}
		if pr.target[p] != perm.Undef {
			return nil, errors.New(errors.ErrCodeInvalidInput, "token %d required twice", tok)
		}
		pr.target[p] = q
		claimed[q] = true
	}

	// Unconstrained items stay put when their own position is free.
	for p := range pr.target {
		if pr.target[p] == perm.Undef && !claimed[p] {
			pr.target[p] = p
			claimed[p] = true
		}
	}
	for p := range pr.target {
		if pr.target[p] != perm.Undef {
			continue
		}
		q := g.Nearest(p, func(q int) bool { return !claimed[q] })
		if q < 0 {
			return nil, errors.New(errors.ErrCodeUnreachableMapping, "no free position reachable from %d", p)
		}
		pr.target[p] = q
		claimed[q] = true
	}

	dist := g.Distances()
	for p, q := range pr.target {
		if dist[p][q] == coupling.Unreachable {
			return nil, errors.New(errors.ErrCodeUnreachableMapping,
				"position %d cannot reach %d", p, q)
		}
	}
	return pr, nil
}

// prune drops swaps that exchange two empty positions.
func (pr *problem) prune(seq perm.SwapSeq) perm.SwapSeq {
	items := perm.Seq(len(pr.target))
	out := seq[:0]
	for _, s := range seq {
		if !(pr.hole[items[s.U]] && pr.hole[items[s.V]]) {
			out = append(out, s)
		}
		items[s.U], items[s.V] = items[s.V], items[s.U]
	}
	return out
}
