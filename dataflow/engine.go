// Package dataflow implements a generic fixed-point dataflow engine over a
// *cfg.Graph. Every analysis in the analysis package supplies a Lattice and
// a Transfer function and gets back per-block IN/OUT facts; the engine
// itself is oblivious to what a Fact actually represents (a set of symbol
// ids, a map from symbol id to abstract value, ...).
//
// The fixed-point loop is the plain "iterate every block until nothing
// changes" shape rather than a priority worklist: MiniC functions are small
// enough that convergence speed never matters, and the simpler loop is
// easier to read and to get right.
package dataflow

import "github.com/minic-lang/minic-analyzer/cfg"

// Direction selects whether facts flow from Entry towards Exit or the
// reverse.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Fact is one lattice element. Analyses define their own concrete Fact
// types (bitset-backed sets, symbol-id-to-state maps, ...).
type Fact interface {
	Equal(other Fact) bool
}

// Lattice supplies the bottom element and the join operator for a Fact
// type. Join must be commutative, associative, and idempotent, and Bottom
// must be its identity.
type Lattice interface {
	Bottom() Fact
	Join(facts []Fact) Fact
}

// Refiner is an optional capability a Lattice can implement to narrow a
// predecessor's fact along a specific conditional edge before it is joined
// in. Solve consults it in either direction, always passing the edge's
// source block and label; it is how the zero/non-zero analysis turns "x compared to 0 in this branch" into a narrower fact on
// the branch's successor block without changing the generic engine's
// block-indexed shape.
type Refiner interface {
	Refine(fact Fact, fromBlock int, label cfg.EdgeLabel) Fact
}

// Transfer computes a block's outgoing fact from its incoming fact.
type Transfer func(block int, in Fact) Fact

// Result holds the solved IN and OUT fact for every block, indexed by
// block index.
type Result struct {
	In  []Fact
	Out []Fact
}

// Solve runs the fixed-point iteration to completion and returns the
// per-block facts. boundary is the fact at the graph's Entry (Forward) or
// Exit (Backward).
func Solve(g *cfg.Graph, dir Direction, lat Lattice, boundary Fact, transfer Transfer) *Result {
	n := g.NumBlocks()
	pre := make([]Fact, n)
	post := make([]Fact, n)
	for i := range pre {
		pre[i] = lat.Bottom()
		post[i] = lat.Bottom()
	}

	boundaryBlock := g.Entry
	neighbors := g.Preds
	if dir == Backward {
		boundaryBlock = g.Exit
		neighbors = g.SuccIndices
	}

	refiner, refines := lat.(Refiner)

	for changed := true; changed; {
		changed = false
		for b := 0; b < n; b++ {
			var f Fact
			if b == boundaryBlock {
				f = boundary
			} else {
				ns := neighbors(b)
				facts := make([]Fact, len(ns))
				for i, nb := range ns {
					raw := post[nb]
					if refines {
						from, to := nb, b
						if dir == Backward {
							from, to = b, nb
						}
						raw = refiner.Refine(raw, from, g.EdgeLabelTo(from, to))
					}
					facts[i] = raw
				}
				f = lat.Join(facts)
			}
			pre[b] = f
			np := transfer(b, f)
			if !post[b].Equal(np) {
				changed = true
			}
			post[b] = np
		}
	}

	res := &Result{In: make([]Fact, n), Out: make([]Fact, n)}
	if dir == Forward {
		copy(res.In, pre)
		copy(res.Out, post)
	} else {
		copy(res.In, post)
		copy(res.Out, pre)
	}
	return res
}
