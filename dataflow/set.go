package dataflow

import "github.com/bits-and-blooms/bitset"

// SetFact is a Fact backed by a dense bitset over symbol ids, the
// representation definite assignment and liveness both use. It follows the
// classic gen/kill bitset style of live-variable and reaching-definition
// solvers, generalized to run through the shared engine instead of being
// hand-rolled per analysis.
type SetFact struct {
	bits *bitset.BitSet
}

// NewSetFact wraps a bitset, or allocates an empty one of the given width
// if bits is nil.
func NewSetFact(width uint, bits *bitset.BitSet) SetFact {
	if bits == nil {
		bits = bitset.New(width)
	}
	return SetFact{bits: bits}
}

func (f SetFact) Has(id int) bool { return f.bits.Test(uint(id)) }

func (f SetFact) With(id int) SetFact {
	return SetFact{bits: f.bits.Clone().Set(uint(id))}
}

func (f SetFact) Without(id int) SetFact {
	return SetFact{bits: f.bits.Clone().Clear(uint(id))}
}

func (f SetFact) Union(other SetFact) SetFact {
	return SetFact{bits: f.bits.Union(other.bits)}
}

func (f SetFact) Intersect(other SetFact) SetFact {
	return SetFact{bits: f.bits.Intersection(other.bits)}
}

func (f SetFact) Difference(other SetFact) SetFact {
	return SetFact{bits: f.bits.Difference(other.bits)}
}

func (f SetFact) Equal(other Fact) bool {
	o, ok := other.(SetFact)
	if !ok {
		return false
	}
	return f.bits.Equal(o.bits)
}

// Members returns the ids set in f, in ascending order.
func (f SetFact) Members() []int {
	var out []int
	for i, ok := uint(0), true; ok; i++ {
		if i, ok = f.bits.NextSet(i); ok {
			out = append(out, int(i))
		}
	}
	return out
}

// UnionLattice joins by set union and bottoms out at the empty set: used by
// liveness, where "not yet known to be live on any path" is the identity
// fact.
type UnionLattice struct{ Width uint }

func (l UnionLattice) Bottom() Fact { return NewSetFact(l.Width, nil) }

func (l UnionLattice) Join(facts []Fact) Fact {
	acc := bitset.New(l.Width)
	for _, f := range facts {
		acc = acc.Union(f.(SetFact).bits)
	}
	return SetFact{bits: acc}
}

// IntersectLattice joins by set intersection and bottoms out at the
// universal set: used by definite assignment, where "every predecessor has
// assigned this variable" must hold unanimously, and a block with zero
// predecessors (other than the boundary) contributes no constraint.
type IntersectLattice struct{ Width uint }

func (l IntersectLattice) Bottom() Fact {
	full := bitset.New(l.Width)
	for i := uint(0); i < l.Width; i++ {
		full.Set(i)
	}
	return SetFact{bits: full}
}

func (l IntersectLattice) Join(facts []Fact) Fact {
	if len(facts) == 0 {
		return l.Bottom()
	}
	acc := facts[0].(SetFact).bits.Clone()
	for _, f := range facts[1:] {
		acc = acc.Intersection(f.(SetFact).bits)
	}
	return SetFact{bits: acc}
}
