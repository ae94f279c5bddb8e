package cg

import (
	"github.com/cockroachdb/errors"
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/slices"

	"github.com/dianpeng/plan2cc/types"
)

// IU (information unit) is a handle for one named, typed value in the
// generated program. Identity is the handle itself, never the name;
// two scans of the same relation mint distinct IUs for the same
// attribute. VarName is globally unique within one Context.
type IU struct {
	Name    string
	Type    types.Type
	VarName string
	id      int
}

// IUSet is an unordered set of IU handles. The representation is a
// slice sorted by handle identity, which makes iteration order
// deterministic and independent of how the set was built.
type IUSet struct {
	v []*IU
}

func iuCompare(a, b *IU) int { return a.id - b.id }

// NewIUSet builds a set from the given handles. The vector must not
// contain duplicates; passing one is a caller bug and panics with an
// assertion failure.
func NewIUSet(ius ...*IU) IUSet {
	if mapset.NewThreadUnsafeSet(ius...).Cardinality() != len(ius) {
		panic(errors.AssertionFailedf("duplicate IU in set constructor"))
	}
	var s IUSet
	for _, iu := range ius {
		s.Add(iu)
	}
	return s
}

// IUs returns the members in identity order. The slice is shared;
// callers must not mutate it.
func (s IUSet) IUs() []*IU {
	return s.v
}

func (s IUSet) Size() int {
	return len(s.v)
}

func (s IUSet) Contains(iu *IU) bool {
	_, ok := slices.BinarySearchFunc(s.v, iu, iuCompare)
	return ok
}

// Add inserts a handle, keeping the identity order.
func (s *IUSet) Add(iu *IU) {
	at, ok := slices.BinarySearchFunc(s.v, iu, iuCompare)
	if !ok {
		s.v = slices.Insert(s.v, at, iu)
	}
}

// Union returns s | o.
func (s IUSet) Union(o IUSet) IUSet {
	out := IUSet{v: slices.Clone(s.v)}
	for _, iu := range o.v {
		out.Add(iu)
	}
	return out
}

// Intersect returns s & o.
func (s IUSet) Intersect(o IUSet) IUSet {
	var out IUSet
	for _, iu := range s.v {
		if o.Contains(iu) {
			out.v = append(out.v, iu)
		}
	}
	return out
}

// Minus returns s - o.
func (s IUSet) Minus(o IUSet) IUSet {
	var out IUSet
	for _, iu := range s.v {
		if !o.Contains(iu) {
			out.v = append(out.v, iu)
		}
	}
	return out
}

func (s IUSet) Equals(o IUSet) bool {
	return slices.Equal(s.v, o.v)
}
