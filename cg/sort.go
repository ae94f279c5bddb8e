package cg

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/dianpeng/plan2cc/types"
)

// Sort materializes its input into a vector of tuples, sorts it with
// the default lexicographic tuple order, and re-iterates. Keys come
// first in the tuple, so ties fall through to the payload, which
// makes the overall order total and deterministic.
type Sort struct {
	ctx    *Context
	input  Operator
	keyIUs []*IU
	buf    *IU
}

func NewSort(ctx *Context, input Operator, keyIUs []*IU) *Sort {
	return &Sort{
		ctx:    ctx,
		input:  input,
		keyIUs: keyIUs,
		buf:    ctx.newIU("buf", types.Undefined),
	}
}

func (s *Sort) AvailableIUs() IUSet {
	return s.input.AvailableIUs()
}

func (s *Sort) Produce(required IUSet, consume Consumer) {
	rest := required.Minus(NewIUSet(s.keyIUs...))
	all := append(slices.Clone(s.keyIUs), rest.IUs()...)

	// collect tuples
	s.ctx.Emit("vector<tuple<%s>> %s;", formatTypes(all), s.buf.VarName)
	s.input.Produce(NewIUSet(all...), func() {
		s.ctx.Emit("%s.push_back({%s});", s.buf.VarName, formatVarNames(all))
	})

	// sort
	s.ctx.Emit("sort(%s.begin(), %s.end(), [](const auto& t1, const auto& t2) { return t1<t2; });", s.buf.VarName, s.buf.VarName)

	// iterate
	s.ctx.Block(fmt.Sprintf("for (auto& t : %s)", s.buf.VarName), func() {
		for i, iu := range all {
			if required.Contains(iu) {
				s.ctx.provide(iu, fmt.Sprintf("get<%d>(t)", i))
			}
		}
		consume()
	})
}
