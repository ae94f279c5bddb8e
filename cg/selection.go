package cg

import (
	"fmt"
)

// Selection gates its input rows on a predicate expression.
type Selection struct {
	ctx   *Context
	input Operator
	pred  Expr
}

func NewSelection(ctx *Context, input Operator, pred Expr) *Selection {
	return &Selection{ctx: ctx, input: input, pred: pred}
}

func (s *Selection) AvailableIUs() IUSet {
	return s.input.AvailableIUs()
}

func (s *Selection) Produce(required IUSet, consume Consumer) {
	s.input.Produce(required.Union(s.pred.IUsUsed()), func() {
		s.ctx.Block(fmt.Sprintf("if (%s)", s.pred.Compile()), func() {
			consume()
		})
	})
}
