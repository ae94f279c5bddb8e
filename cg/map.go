package cg

import (
	"github.com/dianpeng/plan2cc/types"
)

// Map derives one named value from an expression over its input.
type Map struct {
	ctx   *Context
	input Operator
	exp   Expr
	iu    *IU
}

func NewMap(ctx *Context, input Operator, exp Expr, name string, t types.Type) *Map {
	return &Map{ctx: ctx, input: input, exp: exp, iu: ctx.newIU(name, t)}
}

// IU returns the result handle.
func (m *Map) IU() *IU {
	return m.iu
}

func (m *Map) AvailableIUs() IUSet {
	return m.input.AvailableIUs().Union(NewIUSet(m.iu))
}

func (m *Map) Produce(required IUSet, consume Consumer) {
	m.input.Produce(required.Union(m.exp.IUsUsed()).Minus(NewIUSet(m.iu)), func() {
		// anonymous block so nested Maps don't pollute each other's
		// scope
		m.ctx.Block("", func() {
			m.ctx.provide(m.iu, m.exp.Compile())
			consume()
		})
	})
}
