package cg

import (
	"fmt"
)

// Consumer is the emission callback of the produce/consume protocol.
// It is invoked at emission time, once per row position in the
// generated program, from within a scope where every promised IU has
// been bound.
type Consumer func()

// Operator is one node of a relational operator tree. Non-leaf
// operators exclusively own their children.
type Operator interface {
	// AvailableIUs computes all IUs this operator can provide.
	AvailableIUs() IUSet

	// Produce emits code that, for every output row, binds every IU
	// in required in a lexical scope enclosing a call to consume.
	// required must be a subset of AvailableIUs.
	Produce(required IUSet, consume Consumer)
}

// ProduceAndPrint runs the root of a tree, emitting per-row printing
// of the given IUs. The whole emission is wrapped in a perf-repeat
// loop so the same query body can be executed repeat times in one
// program.
func ProduceAndPrint(ctx *Context, root Operator, ius []*IU, repeat uint) {
	rep := ctx.Fresh("perfRepeat")
	ctx.Block(fmt.Sprintf("for (uint64_t %s = 0; %s != %d; %s++)", rep, rep, repeat, rep), func() {
		root.Produce(NewIUSet(ius...), func() {
			for _, iu := range ius {
				ctx.Emit("std::cout << %s << \" \";", iu.VarName)
			}
			ctx.Emit("std::cout << std::endl;")
		})
	})
}
