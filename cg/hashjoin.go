package cg

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/dianpeng/plan2cc/types"
)

// HashJoin is a pair-wise equi-join: build a multimap over the left
// input keyed by the left key tuple, probe it with the right key
// tuple. Inner join with multi-matching semantics on the probe side.
type HashJoin struct {
	ctx         *Context
	left, right Operator
	leftKeyIUs  []*IU
	rightKeyIUs []*IU
	ht          *IU
}

func NewHashJoin(ctx *Context, left, right Operator, leftKeyIUs, rightKeyIUs []*IU) (*HashJoin, error) {
	if len(leftKeyIUs) != len(rightKeyIUs) {
		return nil, errors.Newf(
			"hash join key arity mismatch: %d left vs %d right",
			len(leftKeyIUs), len(rightKeyIUs))
	}
	for i := range leftKeyIUs {
		if leftKeyIUs[i].Type != rightKeyIUs[i].Type {
			return nil, errors.Newf(
				"hash join key type mismatch at position %d: %s vs %s",
				i, leftKeyIUs[i].Type, rightKeyIUs[i].Type)
		}
	}
	return &HashJoin{
		ctx:         ctx,
		left:        left,
		right:       right,
		leftKeyIUs:  leftKeyIUs,
		rightKeyIUs: rightKeyIUs,
		ht:          ctx.newIU("joinHT", types.Undefined),
	}, nil
}

func (j *HashJoin) AvailableIUs() IUSet {
	return j.left.AvailableIUs().Union(j.right.AvailableIUs())
}

func (j *HashJoin) Produce(required IUSet, consume Consumer) {
	// figure out where required IUs come from
	leftRequired := required.Intersect(j.left.AvailableIUs()).Union(NewIUSet(j.leftKeyIUs...))
	rightRequired := required.Intersect(j.right.AvailableIUs()).Union(NewIUSet(j.rightKeyIUs...))
	leftPayload := leftRequired.Minus(NewIUSet(j.leftKeyIUs...))

	// build hash table
	j.ctx.Emit("unordered_multimap<tuple<%s>, tuple<%s>> %s;",
		formatTypes(j.leftKeyIUs), formatTypes(leftPayload.IUs()), j.ht.VarName)
	j.left.Produce(leftRequired, func() {
		j.ctx.Emit("%s.insert({{%s}, {%s}});",
			j.ht.VarName, formatVarNames(j.leftKeyIUs), formatVarNames(leftPayload.IUs()))
	})

	// probe hash table
	j.right.Produce(rightRequired, func() {
		j.ctx.Block(fmt.Sprintf(
			"for (auto range = %s.equal_range({%s}); range.first!=range.second; range.first++)",
			j.ht.VarName, formatVarNames(j.rightKeyIUs)), func() {
			// unpack payload
			for i, iu := range leftPayload.IUs() {
				j.ctx.provide(iu, fmt.Sprintf("get<%d>(range.first->second)", i))
			}
			// unpack keys if needed
			for i, iu := range j.leftKeyIUs {
				if required.Contains(iu) {
					j.ctx.provide(iu, fmt.Sprintf("get<%d>(range.first->first)", i))
				}
			}
			consume()
		})
	})
}
