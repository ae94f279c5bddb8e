package cg

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dianpeng/plan2cc/types"
)

// GroupBy is hash-grouped aggregation. An empty group key set yields
// a single global group (a degenerate one-entry map).
type GroupBy struct {
	ctx         *Context
	input       Operator
	groupKeyIUs IUSet
	aggs        []Aggregate
	ht          *IU
}

func NewGroupBy(ctx *Context, input Operator, groupKeyIUs IUSet) *GroupBy {
	return &GroupBy{
		ctx:         ctx,
		input:       input,
		groupKeyIUs: groupKeyIUs,
		ht:          ctx.newIU("aggHT", types.Undefined),
	}
}

// AddCount appends a count aggregate; the result type is Integer.
func (g *GroupBy) AddCount(name string) *IU {
	result := g.ctx.newIU(name, types.Integer)
	g.aggs = append(g.aggs, &countAgg{result: result})
	return result
}

// AddSum appends a sum over input; the result has the input's type.
func (g *GroupBy) AddSum(name string, input *IU) (*IU, error) {
	if input == nil {
		return nil, errors.Newf("sum aggregate %q has no input IU", name)
	}
	result := g.ctx.newIU(name, input.Type)
	g.aggs = append(g.aggs, &sumAgg{input: input, result: result})
	return result, nil
}

// AddMin appends a minimum over input; the result has the input's type.
func (g *GroupBy) AddMin(name string, input *IU) (*IU, error) {
	if input == nil {
		return nil, errors.Newf("min aggregate %q has no input IU", name)
	}
	result := g.ctx.newIU(name, input.Type)
	g.aggs = append(g.aggs, &minAgg{input: input, result: result})
	return result, nil
}

// AddMax appends a maximum over input; the result has the input's type.
func (g *GroupBy) AddMax(name string, input *IU) (*IU, error) {
	if input == nil {
		return nil, errors.Newf("max aggregate %q has no input IU", name)
	}
	result := g.ctx.newIU(name, input.Type)
	g.aggs = append(g.aggs, &maxAgg{input: input, result: result})
	return result, nil
}

// AddAggregate appends a custom strategy.
func (g *GroupBy) AddAggregate(agg Aggregate) {
	g.aggs = append(g.aggs, agg)
}

// IU returns the result handle of the aggregate with the given name.
func (g *GroupBy) IU(name string) (*IU, error) {
	for _, agg := range g.aggs {
		if agg.Result().Name == name {
			return agg.Result(), nil
		}
	}
	return nil, errors.Newf("unknown aggregate %q in group by", name)
}

func (g *GroupBy) resultIUs() []*IU {
	out := make([]*IU, 0, len(g.aggs))
	for _, agg := range g.aggs {
		out = append(out, agg.Result())
	}
	return out
}

func (g *GroupBy) inputIUs() IUSet {
	var out IUSet
	for _, agg := range g.aggs {
		if iu := agg.Input(); iu != nil {
			out.Add(iu)
		}
	}
	return out
}

func (g *GroupBy) AvailableIUs() IUSet {
	return g.groupKeyIUs.Union(NewIUSet(g.resultIUs()...))
}

func (g *GroupBy) Produce(required IUSet, consume Consumer) {
	keys := g.groupKeyIUs.IUs()
	results := g.resultIUs()

	// build hash table
	g.ctx.Emit("unordered_map<tuple<%s>, tuple<%s>> %s;",
		formatTypes(keys), formatTypes(results), g.ht.VarName)
	g.input.Produce(g.groupKeyIUs.Union(g.inputIUs()), func() {
		g.ctx.Emit("auto it = %s.find({%s});", g.ht.VarName, formatVarNames(keys))
		g.ctx.Block(fmt.Sprintf("if (it == %s.end())", g.ht.VarName), func() {
			inits := make([]string, 0, len(g.aggs))
			for _, agg := range g.aggs {
				inits = append(inits, agg.Init())
			}
			// insert new group
			g.ctx.Emit("%s.insert({{%s}, {%s}});",
				g.ht.VarName, formatVarNames(keys), strings.Join(inits, ","))
		})
		g.ctx.Block("else", func() {
			// update group
			for i, agg := range g.aggs {
				g.ctx.Emit("%s", agg.Update(fmt.Sprintf("get<%d>(it->second)", i)))
			}
		})
	})

	// iterate over hash table
	g.ctx.Block(fmt.Sprintf("for (auto& it : %s)", g.ht.VarName), func() {
		for i, iu := range keys {
			if required.Contains(iu) {
				g.ctx.provide(iu, fmt.Sprintf("get<%d>(it.first)", i))
			}
		}
		for i, agg := range g.aggs {
			g.ctx.provide(agg.Result(), fmt.Sprintf("get<%d>(it.second)", i))
		}
		consume()
	})
}
