// Package queries composes the built-in operator trees. Each builder
// wires a tree against a catalog and returns the root plus the output
// IUs, ready for cg.ProduceAndPrint.
package queries

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slices"

	"github.com/dianpeng/plan2cc/cg"
	"github.com/dianpeng/plan2cc/schema"
	"github.com/dianpeng/plan2cc/types"
)

// Query is one composed operator tree.
type Query struct {
	Root cg.Operator
	Out  []*cg.IU
}

// Builder wires a tree in the given compilation context.
type Builder func(ctx *cg.Context, cat *schema.Catalog) (*Query, error)

var registry = map[string]Builder{
	"filter":      Filter,
	"global-agg":  GlobalAgg,
	"grouped-agg": GroupedAgg,
	"join":        Join,
	"pipeline":    Pipeline,
}

// Names lists the registered query names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Get resolves a query builder by name.
func Get(name string) (Builder, error) {
	b, ok := registry[name]
	if !ok {
		return nil, errors.Newf("unknown query %q (have: %v)", name, Names())
	}
	return b, nil
}

func dateConst(s string) (*cg.Const, error) {
	d, err := types.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return cg.NewConstDate(d), nil
}

// Filter: orders rows before 1995-03-15, printing date and price.
func Filter(ctx *cg.Context, cat *schema.Catalog) (*Query, error) {
	orders, err := cg.NewScan(ctx, cat, "orders")
	if err != nil {
		return nil, err
	}
	odate, err := orders.IU("o_orderdate")
	if err != nil {
		return nil, err
	}
	oprice, err := orders.IU("o_totalprice")
	if err != nil {
		return nil, err
	}
	cutoff, err := dateConst("1995-03-15")
	if err != nil {
		return nil, err
	}

	sel := cg.NewSelection(ctx, orders,
		cg.NewCall("std::less<date>()", cg.NewIURef(odate), cutoff))
	return &Query{Root: sel, Out: []*cg.IU{odate, oprice}}, nil
}

// GlobalAgg: sum and min of o_totalprice over the filtered orders, a
// single global group.
func GlobalAgg(ctx *cg.Context, cat *schema.Catalog) (*Query, error) {
	orders, err := cg.NewScan(ctx, cat, "orders")
	if err != nil {
		return nil, err
	}
	odate, err := orders.IU("o_orderdate")
	if err != nil {
		return nil, err
	}
	oprice, err := orders.IU("o_totalprice")
	if err != nil {
		return nil, err
	}
	cutoff, err := dateConst("1995-03-15")
	if err != nil {
		return nil, err
	}

	sel := cg.NewSelection(ctx, orders,
		cg.NewCall("std::less<date>()", cg.NewIURef(odate), cutoff))

	g := cg.NewGroupBy(ctx, sel, cg.NewIUSet())
	sum, err := g.AddSum("sum", oprice)
	if err != nil {
		return nil, err
	}
	min, err := g.AddMin("min", oprice)
	if err != nil {
		return nil, err
	}
	return &Query{Root: g, Out: []*cg.IU{sum, min}}, nil
}

// GroupedAgg: urgent orders before 1995-03-15 grouped by status with
// count/min/sum of the price, ordered by count.
func GroupedAgg(ctx *cg.Context, cat *schema.Catalog) (*Query, error) {
	orders, err := cg.NewScan(ctx, cat, "orders")
	if err != nil {
		return nil, err
	}
	odate, err := orders.IU("o_orderdate")
	if err != nil {
		return nil, err
	}
	oprice, err := orders.IU("o_totalprice")
	if err != nil {
		return nil, err
	}
	ostatus, err := orders.IU("o_orderstatus")
	if err != nil {
		return nil, err
	}
	opriority, err := orders.IU("o_orderpriority")
	if err != nil {
		return nil, err
	}
	cutoff, err := dateConst("1995-03-15")
	if err != nil {
		return nil, err
	}

	pred := cg.NewCall("std::logical_and<bool>()",
		cg.NewCall("std::less<date>()", cg.NewIURef(odate), cutoff),
		cg.NewCall("std::equal_to<std::string_view>()",
			cg.NewIURef(opriority), cg.NewConstString("1-URGENT")))
	sel := cg.NewSelection(ctx, orders, pred)

	g := cg.NewGroupBy(ctx, sel, cg.NewIUSet(ostatus))
	cnt := g.AddCount("cnt")
	min, err := g.AddMin("min", oprice)
	if err != nil {
		return nil, err
	}
	sum, err := g.AddSum("sum", oprice)
	if err != nil {
		return nil, err
	}

	sort := cg.NewSort(ctx, g, []*cg.IU{cnt})
	return &Query{Root: sort, Out: []*cg.IU{ostatus, cnt, min, sum}}, nil
}

// Join: self-join of customer on c_custkey after a c_custkey = 1
// selection, pulling the address from the probe side.
func Join(ctx *cg.Context, cat *schema.Catalog) (*Query, error) {
	left, err := cg.NewScan(ctx, cat, "customer")
	if err != nil {
		return nil, err
	}
	ck, err := left.IU("c_custkey")
	if err != nil {
		return nil, err
	}
	cname, err := left.IU("c_name")
	if err != nil {
		return nil, err
	}
	cnation, err := left.IU("c_nationkey")
	if err != nil {
		return nil, err
	}

	sel := cg.NewSelection(ctx, left,
		cg.NewCall("std::equal_to<int32_t>()", cg.NewIURef(ck), cg.NewConstInt(1)))

	right, err := cg.NewScan(ctx, cat, "customer")
	if err != nil {
		return nil, err
	}
	ck2, err := right.IU("c_custkey")
	if err != nil {
		return nil, err
	}
	caddr, err := right.IU("c_address")
	if err != nil {
		return nil, err
	}

	j, err := cg.NewHashJoin(ctx, sel, right, []*cg.IU{ck}, []*cg.IU{ck2})
	if err != nil {
		return nil, err
	}
	return &Query{Root: j, Out: []*cg.IU{ck, cname, cnation, caddr}}, nil
}

// Pipeline: customer through map, grouped aggregation and a two key
// sort.
func Pipeline(ctx *cg.Context, cat *schema.Catalog) (*Query, error) {
	customer, err := cg.NewScan(ctx, cat, "customer")
	if err != nil {
		return nil, err
	}
	ck, err := customer.IU("c_custkey")
	if err != nil {
		return nil, err
	}
	cnation, err := customer.IU("c_nationkey")
	if err != nil {
		return nil, err
	}

	m := cg.NewMap(ctx, customer,
		cg.NewCall("std::plus<int32_t>()", cg.NewIURef(ck), cg.NewConstInt(5)),
		"ckNew", types.Integer)

	g := cg.NewGroupBy(ctx, m, cg.NewIUSet(ck, cnation))
	sum, err := g.AddSum("sum", m.IU())
	if err != nil {
		return nil, err
	}
	cnt := g.AddCount("cnt")

	sort := cg.NewSort(ctx, g, []*cg.IU{ck, sum})
	return &Query{Root: sort, Out: []*cg.IU{ck, cnation, sum, cnt}}, nil
}
