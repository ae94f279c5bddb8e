package jit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dianpeng/plan2cc/cg"
	"github.com/dianpeng/plan2cc/queries"
	"github.com/dianpeng/plan2cc/schema"
)

func TestRuntimeHeader(t *testing.T) {
	cat := schema.TPCH()
	hdr := RuntimeHeader(cat)

	// one struct member per relation
	for _, rel := range cat.Names() {
		assert.Contains(t, hdr, "} "+rel+";")
	}

	// typed columns per the storage contract
	assert.Contains(t, hdr, "DataColumn<int64_t> o_orderkey;")
	assert.Contains(t, hdr, "DataColumn<char> o_orderstatus;")
	assert.Contains(t, hdr, "DataColumn<double> o_totalprice;")
	assert.Contains(t, hdr, "DataColumn<date> o_orderdate;")
	assert.Contains(t, hdr, "DataColumn<string_view> o_orderpriority;")
	assert.Contains(t, hdr, "DataColumn<int32_t> n_nationkey;")

	// loader opens the store file naming scheme and derives the
	// tuple count from the first column
	assert.Contains(t, hdr, `orders.o_orderkey.open(dir + "/orders.o_orderkey.col");`)
	assert.Contains(t, hdr, "orders.tupleCount = orders.o_orderkey.count;")

	// runtime essentials
	assert.Contains(t, hdr, "struct date")
	assert.Contains(t, hdr, "struct hash<tuple<Args...>>")
	assert.Contains(t, hdr, "mmap(")
}

func TestProgramWrapsFragment(t *testing.T) {
	cat := schema.TPCH()

	ctx := cg.NewContext()
	b, err := queries.Get("filter")
	require.NoError(t, err)
	q, err := b(ctx, cat)
	require.NoError(t, err)
	cg.ProduceAndPrint(ctx, q.Root, q.Out, 1)
	fragment := ctx.Source()

	prog := Program(cat, fragment)

	// frame comes first, fragment inside main, single db handle
	runtimeEnd := strings.Index(prog, "int main(")
	require.Greater(t, runtimeEnd, 0)
	assert.Contains(t, prog[:runtimeEnd], "struct TPCH")
	assert.Contains(t, prog, "TPCH db(argc >= 2 ? argv[1] : \"data\");")
	assert.Contains(t, prog, fragment)
	assert.Contains(t, prog, "return 0;")

	// the fragment's free variable db resolves against the frame
	assert.Contains(t, fragment, "db.orders.tupleCount")

	// balanced program
	assert.Equal(t, strings.Count(prog, "{"), strings.Count(prog, "}"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "c++", cfg.Compiler)
	assert.Contains(t, cfg.Flags, "-std=c++20")
}
