package cg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dianpeng/plan2cc/types"
)

func TestConstCompile(t *testing.T) {
	assert.Equal(t, "42", NewConstInt(42).Compile())
	assert.Equal(t, "-7", NewConstInt(-7).Compile())
	assert.Equal(t, "1099511627776", NewConstBigInt(1<<40).Compile())
	assert.Equal(t, "1.5", NewConstDouble(1.5).Compile())
	assert.Equal(t, "true", NewConstBool(true).Compile())
	assert.Equal(t, "false", NewConstBool(false).Compile())
	assert.Equal(t, `"1-URGENT"`, NewConstString("1-URGENT").Compile())
	assert.Equal(t, "'F'", NewConstChar('F').Compile())

	// dates compile to their integer encoding so the target compares
	// plain integers
	d, err := types.ParseDate("1995-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2449792", NewConstDate(d).Compile())
}

func TestConstUsesNoIUs(t *testing.T) {
	assert.Equal(t, 0, NewConstInt(1).IUsUsed().Size())
	assert.Equal(t, 0, NewConstString("x").IUsUsed().Size())
}

func TestIURefCompile(t *testing.T) {
	ctx := NewContext()
	iu := ctx.newIU("o_totalprice", types.Double)

	e := NewIURef(iu)
	assert.Equal(t, iu.VarName, e.Compile())
	assert.True(t, e.IUsUsed().Equals(NewIUSet(iu)))
}

func TestCallCompile(t *testing.T) {
	ctx := NewContext()
	a := ctx.newIU("a", types.Integer)
	b := ctx.newIU("b", types.Integer)

	e := NewCall("std::less<int32_t>()", NewIURef(a), NewConstInt(5))
	assert.Equal(t, "std::less<int32_t>()("+a.VarName+",5)", e.Compile())

	nested := NewCall("std::logical_and<bool>()",
		NewCall("std::less<int32_t>()", NewIURef(a), NewConstInt(5)),
		NewCall("std::equal_to<int32_t>()", NewIURef(b), NewConstInt(9)),
	)
	want := "std::logical_and<bool>()(" +
		"std::less<int32_t>()(" + a.VarName + ",5)," +
		"std::equal_to<int32_t>()(" + b.VarName + ",9))"
	assert.Equal(t, want, nested.Compile())
	assert.True(t, nested.IUsUsed().Equals(NewIUSet(a, b)))
}

func TestCallNoArgs(t *testing.T) {
	e := NewCall("now")
	assert.Equal(t, "now()", e.Compile())
	assert.Equal(t, 0, e.IUsUsed().Size())
}

// Invariant: an IU's varname appears in the compiled text iff the IU
// is in IUsUsed.
func TestExprRoundTrip(t *testing.T) {
	ctx := NewContext()
	a := ctx.newIU("a", types.Integer)
	b := ctx.newIU("b", types.Double)
	c := ctx.newIU("c", types.String)

	exprs := []Expr{
		NewIURef(a),
		NewConstInt(3),
		NewCall("f", NewIURef(a), NewIURef(b)),
		NewCall("g", NewCall("h", NewIURef(c)), NewConstString("z")),
		NewCall("dup", NewIURef(a), NewIURef(a)),
	}
	all := []*IU{a, b, c}
	for _, e := range exprs {
		text := e.Compile()
		used := e.IUsUsed()
		for _, iu := range all {
			assert.Equal(t,
				used.Contains(iu),
				strings.Contains(text, iu.VarName),
				"%s vs %s", text, iu.VarName)
		}
	}
}
