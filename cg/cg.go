// Package cg is the code generation core: the produce/consume
// protocol that turns an operator tree into the body of a tight
// nested-loop C++ program. The emitted text references a free
// variable `db` (the database handle) whose accessor surface is
// db.<relation>.tupleCount and db.<relation>.<attribute>[i].
package cg

import (
	"fmt"
	"strings"

	"github.com/dianpeng/plan2cc/types"
)

// Context carries everything one compilation mutates: the output sink
// and the two monotonic counters (IU name suffixes, Fresh names).
// Each compilation owns its own Context, so two queries can be
// compiled side by side without aliasing generated names, and the
// emitted text for a given tree is deterministic across runs.
type Context struct {
	buf        strings.Builder
	iuCounter  int
	varCounter int
}

func NewContext() *Context {
	return &Context{}
}

// Emit appends one line of target source.
func (c *Context) Emit(format string, args ...interface{}) {
	fmt.Fprintf(&c.buf, format, args...)
	c.buf.WriteString("\n")
}

// Block emits header followed by "{", runs body, then emits "}".
// header may be empty.
func (c *Context) Block(header string, body func()) {
	c.buf.WriteString(header)
	c.buf.WriteString("{\n")
	body()
	c.buf.WriteString("}\n")
}

// Fresh returns base with a monotonically increasing suffix, unique
// within this compilation.
func (c *Context) Fresh(base string) string {
	c.varCounter++
	return fmt.Sprintf("%s%d", base, c.varCounter)
}

// Source returns everything emitted so far.
func (c *Context) Source() string {
	return c.buf.String()
}

// newIU mints an IU handle. The id doubles as the varname suffix and
// as the identity ordering key of IUSet.
func (c *Context) newIU(name string, t types.Type) *IU {
	c.iuCounter++
	return &IU{
		Name:    name,
		Type:    t,
		VarName: fmt.Sprintf("%s%d", name, c.iuCounter),
		id:      c.iuCounter,
	}
}

// provide binds an IU to a value in the current scope. This is the
// sole mechanism by which IUs become visible to downstream code.
func (c *Context) provide(iu *IU, value string) {
	c.Emit("%s %s = %s;", iu.Type.Name(), iu.VarName, value)
}

// formatTypes renders a comma separated list of IU type names.
func formatTypes(ius []*IU) string {
	parts := make([]string, 0, len(ius))
	for _, iu := range ius {
		parts = append(parts, iu.Type.Name())
	}
	return strings.Join(parts, ",")
}

// formatVarNames renders a comma separated list of IU varnames.
func formatVarNames(ius []*IU) string {
	parts := make([]string, 0, len(ius))
	for _, iu := range ius {
		parts = append(parts, iu.VarName)
	}
	return strings.Join(parts, ",")
}
