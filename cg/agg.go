package cg

import (
	"fmt"
)

// Aggregate is one grouped accumulator slot. The set of strategies is
// open: anything that can seed a slot from the current row bindings
// and update it in place can plug into GroupBy.
type Aggregate interface {
	// Result is the IU carrying the aggregate value in the emit
	// phase.
	Result() *IU

	// Input is the aggregated IU, nil when the strategy reads no
	// input (Count).
	Input() *IU

	// Init renders the expression seeding the slot for a fresh
	// group, evaluated against the current row bindings.
	Init() string

	// Update renders the statement folding the current row into an
	// existing slot, addressed by lvalue.
	Update(lvalue string) string
}

type countAgg struct {
	result *IU
}

func (a *countAgg) Result() *IU { return a.result }
func (a *countAgg) Input() *IU  { return nil }
func (a *countAgg) Init() string {
	return "1"
}
func (a *countAgg) Update(lvalue string) string {
	return fmt.Sprintf("%s++;", lvalue)
}

type sumAgg struct {
	input  *IU
	result *IU
}

func (a *sumAgg) Result() *IU { return a.result }
func (a *sumAgg) Input() *IU  { return a.input }
func (a *sumAgg) Init() string {
	return a.input.VarName
}
func (a *sumAgg) Update(lvalue string) string {
	return fmt.Sprintf("%s += %s;", lvalue, a.input.VarName)
}

type minAgg struct {
	input  *IU
	result *IU
}

func (a *minAgg) Result() *IU { return a.result }
func (a *minAgg) Input() *IU  { return a.input }
func (a *minAgg) Init() string {
	return a.input.VarName
}
func (a *minAgg) Update(lvalue string) string {
	return fmt.Sprintf("%s = std::min(%s, %s);", lvalue, lvalue, a.input.VarName)
}

type maxAgg struct {
	input  *IU
	result *IU
}

func (a *maxAgg) Result() *IU { return a.result }
func (a *maxAgg) Input() *IU  { return a.input }
func (a *maxAgg) Init() string {
	return a.input.VarName
}
func (a *maxAgg) Update(lvalue string) string {
	return fmt.Sprintf("%s = std::max(%s, %s);", lvalue, lvalue, a.input.VarName)
}
