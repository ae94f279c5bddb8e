package cg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dianpeng/plan2cc/types"
)

// Expr is a compile-time expression tree. Compile renders the target
// language text, IUsUsed the set of IUs the text references.
// Expressions own their arguments exclusively.
type Expr interface {
	Compile() string
	IUsUsed() IUSet
}

// IURef references a single IU.
type IURef struct {
	IU *IU
}

func NewIURef(iu *IU) *IURef {
	return &IURef{IU: iu}
}

func (e *IURef) Compile() string {
	return e.IU.VarName
}

func (e *IURef) IUsUsed() IUSet {
	return NewIUSet(e.IU)
}

// Const is a literal of a concrete type.
type Const struct {
	Ty   types.Type
	Int  int64
	Real float64
	Bool bool
	Str  string
	Char byte
	Date types.DateValue
}

func NewConstInt(x int32) *Const {
	return &Const{Ty: types.Integer, Int: int64(x)}
}

func NewConstBigInt(x int64) *Const {
	return &Const{Ty: types.BigInt, Int: x}
}

func NewConstDouble(x float64) *Const {
	return &Const{Ty: types.Double, Real: x}
}

func NewConstBool(x bool) *Const {
	return &Const{Ty: types.Bool, Bool: x}
}

func NewConstString(x string) *Const {
	return &Const{Ty: types.String, Str: x}
}

func NewConstChar(x byte) *Const {
	return &Const{Ty: types.Char, Char: x}
}

// NewConstDate renders as the integer day encoding, so comparisons in
// the emitted program resolve to integer comparisons.
func NewConstDate(x types.DateValue) *Const {
	return &Const{Ty: types.Date, Date: x}
}

func (e *Const) Compile() string {
	switch e.Ty {
	case types.Integer, types.BigInt:
		return strconv.FormatInt(e.Int, 10)
	case types.Double:
		return strconv.FormatFloat(e.Real, 'f', -1, 64)
	case types.Bool:
		if e.Bool {
			return "true"
		}
		return "false"
	case types.String:
		return fmt.Sprintf("%q", e.Str)
	case types.Char:
		return fmt.Sprintf("'%c'", e.Char)
	case types.Date:
		return strconv.FormatInt(int64(e.Date.Value), 10)
	default:
		panic(fmt.Sprintf("constant of type %s cannot be compiled", e.Ty))
	}
}

func (e *Const) IUsUsed() IUSet {
	return IUSet{}
}

// Call is a function call with a textual function name. The name can
// carry an instantiation, e.g. "std::less<int32_t>()".
type Call struct {
	Name string
	Args []Expr
}

func NewCall(name string, args ...Expr) *Call {
	return &Call{Name: name, Args: args}
}

func (e *Call) Compile() string {
	parts := make([]string, 0, len(e.Args))
	for _, a := range e.Args {
		parts = append(parts, a.Compile())
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ","))
}

func (e *Call) IUsUsed() IUSet {
	var out IUSet
	for _, a := range e.Args {
		for _, iu := range a.IUsUsed().IUs() {
			out.Add(iu)
		}
	}
	return out
}
