package types

import (
	"github.com/cockroachdb/errors"
)

// Logical column types, ordered so they can be indexed. The textual
// name of each concrete type is the spelling used in generated code.
type Type uint8

const (
	Integer Type = iota // int32_t
	Double              // double
	Char                // char
	String              // std::string_view, borrowed byte span
	BigInt              // int64_t
	Bool                // bool
	Date                // date, 32 bit julian day
	Undefined           // internal handles, concrete type inferred by the target compiler
)

var typeNames = [...]string{
	Integer: "int32_t",
	Double:  "double",
	Char:    "char",
	String:  "std::string_view",
	BigInt:  "int64_t",
	Bool:    "bool",
	Date:    "date",
}

// Name returns the target language spelling of a concrete type.
// Undefined has no spelling; asking for it is a caller bug.
func (t Type) Name() string {
	if t >= Undefined {
		panic(errors.AssertionFailedf("type %d has no target name", t))
	}
	return typeNames[t]
}

func (t Type) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Double:
		return "Double"
	case Char:
		return "Char"
	case String:
		return "String"
	case BigInt:
		return "BigInt"
	case Bool:
		return "Bool"
	case Date:
		return "Date"
	default:
		return "Undefined"
	}
}
