// Package ir is the flat instruction representation the compiler emits and
// the virtual machine executes. It is deliberately a plain tagged struct
// (an Opcode tag plus a handful of payload fields) rather than nilan's
// byte-packed encoding: the language's function-declaration layout
// invariant (FunctionDecl at index i is always followed by two UData
// cells and then exactly arity ArgumentName cells) is defined in terms of
// instruction *indices*, and indexing into a []byte of variable-width
// encoded operands makes that arithmetic far harder to state and check
// than indexing into a []Instruction.
package ir

import "vm-calc/ast"

// Opcode tags the operation an Instruction performs. Names mirror the
// instruction set named in the language specification directly.
type Opcode int

const (
	Load Opcode = iota
	LoadString
	Binary
	Unary
	LoadSymbolName
	LoadSymbol
	ReloadSymbol
	ReloadSymbolOp
	CallSymbol
	FunctionCall
	PartialCall
	FunctionDecl
	ArgumentName
	Delete
	Print
	UData
	OData
	Array
	Index
	ReloadIndex
	Null
	TypeOf
	Output
	CompileError
	Illegal
)

var names = map[Opcode]string{
	Load:           "Load",
	LoadString:     "LoadString",
	Binary:         "Binary",
	Unary:          "Unary",
	LoadSymbolName: "LoadSymbolName",
	LoadSymbol:     "LoadSymbol",
	ReloadSymbol:   "ReloadSymbol",
	ReloadSymbolOp: "ReloadSymbolOp",
	CallSymbol:     "CallSymbol",
	FunctionCall:   "FunctionCall",
	PartialCall:    "PartialCall",
	FunctionDecl:   "FunctionDecl",
	ArgumentName:   "ArgumentName",
	Delete:         "Delete",
	Print:          "Print",
	UData:          "UData",
	OData:          "OData",
	Array:          "Array",
	Index:          "Index",
	ReloadIndex:    "ReloadIndex",
	Null:           "Null",
	TypeOf:         "TypeOf",
	Output:         "Output",
	CompileError:   "CompileError",
	Illegal:        "Illegal",
}

func (op Opcode) String() string {
	if n, ok := names[op]; ok {
		return n
	}
	return "Unknown"
}

// Instruction is one cell of the flat instruction vector. Not every field
// is meaningful for every Opcode; see the comment on each field for which
// opcodes populate it. Carrying one struct shape (rather than one Go type
// per variant) keeps the vector a plain []Instruction, which is what the
// function-layout and indexed-assignment-reversal passes need to slice and
// splice directly.
type Instruction struct {
	Op Opcode

	// Name holds the symbol/function/argument name for LoadSymbolName,
	// LoadSymbol, ReloadSymbol, ReloadSymbolOp, CallSymbol, FunctionCall
	// (by-name form), PartialCall, FunctionDecl, ArgumentName, Delete,
	// ReloadIndex.
	Name string

	// ByValue is true on FunctionCall when the callee is a computed
	// value on the stack rather than a Name (Name is empty in that case).
	ByValue bool

	// Op2 carries the Operator for Binary, Unary, ReloadSymbolOp, OData,
	// and ReloadIndex.
	Op2 ast.Operator

	// Num carries: the argument/result count for FunctionCall/
	// PartialCall/Array/Print; the value of UData; the depth for
	// ReloadIndex; on Output, nonzero marks a compiler-inserted silent
	// discard (a ";"-terminated statement) rather than a real result.
	Num int

	// Flt carries the numeric literal value for Load.
	Flt float64

	// Str carries the string literal for LoadString.
	Str string
}
