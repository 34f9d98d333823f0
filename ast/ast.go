// Package ast defines the spanned abstract syntax tree produced by the
// parser. Every node carries the Span of the source text it was parsed
// from; span containment (a child's span falls inside its parent's) is an
// invariant the parser must uphold and the compiler may rely on.
//
// Unlike nilan's visitor-dispatched Expression/Stmt interfaces, vm-calc's
// grammar collapses statement and expression into one node kind (every
// statement is a single expression), so a single Node interface with a
// type switch in the compiler replaces the double-dispatch Accept/Visitor
// machinery: the tree has two consumers (the compiler and Dump), and a
// type switch over roughly twenty variants in each reads far more directly
// than twenty Visit methods per consumer.
package ast

import "vm-calc/token"

// Node is implemented by every AST variant.
type Node interface {
	Span() token.Span
}

type base struct {
	Sp token.Span
}

func (b base) Span() token.Span { return b.Sp }

// Number is a numeric literal.
type Number struct {
	base
	Value float64
}

// String is a string literal (escapes already decoded by the lexer).
type String struct {
	base
	Value string
}

// Null is the literal `Null` value.
type Null struct{ base }

// Identifier is a bare name in expression position, resolved against the
// runtime symbol environment at execution time.
type Identifier struct {
	base
	Name string
}

// Name is an identifier used only as the head of a by-name function call
// (PartialCall carries its name as a plain string); it is never evaluated
// as a Variable lookup itself.
type Name struct {
	base
	Name string
}

// BinaryOp applies Op to Lhs and Rhs.
type BinaryOp struct {
	base
	Lhs, Rhs Node
	Op       Operator
}

// UnaryOp applies Op (always Add or Sub) to Rhs.
type UnaryOp struct {
	base
	Rhs Node
	Op  Operator
}

// Declare is `let NAME` with no initializer.
type Declare struct {
	base
	Name string
}

// DeclareAssign is `let NAME = value`.
type DeclareAssign struct {
	base
	Name  string
	Value Node
}

// Assign is `name = value` for an already-declared name.
type Assign struct {
	base
	Name  string
	Value Node
}

// AssignOp is a compound assignment, `name += value` and friends.
type AssignOp struct {
	base
	Name  string
	Op    Operator
	Value Node
}

// AssignIndex is `name[i][j]... op= value`, indices ordered outer to inner.
type AssignIndex struct {
	base
	Name    string
	Indices []Node
	Op      Operator
	Value   Node
}

// FunctionDecl is `let NAME a b c = body`. A single argument named "_"
// denotes zero arity.
type FunctionDecl struct {
	base
	Name string
	Args []string
	Body Node
}

// FunctionCall is a call whose head is either a Name (by-name call,
// resolved against the symbol table/runtime symbols) or any other
// expression (a value-call: the callee is computed and must evaluate to a
// Function).
type FunctionCall struct {
	base
	Head Node
	Args []Node
}

// PartialCall is a FunctionCall that the parser proved, at compile time, to
// be an under-application of a known user function.
type PartialCall struct {
	base
	Name string
	Args []Node
}

// Array is an array literal.
type Array struct {
	base
	Elems []Node
}

// Index is `container[index]`.
type Index struct {
	base
	Container Node
	IndexExpr Node
}

// Output wraps an expression whose result must be appended to the current
// session's result list (a REPL line ending in `:`, or any un-terminated
// top-level expression in REPL mode).
type Output struct {
	base
	Inner Node
}

// Delete removes a name from both the Variable and Function symbol
// namespaces.
type Delete struct {
	base
	Name string
}

// Print is the variadic, any-typed `print(...)` form.
type Print struct {
	base
	Args []Node
}

// TypeOf queries the runtime type name of Inner's value.
type TypeOf struct {
	base
	Inner Node
}

func NewNumber(sp token.Span, v float64) Number        { return Number{base{sp}, v} }
func NewString(sp token.Span, v string) String         { return String{base{sp}, v} }
func NewNull(sp token.Span) Null                       { return Null{base{sp}} }
func NewIdentifier(sp token.Span, n string) Identifier { return Identifier{base{sp}, n} }
func NewName(sp token.Span, n string) Name             { return Name{base{sp}, n} }

func NewBinaryOp(sp token.Span, lhs, rhs Node, op Operator) BinaryOp {
	return BinaryOp{base{sp}, lhs, rhs, op}
}

func NewUnaryOp(sp token.Span, rhs Node, op Operator) UnaryOp {
	return UnaryOp{base{sp}, rhs, op}
}

func NewDeclare(sp token.Span, name string) Declare { return Declare{base{sp}, name} }

func NewDeclareAssign(sp token.Span, name string, value Node) DeclareAssign {
	return DeclareAssign{base{sp}, name, value}
}

func NewAssign(sp token.Span, name string, value Node) Assign {
	return Assign{base{sp}, name, value}
}

func NewAssignOp(sp token.Span, name string, op Operator, value Node) AssignOp {
	return AssignOp{base{sp}, name, op, value}
}

func NewAssignIndex(sp token.Span, name string, indices []Node, op Operator, value Node) AssignIndex {
	return AssignIndex{base{sp}, name, indices, op, value}
}

func NewFunctionDecl(sp token.Span, name string, args []string, body Node) FunctionDecl {
	return FunctionDecl{base{sp}, name, args, body}
}

func NewFunctionCall(sp token.Span, head Node, args []Node) FunctionCall {
	return FunctionCall{base{sp}, head, args}
}

func NewPartialCall(sp token.Span, name string, args []Node) PartialCall {
	return PartialCall{base{sp}, name, args}
}

func NewArray(sp token.Span, elems []Node) Array { return Array{base{sp}, elems} }

func NewIndex(sp token.Span, container, index Node) Index {
	return Index{base{sp}, container, index}
}

func NewOutput(sp token.Span, inner Node) Output { return Output{base{sp}, inner} }

func NewDelete(sp token.Span, name string) Delete { return Delete{base{sp}, name} }

func NewPrint(sp token.Span, args []Node) Print { return Print{base{sp}, args} }

func NewTypeOf(sp token.Span, inner Node) TypeOf { return TypeOf{base{sp}, inner} }
