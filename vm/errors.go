package vm

import "fmt"

// Kind is the closed set of runtime error kinds.
type Kind string

const (
	InvalidBytecode    Kind = "InvalidBytecode"
	DivideByZero       Kind = "DivideByZero"
	ModuloByZero       Kind = "ModuloByZero"
	TypeMismatch       Kind = "TypeMismatch"
	IndexingOutOfBounds Kind = "IndexingOutOfBounds"
	IndexingNonArray   Kind = "IndexingNonArray"
	UnknownSymbol      Kind = "UnknownSymbol"
	NotCallable        Kind = "NotCallable"
	TooManyArguments   Kind = "TooManyArguments"
	MissingArgument    Kind = "MissingArgument"
)

// Error is a runtime diagnostic. A runtime Error aborts the current
// execution only; the REPL preserves its symbols and continues.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Msg) }

func errInvalidBytecode(msg string) error   { return &Error{Kind: InvalidBytecode, Msg: msg} }
func errDivideByZero() error                { return &Error{Kind: DivideByZero, Msg: "division by zero"} }
func errModuloByZero() error                { return &Error{Kind: ModuloByZero, Msg: "modulo by zero"} }
func errUnknownSymbol(name string) error {
	return &Error{Kind: UnknownSymbol, Msg: fmt.Sprintf("unknown symbol %q", name)}
}
func errNotCallable(name string) error {
	return &Error{Kind: NotCallable, Msg: fmt.Sprintf("%q is not callable", name)}
}
func errTooManyArguments() error {
	return &Error{Kind: TooManyArguments, Msg: "too many arguments supplied"}
}
func errMissingArgument(name string) error {
	return &Error{Kind: MissingArgument, Msg: fmt.Sprintf("missing argument %q", name)}
}
func errIndexingOutOfBounds() error {
	return &Error{Kind: IndexingOutOfBounds, Msg: "index out of bounds"}
}
func errIndexingNonArray() error {
	return &Error{Kind: IndexingNonArray, Msg: "value is not an array"}
}
func errTypeMismatch(op, lhsType, rhsType string) error {
	return &Error{Kind: TypeMismatch, Msg: fmt.Sprintf("operator %s not defined for %s and %s", op, lhsType, rhsType)}
}
