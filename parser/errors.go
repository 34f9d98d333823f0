package parser

import (
	"fmt"

	"vm-calc/token"
)

// Kind is the closed set of parse-time error kinds named in the language
// specification.
type Kind string

const (
	Expected              Kind = "Expected"
	UnexpectedEOF         Kind = "UnexpectedEOF"
	BuiltinOverwrite      Kind = "BuiltinOverwrite"
	UnknownSymbolToDelete Kind = "UnknownSymbolToDelete"
	ArityMismatch         Kind = "ArityMismatch"
	InvalidStatement      Kind = "InvalidStatement"
	InternalParseError    Kind = "InternalParseError"
	// NoResult is a sentinel for empty input; it is not a user-facing
	// error and callers should treat it as "nothing to do" rather than
	// report it.
	NoResult Kind = "NoResult"
)

// Error is a parse-time diagnostic, always anchored to a Span.
type Error struct {
	Kind Kind
	Span token.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Span, e.Msg)
}

// SpanOf lets vmerrors.Render locate a caret excerpt for this error.
func (e *Error) SpanOf() token.Span { return e.Span }

func errExpected(sp token.Span, want string, got token.Token) error {
	return &Error{Kind: Expected, Span: sp, Msg: fmt.Sprintf("expected %s, found %s %q", want, got.Type, got.Lexeme)}
}

func errUnexpectedEOF(sp token.Span, context string) error {
	return &Error{Kind: UnexpectedEOF, Span: sp, Msg: fmt.Sprintf("unexpected end of input while parsing %s", context)}
}

func errBuiltinOverwrite(sp token.Span, name string) error {
	return &Error{Kind: BuiltinOverwrite, Span: sp, Msg: fmt.Sprintf("%q is a builtin and cannot be redefined or deleted", name)}
}

func errUnknownSymbolToDelete(sp token.Span, name string) error {
	return &Error{Kind: UnknownSymbolToDelete, Span: sp, Msg: fmt.Sprintf("no symbol named %q to delete", name)}
}

func errArityMismatch(sp token.Span, name string, expected, got int) error {
	return &Error{Kind: ArityMismatch, Span: sp, Msg: fmt.Sprintf("%q expects %d argument(s), got %d", name, expected, got)}
}

func errInvalidStatement(sp token.Span, msg string) error {
	return &Error{Kind: InvalidStatement, Span: sp, Msg: msg}
}
