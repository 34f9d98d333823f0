package lexer

import (
	"fmt"

	"vm-calc/token"
)

// Error is the closed set of lexical failures. All of them carry the span
// of the offending source text so callers can render a caret excerpt.
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

type Kind string

const (
	UnexpectedCharacter Kind = "UnexpectedCharacter"
	UnterminatedString  Kind = "UnterminatedString"
	InvalidNumber       Kind = "InvalidNumber"
)

// ErrEOF is the sentinel returned by Next once the source is exhausted. It
// is deliberately distinct from the error Kinds above: the parser treats it
// as a normal terminator, not a lexical failure.
var ErrEOF = fmt.Errorf("end of input")

func unexpectedCharacter(sp token.Span, ch byte) error {
	return &Error{Kind: UnexpectedCharacter, Span: sp, Msg: fmt.Sprintf("unexpected character %q", ch)}
}

func unterminatedString(sp token.Span) error {
	return &Error{Kind: UnterminatedString, Span: sp, Msg: "unterminated string literal"}
}

func invalidNumber(sp token.Span, why string) error {
	return &Error{Kind: InvalidNumber, Span: sp, Msg: why}
}
