package compiler

import (
	"fmt"

	"vm-calc/token"
)

// Kind is the closed set of compile-time error kinds.
type Kind string

const (
	RecursionDetected    Kind = "RecursionDetected"
	SelfRecursiveFunction Kind = "SelfRecursiveFunction"
)

// Error is a compile-time diagnostic. Per the language's error propagation
// policy, any compiler Error causes the whole compiled unit to be replaced
// by a single CompileError instruction; the VM refuses to run it.
type Error struct {
	Kind Kind
	Span token.Span
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: function %q at %s", e.Kind, e.Name, e.Span)
}

// SpanOf lets vmerrors.Render locate a caret excerpt for this error.
func (e *Error) SpanOf() token.Span { return e.Span }

func errSelfRecursive(name string, sp token.Span) error {
	return &Error{Kind: SelfRecursiveFunction, Span: sp, Name: name}
}

func errRecursionDetected(name string, sp token.Span) error {
	return &Error{Kind: RecursionDetected, Span: sp, Name: name}
}
