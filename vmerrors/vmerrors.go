// Package vmerrors holds the Span-aware diagnostic formatting shared by
// every pipeline stage. Each stage (lexer, parser, compiler, vm) keeps its
// own typed Error with its own Kind enum, exactly as the teacher keeps
// compiler and interpreter errors in separate files; this package only
// gives the span-carrying ones (lexer, parser, compiler) a single "one
// diagnostic per logical failure, with a caret excerpt" rendering so that
// presentation isn't reimplemented per stage. Runtime errors carry no span
// and Render returns their Error() text unchanged.
package vmerrors

import (
	"fmt"
	"strings"

	"vm-calc/token"
)

// Spanned is implemented by any stage error that can point at a source
// range: lexer.Error, parser.Error and compiler.Error all satisfy it.
type Spanned interface {
	error
	SpanOf() token.Span
}

// Render formats err as a one-line caret excerpt of src: the offending
// line, followed by a line of spaces and carets under the span's extent.
func Render(src string, err error) string {
	spanned, ok := err.(Spanned)
	if !ok {
		return err.Error()
	}
	sp := spanned.SpanOf()
	line, col, lineText := locate(src, sp.Start)
	width := sp.End - sp.Start
	if width < 1 {
		width = 1
	}
	caret := strings.Repeat(" ", col) + strings.Repeat("^", width)
	return fmt.Sprintf("%s\n  --> line %d, col %d\n  %s\n  %s", err.Error(), line, col+1, lineText, caret)
}

// locate converts a byte offset into src to a 1-based line number, a
// 0-based column on that line, and the full text of that line.
func locate(src string, offset int) (line, col int, text string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := strings.IndexByte(src[lineStart:], '\n')
	if lineEnd == -1 {
		text = src[lineStart:]
	} else {
		text = src[lineStart : lineStart+lineEnd]
	}
	col = offset - lineStart
	return line, col, text
}
