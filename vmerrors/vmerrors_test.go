package vmerrors_test

import (
	"errors"
	"strings"
	"testing"

	"vm-calc/parser"
	"vm-calc/token"
	"vm-calc/vmerrors"
)

func TestRenderPlainErrorFallsBackToErrorString(t *testing.T) {
	err := errors.New("boom")
	got := vmerrors.Render("anything", err)
	if got != "boom" {
		t.Fatalf("Render() = %q, want %q", got, "boom")
	}
}

func TestRenderSpannedErrorIncludesCaretExcerpt(t *testing.T) {
	src := "let x = :\nx + @"
	col := strings.IndexByte(src, '@')
	err := &parser.Error{
		Kind: parser.Expected,
		Span: token.Span{Start: col, End: col + 1},
		Msg:  "unexpected token",
	}

	got := vmerrors.Render(src, err)

	if !strings.Contains(got, "line 2") {
		t.Fatalf("Render() = %q, want it to mention line 2", got)
	}
	if !strings.Contains(got, "x + @") {
		t.Fatalf("Render() = %q, want it to quote the offending line", got)
	}
	if !strings.Contains(got, "^") {
		t.Fatalf("Render() = %q, want a caret marker", got)
	}
}

func TestRenderUsesOneBasedColumnInHeader(t *testing.T) {
	src := "@bad"
	err := &parser.Error{
		Kind: parser.Expected,
		Span: token.Span{Start: 0, End: 1},
		Msg:  "bad start",
	}

	got := vmerrors.Render(src, err)

	if !strings.Contains(got, "col 1") {
		t.Fatalf("Render() = %q, want col 1 for a Start:0 span", got)
	}
}
