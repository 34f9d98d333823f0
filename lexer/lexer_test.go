package lexer

import (
	"testing"

	"vm-calc/token"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var out []token.Token
	for {
		tok, err := l.Next()
		if err == ErrEOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected lex error on %q: %v", src, err)
		}
		out = append(out, tok)
	}
}

func TestSimpleOperators(t *testing.T) {
	toks := collect(t, "1 + 2 ** 3")
	want := []token.Type{token.NUMBER, token.PLUS, token.NUMBER, token.STARSTAR, token.NUMBER}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestGreedyCompoundAssign(t *testing.T) {
	toks := collect(t, "x **= 2")
	if toks[1].Type != token.STARSTAR_EQ {
		t.Errorf("expected **= to lex greedily, got %s", toks[1].Type)
	}
}

func TestNumberBases(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"0b101", 5},
		{"0o17", 15},
		{"0x1F", 31},
		{"3.25", 3.25},
	}
	for _, c := range cases {
		toks := collect(t, c.src)
		if len(toks) != 1 || toks[0].Type != token.NUMBER {
			t.Fatalf("%q: expected single NUMBER token, got %v", c.src, toks)
		}
		if toks[0].Literal.(float64) != c.want {
			t.Errorf("%q: got %v, want %v", c.src, toks[0].Literal, c.want)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := collect(t, `"a\nb\tc"`)
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d", len(toks))
	}
	if toks[0].Literal.(string) != "a\nb\tc" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	_, err := l.Next()
	lexErr, ok := err.(*Error)
	if !ok || lexErr.Kind != UnterminatedString {
		t.Fatalf("expected UnterminatedString error, got %v", err)
	}
}

func TestLineComment(t *testing.T) {
	toks := collect(t, "1 // this is ignored\n+ 2")
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(toks), toks)
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := collect(t, "let delete typeof Null foo_bar")
	want := []token.Type{token.LET, token.DELETE, token.TYPEOF, token.NULL, token.IDENTIFIER}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}
