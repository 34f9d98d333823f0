package token

import "testing"

func TestJoin(t *testing.T) {
	cases := []struct {
		a, b, want Span
	}{
		{Span{0, 3}, Span{3, 5}, Span{0, 5}},
		{Span{2, 4}, Span{0, 1}, Span{0, 4}},
		{Span{0, 10}, Span{2, 3}, Span{0, 10}},
	}
	for _, c := range cases {
		got := Join(c.a, c.b)
		if got != c.want {
			t.Errorf("Join(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestCompoundAssignOpsCoverAllVariants(t *testing.T) {
	want := []Type{PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ, STARSTAR_EQ, AMP_EQ, PIPE_EQ, CARET_EQ, SHL_EQ, SHR_EQ}
	for _, tt := range want {
		if _, ok := CompoundAssignOps[tt]; !ok {
			t.Errorf("CompoundAssignOps missing entry for %s", tt)
		}
	}
}

func TestKeyWords(t *testing.T) {
	if KeyWords["let"] != LET {
		t.Errorf("expected let -> LET")
	}
	if _, ok := KeyWords["notakeyword"]; ok {
		t.Errorf("did not expect notakeyword to be a keyword")
	}
}
