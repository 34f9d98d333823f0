package ast

import (
	"testing"

	"vm-calc/token"
)

func TestSpanMonotonicity(t *testing.T) {
	inner := NewNumber(token.Span{Start: 4, End: 5}, 1)
	outer := NewUnaryOp(token.Span{Start: 3, End: 5}, inner, Sub)
	if outer.Span().Start > inner.Span().Start || outer.Span().End < inner.Span().End {
		t.Fatalf("child span %v not contained in parent span %v", inner.Span(), outer.Span())
	}
}

func TestOperatorForPanicsOnNonOperatorToken(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected OperatorFor to panic on a non-operator token")
		}
	}()
	OperatorFor(token.IDENTIFIER)
}

func TestOperatorForCompoundAssignIsDistinctPath(t *testing.T) {
	op, ok := OperatorForCompoundAssign(token.PLUS_EQ)
	if !ok || op != Add {
		t.Fatalf("expected PLUS_EQ -> Add, got %v %v", op, ok)
	}
	if _, ok := OperatorForCompoundAssign(token.PLUS); ok {
		t.Fatal("plain PLUS must not be accepted by OperatorForCompoundAssign")
	}
}
