package value

import "testing"

func TestTypeOfIsIdempotent(t *testing.T) {
	x := Number(3)
	first := TypeOf(x)
	second := TypeOf(first)
	if second.TypeName() != "{String}" {
		t.Fatalf("typeof typeof x = %s, want {String}", second.TypeName())
	}
}

func TestArrayIsReferenceSemantics(t *testing.T) {
	arr := NewArray([]Value{Number(1), Number(2)})
	captured := Value(arr)
	arr.Elems[0] = Number(99)
	if captured.(*Array).Elems[0] != Value(Number(99)) {
		t.Fatalf("expected captured array to observe the mutation, got %v", captured.Display())
	}
}

func TestFunctionCloneDoesNotAliasPartial(t *testing.T) {
	fn := &Function{Arity: 2}
	clone := fn.Clone()
	clone.IsPartial = append(clone.IsPartial, Number(1))
	if len(fn.IsPartial) != 0 {
		t.Fatalf("expected original function's IsPartial untouched, got %v", fn.IsPartial)
	}
}

func TestPartialFunctionTypeName(t *testing.T) {
	fn := &Function{Arity: 2, IsPartial: []Value{Number(1)}}
	if fn.TypeName() != "{PartialFunction}" {
		t.Fatalf("got %s", fn.TypeName())
	}
}
