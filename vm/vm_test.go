package vm_test

import (
	"strings"
	"testing"

	"vm-calc/compiler"
	"vm-calc/parser"
	"vm-calc/value"
	"vm-calc/vm"
)

// run compiles and executes src against a fresh VM and returns the Display
// strings of every Output it produced, matching how the REPL renders a
// "Results:" line.
func run(t *testing.T, m *vm.VM, src string) []string {
	t.Helper()
	p := parser.New(src, nil)
	nodes, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	outputs, err := m.Run(instrs)
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	results := make([]string, len(outputs))
	for i, v := range outputs {
		results[i] = v.Display()
	}
	return results
}

func TestScenario1LetAndArithmetic(t *testing.T) {
	m := vm.New()
	got := run(t, m, "let a = 2 ** 10 : a + 1 :")
	want := []string{"1024", "1025"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScenario2PartialApplication(t *testing.T) {
	m := vm.New()
	got := run(t, m, "let f x y = x * 10 + y : let g = f(3) : g(7) :")
	if len(got) != 3 {
		t.Fatalf("expected 3 outputs, got %v", got)
	}
	if got[2] != "37" {
		t.Fatalf("expected final output 37, got %s", got[2])
	}
}

// TestMultiStepPartialApplicationThroughVariable covers under-application
// when the callee is resolved at runtime rather than known at compile
// time: "p(2)" compiles as a runtime FunctionCall (the parser's Table only
// knows p as a Variable), and it must itself still return a further-partial
// Function rather than erroring, exactly like a PartialCall would.
func TestMultiStepPartialApplicationThroughVariable(t *testing.T) {
	m := vm.New()
	got := run(t, m, "let f a b c = a + b + c : let p = f(1) : let q = p(2) : q(3) :")
	if len(got) != 4 {
		t.Fatalf("expected 4 outputs, got %v", got)
	}
	if got[3] != "6" {
		t.Fatalf("expected final output 6, got %s", got[3])
	}
}

func TestScenario3NestedIndexedAssignment(t *testing.T) {
	m := vm.New()
	got := run(t, m, "let xs = [[1,2],[3,4]] : xs[1][0] += 10 : xs[1][0] :")
	want := []string{"[<Array> [1, 2], <Array> [13, 4]]", "13", "13"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScenario4StringConcatThenTypeMismatch(t *testing.T) {
	m := vm.New()
	got := run(t, m, `"foo" + "bar" :`)
	if len(got) != 1 || got[0] != "foobar" {
		t.Fatalf("got %v", got)
	}

	p := parser.New(`"foo" + 1 :`, nil)
	nodes, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := m.Run(instrs); err == nil {
		t.Fatalf("expected a TypeMismatch runtime error")
	} else if verr, ok := err.(*vm.Error); !ok || verr.Kind != vm.TypeMismatch {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestScenario5ZeroArityFunctionCalledTwice(t *testing.T) {
	m := vm.New()
	got := run(t, m, "let a _ = 1 : a() + a() :")
	if len(got) != 2 || got[1] != "2" {
		t.Fatalf("got %v", got)
	}
}

func TestDivideByZero(t *testing.T) {
	m := vm.New()
	p := parser.New("1 / 0 :", nil)
	nodes, _ := p.ParseProgram()
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	_, err = m.Run(instrs)
	verr, ok := err.(*vm.Error)
	if !ok || verr.Kind != vm.DivideByZero {
		t.Fatalf("expected DivideByZero, got %v", err)
	}
}

func TestRuntimeErrorPreservesSymbols(t *testing.T) {
	m := vm.New()
	run(t, m, "let a = 5 :")
	p := parser.New("1 / 0 :", nil)
	nodes, _ := p.ParseProgram()
	instrs, _ := compiler.New().Compile(nodes)
	if _, err := m.Run(instrs); err == nil {
		t.Fatalf("expected an error")
	}
	if _, ok := m.Symbols["a"]; !ok {
		t.Fatalf("expected symbol 'a' to survive a later runtime error")
	}
}

func TestStackBalanceAfterStatement(t *testing.T) {
	m := vm.New()
	p := parser.New("let a = 1 + 2;", nil)
	nodes, _ := p.ParseProgram()
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := m.Run(instrs); err != nil {
		t.Fatalf("run: %v", err)
	}
	v, ok := m.Symbols["a"]
	if !ok {
		t.Fatalf("expected symbol 'a'")
	}
	if n, ok := v.(value.Number); !ok || n != 3 {
		t.Fatalf("expected a=3, got %v", v)
	}
	if d := m.StackDepth(); d != 0 {
		t.Fatalf("expected the operand stack to return to depth 0 after a ';'-terminated statement, got %d", d)
	}
}

func TestStackBalanceAcrossManySilentStatements(t *testing.T) {
	m := vm.New()
	p := parser.New("let a = 1; let b = 2; a + b; delete a; let c = [1,2,3]; c[0] += 1;", nil)
	nodes, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	outputs, err := m.Run(instrs)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(outputs) != 0 {
		t.Fatalf("expected no Results from silently-terminated statements, got %v", outputs)
	}
	if d := m.StackDepth(); d != 0 {
		t.Fatalf("expected the operand stack to return to depth 0 after a run of ';'-terminated statements, got %d", d)
	}
}

func TestStackBalanceAfterSemicolonTerminatedFunctionDecl(t *testing.T) {
	m := vm.New()
	p := parser.New("let f x = x; 1;", nil)
	nodes, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := m.Run(instrs); err != nil {
		t.Fatalf("run: %v", err)
	}
	if d := m.StackDepth(); d != 0 {
		t.Fatalf("expected the operand stack to return to depth 0 after a ';'-terminated function declaration, got %d", d)
	}
}

func TestBuiltinCall(t *testing.T) {
	m := vm.New()
	got := run(t, m, "sqrt(16) :")
	if len(got) != 1 || got[0] != "4" {
		t.Fatalf("got %v", got)
	}
}

func TestUnknownSymbol(t *testing.T) {
	m := vm.New()
	p := parser.New("nope + 1 :", nil)
	nodes, _ := p.ParseProgram()
	instrs, err := compiler.New().Compile(nodes)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	_, err = m.Run(instrs)
	verr, ok := err.(*vm.Error)
	if !ok || verr.Kind != vm.UnknownSymbol {
		t.Fatalf("expected UnknownSymbol, got %v", err)
	}
}
