package parser

import (
	"testing"

	"vm-calc/ast"
)

func parseOne(t *testing.T, src string) ast.Node {
	t.Helper()
	p := New(src, nil)
	nodes, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if len(nodes) != 1 {
		t.Fatalf("parse %q: expected 1 statement, got %d", src, len(nodes))
	}
	return nodes[0]
}

func TestPrecedenceClimbing(t *testing.T) {
	node := parseOne(t, "1 + 2 * 3;")
	bin, ok := node.(ast.BinaryOp)
	if !ok {
		t.Fatalf("expected BinaryOp, got %T", node)
	}
	if bin.Op != ast.Add {
		t.Fatalf("expected top-level + (lower precedence binds last), got %v", bin.Op)
	}
	if _, ok := bin.Rhs.(ast.BinaryOp); !ok {
		t.Fatalf("expected rhs to be the nested * expression")
	}
}

func TestExponentBindsTighterThanFactor(t *testing.T) {
	node := parseOne(t, "2 * 3 ** 2;")
	bin := node.(ast.BinaryOp)
	if bin.Op != ast.Mul {
		t.Fatalf("expected top-level *, got %v", bin.Op)
	}
	rhs, ok := bin.Rhs.(ast.BinaryOp)
	if !ok || rhs.Op != ast.Pow {
		t.Fatalf("expected rhs to be **, got %v", bin.Rhs)
	}
}

func TestColonProducesOutput(t *testing.T) {
	node := parseOne(t, "1 + 1 :")
	if _, ok := node.(ast.Output); !ok {
		t.Fatalf("expected Output, got %T", node)
	}
}

func TestSemicolonProducesNoOutput(t *testing.T) {
	node := parseOne(t, "1 + 1;")
	if _, ok := node.(ast.Output); ok {
		t.Fatalf("did not expect Output for semicolon-terminated statement")
	}
}

func TestFunctionDeclWithZeroArity(t *testing.T) {
	node := parseOne(t, "let f _ = 1;")
	fd, ok := node.(ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %T", node)
	}
	if len(fd.Args) != 0 {
		t.Fatalf("expected zero arity for single '_' arg, got %v", fd.Args)
	}
}

func TestSelfRecursiveCallDefersNotAnError(t *testing.T) {
	// At parse time `r` is not yet a known Function symbol while parsing
	// its own body, so `r(x)` must parse successfully as a deferred
	// by-name FunctionCall; recursion detection happens at compile time.
	node := parseOne(t, "let r x = r(x);")
	fd := node.(ast.FunctionDecl)
	call, ok := fd.Body.(ast.FunctionCall)
	if !ok {
		t.Fatalf("expected body to parse as FunctionCall, got %T", fd.Body)
	}
	if _, ok := call.Head.(ast.Name); !ok {
		t.Fatalf("expected by-name call head, got %T", call.Head)
	}
}

func TestPartialCallOnUnderApplication(t *testing.T) {
	p := New("let f x y = x + y; f(1);", nil)
	nodes, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, ok := nodes[1].(ast.PartialCall); !ok {
		t.Fatalf("expected PartialCall for under-application, got %T", nodes[1])
	}
}

func TestArityMismatchOnBuiltin(t *testing.T) {
	p := New("sqrt(1, 2);", nil)
	_, err := p.ParseProgram()
	perr, ok := err.(*Error)
	if !ok || perr.Kind != ArityMismatch {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
}

func TestIndexedAssignmentParsesAsAssignIndex(t *testing.T) {
	node := parseOne(t, "xs[1][0] += 10;")
	ai, ok := node.(ast.AssignIndex)
	if !ok {
		t.Fatalf("expected AssignIndex, got %T", node)
	}
	if len(ai.Indices) != 2 || ai.Op != ast.Add {
		t.Fatalf("unexpected AssignIndex shape: %+v", ai)
	}
}

func TestDeleteUnknownSymbolIsAnError(t *testing.T) {
	p := New("delete nope;", nil)
	_, err := p.ParseProgram()
	perr, ok := err.(*Error)
	if !ok || perr.Kind != UnknownSymbolToDelete {
		t.Fatalf("expected UnknownSymbolToDelete, got %v", err)
	}
}

func TestBuiltinNameCannotBeDeclared(t *testing.T) {
	p := New("let sin = 1;", nil)
	_, err := p.ParseProgram()
	perr, ok := err.(*Error)
	if !ok || perr.Kind != BuiltinOverwrite {
		t.Fatalf("expected BuiltinOverwrite, got %v", err)
	}
}

func TestFunctionBodyScopeIsRestoredAfterParsing(t *testing.T) {
	p := New("let f x = x;", nil)
	if _, err := p.ParseProgram(); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p.Table().IsVariable("x") {
		t.Fatalf("expected parameter 'x' to not leak into the outer symbol table")
	}
}

func TestReplModeWrapsUnterminatedExpressionInOutput(t *testing.T) {
	p := New("1 + 1", nil)
	p.ReplMode = true
	nodes, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, ok := nodes[0].(ast.Output); !ok {
		t.Fatalf("expected implicit Output in REPL mode, got %T", nodes[0])
	}
}
