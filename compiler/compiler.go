// Package compiler lowers vm-calc's AST into the flat instruction vector
// the virtual machine executes. Lowering is post-order and direct except
// for three cases called out in the language specification: function
// declaration layout, conservative recursion detection, and the
// outer-first reversal of indexed-assignment index expressions.
package compiler

import "vm-calc/ast"
import "vm-calc/ir"

// Compiler accumulates the cross-function call graph (which user function
// calls which) across every Compile invocation it serves, so that the
// REPL's per-line compiles can still detect a cycle introduced by a
// function declared on one line calling a function declared on an
// earlier one.
type Compiler struct {
	// calls maps a declared function's name to the names it calls
	// directly (by-name FunctionCall/PartialCall targets found in its
	// body), recorded as each FunctionDecl is compiled.
	calls map[string][]string
}

// New returns a Compiler with an empty call graph.
func New() *Compiler {
	return &Compiler{calls: make(map[string][]string)}
}

// Compile lowers a batch of top-level statements (typically the whole
// program, or one REPL line) into a flat instruction vector. On any
// compile-time error the whole result collapses to a single CompileError
// instruction, per the language's propagation policy: a CompileError
// gates execution entirely rather than partially running.
func (c *Compiler) Compile(nodes []ast.Node) ([]ir.Instruction, error) {
	var out []ir.Instruction
	for _, n := range nodes {
		if err := c.emit(&out, n); err != nil {
			return []ir.Instruction{{Op: ir.CompileError}}, err
		}
		// Every statement leaves exactly one value on the stack: an ordinary
		// expression leaves its result, and a FunctionDecl leaves the
		// *value.Function it just declared (vm.declareFunction pushes it so
		// that "let f x = ... :" can be Output-wrapped like any other
		// expression). An Output-wrapped statement already consumes that
		// value. A silently-terminated (";") statement would otherwise leave
		// it on the stack forever, growing it across every statement in the
		// program - emit a silent Output (Num=1) to discard it and keep the
		// stack-balance invariant across statement boundaries.
		switch n.(type) {
		case ast.Output:
		default:
			out = append(out, ir.Instruction{Op: ir.Output, Num: 1})
		}
	}
	return out, nil
}

func (c *Compiler) emit(out *[]ir.Instruction, node ast.Node) error {
	switch n := node.(type) {
	case ast.Number:
		*out = append(*out, ir.Instruction{Op: ir.Load, Flt: n.Value})
	case ast.String:
		*out = append(*out, ir.Instruction{Op: ir.LoadString, Str: n.Value})
	case ast.Null:
		*out = append(*out, ir.Instruction{Op: ir.Null})
	case ast.Identifier:
		*out = append(*out, ir.Instruction{Op: ir.CallSymbol, Name: n.Name})

	case ast.BinaryOp:
		if err := c.emit(out, n.Lhs); err != nil {
			return err
		}
		if err := c.emit(out, n.Rhs); err != nil {
			return err
		}
		*out = append(*out, ir.Instruction{Op: ir.Binary, Op2: n.Op})

	case ast.UnaryOp:
		if err := c.emit(out, n.Rhs); err != nil {
			return err
		}
		*out = append(*out, ir.Instruction{Op: ir.Unary, Op2: n.Op})

	case ast.Declare:
		*out = append(*out, ir.Instruction{Op: ir.LoadSymbolName, Name: n.Name})

	case ast.DeclareAssign:
		if err := c.emit(out, n.Value); err != nil {
			return err
		}
		*out = append(*out, ir.Instruction{Op: ir.LoadSymbol, Name: n.Name})

	case ast.Assign:
		if err := c.emit(out, n.Value); err != nil {
			return err
		}
		*out = append(*out, ir.Instruction{Op: ir.ReloadSymbol, Name: n.Name})

	case ast.AssignOp:
		if err := c.emit(out, n.Value); err != nil {
			return err
		}
		*out = append(*out, ir.Instruction{Op: ir.ReloadSymbolOp, Name: n.Name})
		*out = append(*out, ir.Instruction{Op: ir.OData, Op2: n.Op})

	case ast.AssignIndex:
		return c.emitAssignIndex(out, n)

	case ast.FunctionDecl:
		return c.emitFunctionDecl(out, n)

	case ast.FunctionCall:
		return c.emitFunctionCall(out, n)

	case ast.PartialCall:
		for _, a := range n.Args {
			if err := c.emit(out, a); err != nil {
				return err
			}
		}
		*out = append(*out, ir.Instruction{Op: ir.PartialCall, Name: n.Name, Num: len(n.Args)})

	case ast.Array:
		for _, e := range n.Elems {
			if err := c.emit(out, e); err != nil {
				return err
			}
		}
		*out = append(*out, ir.Instruction{Op: ir.Array, Num: len(n.Elems)})

	case ast.Index:
		if err := c.emit(out, n.Container); err != nil {
			return err
		}
		if err := c.emit(out, n.IndexExpr); err != nil {
			return err
		}
		*out = append(*out, ir.Instruction{Op: ir.Index})

	case ast.Output:
		if err := c.emit(out, n.Inner); err != nil {
			return err
		}
		*out = append(*out, ir.Instruction{Op: ir.Output})

	case ast.Delete:
		*out = append(*out, ir.Instruction{Op: ir.Delete, Name: n.Name})

	case ast.Print:
		for _, a := range n.Args {
			if err := c.emit(out, a); err != nil {
				return err
			}
		}
		*out = append(*out, ir.Instruction{Op: ir.Print, Num: len(n.Args)})

	case ast.TypeOf:
		if err := c.emit(out, n.Inner); err != nil {
			return err
		}
		*out = append(*out, ir.Instruction{Op: ir.TypeOf})

	default:
		*out = append(*out, ir.Instruction{Op: ir.Illegal})
	}
	return nil
}

func (c *Compiler) emitFunctionCall(out *[]ir.Instruction, n ast.FunctionCall) error {
	if name, ok := n.Head.(ast.Name); ok {
		for _, a := range n.Args {
			if err := c.emit(out, a); err != nil {
				return err
			}
		}
		*out = append(*out, ir.Instruction{Op: ir.FunctionCall, Name: name.Name, Num: len(n.Args)})
		return nil
	}
	if err := c.emit(out, n.Head); err != nil {
		return err
	}
	for _, a := range n.Args {
		if err := c.emit(out, a); err != nil {
			return err
		}
	}
	*out = append(*out, ir.Instruction{Op: ir.FunctionCall, ByValue: true, Num: len(n.Args)})
	return nil
}

// emitAssignIndex emits the value expression, then the index expressions
// in reverse block order (so the VM, popping LIFO, sees the outermost
// index first), then the ReloadIndex instruction itself.
func (c *Compiler) emitAssignIndex(out *[]ir.Instruction, n ast.AssignIndex) error {
	if err := c.emit(out, n.Value); err != nil {
		return err
	}
	groups := make([][]ir.Instruction, len(n.Indices))
	for i, idx := range n.Indices {
		var g []ir.Instruction
		if err := c.emit(&g, idx); err != nil {
			return err
		}
		groups[i] = g
	}
	for i := len(groups) - 1; i >= 0; i-- {
		*out = append(*out, groups[i]...)
	}
	*out = append(*out, ir.Instruction{Op: ir.ReloadIndex, Name: n.Name, Num: len(n.Indices), Op2: n.Op})
	return nil
}

// emitFunctionDecl lays out a function declaration inline: FunctionDecl,
// two UData metadata cells (arity, body length), `arity` ArgumentName
// cells, then the body. It then runs the two conservative recursion
// checks described in the language specification.
func (c *Compiler) emitFunctionDecl(out *[]ir.Instruction, fd ast.FunctionDecl) error {
	*out = append(*out, ir.Instruction{Op: ir.FunctionDecl, Name: fd.Name})
	bodyLenIdx := len(*out) + 1
	*out = append(*out, ir.Instruction{Op: ir.UData, Num: len(fd.Args)})
	*out = append(*out, ir.Instruction{Op: ir.UData, Num: 0}) // back-patched below
	for _, a := range fd.Args {
		*out = append(*out, ir.Instruction{Op: ir.ArgumentName, Name: a})
	}
	bodyStart := len(*out)
	if err := c.emit(out, fd.Body); err != nil {
		return err
	}
	bodyEnd := len(*out)
	(*out)[bodyLenIdx].Num = bodyEnd - bodyStart

	called := collectCalledNames((*out)[bodyStart:bodyEnd])
	for _, name := range called {
		if name == fd.Name {
			return errSelfRecursive(fd.Name, fd.Span())
		}
	}
	for _, callee := range called {
		for _, calleeCalls := range c.calls[callee] {
			if calleeCalls == fd.Name {
				return errRecursionDetected(fd.Name, fd.Span())
			}
		}
	}
	c.calls[fd.Name] = called
	return nil
}

func collectCalledNames(instrs []ir.Instruction) []string {
	var names []string
	for _, in := range instrs {
		if in.ByValue || in.Name == "" {
			continue
		}
		if in.Op == ir.FunctionCall || in.Op == ir.PartialCall {
			names = append(names, in.Name)
		}
	}
	return names
}
