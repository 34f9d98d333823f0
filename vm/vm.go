// Package vm executes the compiler's flat instruction vector against a
// persistent symbol table. A single VM is reused across REPL lines: its
// Symbols map survives from one Run to the next, while its operand stack
// and the set of Outputs collected are reset at the start of each Run.
package vm

import (
	"fmt"
	"io"

	"vm-calc/ast"
	"vm-calc/builtins"
	"vm-calc/ir"
	"vm-calc/value"
)

// VM holds the runtime state shared across every execution in a session.
type VM struct {
	// Symbols is the single flat variable/function environment described
	// in the language design: one binding per name, whichever kind (a
	// plain value or a *value.Function) was bound to it last.
	Symbols map[string]value.Value

	// Stdout receives print's output. Defaults to io.Discard if left nil
	// by a caller that only cares about Outputs.
	Stdout io.Writer

	stack []value.Value
}

// New returns a VM with an empty symbol table.
func New() *VM {
	return &VM{Symbols: make(map[string]value.Value)}
}

// StackDepth reports the operand stack's current depth. It exists for
// tests asserting the stack-balance invariant; normal callers never need
// to inspect the stack directly.
func (m *VM) StackDepth() int { return len(m.stack) }

// Run executes instrs to completion and returns the Values captured by
// every top-level Output instruction it evaluated, in source order. The
// VM's Symbols persist into the next Run even if this one returns an
// error; only this Run's partial stack and outputs are discarded.
func (m *VM) Run(instrs []ir.Instruction) ([]value.Value, error) {
	m.stack = m.stack[:0]
	var outputs []value.Value
	if err := m.execute(instrs, &outputs); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (m *VM) push(v value.Value) { m.stack = append(m.stack, v) }

func (m *VM) pop() (value.Value, error) {
	if len(m.stack) == 0 {
		return nil, errInvalidBytecode("pop from empty stack")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *VM) peek() (value.Value, error) {
	if len(m.stack) == 0 {
		return nil, errInvalidBytecode("peek on empty stack")
	}
	return m.stack[len(m.stack)-1], nil
}

// execute runs a self-contained instruction vector (the top-level program,
// a REPL line, or a function body) against m.stack and m.Symbols, appending
// each Output it evaluates to *outputs. outputs is nil when executing a
// function body, where Output instructions never occur.
func (m *VM) execute(instrs []ir.Instruction, outputs *[]value.Value) error {
	pc := 0
	for pc < len(instrs) {
		in := instrs[pc]
		switch in.Op {
		case ir.Load:
			m.push(value.Number(in.Flt))

		case ir.LoadString:
			m.push(value.Str(in.Str))

		case ir.Null:
			m.push(value.Null)

		case ir.Binary:
			rhs, err := m.pop()
			if err != nil {
				return err
			}
			lhs, err := m.pop()
			if err != nil {
				return err
			}
			result, err := applyBinary(in.Op2, lhs, rhs)
			if err != nil {
				return err
			}
			m.push(result)

		case ir.Unary:
			operand, err := m.pop()
			if err != nil {
				return err
			}
			result, err := applyUnary(in.Op2, operand)
			if err != nil {
				return err
			}
			m.push(result)

		case ir.LoadSymbolName:
			m.Symbols[in.Name] = value.Null
			m.push(value.Null)

		case ir.LoadSymbol:
			v, err := m.peek()
			if err != nil {
				return err
			}
			m.Symbols[in.Name] = v

		case ir.ReloadSymbol:
			v, err := m.peek()
			if err != nil {
				return err
			}
			if _, ok := m.Symbols[in.Name]; !ok {
				return errUnknownSymbol(in.Name)
			}
			m.Symbols[in.Name] = v

		case ir.ReloadSymbolOp:
			if pc+1 >= len(instrs) || instrs[pc+1].Op != ir.OData {
				return errInvalidBytecode("ReloadSymbolOp without a following OData")
			}
			op := instrs[pc+1].Op2
			cur, ok := m.Symbols[in.Name]
			if !ok {
				return errUnknownSymbol(in.Name)
			}
			rhs, err := m.pop()
			if err != nil {
				return err
			}
			result, err := applyBinary(op, cur, rhs)
			if err != nil {
				return err
			}
			m.Symbols[in.Name] = result
			m.push(result)
			pc += 2
			continue

		case ir.CallSymbol:
			v, ok := m.Symbols[in.Name]
			if !ok {
				return errUnknownSymbol(in.Name)
			}
			m.push(v)

		case ir.Delete:
			// delete is a base-level expression like any other; it
			// evaluates to Null so it composes with the grammar (and so
			// an Output-wrapped "delete x :" has something to display).
			delete(m.Symbols, in.Name)
			m.push(value.Null)

		case ir.Print:
			args, err := m.popN(in.Num)
			if err != nil {
				return err
			}
			m.printValues(args)
			m.push(value.Null)

		case ir.TypeOf:
			v, err := m.pop()
			if err != nil {
				return err
			}
			m.push(value.TypeOf(v))

		case ir.Array:
			elems, err := m.popN(in.Num)
			if err != nil {
				return err
			}
			m.push(value.NewArray(elems))

		case ir.Index:
			idxVal, err := m.pop()
			if err != nil {
				return err
			}
			containerVal, err := m.pop()
			if err != nil {
				return err
			}
			result, err := indexInto(containerVal, idxVal)
			if err != nil {
				return err
			}
			m.push(result)

		case ir.ReloadIndex:
			result, err := m.execReloadIndex(in)
			if err != nil {
				return err
			}
			m.push(result)

		case ir.FunctionDecl:
			end, err := m.declareFunction(instrs, pc)
			if err != nil {
				return err
			}
			pc = end
			continue

		case ir.FunctionCall:
			result, err := m.execFunctionCall(in)
			if err != nil {
				return err
			}
			m.push(result)

		case ir.PartialCall:
			result, err := m.execPartialCall(in)
			if err != nil {
				return err
			}
			m.push(result)

		case ir.Output:
			v, err := m.pop()
			if err != nil {
				return err
			}
			// Num != 0 marks a silent Output, emitted by the compiler to
			// discard a statement-terminated-by-";" result rather than
			// present it; it still pops its operand to keep the stack
			// balanced across statement boundaries.
			if outputs != nil && in.Num == 0 {
				*outputs = append(*outputs, v)
			}

		case ir.CompileError:
			return errInvalidBytecode("program did not compile")

		default:
			return errInvalidBytecode(fmt.Sprintf("illegal opcode %s at %d", in.Op, pc))
		}
		pc++
	}
	return nil
}

// popN pops n values and returns them in the order they were originally
// pushed (index 0 is the deepest of the n popped items).
func (m *VM) popN(n int) ([]value.Value, error) {
	vals := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := m.pop()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (m *VM) printValues(args []value.Value) {
	out := m.Stdout
	if out == nil {
		out = io.Discard
	}
	for i, a := range args {
		if i > 0 {
			fmt.Fprint(out, " ")
		}
		fmt.Fprint(out, a.Display())
	}
	fmt.Fprintln(out)
}

func indexInto(containerVal, idxVal value.Value) (value.Value, error) {
	arr, ok := containerVal.(*value.Array)
	if !ok {
		return nil, errIndexingNonArray()
	}
	idx, ok := idxVal.(value.Number)
	if !ok {
		return nil, errTypeMismatch("index", containerVal.TypeName(), idxVal.TypeName())
	}
	i := int(idx)
	if i < 0 || i >= len(arr.Elems) {
		return nil, errIndexingOutOfBounds()
	}
	return arr.Elems[i], nil
}

// execReloadIndex implements indexed assignment: in.Num index expressions
// were pushed innermost first (per the compiler's reversed emission), so
// they pop outer index first, with the value below them (or right-hand operand, for a compound
// assignment). It walks the indices outer to inner, writes the leaf
// element in place, and returns the written value.
func (m *VM) execReloadIndex(in ir.Instruction) (value.Value, error) {
	idxs := make([]int, in.Num)
	for i := 0; i < in.Num; i++ {
		v, err := m.pop()
		if err != nil {
			return nil, err
		}
		n, ok := v.(value.Number)
		if !ok {
			return nil, errTypeMismatch("index", "{Array}", v.TypeName())
		}
		idxs[i] = int(n)
	}
	rhs, err := m.pop()
	if err != nil {
		return nil, err
	}
	root, ok := m.Symbols[in.Name]
	if !ok {
		return nil, errUnknownSymbol(in.Name)
	}
	cur, ok := root.(*value.Array)
	if !ok {
		return nil, errIndexingNonArray()
	}
	for i := 0; i < len(idxs)-1; i++ {
		idx := idxs[i]
		if idx < 0 || idx >= len(cur.Elems) {
			return nil, errIndexingOutOfBounds()
		}
		next, ok := cur.Elems[idx].(*value.Array)
		if !ok {
			return nil, errIndexingNonArray()
		}
		cur = next
	}
	leaf := idxs[len(idxs)-1]
	if leaf < 0 || leaf >= len(cur.Elems) {
		return nil, errIndexingOutOfBounds()
	}
	var result value.Value
	if in.Op2 == ast.AssignEq {
		result = rhs
	} else {
		result, err = applyBinary(in.Op2, cur.Elems[leaf], rhs)
		if err != nil {
			return nil, err
		}
	}
	cur.Elems[leaf] = result
	return result, nil
}

// declareFunction reads the FunctionDecl instruction at pc together with
// its two UData metadata cells and its ArgumentName block, builds a
// Function owning a private copy of its body, binds it, and returns the
// instruction index execution should resume at (just past the body).
func (m *VM) declareFunction(instrs []ir.Instruction, pc int) (int, error) {
	if pc+2 >= len(instrs) || instrs[pc+1].Op != ir.UData || instrs[pc+2].Op != ir.UData {
		return 0, errInvalidBytecode("FunctionDecl missing UData metadata")
	}
	name := instrs[pc].Name
	arity := instrs[pc+1].Num
	bodyLen := instrs[pc+2].Num
	argsStart := pc + 3
	bodyStart := argsStart + arity
	bodyEnd := bodyStart + bodyLen
	if bodyEnd > len(instrs) {
		return 0, errInvalidBytecode("FunctionDecl body range out of bounds")
	}
	body := make([]ir.Instruction, 0, arity+bodyLen)
	body = append(body, instrs[argsStart:bodyStart]...)
	body = append(body, instrs[bodyStart:bodyEnd]...)
	fn := &value.Function{Arity: arity, Body: body}
	m.Symbols[name] = fn
	m.push(fn)
	return bodyEnd, nil
}

func (m *VM) execFunctionCall(in ir.Instruction) (value.Value, error) {
	if in.ByValue {
		args, err := m.popN(in.Num)
		if err != nil {
			return nil, err
		}
		callee, err := m.pop()
		if err != nil {
			return nil, err
		}
		fn, ok := callee.(*value.Function)
		if !ok {
			return nil, errNotCallable(callee.TypeName())
		}
		return m.callOrPartial(fn, args)
	}

	if b, ok := builtins.Lookup(in.Name); ok {
		args, err := m.popN(in.Num)
		if err != nil {
			return nil, err
		}
		nums, err := toFloats(b.Name, args)
		if err != nil {
			return nil, err
		}
		if len(nums) != b.Arity {
			if len(nums) < b.Arity {
				return nil, errMissingArgument(b.Name)
			}
			return nil, errTooManyArguments()
		}
		return value.Number(b.Fn(nums)), nil
	}

	args, err := m.popN(in.Num)
	if err != nil {
		return nil, err
	}
	bound, ok := m.Symbols[in.Name]
	if !ok {
		return nil, errUnknownSymbol(in.Name)
	}
	fn, ok := bound.(*value.Function)
	if !ok {
		return nil, errNotCallable(in.Name)
	}
	return m.callOrPartial(fn, args)
}

// callOrPartial supplies newArgs to fn on top of whatever it already
// carries in IsPartial. A call that still falls short of fn.Arity after
// newArgs produces a further-partial *value.Function clone rather than
// erroring, exactly as execPartialCall does for the compile-time-known
// PartialCall instruction: the same under-application logic applies
// whether the callee was resolved by name or came through a value on the
// stack (spec.md §4.5).
func (m *VM) callOrPartial(fn *value.Function, newArgs []value.Value) (value.Value, error) {
	total := len(fn.IsPartial) + len(newArgs)
	if total > fn.Arity {
		return nil, errTooManyArguments()
	}
	if total < fn.Arity {
		clone := fn.Clone()
		clone.IsPartial = append(clone.IsPartial, newArgs...)
		return clone, nil
	}
	return m.callExact(fn, newArgs)
}

func (m *VM) execPartialCall(in ir.Instruction) (value.Value, error) {
	args, err := m.popN(in.Num)
	if err != nil {
		return nil, err
	}
	bound, ok := m.Symbols[in.Name]
	if !ok {
		return nil, errUnknownSymbol(in.Name)
	}
	fn, ok := bound.(*value.Function)
	if !ok {
		return nil, errNotCallable(in.Name)
	}
	total := len(fn.IsPartial) + len(args)
	if total > fn.Arity {
		return nil, errTooManyArguments()
	}
	if total == fn.Arity {
		return nil, errInvalidBytecode("PartialCall reached full arity: should have compiled as FunctionCall")
	}
	clone := fn.Clone()
	clone.IsPartial = append(clone.IsPartial, args...)
	return clone, nil
}

// callExact invokes fn, which together with newArgs supplies exactly
// fn.Arity arguments (fn.IsPartial first, then newArgs).
func (m *VM) callExact(fn *value.Function, newArgs []value.Value) (value.Value, error) {
	all := make([]value.Value, 0, fn.Arity)
	all = append(all, fn.IsPartial...)
	all = append(all, newArgs...)
	if len(all) != fn.Arity {
		return nil, errInvalidBytecode("function invoked with wrong argument count")
	}
	return m.invoke(fn, all)
}

func (m *VM) invoke(fn *value.Function, args []value.Value) (value.Value, error) {
	type saved struct {
		val     value.Value
		existed bool
	}
	restore := make([]saved, fn.Arity)
	for i := 0; i < fn.Arity; i++ {
		name := fn.Body[i].Name
		old, existed := m.Symbols[name]
		restore[i] = saved{old, existed}
		m.Symbols[name] = args[i]
	}

	savedStack := m.stack
	m.stack = nil
	err := m.execute(fn.Body[fn.Arity:], nil)
	var result value.Value
	if err == nil {
		result, err = m.pop()
	}
	m.stack = savedStack

	for i := 0; i < fn.Arity; i++ {
		name := fn.Body[i].Name
		if restore[i].existed {
			m.Symbols[name] = restore[i].val
		} else {
			delete(m.Symbols, name)
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func toFloats(builtinName string, args []value.Value) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		n, ok := a.(value.Number)
		if !ok {
			return nil, errTypeMismatch(builtinName, "{Number}", a.TypeName())
		}
		nums[i] = float64(n)
	}
	return nums, nil
}
