package ast

import (
	"encoding/json"
)

// Dump renders nodes as indented JSON, in the spirit of the teacher's
// astPrinter/PrintASTJSON: a map-of-maps tree built by walking the AST,
// handed to encoding/json rather than a bespoke pretty-printer.
func Dump(nodes []Node) (string, error) {
	list := make([]any, len(nodes))
	for i, n := range nodes {
		list[i] = toTree(n)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func toTree(node Node) any {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case Number:
		return map[string]any{"type": "Number", "value": n.Value}
	case String:
		return map[string]any{"type": "String", "value": n.Value}
	case Null:
		return map[string]any{"type": "Null"}
	case Identifier:
		return map[string]any{"type": "Identifier", "name": n.Name}
	case Name:
		return map[string]any{"type": "Name", "name": n.Name}
	case BinaryOp:
		return map[string]any{"type": "BinaryOp", "op": n.Op.String(), "lhs": toTree(n.Lhs), "rhs": toTree(n.Rhs)}
	case UnaryOp:
		return map[string]any{"type": "UnaryOp", "op": n.Op.String(), "rhs": toTree(n.Rhs)}
	case Declare:
		return map[string]any{"type": "Declare", "name": n.Name}
	case DeclareAssign:
		return map[string]any{"type": "DeclareAssign", "name": n.Name, "value": toTree(n.Value)}
	case Assign:
		return map[string]any{"type": "Assign", "name": n.Name, "value": toTree(n.Value)}
	case AssignOp:
		return map[string]any{"type": "AssignOp", "name": n.Name, "op": n.Op.String(), "value": toTree(n.Value)}
	case AssignIndex:
		indices := make([]any, len(n.Indices))
		for i, idx := range n.Indices {
			indices[i] = toTree(idx)
		}
		return map[string]any{"type": "AssignIndex", "name": n.Name, "op": n.Op.String(), "indices": indices, "value": toTree(n.Value)}
	case FunctionDecl:
		return map[string]any{"type": "FunctionDecl", "name": n.Name, "args": n.Args, "body": toTree(n.Body)}
	case FunctionCall:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = toTree(a)
		}
		return map[string]any{"type": "FunctionCall", "head": toTree(n.Head), "args": args}
	case PartialCall:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = toTree(a)
		}
		return map[string]any{"type": "PartialCall", "name": n.Name, "args": args}
	case Array:
		elems := make([]any, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = toTree(e)
		}
		return map[string]any{"type": "Array", "elems": elems}
	case Index:
		return map[string]any{"type": "Index", "container": toTree(n.Container), "index": toTree(n.IndexExpr)}
	case Output:
		return map[string]any{"type": "Output", "inner": toTree(n.Inner)}
	case Delete:
		return map[string]any{"type": "Delete", "name": n.Name}
	case Print:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = toTree(a)
		}
		return map[string]any{"type": "Print", "args": args}
	case TypeOf:
		return map[string]any{"type": "TypeOf", "inner": toTree(n.Inner)}
	}
	return map[string]any{"type": "Unknown"}
}
