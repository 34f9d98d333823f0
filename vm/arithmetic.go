package vm

import (
	"math"

	"vm-calc/ast"
	"vm-calc/value"
)

// applyBinary implements every BinaryOp/AssignOp/ReloadIndex operator.
// Arithmetic operators are Number-only except Add, which also concatenates
// two Strings; bitwise and shift operators truncate both operands to a
// 64-bit unsigned machine word, operate there, and convert back, matching
// how the language defines bitwise operators over its single floating
// point numeric type.
func applyBinary(op ast.Operator, lhs, rhs value.Value) (value.Value, error) {
	if op == ast.Add {
		if ls, ok := lhs.(value.Str); ok {
			if rs, ok := rhs.(value.Str); ok {
				return ls + rs, nil
			}
		}
	}

	switch op {
	case ast.BitAnd, ast.BitOr, ast.BitXor, ast.Shl, ast.Shr:
		l, r, err := bothNumbers(op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return applyBitwise(op, l, r), nil
	}

	l, r, err := bothNumbers(op, lhs, rhs)
	if err != nil {
		return nil, err
	}
	switch op {
	case ast.Add:
		return value.Number(l + r), nil
	case ast.Sub:
		return value.Number(l - r), nil
	case ast.Mul:
		return value.Number(l * r), nil
	case ast.Div:
		if r == 0 {
			return nil, errDivideByZero()
		}
		return value.Number(l / r), nil
	case ast.Mod:
		if r == 0 {
			return nil, errModuloByZero()
		}
		return value.Number(float64(int64(l) % int64(r))), nil
	case ast.Pow:
		return value.Number(math.Pow(l, r)), nil
	}
	return nil, errInvalidBytecode("unsupported binary operator " + op.String())
}

// applyUnary implements the two prefix operators the language supports: "+"
// (identity on a Number) and "-" (negation).
func applyUnary(op ast.Operator, operand value.Value) (value.Value, error) {
	n, ok := operand.(value.Number)
	if !ok {
		return nil, errTypeMismatch(op.String(), "{Number}", operand.TypeName())
	}
	switch op {
	case ast.Add:
		return n, nil
	case ast.Sub:
		return -n, nil
	}
	return nil, errInvalidBytecode("unsupported unary operator " + op.String())
}

func bothNumbers(op ast.Operator, lhs, rhs value.Value) (float64, float64, error) {
	l, ok := lhs.(value.Number)
	if !ok {
		return 0, 0, errTypeMismatch(op.String(), lhs.TypeName(), rhs.TypeName())
	}
	r, ok := rhs.(value.Number)
	if !ok {
		return 0, 0, errTypeMismatch(op.String(), lhs.TypeName(), rhs.TypeName())
	}
	return float64(l), float64(r), nil
}

func applyBitwise(op ast.Operator, l, r float64) value.Value {
	a, b := uint64(int64(l)), uint64(int64(r))
	var result uint64
	switch op {
	case ast.BitAnd:
		result = a & b
	case ast.BitOr:
		result = a | b
	case ast.BitXor:
		result = a ^ b
	case ast.Shl:
		result = a << (b % 64)
	case ast.Shr:
		result = a >> (b % 64)
	}
	return value.Number(int64(result))
}
