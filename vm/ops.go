package vm

import (
	"fmt"
	"math"

	"github.com/chazu/tpc/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Binary operators
// ---------------------------------------------------------------------------

// binaryOp computes left op right. Both operands are already popped.
type binaryOp func(op bytecode.Opcode, left, right Value) (Value, error)

var binaryOps = map[bytecode.Opcode]binaryOp{
	bytecode.OpAdd: arithmetic(func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }),
	bytecode.OpSub: arithmetic(func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }),
	bytecode.OpMul: arithmetic(func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }),
	bytecode.OpDiv: divide(intQuotient, func(a, b float64) float64 { return a / b }),
	bytecode.OpMod: divide(intRemainder, math.Mod),

	bytecode.OpEq: compare(func(c int) bool { return c == 0 }, func(a, b float64) bool { return a == b }),
	bytecode.OpNe: compare(func(c int) bool { return c != 0 }, func(a, b float64) bool { return a != b }),
	bytecode.OpLt: compare(func(c int) bool { return c < 0 }, func(a, b float64) bool { return a < b }),
	bytecode.OpGt: compare(func(c int) bool { return c > 0 }, func(a, b float64) bool { return a > b }),
	bytecode.OpLe: compare(func(c int) bool { return c <= 0 }, func(a, b float64) bool { return a <= b }),
	bytecode.OpGe: compare(func(c int) bool { return c >= 0 }, func(a, b float64) bool { return a >= b }),

	bytecode.OpAnd: bitwise(func(a, b int64) int64 { return a & b }, func(a, b bool) bool { return a && b }),
	bytecode.OpOr:  bitwise(func(a, b int64) int64 { return a | b }, func(a, b bool) bool { return a || b }),
	bytecode.OpXor: bitwise(func(a, b int64) int64 { return a ^ b }, func(a, b bool) bool { return a != b }),

	bytecode.OpShl: shift(func(a int64, n uint) int64 { return a << n }),
	bytecode.OpShr: shift(func(a int64, n uint) int64 { return a >> n }),
}

// Apply evaluates a binary opcode on two values. It returns an error with
// kind BinaryOperator for unsupported operand kinds and DividingByZero for
// integer division or remainder by zero.
func Apply(op bytecode.Opcode, left, right Value) (Value, error) {
	fn, ok := binaryOps[op]
	if !ok {
		return Void, &Error{Kind: UnknownInstruction}
	}
	return fn(op, left, right)
}

func arithmetic(ints func(a, b int64) int64, reals func(a, b float64) float64) binaryOp {
	return func(op bytecode.Opcode, left, right Value) (Value, error) {
		if !left.IsNumeric() || !right.IsNumeric() {
			return Void, mismatch(op, left, right)
		}
		if a, ok := left.AsInt(); ok {
			if b, ok := right.AsInt(); ok {
				return Int(ints(a, b)), nil
			}
		}
		return Real(reals(left.Float64(), right.Float64())), nil
	}
}

func divide(ints func(a, b int64) int64, reals func(a, b float64) float64) binaryOp {
	return func(op bytecode.Opcode, left, right Value) (Value, error) {
		if !left.IsNumeric() || !right.IsNumeric() {
			return Void, mismatch(op, left, right)
		}
		if a, ok := left.AsInt(); ok {
			if b, ok := right.AsInt(); ok {
				if b == 0 {
					return Void, &Error{
						Kind:    DividingByZero,
						Message: fmt.Sprintf("Cannot apply '%s' to %s and zero.", op.Symbol(), left),
					}
				}
				return Int(ints(a, b)), nil
			}
		}
		return Real(reals(left.Float64(), right.Float64())), nil
	}
}

// intQuotient truncates toward zero. MinInt64 / -1 wraps to MinInt64.
func intQuotient(a, b int64) int64 {
	if b == -1 {
		return -a
	}
	return a / b
}

// intRemainder has the sign of the dividend. MinInt64 % -1 is 0.
func intRemainder(a, b int64) int64 {
	if b == -1 {
		return 0
	}
	return a % b
}

func compare(ints func(c int) bool, reals func(a, b float64) bool) binaryOp {
	return func(op bytecode.Opcode, left, right Value) (Value, error) {
		if !left.IsNumeric() || !right.IsNumeric() {
			return Void, mismatch(op, left, right)
		}
		if a, ok := left.AsInt(); ok {
			if b, ok := right.AsInt(); ok {
				return Bool(ints(cmpInt(a, b))), nil
			}
		}
		return Bool(reals(left.Float64(), right.Float64())), nil
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func bitwise(ints func(a, b int64) int64, bools func(a, b bool) bool) binaryOp {
	return func(op bytecode.Opcode, left, right Value) (Value, error) {
		if a, ok := left.AsInt(); ok {
			if b, ok := right.AsInt(); ok {
				return Int(ints(a, b)), nil
			}
		}
		if a, ok := left.AsBool(); ok {
			if b, ok := right.AsBool(); ok {
				return Bool(bools(a, b)), nil
			}
		}
		return Void, mismatch(op, left, right)
	}
}

// shift masks the count to 0..63.
func shift(fn func(a int64, n uint) int64) binaryOp {
	return func(op bytecode.Opcode, left, right Value) (Value, error) {
		if a, ok := left.AsInt(); ok {
			if b, ok := right.AsInt(); ok {
				return Int(fn(a, uint(b&63))), nil
			}
		}
		return Void, mismatch(op, left, right)
	}
}

func mismatch(op bytecode.Opcode, left, right Value) *Error {
	return &Error{
		Kind:    BinaryOperator,
		Message: fmt.Sprintf("Cannot apply '%s' to %s and %s.", op.Symbol(), left, right),
	}
}
