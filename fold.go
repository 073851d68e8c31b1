package exprc

import "github.com/8bitc/exprc/emit"

// foldBinary evaluates a constant binary operation at the result
// type's width with bit-exact two's-complement semantics for both
// signed and unsigned operands (spec §4.1.d, §8.5). Division and
// modulo by zero report a diagnostic and yield the sentinel 0, rather
// than failing the whole parse (spec §4.1.d, §7).
func foldBinary(ctx *Context, op emit.OpCode, lhs, rhs int64, result *Type, span Span) int64 {
	unsigned := result.IsUnsigned()
	a := ctx.Types.Truncate(lhs, result)
	b := ctx.Types.Truncate(rhs, result)

	var v int64
	switch op {
	case emit.OpAdd:
		v = a + b
	case emit.OpSub:
		v = a - b
	case emit.OpMul:
		v = a * b
	case emit.OpDiv:
		if b == 0 {
			ctx.Errorf(span, "division by zero in constant expression")
			return 0
		}
		if unsigned {
			v = int64(uint64(a) / uint64(b))
		} else {
			v = a / b
		}
	case emit.OpMod:
		if b == 0 {
			ctx.Errorf(span, "modulo by zero in constant expression")
			return 0
		}
		if unsigned {
			v = int64(uint64(a) % uint64(b))
		} else {
			v = a % b
		}
	case emit.OpAnd:
		v = a & b
	case emit.OpOr:
		v = a | b
	case emit.OpXor:
		v = a ^ b
	case emit.OpAsl:
		v = a << uint(b)
	case emit.OpAsr:
		if unsigned {
			v = int64(uint64(a) >> uint(b))
		} else {
			v = a >> uint(b)
		}
	}
	return ctx.Types.Truncate(v, result)
}

// foldCompare evaluates a constant comparison with the correct
// signedness: both-signed compares signed, anything else compares
// unsigned (spec §4.8).
func foldCompare(cmp emit.CompareOp, a, b int64, bothSigned bool) bool {
	var less, equal bool
	equal = a == b
	if bothSigned {
		less = a < b
	} else {
		less = uint64(a) < uint64(b)
	}
	switch cmp {
	case emit.CmpEQ:
		return equal
	case emit.CmpNE:
		return !equal
	case emit.CmpLT:
		return less
	case emit.CmpLE:
		return less || equal
	case emit.CmpGT:
		return !less && !equal
	case emit.CmpGE:
		return !less
	}
	return false
}
