package exprc

import "github.com/8bitc/exprc/emit"

// Location tags where an ExprDesc's value currently lives (spec
// §3.1). It is a sum type in spirit; Go has no closed union so this
// follows the teacher's own pattern for its `NodeType`/`FrameType`
// enums: an int-backed tag switched on exhaustively by every
// consumer, with Context.Internal as the "impossible default" arm.
type Location int

const (
	LocNone Location = iota
	LocAbs
	LocGlobal
	LocStatic
	LocRegister
	LocStack
	LocPrimary
	LocExpr
	LocLiteral
	LocCode
)

func (l Location) String() string {
	names := [...]string{"none", "abs", "global", "static", "register", "stack", "primary", "expr", "literal", "code"}
	if int(l) < len(names) {
		return names[l]
	}
	return "invalid"
}

// Quasi returns true for any location whose address is statically
// known without a load (spec Glossary: "Quasi-constant location").
func (l Location) Quasi() bool {
	switch l {
	case LocAbs, LocGlobal, LocStatic, LocRegister, LocLiteral, LocCode:
		return true
	}
	return false
}

// RefType distinguishes an lvalue (reference) from an rvalue (value),
// spec §3.1.
type RefType int

const (
	RValue RefType = iota
	LValue
)

// ExprFlag bits carried on an ExprDesc (spec §3.1).
type ExprFlag uint16

const (
	// FlagAddressOf marks that Primary/Expr holds an address rather
	// than the pointee's value.
	FlagAddressOf ExprFlag = 1 << iota
	// FlagTested marks that the condition code already reflects
	// zero/non-zero-ness of the current value.
	FlagTested
	FlagNeedsTest
	FlagNeedsConst
	// FlagUneval marks a sizeof-like unevaluated context.
	FlagUneval
	FlagMayHaveNoEffect
	FlagBitField
)

func (f ExprFlag) Has(bit ExprFlag) bool { return f&bit != 0 }

// CodeRange brackets the instructions emitted while parsing an
// expression, the peephole marks of spec §3.1's CodeRange field.
type CodeRange struct {
	Start emit.Mark
	End   emit.Mark
}

func (r CodeRange) Empty(e *emit.Emitter) bool { return e.IsEmpty(r.Start, r.End) }

// ExprDesc is the pivotal value described in spec §3.1: the current
// residue of a parsed expression — what the compiler knows statically
// and where the value lives.
type ExprDesc struct {
	Type *Type

	Location Location
	RefType  RefType
	Flags    ExprFlag

	IVal int64   // integer immediate/offset
	FVal float64 // floating immediate, reserved (spec: "not supported")

	Name string    // symbol name or label id
	Sym  *SymEntry // back-reference to the owning symbol, if any
	LVal string     // string-literal payload, when Location == LocLiteral

	Field *Field // set when this descriptor denotes a bit-field member

	CodeRange CodeRange
}

// IsConst reports whether the descriptor is a compile-time constant,
// spec invariant 1: Location == None implies RefType == rvalue and
// IVal is the full value.
func (e ExprDesc) IsConst() bool { return e.Location == LocNone }

func (e ExprDesc) IsLValue() bool { return e.RefType == LValue }

// ClearTested drops the Tested flag, required whenever a non-trivial
// operation is applied on top of a descriptor (spec invariant 2).
func (e *ExprDesc) ClearTested() { e.Flags &^= FlagTested }

func (e *ExprDesc) SetTested() { e.Flags |= FlagTested }

// CheckInvariants enforces spec §3.1's structural invariants and
// §8.3; a violation is a compiler bug, reported through ctx.Internal.
func (e ExprDesc) CheckInvariants(ctx *Context, span Span) {
	if e.Location == LocNone && e.RefType != RValue {
		ctx.Internal(span, "constant ExprDesc must be an rvalue")
	}
	if e.Flags.Has(FlagBitField) && e.Flags.Has(FlagAddressOf) {
		ctx.Internal(span, "bit-field descriptor cannot carry AddressOf")
	}
	switch e.Location {
	case LocNone, LocAbs, LocGlobal, LocStatic, LocRegister, LocStack, LocPrimary, LocExpr, LocLiteral, LocCode:
	default:
		ctx.Internal(span, "unknown Location tag %d", int(e.Location))
	}
}

// Quasi reports whether the descriptor's address is statically known
// (spec Glossary), i.e. no load is required to take its address.
func (e ExprDesc) Quasi() bool {
	return e.IsConst() || e.Location.Quasi()
}
