package exprc

import "fmt"

// Kind is the basic-type tag in the type graph (spec §3.1's "Type").
// Widths match the target described in spec §1: a primary register
// holding up to 32 bits, char=1, short/int=2, long=4 bytes — the same
// assumption §4.2 relies on ("long is 32-bit, unsigned int is
// 16-bit").
type Kind int

const (
	KindVoid Kind = iota
	KindChar
	KindUChar
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindPointer
	KindArray
	KindFunc
	KindStruct
	KindUnion
)

func (k Kind) String() string {
	names := map[Kind]string{
		KindVoid: "void", KindChar: "char", KindUChar: "unsigned char",
		KindShort: "short", KindUShort: "unsigned short", KindInt: "int",
		KindUInt: "unsigned int", KindLong: "long", KindULong: "unsigned long",
		KindPointer: "pointer", KindArray: "array", KindFunc: "function",
		KindStruct: "struct", KindUnion: "union",
	}
	return names[k]
}

// Qual is the qualifier bitset composed onto a Type (spec §3.1).
type Qual uint8

const (
	QualConst Qual = 1 << iota
	QualVolatile
	QualRestrict
	QualFastcall
	QualCDecl
)

// Field describes one member of a struct/union type, including the
// bit-field metadata spec §4.4/§8.3 require: width and bit-offset, and
// the invariant that AddressOf is never legal on a bit-field.
type Field struct {
	Name      string
	Type      *Type
	Offset    int // byte offset from the start of the struct/union
	BitField  bool
	BitOffset int // offset in bits within the storage byte(s)
	BitWidth  int
}

// Type is a node in the type graph (spec §3.1, §6's "Type system").
// Composite types borrow their Elem/Fields/Params by pointer so
// pointer/array/function composition is cheap and structurally
// comparable by identity where the teacher's TypeCmp lattice calls for
// reference equality.
type Type struct {
	Kind     Kind
	Qual     Qual
	Elem     *Type   // pointee (Pointer), element (Array), return type (Func)
	ArrayLen int     // -1 if unknown/incomplete
	Fields   []Field // Struct/Union
	Tag      string  // struct/union tag, empty if anonymous
	Params   []*Type // Func
	Variadic bool
}

func (t *Type) Qualified(q Qual) *Type {
	cp := *t
	cp.Qual |= q
	return &cp
}

func (t *Type) IsConst() bool    { return t != nil && t.Qual&QualConst != 0 }
func (t *Type) IsVolatile() bool { return t != nil && t.Qual&QualVolatile != 0 }
func (t *Type) IsFastcall() bool { return t != nil && t.Qual&QualFastcall != 0 }

func (t *Type) IsVoid() bool { return t.Kind == KindVoid }

func (t *Type) IsInt() bool {
	switch t.Kind {
	case KindChar, KindUChar, KindShort, KindUShort, KindInt, KindUInt, KindLong, KindULong:
		return true
	}
	return false
}

func (t *Type) IsUnsigned() bool {
	switch t.Kind {
	case KindUChar, KindUShort, KindUInt, KindULong:
		return true
	}
	return false
}

func (t *Type) IsPointer() bool { return t.Kind == KindPointer }
func (t *Type) IsArray() bool   { return t.Kind == KindArray }
func (t *Type) IsFunc() bool    { return t.Kind == KindFunc }

func (t *Type) IsStructUnion() bool { return t.Kind == KindStruct || t.Kind == KindUnion }

// IsScalar reports whether t is a single numeric or pointer value,
// the class spec §4.5's unary `!` operates on.
func (t *Type) IsScalar() bool { return t.IsInt() || t.IsPointer() }

func (t *Type) String() string {
	switch t.Kind {
	case KindPointer:
		return t.Elem.String() + "*"
	case KindArray:
		if t.ArrayLen < 0 {
			return t.Elem.String() + "[]"
		}
		return fmt.Sprintf("%s[%d]", t.Elem.String(), t.ArrayLen)
	case KindFunc:
		return t.Elem.String() + "(...)"
	case KindStruct:
		return "struct " + t.Tag
	case KindUnion:
		return "union " + t.Tag
	default:
		return t.Kind.String()
	}
}

// Basic type singletons. Shared pointers are safe because Type values
// are treated as immutable once constructed (Qualified returns a
// copy); this mirrors the teacher's habit of treating a compiled
// ILabel/Instruction value as a fixed, shareable descriptor.
var (
	typeVoid  = &Type{Kind: KindVoid}
	typeChar  = &Type{Kind: KindChar}
	typeUChar = &Type{Kind: KindUChar}
	typeShort = &Type{Kind: KindShort}
	typeUShort = &Type{Kind: KindUShort}
	typeInt   = &Type{Kind: KindInt}
	typeUInt  = &Type{Kind: KindUInt}
	typeLong  = &Type{Kind: KindLong}
	typeULong = &Type{Kind: KindULong}
)

// Types is the type-graph factory and the predicate/conversion
// collaborator spec §6 calls "Type system": basic type singletons,
// pointer/array/function composition, SizeOf, IntPromotion and
// ArithmeticConvert (usual arithmetic conversions, §4.2), and
// PtrConversion (array/function decay, §4.3).
type Types struct{}

func (Types) Void() *Type   { return typeVoid }
func (Types) Char() *Type   { return typeChar }
func (Types) UChar() *Type  { return typeUChar }
func (Types) Short() *Type  { return typeShort }
func (Types) UShort() *Type { return typeUShort }
func (Types) Int() *Type    { return typeInt }
func (Types) UInt() *Type   { return typeUInt }
func (Types) Long() *Type   { return typeLong }
func (Types) ULong() *Type  { return typeULong }

// Bool is a synonym for an 8-bit unsigned width, the result type of
// every comparison and of `!` (spec §4.8).
func (Types) Bool() *Type { return typeUChar }

func (Types) Pointer(elem *Type) *Type {
	return &Type{Kind: KindPointer, Elem: elem}
}

func (Types) Array(elem *Type, n int) *Type {
	return &Type{Kind: KindArray, Elem: elem, ArrayLen: n}
}

func (Types) Func(ret *Type, params []*Type, variadic bool) *Type {
	return &Type{Kind: KindFunc, Elem: ret, Params: params, Variadic: variadic}
}

func (Types) Struct(tag string, fields []Field) *Type {
	return &Type{Kind: KindStruct, Tag: tag, Fields: fields}
}

func (Types) Union(tag string, fields []Field) *Type {
	return &Type{Kind: KindUnion, Tag: tag, Fields: fields}
}

// SizeOf returns the size in bytes of t (spec §6's SizeOf).
func (ts Types) SizeOf(t *Type) int {
	switch t.Kind {
	case KindVoid:
		return 0
	case KindChar, KindUChar:
		return 1
	case KindShort, KindUShort:
		return 2
	case KindInt, KindUInt:
		return 2
	case KindLong, KindULong:
		return 4
	case KindPointer, KindFunc:
		return 2
	case KindArray:
		if t.ArrayLen < 0 {
			return 0
		}
		return ts.SizeOf(t.Elem) * t.ArrayLen
	case KindStruct, KindUnion:
		size := 0
		for _, f := range t.Fields {
			end := f.Offset + ts.SizeOf(f.Type)
			if end > size {
				size = end
			}
		}
		return size
	}
	return 0
}

// Width returns the emitter-level byte width of a scalar type.
func (ts Types) Width(t *Type) int {
	switch ts.SizeOf(t) {
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 4
	}
}

// IntPromotion implements the "integer promotions": types narrower
// than int promote to int, preserving signedness when representable
// (spec §4.2 preamble). char, unsigned char and short promote to
// plain int on this target because int is 16 bits wide, wide enough to
// represent all their values; unsigned short has values int cannot
// hold, so it promotes to unsigned int.
func (ts Types) IntPromotion(t *Type) *Type {
	switch t.Kind {
	case KindChar, KindUChar, KindShort:
		return typeInt
	case KindUShort:
		return typeUInt
	}
	return t
}

// ArithmeticConvert implements the usual arithmetic conversion over
// the integer subset (spec §4.2, C89 §3.2.1.5): promote both operands,
// then apply the ranked rules. Symmetric in its arguments by
// construction (spec §8.4).
func (ts Types) ArithmeticConvert(a, b *Type) *Type {
	a, b = ts.IntPromotion(a), ts.IntPromotion(b)

	isULong := func(t *Type) bool { return t.Kind == KindULong }
	isLong := func(t *Type) bool { return t.Kind == KindLong }
	isUInt := func(t *Type) bool { return t.Kind == KindUInt }

	switch {
	case isULong(a) || isULong(b):
		return typeULong
	case (isLong(a) && isUInt(b)) || (isLong(b) && isUInt(a)):
		// unsigned int (16-bit) always fits in long (32-bit) on this target.
		return typeLong
	case isLong(a) || isLong(b):
		return typeLong
	case isUInt(a) || isUInt(b):
		return typeUInt
	default:
		return typeInt
	}
}

// Decay implements array-to-pointer and function-to-pointer decay
// (spec §4.3's "Arrays and functions automatically become address-of
// rvalues").
func (ts Types) Decay(t *Type) *Type {
	switch t.Kind {
	case KindArray:
		return ts.Pointer(t.Elem)
	case KindFunc:
		return ts.Pointer(t)
	}
	return t
}

// TypeCmpResult is the compatibility lattice spec §6 describes as
// "EQUAL > QUAL_DIFF > ...".
type TypeCmpResult int

const (
	TypeCmpEqual TypeCmpResult = iota
	TypeCmpQualDiff
	TypeCmpIncompatible
)

// TypeCmp compares two types for the purposes of assignment/pointer
// compatibility checks used throughout §4 (assignment, comparisons,
// ternary).
func (ts Types) TypeCmp(a, b *Type) TypeCmpResult {
	if a.Kind != b.Kind {
		return TypeCmpIncompatible
	}
	switch a.Kind {
	case KindPointer, KindArray:
		inner := ts.TypeCmp(a.Elem, b.Elem)
		if inner == TypeCmpIncompatible {
			return TypeCmpIncompatible
		}
		if a.Qual != b.Qual {
			return TypeCmpQualDiff
		}
		return inner
	case KindStruct, KindUnion:
		if a.Tag != b.Tag {
			return TypeCmpIncompatible
		}
		return TypeCmpEqual
	default:
		if a.Qual != b.Qual {
			return TypeCmpQualDiff
		}
		return TypeCmpEqual
	}
}

// FindField looks up a named member on a struct/union type, following
// spec §4.4's `.`/`->` semantics (no anonymous-member flattening: the
// cc65 lineage this is drawn from does not support C11 anonymous
// members).
func (t *Type) FindField(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ValueRange reports the range representable in t (two's-complement
// for signed types, 0..2^n-1 for unsigned ones), used by constant folding (spec §4.1.d, §8.5) and by the
// unsigned-comparison peephole (spec §4.8).
func (ts Types) ValueRange(t *Type) (lo, hi int64) {
	bits := uint(ts.Width(t) * 8)
	if t.IsUnsigned() {
		return 0, (int64(1) << bits) - 1
	}
	half := int64(1) << (bits - 1)
	return -half, half - 1
}

// Truncate clamps v into t's representable range using two's
// complement wraparound, the bit-exact fold spec §8.5 requires.
func (ts Types) Truncate(v int64, t *Type) int64 {
	bits := uint(ts.Width(t) * 8)
	if bits >= 64 {
		return v
	}
	mask := (int64(1) << bits) - 1
	v &= mask
	if !t.IsUnsigned() && v&(int64(1)<<(bits-1)) != 0 {
		v -= int64(1) << bits
	}
	return v
}
