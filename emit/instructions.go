// Package emit is the code emitter façade and peephole/patch buffer
// described in spec §4.12 and §6: an append-only buffer of target
// instructions with positional marks that support deleting and moving
// closed ranges, plus a high-level façade (push/add/scale/compare/
// load/store/jump/label) parameterised by a flags word encoding
// width, signedness, location class and constness, maintaining a
// virtual stack pointer.
//
// Grounded on the teacher's vm_program.go (the append-only
// Program.code []Instruction buffer and its label table) and
// grammar_compiler.go (the ILabel/openAddrs backpatch dance,
// generalised here into Mark/RemoveFrom/MoveRange).
package emit

import "fmt"

// Width is the size in bytes of a primary-register-resident value:
// char (1), int (2) or long (4) on this target.
type Width int

const (
	Width1 Width = 1
	Width2 Width = 2
	Width4 Width = 4
)

// Flags is the word accompanying (almost) every emitter call,
// combining signedness, constness and addressing hints. Width travels
// alongside Flags as a separate argument rather than packed into the
// same word — the teacher's instruction structs (IChar, IRange, ...)
// likewise keep each orthogonal piece of data its own field rather
// than bit-packing, and unpacking a bitfield on every call would only
// obscure the width.
type Flags uint32

const (
	// FlagUnsigned marks the operand(s) as unsigned for the purposes
	// of this op (signed/unsigned division, comparison, shift).
	FlagUnsigned Flags = 1 << iota
	// FlagConst marks an immediate/constant-form variant of an op
	// (e.g. addeq with a constant right-hand side).
	FlagConst
	// FlagForceChar narrows a result to 8 bits even though its
	// declared type is wider (small-integer promotion optimisation,
	// spec §4.1).
	FlagForceChar
	// FlagNoKeep tells the emitter the primary register's current
	// value need not be preserved across the op. No code in this
	// module sets it; the deferred-increment drain uses save/restore.
	FlagNoKeep
)

func (f Flags) Signed() bool { return f&FlagUnsigned == 0 }

// CompareOp enumerates the six C comparison operators.
type CompareOp int

const (
	CmpEQ CompareOp = iota
	CmpNE
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

func (c CompareOp) String() string {
	return [...]string{"eq", "ne", "lt", "le", "gt", "ge"}[c]
}

// OpCode enumerates every primitive the code emitter façade exposes,
// the set spec §6 lists under "Code emitter".
type OpCode int

const (
	OpPush OpCode = iota
	OpPop
	OpDrop
	OpSpace
	OpImmediate
	OpGetLocal
	OpPutLocal
	OpGetStatic
	OpPutStatic
	OpPutInd
	OpGetInd
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpAsl
	OpAsr
	OpNeg
	OpCom
	OpBNeg
	OpCompare
	OpInc
	OpDec
	OpAddEqStatic
	OpAddEqLocal
	OpAddEqInd
	OpSubEqStatic
	OpSubEqLocal
	OpSubEqInd
	OpScale
	OpTypeAdjust
	OpTypeCast
	OpToSInt
	OpSwap
	OpSave
	OpRestore
	OpCall
	OpCallInd
	OpLeaVariadic
	OpTrueJump
	OpFalseJump
	OpJump
	OpLabel
	OpRaw
)

var opNames = map[OpCode]string{
	OpPush: "push", OpPop: "pop", OpDrop: "drop", OpSpace: "space",
	OpImmediate: "ldimm", OpGetLocal: "ldloc", OpPutLocal: "stloc",
	OpGetStatic: "ldsta", OpPutStatic: "ststa", OpPutInd: "stind", OpGetInd: "ldind",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpAsl: "asl", OpAsr: "asr",
	OpNeg: "neg", OpCom: "com", OpBNeg: "bneg", OpCompare: "cmp",
	OpInc: "inc", OpDec: "dec",
	OpAddEqStatic: "addeq_static", OpAddEqLocal: "addeq_local", OpAddEqInd: "addeq_ind",
	OpSubEqStatic: "subeq_static", OpSubEqLocal: "subeq_local", OpSubEqInd: "subeq_ind",
	OpScale: "scale", OpTypeAdjust: "typeadjust", OpTypeCast: "typecast",
	OpToSInt: "tosint", OpSwap: "swap", OpSave: "save", OpRestore: "restore",
	OpCall: "call", OpCallInd: "callind", OpLeaVariadic: "leavariadic",
	OpTrueJump: "true_jump", OpFalseJump: "false_jump", OpJump: "jump",
	OpLabel: "label", OpRaw: "raw",
}

// Label is an opaque jump/call target allocated by NewLabel. IDs are
// process-wide and monotonic, mirroring the teacher's NewILabel.
type Label struct{ ID int }

func (l Label) String() string { return fmt.Sprintf("L%d", l.ID) }

var nextLabelID int

func NewLabel() Label {
	nextLabelID++
	return Label{ID: nextLabelID}
}

// Instr is a single emitted instruction. A single tagged struct
// stands in for the teacher's one-struct-per-opcode instruction set
// (IChar, IRange, ILabel, ...): the teacher's VM executes its own
// bytecode and needs each instruction to report its own encoded byte
// size for jump-offset arithmetic, so each opcode earns its own type.
// This emitter only ever produces a textual/symbolic instruction
// stream for an external assembler to consume (spec §6's "raw
// add_code_line(text)" collaborator besides), so there is no encoded
// size to compute and one generic struct suffices without losing any
// information an emitter call can carry.
type Instr struct {
	Op     OpCode
	Flags  Flags
	Width  Width
	IVal   int64
	Name   string // global/static symbol name
	Label  Label
	Cmp    CompareOp
	Text   string // raw assembly line for OpRaw
	Source string // preformatted "file:line:col" annotation, optional
}

func (i Instr) Mnemonic() string { return opNames[i.Op] }
