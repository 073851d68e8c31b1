package emit

import "fmt"

// Emitter is the high-level code-emitter façade (spec §6): push, add,
// scale, compare, load, store, jump, label, parameterised by a flags
// word, plus a virtual stack pointer that every push/pop/drop call
// keeps in sync. Grounded on vm_program.go's Program plus the
// teacher's habit (grammar_compiler.go) of tracking a running cursor
// alongside the buffer it writes.
type Emitter struct {
	Prog     *Program
	StackPtr int
	Debug    bool
}

func NewEmitter() *Emitter {
	return &Emitter{Prog: &Program{}}
}

// --- peephole passthrough ---

func (e *Emitter) Mark() Mark                      { return e.Prog.Mark() }
func (e *Emitter) IsEmpty(from, to Mark) bool       { return e.Prog.IsEmpty(from, to) }
func (e *Emitter) RemoveFrom(from Mark)             { e.Prog.RemoveFrom(from) }
func (e *Emitter) RemoveRange(from, to Mark)        { e.Prog.RemoveRange(from, to) }
func (e *Emitter) MoveRange(from, to, dest Mark)     { e.Prog.MoveRange(from, to, dest) }

func (e *Emitter) emit(i Instr) { e.Prog.Emit(i) }

// --- stack discipline ---

// Push moves the primary register's current value onto the hardware
// stack and grows the virtual stack pointer by the value's width.
func (e *Emitter) Push(w Width) {
	e.emit(Instr{Op: OpPush, Width: w})
	e.StackPtr += int(w)
}

// Pop restores the primary register from the top of the hardware
// stack and shrinks the virtual stack pointer.
func (e *Emitter) Pop(w Width) {
	e.emit(Instr{Op: OpPop, Width: w})
	e.StackPtr -= int(w)
}

// Drop discards the top of the hardware stack without touching the
// primary register.
func (e *Emitter) Drop(w Width) {
	e.emit(Instr{Op: OpDrop, Width: w})
	e.StackPtr -= int(w)
}

// Space reserves n bytes of frame for a pre-allocated argument block
// (spec §4.6's "pre-allocate the whole parameter frame").
func (e *Emitter) Space(n int) {
	e.emit(Instr{Op: OpSpace, IVal: int64(n)})
	e.StackPtr += n
}

// CheckBalanced is the shared-resource-discipline invariant of spec
// §5/§8.1: every expression-parser function must see the same
// StackPtr on entry and exit.
func (e *Emitter) CheckBalanced(entry int) error {
	if e.StackPtr != entry {
		return fmt.Errorf("stack pointer mismatch: entered at %d, left at %d", entry, e.StackPtr)
	}
	return nil
}

// --- loads/stores ---

func (e *Emitter) Immediate(w Width, f Flags, v int64) {
	e.emit(Instr{Op: OpImmediate, Width: w, Flags: f, IVal: v})
}

func (e *Emitter) GetLocal(w Width, f Flags, offset int) {
	e.emit(Instr{Op: OpGetLocal, Width: w, Flags: f, IVal: int64(offset)})
}

func (e *Emitter) PutLocal(w Width, f Flags, offset int) {
	e.emit(Instr{Op: OpPutLocal, Width: w, Flags: f, IVal: int64(offset)})
}

func (e *Emitter) GetStatic(w Width, f Flags, name string) {
	e.emit(Instr{Op: OpGetStatic, Width: w, Flags: f, Name: name})
}

func (e *Emitter) PutStatic(w Width, f Flags, name string) {
	e.emit(Instr{Op: OpPutStatic, Width: w, Flags: f, Name: name})
}

func (e *Emitter) GetInd(w Width, f Flags) {
	e.emit(Instr{Op: OpGetInd, Width: w, Flags: f})
}

func (e *Emitter) PutInd(w Width, f Flags) {
	e.emit(Instr{Op: OpPutInd, Width: w, Flags: f})
}

// --- arithmetic / bitwise ---

func (e *Emitter) binary(op OpCode, w Width, f Flags) { e.emit(Instr{Op: op, Width: w, Flags: f}) }

// BinaryOp emits a generic arithmetic/bitwise instruction by OpCode,
// the hook the generator-table dispatcher (spec §4.1) uses when the
// operator to emit is only known at runtime via table lookup.
func (e *Emitter) BinaryOp(op OpCode, w Width, f Flags) { e.binary(op, w, f) }

func (e *Emitter) Add(w Width, f Flags)  { e.binary(OpAdd, w, f) }
func (e *Emitter) Sub(w Width, f Flags)  { e.binary(OpSub, w, f) }
func (e *Emitter) Mul(w Width, f Flags)  { e.binary(OpMul, w, f) }
func (e *Emitter) Div(w Width, f Flags)  { e.binary(OpDiv, w, f) }
func (e *Emitter) Mod(w Width, f Flags)  { e.binary(OpMod, w, f) }
func (e *Emitter) And(w Width, f Flags)  { e.binary(OpAnd, w, f) }
func (e *Emitter) Or(w Width, f Flags)   { e.binary(OpOr, w, f) }
func (e *Emitter) Xor(w Width, f Flags)  { e.binary(OpXor, w, f) }
func (e *Emitter) Asl(w Width, f Flags)  { e.binary(OpAsl, w, f) }
func (e *Emitter) Asr(w Width, f Flags)  { e.binary(OpAsr, w, f) }

func (e *Emitter) Neg(w Width, f Flags)  { e.emit(Instr{Op: OpNeg, Width: w, Flags: f}) }
func (e *Emitter) Com(w Width, f Flags)  { e.emit(Instr{Op: OpCom, Width: w, Flags: f}) }
func (e *Emitter) BNeg(w Width, f Flags) { e.emit(Instr{Op: OpBNeg, Width: w, Flags: f}) }

// Compare emits one of eq/ne/lt/le/gt/ge (spec §4.8); Tested-ness of
// the result is tracked by the caller's ExprDesc, not the emitter.
func (e *Emitter) Compare(cmp CompareOp, w Width, f Flags) {
	e.emit(Instr{Op: OpCompare, Cmp: cmp, Width: w, Flags: f})
}

// --- in-place mutation ---

func (e *Emitter) Inc(w Width, f Flags, amount int64) {
	e.emit(Instr{Op: OpInc, Width: w, Flags: f, IVal: amount})
}

func (e *Emitter) Dec(w Width, f Flags, amount int64) {
	e.emit(Instr{Op: OpDec, Width: w, Flags: f, IVal: amount})
}

func (e *Emitter) AddEqStatic(w Width, f Flags, name string, amount int64) {
	e.emit(Instr{Op: OpAddEqStatic, Width: w, Flags: f, Name: name, IVal: amount})
}

func (e *Emitter) AddEqLocal(w Width, f Flags, offset int, amount int64) {
	e.emit(Instr{Op: OpAddEqLocal, Width: w, Flags: f, IVal: amount, Name: fmt.Sprintf("%d", offset)})
}

func (e *Emitter) AddEqInd(w Width, f Flags, amount int64) {
	e.emit(Instr{Op: OpAddEqInd, Width: w, Flags: f, IVal: amount})
}

func (e *Emitter) SubEqStatic(w Width, f Flags, name string, amount int64) {
	e.emit(Instr{Op: OpSubEqStatic, Width: w, Flags: f, Name: name, IVal: amount})
}

func (e *Emitter) SubEqLocal(w Width, f Flags, offset int, amount int64) {
	e.emit(Instr{Op: OpSubEqLocal, Width: w, Flags: f, IVal: amount, Name: fmt.Sprintf("%d", offset)})
}

func (e *Emitter) SubEqInd(w Width, f Flags, amount int64) {
	e.emit(Instr{Op: OpSubEqInd, Width: w, Flags: f, IVal: amount})
}

// --- conversions ---

func (e *Emitter) Scale(factor int) {
	if factor == 1 {
		return
	}
	e.emit(Instr{Op: OpScale, IVal: int64(factor)})
}

func (e *Emitter) TypeAdjust(from, to Width, f Flags) {
	if from == to {
		return
	}
	e.emit(Instr{Op: OpTypeAdjust, Width: to, Flags: f, IVal: int64(from)})
}

func (e *Emitter) TypeCast(to Width, f Flags) {
	e.emit(Instr{Op: OpTypeCast, Width: to, Flags: f})
}

func (e *Emitter) ToSInt() { e.emit(Instr{Op: OpToSInt}) }
func (e *Emitter) Swap()   { e.emit(Instr{Op: OpSwap}) }
func (e *Emitter) Save()   { e.emit(Instr{Op: OpSave}) }
func (e *Emitter) Restore() { e.emit(Instr{Op: OpRestore}) }

// --- calls ---

func (e *Emitter) Call(name string) { e.emit(Instr{Op: OpCall, Name: name}) }
func (e *Emitter) CallInd()         { e.emit(Instr{Op: OpCallInd}) }

func (e *Emitter) LeaVariadic(offset int) {
	e.emit(Instr{Op: OpLeaVariadic, IVal: int64(offset)})
}

// --- control flow ---

func (e *Emitter) NewLabel() Label { return NewLabel() }

func (e *Emitter) DefLabel(l Label) { e.emit(Instr{Op: OpLabel, Label: l}) }
func (e *Emitter) Jump(l Label)     { e.emit(Instr{Op: OpJump, Label: l}) }
func (e *Emitter) TrueJump(l Label) { e.emit(Instr{Op: OpTrueJump, Label: l}) }
func (e *Emitter) FalseJump(l Label) { e.emit(Instr{Op: OpFalseJump, Label: l}) }

// Raw appends a literal line of target assembly, the escape hatch
// used by inline-asm primaries (spec §4.3).
func (e *Emitter) Raw(text string) { e.emit(Instr{Op: OpRaw, Text: text}) }
