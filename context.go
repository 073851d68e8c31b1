package exprc

import "github.com/8bitc/exprc/emit"

// Context threads every piece of process-wide state the original
// source kept as globals — token stream, symbol table, code buffer,
// virtual stack pointer, deferred-ops queue, configuration — through
// a single mutable value passed by pointer into every parser function
// (spec §9's "Design notes": "In a modern target language, thread
// this as a single Context passed by mutable reference").
type Context struct {
	Tokens  TokenSource
	Symbols *SymbolTable
	Types   Types
	Literals *LiteralPool
	Labels  *LabelAllocator
	Emit    *emit.Emitter
	Config  *Config

	Diags    []Diag
	Deferred DeferredQueue

	unevalDepth int

	// CurFunc is the symbol of the function currently being
	// compiled. Nothing in this module reads it.
	CurFunc *SymEntry
}

// NewContext wires the default reference collaborators together; the
// surrounding compiler is free to substitute Tokens/Symbols with its
// own lexer/declaration-parser-backed implementations.
func NewContext(tokens TokenSource) *Context {
	return &Context{
		Tokens:   tokens,
		Symbols:  NewSymbolTable(),
		Literals: NewLiteralPool(),
		Labels:   &LabelAllocator{},
		Emit:     emit.NewEmitter(),
		Config:   NewConfig(),
	}
}

// AutoCDecl mirrors the "compiler.auto_cdecl" config switch (spec §6)
// as a convenience accessor used throughout §4.6's call handling.
func (c *Context) AutoCDecl() bool { return c.Config.GetBool("compiler.auto_cdecl") }

// Uneval reports whether the parser is currently inside an
// unevaluated context: sizeof's operand, a short-circuited &&/||
// operand, or the untaken branch of a constant-condition ?: (spec
// §4.5, §4.9, §4.10, and the Glossary's "Unevaluated context").
func (c *Context) Uneval() bool { return c.unevalDepth > 0 }

// EnterUneval/LeaveUneval bracket an unevaluated parse. The emitter
// still executes normally inside the bracket (so type computation
// sees correctly-shaped code); the caller is responsible for rolling
// the code buffer back to a pre-captured mark once the bracket closes,
// per spec §9's "the peephole ultimately guarantees zero residue".
func (c *Context) EnterUneval() { c.unevalDepth++ }
func (c *Context) LeaveUneval() { c.unevalDepth-- }

// Run is the single recover point for InternalError per spec §7: an
// internal inconsistency aborts compilation of the current
// translation unit rather than unwinding into the caller's Go stack.
func (c *Context) Run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(InternalError); ok {
				err = ie
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

// width/flags helpers shared by every §4 sub-parser.

func exprWidth(ctx *Context, t *Type) emit.Width {
	switch ctx.Types.Width(t) {
	case 1:
		return emit.Width1
	case 2:
		return emit.Width2
	default:
		return emit.Width4
	}
}

func exprFlags(t *Type) emit.Flags {
	if t.IsUnsigned() {
		return emit.FlagUnsigned
	}
	return 0
}
