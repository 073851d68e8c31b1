package exprc

import "fmt"

// Severity distinguishes a hard error from a warning. Both are user
// diagnostics per spec §7: the parser reports them and keeps going.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diag is a recoverable user diagnostic: malformed input, a type
// mismatch, an undeclared symbol, division by zero in a constant
// expression, and so on. It is always paired with a synthesised safe
// replacement ExprDesc by the caller so parsing can continue within
// the same translation unit (spec §7).
type Diag struct {
	Severity Severity
	Message  string
	Span     Span
}

func (e Diag) Error() string {
	return fmt.Sprintf("%s: %s @ %s", e.Severity, e.Message, e.Span)
}

// InternalError marks a compiler-bug class failure: an unknown
// location tag, a virtual-stack-pointer mismatch across an
// expression, a non-empty deferred-ops queue at a sequence point, a
// non-exhaustive dispatch. These never propagate as ordinary errors;
// Context.Internal panics with one, and the only recover point is
// Context.Run, mirroring the teacher's split between a
// backtrackingError that unwinds locally through Choice and a
// ParsingError that is thrown past it.
type InternalError struct {
	Message string
	Span    Span
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal error: %s @ %s", e.Message, e.Span)
}

// Errorf records a hard diagnostic and returns a synthesised
// replacement descriptor so the caller always has something
// well-typed to compose with.
func (c *Context) Errorf(span Span, format string, args ...any) ExprDesc {
	c.Diags = append(c.Diags, Diag{Severity: SeverityError, Message: fmt.Sprintf(format, args...), Span: span})
	return c.safeReplacement()
}

// Warnf records a soft diagnostic without altering control flow.
func (c *Context) Warnf(span Span, format string, args ...any) {
	c.Diags = append(c.Diags, Diag{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Span: span})
}

// Internal reports a fatal internal inconsistency and aborts the
// current parse by panicking; recovered only at Context.Run.
func (c *Context) Internal(span Span, format string, args ...any) {
	panic(InternalError{Message: fmt.Sprintf(format, args...), Span: span})
}

func (c *Context) safeReplacement() ExprDesc {
	return ExprDesc{Type: c.Types.Int(), Location: LocNone, RefType: RValue, IVal: 1}
}

// HasErrors reports whether any hard error (as opposed to a warning)
// was recorded.
func (c *Context) HasErrors() bool {
	for _, d := range c.Diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
