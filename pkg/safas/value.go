package safas

import (
	"math/big"
	"strings"
)

// Value is the tagged, immutable-after-construction value type shared by
// both SAFAS data and code: a program is itself a tree of Values (List and
// Atom), which is what makes `quote`, syntax templates, and macro expansion
// possible without a separate AST representation.
//
// Following the teacher's accessor-method convention (pkg/util/source/sexp's
// SExp.AsList()/AsSymbol()/...), callers downcast via the AsXxx() methods
// rather than type-switching at every call site.
type Value interface {
	AsInteger() *Integer
	AsBinary() *Binary
	AsStr() *Str
	AsAtom() *AtomVal
	AsListVal() *ListVal
	AsFunction() *Function
	AsSyntax() *Syntax
	AsLabelRef() *LabelRef
	AsCapture() *CaptureVal
	// Truthy reports whether this value is considered true by `if`. Per
	// spec.md §4.4: a zero Integer and the empty list are falsey; all else
	// is truthy.
	Truthy() bool
	// String renders this value back to SAFAS surface syntax.
	String() string
}

// baseValue supplies the "not this variant" answer for every AsXxx() method;
// each concrete variant embeds it and overrides only its own accessor.
type baseValue struct{}

func (baseValue) AsInteger() *Integer     { return nil }
func (baseValue) AsBinary() *Binary       { return nil }
func (baseValue) AsStr() *Str             { return nil }
func (baseValue) AsAtom() *AtomVal        { return nil }
func (baseValue) AsListVal() *ListVal     { return nil }
func (baseValue) AsFunction() *Function   { return nil }
func (baseValue) AsSyntax() *Syntax       { return nil }
func (baseValue) AsLabelRef() *LabelRef   { return nil }
func (baseValue) AsCapture() *CaptureVal  { return nil }
func (baseValue) Truthy() bool            { return true }

// ===================================================================
// Integer
// ===================================================================

// Integer is a signed-or-unsigned, explicitly-sized integer value. The
// magnitude is held as the value's true mathematical value (i.e. already
// sign-adjusted), not as a raw bit pattern; RawBits() recovers the bit
// pattern for emission.
type Integer struct {
	baseValue
	Value  *big.Int
	Width  uint
	Signed bool
}

var _ Value = (*Integer)(nil)

// NewInteger constructs an Integer holding v exactly, with the given width
// and signedness. A value outside the width's range is kept as is (see
// FitsWidth) and is reported as a WidthError when emitted; Bits truncates.
func NewInteger(v *big.Int, width uint, signed bool) *Integer {
	return &Integer{Value: new(big.Int).Set(v), Width: width, Signed: signed}
}

// AsInteger returns the receiver.
func (i *Integer) AsInteger() *Integer { return i }

// Truthy: zero integers are falsey.
func (i *Integer) Truthy() bool { return i.Value.Sign() != 0 }

func (i *Integer) String() string {
	suffix := "u"
	if i.Signed {
		suffix = "i"
	}

	return i.Value.String() + suffix + itoa(i.Width)
}

// rewidth truncates/sign-extends to n bits, preserving signedness. Never
// errors, matching spec.md §7 ("bits... never errors").
func (i *Integer) rewidth(n uint) *Integer {
	modulus := new(big.Int).Lsh(big.NewInt(1), n)
	v := new(big.Int).Mod(i.Value, modulus)

	if v.Sign() < 0 {
		v.Add(v, modulus)
	}

	if i.Signed && n > 0 {
		half := new(big.Int).Lsh(big.NewInt(1), n-1)
		if v.Cmp(half) >= 0 {
			v.Sub(v, modulus)
		}
	}

	return &Integer{Value: v, Width: n, Signed: i.Signed}
}

// Bits reinterprets this Integer as an n-bit value (the `bits` operation).
func (i *Integer) Bits(n uint) *Integer {
	return i.rewidth(n)
}

// RawBits returns the non-negative n-bit two's-complement bit pattern for
// this integer, suitable for MSB-first emission.
func (i *Integer) RawBits() *big.Int {
	modulus := new(big.Int).Lsh(big.NewInt(1), i.Width)
	v := new(big.Int).Mod(i.Value, modulus)

	if v.Sign() < 0 {
		v.Add(v, modulus)
	}

	return v
}

// FitsWidth reports whether Value fits within [0, 2^Width) for unsigned, or
// [-2^(Width-1), 2^(Width-1)-1] for signed.
func (i *Integer) FitsWidth() bool {
	if i.Width == 0 {
		return i.Value.Sign() == 0
	}

	if i.Signed {
		half := new(big.Int).Lsh(big.NewInt(1), i.Width-1)
		lo := new(big.Int).Neg(half)
		hi := new(big.Int).Sub(half, big.NewInt(1))

		return i.Value.Cmp(lo) >= 0 && i.Value.Cmp(hi) <= 0
	}

	hi := new(big.Int).Lsh(big.NewInt(1), i.Width)

	return i.Value.Sign() >= 0 && i.Value.Cmp(hi) < 0
}

// ===================================================================
// Binary literal
// ===================================================================

// Binary is a binary literal such as `0011b`: a fixed digit-count bit
// pattern, distinct from Integer in that its width equals the number of
// digits written, with no signedness.
type Binary struct {
	baseValue
	Bits  *big.Int // raw, non-negative bit pattern
	Count uint
}

var _ Value = (*Binary)(nil)

// NewBinary constructs a binary literal value.
func NewBinary(bits *big.Int, count uint) *Binary {
	return &Binary{Bits: new(big.Int).Set(bits), Count: count}
}

// AsBinary returns the receiver.
func (b *Binary) AsBinary() *Binary { return b }

// Truthy: binary literals are always truthy (they are not Integers).
func (b *Binary) Truthy() bool { return true }

func (b *Binary) String() string {
	s := b.Bits.Text(2)
	for uint(len(s)) < b.Count {
		s = "0" + s
	}

	return s + "b"
}

// Rewidth reinterprets this binary literal as an n-bit value. Per spec.md
// §7: shorter-than-requested zero-extends on the left (high-order bits);
// longer truncates on the left (keeps the low n bits).
func (b *Binary) Rewidth(n uint) *Binary {
	if n >= b.Count {
		return &Binary{Bits: new(big.Int).Set(b.Bits), Count: n}
	}

	modulus := new(big.Int).Lsh(big.NewInt(1), n)
	v := new(big.Int).Mod(b.Bits, modulus)

	return &Binary{Bits: v, Count: n}
}

// ===================================================================
// String
// ===================================================================

// Str is a byte-sequence value, emitted as its raw bytes by `d`.
type Str struct {
	baseValue
	Bytes []byte
}

var _ Value = (*Str)(nil)

// NewStr constructs a string value from a Go string.
func NewStr(s string) *Str { return &Str{Bytes: []byte(s)} }

// AsStr returns the receiver.
func (s *Str) AsStr() *Str { return s }

func (s *Str) String() string { return `"` + strings.ReplaceAll(string(s.Bytes), `"`, `\"`) + `"` }

// ===================================================================
// Atom
// ===================================================================

// AtomVal is an interned identifier, used both as a variable name and as a
// matchable literal token in syntax patterns.
type AtomVal struct {
	baseValue
	Name string
}

var _ Value = (*AtomVal)(nil)

// NewAtomVal constructs an atom value.
func NewAtomVal(name string) *AtomVal { return &AtomVal{Name: name} }

// AsAtom returns the receiver.
func (a *AtomVal) AsAtom() *AtomVal { return a }

func (a *AtomVal) String() string { return a.Name }

// ===================================================================
// List
// ===================================================================

// ListVal is an ordered sequence of Values: the S-expression spine, used for
// both data (after `quote`) and code (before evaluation).
type ListVal struct {
	baseValue
	Elements []Value
}

var _ Value = (*ListVal)(nil)

// NewListVal constructs a list value.
func NewListVal(elements []Value) *ListVal { return &ListVal{Elements: elements} }

// AsListVal returns the receiver.
func (l *ListVal) AsListVal() *ListVal { return l }

// Truthy: the empty list is falsey.
func (l *ListVal) Truthy() bool { return len(l.Elements) != 0 }

func (l *ListVal) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// MatchHead checks whether the first element is an atom equal to name.
func (l *ListVal) MatchHead(name string) bool {
	if len(l.Elements) == 0 {
		return false
	}

	a := l.Elements[0].AsAtom()

	return a != nil && a.Name == name
}

// ===================================================================
// Function
// ===================================================================

// Function is a closure: either a user-defined `fun`/`lambda` (Params/Body/
// Env populated, Native nil) or a built-in primitive (Native populated).
type Function struct {
	baseValue
	Name   string
	Params []string
	Body   []Value
	Env    *Env
	Native func(ev *Evaluator, args []Value) (Value, *Error)
}

var _ Value = (*Function)(nil)

// AsFunction returns the receiver.
func (f *Function) AsFunction() *Function { return f }

func (f *Function) String() string {
	if f.Name != "" {
		return "#<function:" + f.Name + ">"
	}

	return "#<function>"
}

// ===================================================================
// Syntax
// ===================================================================

// Rule is one (pattern, template) pair of a Syntax.
type Rule struct {
	Pattern  Value
	Template []Value
}

// Syntax is a first-class value mapping surface forms to expansions via an
// ordered list of rules, plus an optional Base syntax consulted when none of
// this syntax's own rules match (extend_syntax fallthrough, modelled as a
// reference rather than a copy per spec.md §9).
type Syntax struct {
	baseValue
	Name  string
	Rules []Rule
	Base  *Syntax
	Env   *Env
}

var _ Value = (*Syntax)(nil)

// AsSyntax returns the receiver.
func (s *Syntax) AsSyntax() *Syntax { return s }

func (s *Syntax) String() string {
	if s.Name != "" {
		return "#<syntax:" + s.Name + ">"
	}

	return "#<syntax>"
}

// ===================================================================
// LabelRef
// ===================================================================

// LabelRef is produced when a label name is referenced before its
// definition, but only inside `bits`: evalBits (special_forms.go)
// evaluates its value argument and, if that evaluation fails with
// UnknownNameKind, catches the error itself and yields a LabelRef (wrapping
// a Hole that `d` records with the resolver when it emits the LabelRef)
// instead of propagating the failure. No other call site intercepts unknown-name lookups this way;
// a bare reference to an undefined name outside `bits` still fails
// immediately.
type LabelRef struct {
	baseValue
	Name string
	Hole *Hole
}

var _ Value = (*LabelRef)(nil)

// AsLabelRef returns the receiver.
func (l *LabelRef) AsLabelRef() *LabelRef { return l }

func (l *LabelRef) String() string { return "#<label-ref:" + l.Name + ">" }

// ===================================================================
// Capture (pattern-only)
// ===================================================================

// CaptureKind distinguishes `{name}` (raw) from `<name>` (evaluated)
// captures inside a syntax pattern/template.
type CaptureKind int

const (
	// RawCapture corresponds to `{name}`: binds the unevaluated tree.
	RawCapture CaptureKind = iota
	// EvalCapture corresponds to `<name>`: binds the evaluated value.
	EvalCapture
)

// CaptureVal is the Value-level counterpart of sexp.Capture: it appears only
// inside the pattern/template trees passed to `def_syntax`/`extend_syntax`,
// never in ordinary evaluated code.
type CaptureVal struct {
	baseValue
	Kind  CaptureKind
	Inner Value
}

var _ Value = (*CaptureVal)(nil)

// AsCapture returns the receiver.
func (c *CaptureVal) AsCapture() *CaptureVal { return c }

func (c *CaptureVal) String() string {
	if c.Kind == RawCapture {
		return "{" + c.Inner.String() + "}"
	}

	return "<" + c.Inner.String() + ">"
}

func itoa(n uint) string {
	return new(big.Int).SetUint64(uint64(n)).String()
}
