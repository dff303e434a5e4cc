// Package sexp implements the bracket-level reader shared by the SAFAS
// surface syntax: it turns source text into a tree of Atoms and Lists,
// without knowledge of numeric literal widths or pattern-capture semantics
// (those live one layer up, in package safas).
package sexp

// Node is either a List, an Atom, or a Capture (a `{...}`/`<...>` bracketed
// sub-form used only inside syntax patterns and templates).
type Node interface {
	// AsList returns this node as a list, or nil if it is not one.
	AsList() *List
	// AsAtom returns this node as an atom, or nil if it is not one.
	AsAtom() *Atom
	// AsCapture returns this node as a capture bracket, or nil if it is not
	// one.
	AsCapture() *Capture
	// String renders the node back to surface syntax.
	String() string
}

// List is an ordered sequence of sub-forms delimited by parentheses.
type List struct {
	Elements []Node
}

var _ Node = (*List)(nil)

// NewList constructs a list from the given elements.
func NewList(elements []Node) *List { return &List{elements} }

// AsList returns the receiver.
func (l *List) AsList() *List { return l }

// AsAtom returns nil: a list is not an atom.
func (l *List) AsAtom() *Atom { return nil }

// AsCapture returns nil: a list is not a capture.
func (l *List) AsCapture() *Capture { return nil }

// Len returns the number of elements in this list.
func (l *List) Len() int { return len(l.Elements) }

// Get returns the ith element of this list.
func (l *List) Get(i int) Node { return l.Elements[i] }

// MatchHead checks whether this list's first element is an atom equal to
// name.
func (l *List) MatchHead(name string) bool {
	if len(l.Elements) == 0 {
		return false
	}

	a := l.Elements[0].AsAtom()

	return a != nil && a.Value == name
}

func (l *List) String() string {
	s := "("

	for i, e := range l.Elements {
		if i != 0 {
			s += " "
		}

		s += e.String()
	}

	return s + ")"
}

// Atom is a terminating token: an identifier, numeric literal, string
// literal, or operator symbol.
type Atom struct {
	// Value is the raw token text as it appeared in the source, with string
	// literals already unescaped.
	Value string
	// IsString records whether this atom was written as a quoted string
	// literal (as opposed to a bare symbol/number).
	IsString bool
}

var _ Node = (*Atom)(nil)

// NewAtom constructs a bare (non-string) atom.
func NewAtom(value string) *Atom { return &Atom{Value: value} }

// NewStringAtom constructs a string-literal atom.
func NewStringAtom(value string) *Atom { return &Atom{Value: value, IsString: true} }

// AsList returns nil: an atom is not a list.
func (a *Atom) AsList() *List { return nil }

// AsAtom returns the receiver.
func (a *Atom) AsAtom() *Atom { return a }

// AsCapture returns nil: an atom is not a capture.
func (a *Atom) AsCapture() *Capture { return nil }

func (a *Atom) String() string {
	if a.IsString {
		return `"` + a.Value + `"`
	}

	return a.Value
}

// Bracket identifies which pair of capture brackets wraps a Capture node.
type Bracket int

const (
	// Curly identifies `{x}`: binds the raw, unevaluated inner form.
	Curly Bracket = iota
	// Angle identifies `<x>`: binds the evaluated inner form.
	Angle
)

// Capture is a `{inner}` or `<inner>` bracketed sub-form. These only carry
// meaning inside a syntax pattern or template; elsewhere they are inert
// containers (the evaluator rejects them outside that context).
type Capture struct {
	Kind  Bracket
	Inner Node
}

var _ Node = (*Capture)(nil)

// AsList returns nil: a capture is not a list.
func (c *Capture) AsList() *List { return nil }

// AsAtom returns nil: a capture is not an atom.
func (c *Capture) AsAtom() *Atom { return nil }

// AsCapture returns the receiver.
func (c *Capture) AsCapture() *Capture { return c }

func (c *Capture) String() string {
	if c.Kind == Curly {
		return "{" + c.Inner.String() + "}"
	}

	return "<" + c.Inner.String() + ">"
}
