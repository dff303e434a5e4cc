package safas

import (
	"math/big"
	"strings"

	"github.com/Logicalshift/safas/pkg/sexp"
	"github.com/Logicalshift/safas/pkg/source"
)

// Read parses a source file into a sequence of top-level Values (forms
// ready for evaluation), layering spec.md §3's typed numeric-literal
// grammar and the `.` label shorthand on top of the bracket-level
// pkg/sexp reader.
func Read(file *source.File) ([]Value, *source.Map[Value], *Error) {
	forms, nodeMap, synErr := sexp.Parse(file)
	if synErr != nil {
		return nil, nil, &Error{Kind: ParseErrorKind, Msg: synErr.Message(), Span: spanOf(synErr), File: file}
	}

	valueMap := source.NewMap[Value](file)

	values := make([]Value, 0, len(forms))

	for _, f := range forms {
		v, err := convert(f, nodeMap, valueMap, file)
		if err != nil {
			return nil, nil, err
		}

		values = append(values, v)
	}

	return values, valueMap, nil
}

func spanOf(e *source.SyntaxError) *source.Span {
	span := e.Span()
	return &span
}

// convert turns one sexp.Node into a safas.Value, recursively, registering
// each constructed value's span in valueMap and desugaring `(. name)` into
// `(label name ip)` along the way.
func convert(n sexp.Node, nodeMap *source.Map[sexp.Node], valueMap *source.Map[Value], file *source.File) (Value, *Error) {
	switch node := n.(type) {
	case *sexp.Atom:
		v, err := classifyAtom(node, nodeMap, file)
		if err != nil {
			return nil, err
		}

		putSpan(valueMap, nodeMap, n, v)

		return v, nil
	case *sexp.Capture:
		inner, err := convert(node.Inner, nodeMap, valueMap, file)
		if err != nil {
			return nil, err
		}

		kind := RawCapture
		if node.Kind == sexp.Angle {
			kind = EvalCapture
		}

		v := &CaptureVal{Kind: kind, Inner: inner}
		putSpan(valueMap, nodeMap, n, v)

		return v, nil
	case *sexp.List:
		elements := make([]Value, 0, len(node.Elements))

		for _, e := range node.Elements {
			v, err := convert(e, nodeMap, valueMap, file)
			if err != nil {
				return nil, err
			}

			elements = append(elements, v)
		}

		v := desugarLabelShorthand(elements)
		putSpan(valueMap, nodeMap, n, v)

		return v, nil
	default:
		return nil, Errorf(ParseErrorKind, "unrecognised node type")
	}
}

func putSpan(valueMap *source.Map[Value], nodeMap *source.Map[sexp.Node], n sexp.Node, v Value) {
	if span, ok := nodeMap.Get(n); ok && !valueMap.Has(v) {
		valueMap.Put(v, span)
	}
}

// desugarLabelShorthand rewrites `(. name)` into `(label name ip)`, per
// spec.md §4.1.
func desugarLabelShorthand(elements []Value) Value {
	if len(elements) == 2 {
		if a := elements[0].AsAtom(); a != nil && a.Name == "." {
			return NewListVal([]Value{
				NewAtomVal("label"),
				elements[1],
				NewAtomVal("ip"),
			})
		}
	}

	return NewListVal(elements)
}

// classifyAtom recognises spec.md §6's numeric literal grammar, falling
// back to a plain AtomVal (or Str, for quoted literals) when the token is
// not a number.
func classifyAtom(a *sexp.Atom, nodeMap *source.Map[sexp.Node], file *source.File) (Value, *Error) {
	if a.IsString {
		return NewStr(a.Value), nil
	}

	text := a.Value

	if text == "" {
		return NewAtomVal(text), nil
	}

	switch {
	case text[0] == '$':
		return parseHexLiteral(text, a, nodeMap, file)
	case strings.HasSuffix(text, "b") && isAllBinaryDigits(text[:len(text)-1]):
		return parseBinaryLiteral(text), nil
	case isDigit(text[0]) || (text[0] == '-' && len(text) > 1 && isDigit(text[1])):
		return parseDecimalLiteral(text, a, nodeMap, file)
	default:
		return NewAtomVal(text), nil
	}
}

func isDigit(r byte) bool { return r >= '0' && r <= '9' }

func isHexDigit(r byte) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAllBinaryDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return false
		}
	}

	return true
}

// parseWidthSuffix parses a trailing `u<N>`/`i<N>` width suffix. ok is false
// when s is non-empty but does not form a valid suffix (malformed numeric
// literal).
func parseWidthSuffix(s string) (width uint, signed bool, has bool, ok bool) {
	if s == "" {
		return 0, false, false, true
	}

	if s[0] != 'u' && s[0] != 'i' {
		return 0, false, false, false
	}

	digits := s[1:]

	if digits == "" {
		return 0, false, false, false
	}

	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return 0, false, false, false
		}
	}

	n := new(big.Int)
	n.SetString(digits, 10)

	return uint(n.Uint64()), s[0] == 'i', true, true
}

func parseDecimalLiteral(text string, a *sexp.Atom, nodeMap *source.Map[sexp.Node], file *source.File) (Value, *Error) {
	i := 0
	if text[0] == '-' {
		i = 1
	}

	start := i
	for i < len(text) && isDigit(text[i]) {
		i++
	}

	digits := text[start:i]
	suffix := text[i:]

	if digits == "" {
		return nil, malformed(a, nodeMap, file, "malformed numeric literal %q", text)
	}

	width, signed, has, ok := parseWidthSuffix(suffix)
	if !ok {
		return nil, malformed(a, nodeMap, file, "malformed numeric literal suffix in %q", text)
	}

	if !has {
		width, signed = 32, true
	}

	magnitude := new(big.Int)
	magnitude.SetString(text[:i], 10)

	return NewInteger(magnitude, width, signed), nil
}

func parseHexLiteral(text string, a *sexp.Atom, nodeMap *source.Map[sexp.Node], file *source.File) (Value, *Error) {
	i := 1
	start := i

	for i < len(text) && isHexDigit(text[i]) {
		i++
	}

	digits := text[start:i]
	suffix := text[i:]

	if digits == "" {
		return nil, malformed(a, nodeMap, file, "malformed hexadecimal literal %q", text)
	}

	width, signed, has, ok := parseWidthSuffix(suffix)
	if !ok {
		return nil, malformed(a, nodeMap, file, "malformed numeric literal suffix in %q", text)
	}

	magnitude := new(big.Int)
	magnitude.SetString(digits, 16)

	if !has {
		// Open Question decision (DESIGN.md): default to the minimum
		// byte-multiple width that holds the value, unsigned.
		width, signed = minByteMultiple(uint(magnitude.BitLen())), false
	}

	return NewInteger(magnitude, width, signed), nil
}

func minByteMultiple(bitlen uint) uint {
	if bitlen == 0 {
		return 8
	}

	return ((bitlen + 7) / 8) * 8
}

func parseBinaryLiteral(text string) Value {
	digits := text[:len(text)-1]
	magnitude := new(big.Int)
	magnitude.SetString(digits, 2)

	return NewBinary(magnitude, uint(len(digits)))
}

func malformed(a *sexp.Atom, nodeMap *source.Map[sexp.Node], file *source.File, format string, args ...interface{}) *Error {
	span, _ := nodeMap.Get(a)
	return ErrorfAt(ParseErrorKind, file, span, format, args...)
}
