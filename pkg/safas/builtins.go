package safas

import (
	"math/big"
	"strings"

	"github.com/Logicalshift/safas/pkg/diagnostic"
)

// InstallBuiltins populates env with spec.md §4.4's primitives: `d`, `a`,
// `m`, `set_bit_pos`, `bit_pos`, `print`, `warn`, `error`, the arithmetic
// operators, and the comparison operators. Grounded on the teacher's
// pattern of a single package-level registration function wiring native
// Go functions into a fresh environment (pkg/asm/assembler's primitive
// op table), generalised from a fixed op switch into a map of Functions.
func InstallBuiltins(env *Env) {
	natives := map[string]func(ev *Evaluator, args []Value) (Value, *Error){
		"d":           builtinD,
		"a":           builtinA,
		"m":           builtinSetBitPos,
		"set_bit_pos": builtinSetBitPos,
		"bit_pos":     builtinBitPos,
		"print":       builtinPrint(diagnostic.Info),
		"warn":        builtinPrint(diagnostic.Warn),
		"error":       builtinError,
		"+":           arith(func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }),
		"-":           arith(func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }),
		"*":           arith(func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }),
		"/":           builtinDivide,
		"<":           compare(func(c int) bool { return c < 0 }),
		"<=":          compare(func(c int) bool { return c <= 0 }),
		">":           compare(func(c int) bool { return c > 0 }),
		">=":          compare(func(c int) bool { return c >= 0 }),
		"=":           compare(func(c int) bool { return c == 0 }),
		"!=":          compare(func(c int) bool { return c != 0 }),
	}

	for name, fn := range natives {
		_ = env.Define(name, &Function{Name: name, Native: fn})
	}
}

// builtinD implements `(d v1 v2 ...)`. A LabelRef argument (produced by
// `bits` deferring on a forward reference) records a hole at the current
// position, reserving its width with zeros, rather than emitting directly.
func builtinD(ev *Evaluator, args []Value) (Value, *Error) {
	for _, v := range args {
		if ref := v.AsLabelRef(); ref != nil {
			pos := ev.Cursor.BitPos()
			ev.Cursor.WriteBits(pos, ref.Hole.Width, big.NewInt(0))
			ev.Cursor.SetBitPos(pos + uint64(ref.Hole.Width))
			ev.Resolver.RecordHole(pos, ref.Hole.Width, ref.Hole.Expr, ref.Hole.Env)

			continue
		}

		if err := ev.Cursor.Emit(v); err != nil {
			return nil, err
		}
	}

	if len(args) == 0 {
		return NewListVal(nil), nil
	}

	return args[len(args)-1], nil
}

// builtinA implements `(a pattern n)`.
func builtinA(ev *Evaluator, args []Value) (Value, *Error) {
	if len(args) != 2 {
		return nil, Errorf(ArityErrorKind, "a expects exactly 2 arguments (pattern, n), got %d", len(args))
	}

	n := args[1].AsInteger()
	if n == nil {
		return nil, Errorf(TypeErrorKind, "a's second argument must be an integer, got %s", args[1].String())
	}

	if err := ev.Cursor.Align(args[0], uint(n.Value.Uint64())); err != nil {
		return nil, err
	}

	return NewListVal(nil), nil
}

// builtinSetBitPos implements both `(m pos)` and `(set_bit_pos pos)`.
func builtinSetBitPos(ev *Evaluator, args []Value) (Value, *Error) {
	if len(args) != 1 {
		return nil, Errorf(ArityErrorKind, "set_bit_pos expects exactly 1 argument, got %d", len(args))
	}

	n := args[0].AsInteger()
	if n == nil {
		return nil, Errorf(TypeErrorKind, "set_bit_pos's argument must be an integer, got %s", args[0].String())
	}

	ev.Cursor.SetBitPos(n.Value.Uint64())

	return args[0], nil
}

func builtinBitPos(ev *Evaluator, args []Value) (Value, *Error) {
	if len(args) != 0 {
		return nil, Errorf(ArityErrorKind, "bit_pos expects no arguments, got %d", len(args))
	}

	return NewInteger(new(big.Int).SetUint64(ev.Cursor.BitPos()), 32, false), nil
}

func builtinPrint(level diagnostic.Level) func(ev *Evaluator, args []Value) (Value, *Error) {
	return func(ev *Evaluator, args []Value) (Value, *Error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = renderMessage(a)
		}

		if ev.Sink != nil {
			ev.Sink.Emit(diagnostic.Diagnostic{Level: level, Message: strings.Join(parts, " ")})
		}

		if len(args) == 0 {
			return NewListVal(nil), nil
		}

		return args[len(args)-1], nil
	}
}

func builtinError(ev *Evaluator, args []Value) (Value, *Error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = renderMessage(a)
	}

	return nil, Errorf(UserErrorKind, "%s", strings.Join(parts, " "))
}

func renderMessage(v Value) string {
	if s := v.AsStr(); s != nil {
		return string(s.Bytes)
	}

	return v.String()
}

func arith(op func(a, b *big.Int) *big.Int) func(ev *Evaluator, args []Value) (Value, *Error) {
	return func(ev *Evaluator, args []Value) (Value, *Error) {
		if len(args) != 2 {
			return nil, Errorf(ArityErrorKind, "arithmetic operator expects exactly 2 arguments, got %d", len(args))
		}

		a, b, err := intOperands(args[0], args[1])
		if err != nil {
			return nil, err
		}

		width := a.Width
		if b.Width > width {
			width = b.Width
		}

		return NewInteger(op(a.Value, b.Value), width, a.Signed || b.Signed), nil
	}
}

func builtinDivide(ev *Evaluator, args []Value) (Value, *Error) {
	if len(args) != 2 {
		return nil, Errorf(ArityErrorKind, "/ expects exactly 2 arguments, got %d", len(args))
	}

	a, b, err := intOperands(args[0], args[1])
	if err != nil {
		return nil, err
	}

	if b.Value.Sign() == 0 {
		return nil, Errorf(TypeErrorKind, "division by zero")
	}

	width := a.Width
	if b.Width > width {
		width = b.Width
	}

	q := new(big.Int).Quo(a.Value, b.Value)

	return NewInteger(q, width, a.Signed || b.Signed), nil
}

func compare(pred func(cmp int) bool) func(ev *Evaluator, args []Value) (Value, *Error) {
	return func(ev *Evaluator, args []Value) (Value, *Error) {
		if len(args) != 2 {
			return nil, Errorf(ArityErrorKind, "comparison operator expects exactly 2 arguments, got %d", len(args))
		}

		a, b, err := intOperands(args[0], args[1])
		if err != nil {
			return nil, err
		}

		result := int64(0)
		if pred(a.Value.Cmp(b.Value)) {
			result = 1
		}

		return NewInteger(big.NewInt(result), 1, false), nil
	}
}

func intOperands(x, y Value) (*Integer, *Integer, *Error) {
	a := x.AsInteger()
	if a == nil {
		return nil, nil, Errorf(TypeErrorKind, "expected an integer, got %s", x.String())
	}

	b := y.AsInteger()
	if b == nil {
		return nil, nil, Errorf(TypeErrorKind, "expected an integer, got %s", y.String())
	}

	return a, b, nil
}
