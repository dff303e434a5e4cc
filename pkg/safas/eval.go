package safas

import (
	"math/big"

	"github.com/Logicalshift/safas/pkg/diagnostic"
)

// Evaluator threads the process-wide mutable state (the output cursor and
// the label resolver's hole list) through an otherwise purely-functional
// tree reduction, per spec.md §5's "the emission cursor is the only mutable
// process-wide state" model.
type Evaluator struct {
	Cursor   *Cursor
	Resolver *Resolver
	Sink     diagnostic.Sink
	Loader   *Loader
}

// NewEvaluator constructs an Evaluator with a fresh cursor and resolver.
func NewEvaluator(sink diagnostic.Sink, loader *Loader) *Evaluator {
	return &Evaluator{
		Cursor:   NewCursor(),
		Resolver: NewResolver(),
		Sink:     sink,
		Loader:   loader,
	}
}

var specialForms = map[string]bool{
	"quote": true, "if": true, "let": true, "def": true,
	"fun": true, "lambda": true, "def_syntax": true, "extend_syntax": true,
	"eval_with_syntax": true, "syntax": true, "export": true, "import": true,
	"label": true, "bits": true,
}

// Eval reduces a value to a value in the given environment, per spec.md
// §4.4.
func (ev *Evaluator) Eval(v Value, env *Env) (Value, *Error) {
	if a := v.AsAtom(); a != nil {
		return ev.evalAtom(a, env)
	}

	if l := v.AsListVal(); l != nil {
		return ev.evalList(l, env)
	}

	if c := v.AsCapture(); c != nil {
		return nil, Errorf(TypeErrorKind, "pattern capture %s used outside a syntax definition", c.String())
	}

	// Integer, Binary, Str, Function, Syntax, LabelRef are self-evaluating.
	return v, nil
}

func (ev *Evaluator) evalAtom(a *AtomVal, env *Env) (Value, *Error) {
	if v, ok := env.Lookup(a.Name); ok {
		return v, nil
	}

	if a.Name == "ip" {
		return NewInteger(new(big.Int).SetUint64(ev.Cursor.BitPos()/8), 32, true), nil
	}

	return nil, Errorf(UnknownNameKind, "unbound name %q", a.Name)
}

func (ev *Evaluator) evalList(l *ListVal, env *Env) (Value, *Error) {
	if len(l.Elements) == 0 {
		return l, nil
	}

	if head := l.Elements[0].AsAtom(); head != nil && specialForms[head.Name] {
		return ev.evalSpecialForm(head.Name, l.Elements[1:], env)
	}

	headVal, err := ev.Eval(l.Elements[0], env)
	if err != nil {
		return nil, err
	}

	switch {
	case headVal.AsFunction() != nil:
		return ev.applyFunction(headVal.AsFunction(), l.Elements[1:], env)
	case headVal.AsSyntax() != nil:
		return ev.applySyntaxCall(headVal.AsSyntax(), l, env)
	default:
		return nil, Errorf(TypeErrorKind, "%s is not callable", headVal.String())
	}
}

// applySyntaxCall implements spec.md §4.4/§4.5's syntax-invocation rule: the
// entire call (head included) is matched first against s's rules. If no
// rule matches it and the call has arguments, each argument form is instead
// an independent candidate matched (unevaluated) against s's rules, and the
// expansions are evaluated in order as a block. A lone `(quote X)` argument
// is unwrapped first so a runtime-computed list value can be matched
// directly, per spec.md §4.4's `(assemble_6502 (quote (lda #10)))` example.
func (ev *Evaluator) applySyntaxCall(s *Syntax, call *ListVal, env *Env) (Value, *Error) {
	args := call.Elements[1:]

	expanded, err := ApplySyntax(s, call, ev, env)
	if err == nil {
		return ev.evalBlock(expanded, env)
	}

	if len(args) == 0 || err.Kind != PatternMatchFailureKind {
		return nil, err
	}

	candidates := args

	if len(args) == 1 {
		if quoted, ok := asQuote(args[0]); ok {
			v, err := ev.Eval(quoted, env)
			if err != nil {
				return nil, err
			}

			candidates = []Value{v}
		}
	}

	var result Value = NewListVal(nil)

	for _, candidate := range candidates {
		expanded, err := ApplySyntax(s, candidate, ev, env)
		if err != nil {
			return nil, err
		}

		result, err = ev.evalBlock(expanded, env)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func asQuote(v Value) (Value, bool) {
	l := v.AsListVal()
	if l == nil || len(l.Elements) != 2 {
		return nil, false
	}

	a := l.Elements[0].AsAtom()
	if a == nil || a.Name != "quote" {
		return nil, false
	}

	return l.Elements[1], true
}

// evalBlock evaluates a sequence of forms in order, returning the value of
// the last one (or the empty list if forms is empty).
func (ev *Evaluator) evalBlock(forms []Value, env *Env) (Value, *Error) {
	var result Value = NewListVal(nil)

	for _, f := range forms {
		v, err := ev.Eval(f, env)
		if err != nil {
			return nil, err
		}

		result = v
	}

	return result, nil
}

func (ev *Evaluator) applyFunction(fn *Function, argForms []Value, env *Env) (Value, *Error) {
	args := make([]Value, len(argForms))

	for i, f := range argForms {
		v, err := ev.Eval(f, env)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	if fn.Native != nil {
		return fn.Native(ev, args)
	}

	if len(args) != len(fn.Params) {
		return nil, Errorf(ArityErrorKind, "function %s expects %d argument(s), got %d", fn.String(), len(fn.Params), len(args))
	}

	callEnv := fn.Env.Child()

	for i, p := range fn.Params {
		if err := callEnv.Define(p, args[i]); err != nil {
			return nil, err
		}
	}

	return ev.evalBlock(fn.Body, callEnv)
}
