package safas

import "math/big"

// evalSpecialForm dispatches one of spec.md §4.4's special forms. args is
// the list of unevaluated argument forms (the operator atom already
// stripped).
func (ev *Evaluator) evalSpecialForm(name string, args []Value, env *Env) (Value, *Error) {
	switch name {
	case "quote":
		return ev.evalQuote(args)
	case "if":
		return ev.evalIf(args, env)
	case "let":
		return ev.evalLet(args, env)
	case "def":
		return ev.evalDef(args, env)
	case "fun", "lambda":
		return ev.evalFun(name, args, env)
	case "def_syntax":
		return ev.evalDefSyntax(args, env)
	case "extend_syntax":
		return ev.evalExtendSyntax(args, env)
	case "eval_with_syntax":
		return ev.evalWithSyntax(args, env)
	case "syntax":
		return ev.evalSyntaxLiteral(args, env)
	case "export":
		return ev.evalExport(args, env)
	case "import":
		return ev.evalImport(args, env)
	case "label":
		return ev.evalLabel(args, env)
	case "bits":
		return ev.evalBits(args, env)
	default:
		return nil, Errorf(TypeErrorKind, "unimplemented special form %q", name)
	}
}

func (ev *Evaluator) evalQuote(args []Value) (Value, *Error) {
	if len(args) != 1 {
		return nil, Errorf(ArityErrorKind, "quote expects exactly 1 argument, got %d", len(args))
	}

	return args[0], nil
}

// evalIf implements `(if cond (then-forms...) (else-forms...))`: each
// branch is a list of forms executed in sequence, per spec.md §4.4; the
// result is the value of the last form in the taken branch (the empty
// list if the branch has none).
func (ev *Evaluator) evalIf(args []Value, env *Env) (Value, *Error) {
	if len(args) != 3 {
		return nil, Errorf(ArityErrorKind, "if expects exactly 3 arguments (condition, then, else), got %d", len(args))
	}

	cond, err := ev.Eval(args[0], env)
	if err != nil {
		return nil, err
	}

	branch := args[2]
	if cond.Truthy() {
		branch = args[1]
	}

	block := branch.AsListVal()
	if block == nil {
		return nil, Errorf(TypeErrorKind, "if's branches must be lists of forms, got %s", branch.String())
	}

	return ev.evalBlock(block.Elements, env)
}

// evalLet implements `(let ((name val) ...) body...)`: a child frame with
// each binding evaluated in the OUTER environment (non-recursive, matching
// the teacher's simple-scope convention rather than letrec semantics).
func (ev *Evaluator) evalLet(args []Value, env *Env) (Value, *Error) {
	if len(args) < 1 {
		return nil, Errorf(ArityErrorKind, "let expects a binding list and a body")
	}

	bindingsForm := args[0].AsListVal()
	if bindingsForm == nil {
		return nil, Errorf(TypeErrorKind, "let's first argument must be a list of bindings")
	}

	child := env.Child()

	for _, b := range bindingsForm.Elements {
		pair := b.AsListVal()
		if pair == nil || len(pair.Elements) != 2 {
			return nil, Errorf(TypeErrorKind, "let binding must be (name value), got %s", b.String())
		}

		name := pair.Elements[0].AsAtom()
		if name == nil {
			return nil, Errorf(TypeErrorKind, "let binding name must be an atom, got %s", pair.Elements[0].String())
		}

		v, err := ev.Eval(pair.Elements[1], env)
		if err != nil {
			return nil, err
		}

		if err := child.Define(name.Name, v); err != nil {
			return nil, err
		}
	}

	return ev.evalBlock(args[1:], child)
}

func (ev *Evaluator) evalDef(args []Value, env *Env) (Value, *Error) {
	if len(args) != 2 {
		return nil, Errorf(ArityErrorKind, "def expects exactly 2 arguments (name, value), got %d", len(args))
	}

	name := args[0].AsAtom()
	if name == nil {
		return nil, Errorf(TypeErrorKind, "def's first argument must be an atom, got %s", args[0].String())
	}

	v, err := ev.Eval(args[1], env)
	if err != nil {
		return nil, err
	}

	if err := env.Define(name.Name, v); err != nil {
		return nil, err
	}

	return v, nil
}

// evalFun implements both `fun` and `lambda`: `(fun (params...) body...)`,
// optionally named via `(fun name (params...) body...)` so the function's
// own name is available inside its body for recursion.
func (ev *Evaluator) evalFun(kw string, args []Value, env *Env) (Value, *Error) {
	if len(args) < 1 {
		return nil, Errorf(ArityErrorKind, "%s expects at least a parameter list", kw)
	}

	fnName := ""
	rest := args

	if name := args[0].AsAtom(); name != nil {
		fnName = name.Name
		rest = args[1:]
	}

	if len(rest) < 1 {
		return nil, Errorf(ArityErrorKind, "%s expects a parameter list", kw)
	}

	paramsForm := rest[0].AsListVal()
	if paramsForm == nil {
		return nil, Errorf(TypeErrorKind, "%s's parameter list must be a list, got %s", kw, rest[0].String())
	}

	params := make([]string, len(paramsForm.Elements))

	for i, p := range paramsForm.Elements {
		a := p.AsAtom()
		if a == nil {
			return nil, Errorf(TypeErrorKind, "%s parameter must be an atom, got %s", kw, p.String())
		}

		params[i] = a.Name
	}

	fn := &Function{Name: fnName, Params: params, Body: rest[1:], Env: env}

	if fnName != "" {
		if err := env.Define(fnName, fn); err != nil {
			return nil, err
		}
	}

	return fn, nil
}

// evalDefSyntax implements `(def_syntax name (pattern (template forms...))
// ...)`.
func (ev *Evaluator) evalDefSyntax(args []Value, env *Env) (Value, *Error) {
	if len(args) < 1 {
		return nil, Errorf(ArityErrorKind, "def_syntax expects a name and at least one rule")
	}

	name := args[0].AsAtom()
	if name == nil {
		return nil, Errorf(TypeErrorKind, "def_syntax's first argument must be an atom, got %s", args[0].String())
	}

	rules, err := parseRules(args[1:])
	if err != nil {
		return nil, err
	}

	s := &Syntax{Name: name.Name, Rules: rules, Env: env}

	if err := env.Define(name.Name, s); err != nil {
		return nil, err
	}

	return s, nil
}

// evalExtendSyntax implements `(extend_syntax name base (pattern (template
// forms...)) ...)`: base is evaluated and must yield a Syntax; the result is
// a fresh Syntax whose own rules are tried first, then base's. base is held
// by reference, not copied (per spec.md §9).
func (ev *Evaluator) evalExtendSyntax(args []Value, env *Env) (Value, *Error) {
	if len(args) < 2 {
		return nil, Errorf(ArityErrorKind, "extend_syntax expects a name, a base syntax, and at least one rule")
	}

	name := args[0].AsAtom()
	if name == nil {
		return nil, Errorf(TypeErrorKind, "extend_syntax's first argument must be an atom, got %s", args[0].String())
	}

	baseVal, err := ev.Eval(args[1], env)
	if err != nil {
		return nil, err
	}

	base := baseVal.AsSyntax()
	if base == nil {
		return nil, Errorf(TypeErrorKind, "extend_syntax's base must be a syntax, got %s", baseVal.String())
	}

	rules, rerr := parseRules(args[2:])
	if rerr != nil {
		return nil, rerr
	}

	s := &Syntax{Name: name.Name, Rules: rules, Base: base, Env: env}

	if err := env.Define(name.Name, s); err != nil {
		return nil, err
	}

	return s, nil
}

// evalSyntaxLiteral implements `(syntax (pattern (template forms...)) ...)`: an
// anonymous Syntax value, usable without binding it via def_syntax.
func (ev *Evaluator) evalSyntaxLiteral(args []Value, env *Env) (Value, *Error) {
	rules, err := parseRules(args)
	if err != nil {
		return nil, err
	}

	return &Syntax{Rules: rules, Env: env}, nil
}

func parseRules(forms []Value) ([]Rule, *Error) {
	rules := make([]Rule, 0, len(forms))

	for _, f := range forms {
		l := f.AsListVal()
		if l == nil || len(l.Elements) != 2 || l.Elements[1].AsListVal() == nil {
			return nil, Errorf(TypeErrorKind, "syntax rule must be (pattern (template forms...)), got %s", f.String())
		}

		rules = append(rules, Rule{Pattern: l.Elements[0], Template: l.Elements[1].AsListVal().Elements})
	}

	return rules, nil
}

// evalWithSyntax implements `(eval_with_syntax syntax-expr form-expr)`:
// evaluate both, then expand and evaluate the result under env.
func (ev *Evaluator) evalWithSyntax(args []Value, env *Env) (Value, *Error) {
	if len(args) != 2 {
		return nil, Errorf(ArityErrorKind, "eval_with_syntax expects exactly 2 arguments, got %d", len(args))
	}

	sv, err := ev.Eval(args[0], env)
	if err != nil {
		return nil, err
	}

	s := sv.AsSyntax()
	if s == nil {
		return nil, Errorf(TypeErrorKind, "eval_with_syntax's first argument must be a syntax, got %s", sv.String())
	}

	form, ferr := ev.Eval(args[1], env)
	if ferr != nil {
		return nil, ferr
	}

	expanded, aerr := ApplySyntax(s, form, ev, env)
	if aerr != nil {
		return nil, aerr
	}

	return ev.evalBlock(expanded, env)
}

func (ev *Evaluator) evalExport(args []Value, env *Env) (Value, *Error) {
	for _, a := range args {
		name := a.AsAtom()
		if name == nil {
			return nil, Errorf(TypeErrorKind, "export's arguments must be atoms, got %s", a.String())
		}

		env.Export(name.Name)
	}

	return NewListVal(nil), nil
}

// evalImport implements `(import module-path-string)`: delegates to the
// module loader, then copies the target module's exports into env.
func (ev *Evaluator) evalImport(args []Value, env *Env) (Value, *Error) {
	if len(args) != 1 {
		return nil, Errorf(ArityErrorKind, "import expects exactly 1 argument (a module path), got %d", len(args))
	}

	path, err := ev.Eval(args[0], env)
	if err != nil {
		return nil, err
	}

	s := path.AsStr()
	if s == nil {
		return nil, Errorf(TypeErrorKind, "import's argument must be a string, got %s", path.String())
	}

	if ev.Loader == nil {
		return nil, Errorf(IOErrorKind, "no module loader configured")
	}

	exports, lerr := ev.Loader.Load(ev, string(s.Bytes))
	if lerr != nil {
		return nil, lerr
	}

	env.Import(exports)

	return NewListVal(nil), nil
}

// evalLabel implements `(label name value)`, spec.md §4.4's explicit form
// behind the `(. name)` shorthand: binds name in env (as a label, so
// re-binding is an error) to value's evaluation.
func (ev *Evaluator) evalLabel(args []Value, env *Env) (Value, *Error) {
	if len(args) != 2 {
		return nil, Errorf(ArityErrorKind, "label expects exactly 2 arguments (name, value), got %d", len(args))
	}

	name := args[0].AsAtom()
	if name == nil {
		return nil, Errorf(TypeErrorKind, "label's first argument must be an atom, got %s", args[0].String())
	}

	v, err := ev.Eval(args[1], env)
	if err != nil {
		return nil, err
	}

	if err := env.DeclareLabel(name.Name, v); err != nil {
		return nil, err
	}

	return v, nil
}

// evalBits implements `(bits width value)`: the special form behind
// spec.md §4.7's deferred label resolution. width is evaluated eagerly
// (it must not itself depend on a forward label). value is evaluated
// optimistically; if that fails with UnknownName (a forward reference to a
// label not yet defined), a LabelRef is produced instead of propagating the
// error, carrying the *whole* `(bits width value)` expression and a
// snapshot of env with `ip` frozen to the current emission-site bit
// position — so pass 2's re-evaluation sees the same `ip` this call site
// saw, per spec.md §9's worked branch-offset example.
func (ev *Evaluator) evalBits(args []Value, env *Env) (Value, *Error) {
	if len(args) != 2 {
		return nil, Errorf(ArityErrorKind, "bits expects exactly 2 arguments (width, value), got %d", len(args))
	}

	widthVal, err := ev.Eval(args[0], env)
	if err != nil {
		return nil, err
	}

	widthInt := widthVal.AsInteger()
	if widthInt == nil {
		return nil, Errorf(TypeErrorKind, "bits' width argument must be an integer, got %s", widthVal.String())
	}

	width := uint(widthInt.Value.Uint64())

	v, verr := ev.Eval(args[1], env)
	if verr == nil {
		return rewidthValue(v, width), nil
	}

	if verr.Kind != UnknownNameKind {
		return nil, verr
	}

	frozenIP := newFrozenIPFrame(env, ev.Cursor.BitPos()/8)
	expr := NewListVal([]Value{NewAtomVal("bits"), args[0], args[1]})

	return &LabelRef{Name: args[1].String(), Hole: &Hole{Width: width, Expr: expr, Env: frozenIP}}, nil
}

// rewidthValue applies the `bits` truncate/extend rule to an already
// concrete Integer or Binary value.
func rewidthValue(v Value, width uint) Value {
	if i := v.AsInteger(); i != nil {
		return i.Bits(width)
	}

	if b := v.AsBinary(); b != nil {
		return b.Rewidth(width)
	}

	return v
}

// newFrozenIPFrame builds a child of env with `ip` rebound to a concrete
// byte offset, shadowing any live computation of `ip` for re-evaluation.
func newFrozenIPFrame(env *Env, ipBytes uint64) *Env {
	child := env.Child()
	_ = child.Define("ip", NewInteger(new(big.Int).SetUint64(ipBytes), 32, true))

	return child
}
