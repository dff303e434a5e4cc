package safas

// Binding records one pattern variable captured while matching a surface
// form against a Syntax rule's pattern: the raw (unevaluated) subtree that
// matched, the bracket kind used to capture it, and (lazily) its evaluated
// form, computed at most once per expansion.
type Binding struct {
	Kind   CaptureKind
	Raw    Value
	cached Value
	hasVal bool
}

// Match attempts to match a candidate form against a single pattern,
// recording captured bindings. Candidate patterns are tried in source
// order by ApplySyntax; Match itself performs no backtracking once a
// structural position fails (spec.md §4.5: "no backtracking across
// alternatives once a position mismatches").
func Match(pattern, form Value, bindings map[string]*Binding) bool {
	if cap := pattern.AsCapture(); cap != nil {
		name := cap.Inner.AsAtom()
		if name == nil {
			// A capture must wrap a bare name; anything else is a pattern
			// authoring error, treated as a non-match rather than a panic.
			return false
		}

		bindings[name.Name] = &Binding{Kind: cap.Kind, Raw: form}

		return true
	}

	if patAtom := pattern.AsAtom(); patAtom != nil {
		formAtom := form.AsAtom()
		return formAtom != nil && formAtom.Name == patAtom.Name
	}

	if patList := pattern.AsListVal(); patList != nil {
		formList := form.AsListVal()
		if formList == nil || len(formList.Elements) != len(patList.Elements) {
			return false
		}

		for i := range patList.Elements {
			if !Match(patList.Elements[i], formList.Elements[i], bindings) {
				return false
			}
		}

		return true
	}

	return literalEqual(pattern, form)
}

// literalEqual compares two non-capture, non-list, non-atom pattern terms
// (integers, binaries, strings) for exact equality, used when a rule's
// pattern embeds a literal value rather than a bare symbol.
func literalEqual(a, b Value) bool {
	switch {
	case a.AsInteger() != nil && b.AsInteger() != nil:
		x, y := a.AsInteger(), b.AsInteger()
		return x.Width == y.Width && x.Signed == y.Signed && x.Value.Cmp(y.Value) == 0
	case a.AsBinary() != nil && b.AsBinary() != nil:
		x, y := a.AsBinary(), b.AsBinary()
		return x.Count == y.Count && x.Bits.Cmp(y.Bits) == 0
	case a.AsStr() != nil && b.AsStr() != nil:
		return string(a.AsStr().Bytes) == string(b.AsStr().Bytes)
	default:
		return false
	}
}

// resolve returns the value of a binding under the given capture kind,
// evaluating and caching the raw subtree the first time an EvalCapture use
// is requested.
func (b *Binding) resolve(kind CaptureKind, ev *Evaluator, env *Env) (Value, *Error) {
	if kind == RawCapture {
		return b.Raw, nil
	}

	if b.hasVal {
		return b.cached, nil
	}

	v, err := ev.Eval(b.Raw, env)
	if err != nil {
		return nil, err
	}

	b.cached, b.hasVal = v, true

	return v, nil
}

// substitute rewrites a template form, replacing every capture placeholder
// with its bound value (evaluated for `<name>`, raw for `{name}`), per
// spec.md §4.5.
func substitute(template Value, bindings map[string]*Binding, ev *Evaluator, env *Env) (Value, *Error) {
	if cap := template.AsCapture(); cap != nil {
		name := cap.Inner.AsAtom()
		if name == nil {
			return template, nil
		}

		binding, ok := bindings[name.Name]
		if !ok {
			return nil, Errorf(PatternMatchFailureKind, "template references unbound pattern variable %q", name.Name)
		}

		return binding.resolve(cap.Kind, ev, env)
	}

	if list := template.AsListVal(); list != nil {
		out := make([]Value, len(list.Elements))

		for i, e := range list.Elements {
			v, err := substitute(e, bindings, ev, env)
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return NewListVal(out), nil
	}

	return template, nil
}

// ApplySyntax matches form against s's rules in order (falling through to
// s.Base when none match, per extend_syntax's composition rule), and
// returns the substituted template forms ready for evaluation in env.
func ApplySyntax(s *Syntax, form Value, ev *Evaluator, env *Env) ([]Value, *Error) {
	for _, rule := range s.Rules {
		bindings := make(map[string]*Binding)

		if !Match(rule.Pattern, form, bindings) {
			continue
		}

		expanded := make([]Value, len(rule.Template))

		for i, t := range rule.Template {
			v, err := substitute(t, bindings, ev, env)
			if err != nil {
				return nil, err
			}

			expanded[i] = v
		}

		return expanded, nil
	}

	if s.Base != nil {
		return ApplySyntax(s.Base, form, ev, env)
	}

	return nil, Errorf(PatternMatchFailureKind, "no syntax rule matched %s", form.String())
}
