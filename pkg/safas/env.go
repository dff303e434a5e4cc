package safas

// Env is a lexically-scoped binding frame. Frames nest via Parent, mirroring
// the teacher's Environment (pkg/asm/assembler/environment.go), generalised
// from a fixed label/register/bus triple into a general name->Value table
// plus a label-specific side table (labels need redefinition/boundedness
// tracking that ordinary `def` bindings do not).
type Env struct {
	Parent  *Env
	bindings map[string]Value
	labels   map[string]bool // true once DeclareLabel has bound the name
	exports  map[string]bool
}

// NewEnv constructs a root environment with no parent.
func NewEnv() *Env {
	return &Env{
		bindings: make(map[string]Value),
		labels:   make(map[string]bool),
		exports:  make(map[string]bool),
	}
}

// Child constructs a new frame whose parent is the receiver, used for
// function application and `let`.
func (e *Env) Child() *Env {
	return &Env{
		Parent:   e,
		bindings: make(map[string]Value),
		labels:   make(map[string]bool),
		exports:  make(map[string]bool),
	}
}

// Lookup walks the parent chain looking for name, returning (value, true) on
// success.
func (e *Env) Lookup(name string) (Value, bool) {
	for f := e; f != nil; f = f.Parent {
		if v, ok := f.bindings[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// Define installs a new binding in this frame. Redefining an existing name
// in the same frame is an error per spec.md §4.4.
func (e *Env) Define(name string, v Value) *Error {
	if _, ok := e.bindings[name]; ok {
		return Errorf(RedefinitionKind, "%q is already defined in this scope", name)
	}

	e.bindings[name] = v

	return nil
}

// DeclareLabel binds name as both a normal variable and a label. Re-binding
// an already-bound label is a Redefinition error, mirroring the teacher's
// Environment.DeclareLabel panic turned into a returned error.
func (e *Env) DeclareLabel(name string, v Value) *Error {
	if e.labels[name] {
		return Errorf(RedefinitionKind, "label %q is already defined", name)
	}

	e.labels[name] = true

	return e.Define(name, v)
}

// IsLabel reports whether name was bound via DeclareLabel in this exact
// frame.
func (e *Env) IsLabel(name string) bool {
	return e.labels[name]
}

// Export marks name as part of this frame's export set. Per DESIGN.md's
// Open Question decision, the name need not be defined yet: export
// resolution happens lazily once the module has finished evaluating.
func (e *Env) Export(name string) {
	e.exports[name] = true
}

// Exports returns the bindings registered via Export, resolved against the
// current state of this frame. Returns an UnknownName error for any
// exported name that was never defined by the time the module finished
// evaluating.
func (e *Env) Exports() (map[string]Value, *Error) {
	out := make(map[string]Value, len(e.exports))

	for name := range e.exports {
		v, ok := e.bindings[name]
		if !ok {
			return nil, Errorf(UnknownNameKind, "exported name %q was never defined", name)
		}

		out[name] = v
	}

	return out, nil
}

// Import copies a set of bindings into this frame, as performed by `import`.
func (e *Env) Import(bindings map[string]Value) {
	for name, v := range bindings {
		e.bindings[name] = v
	}
}
