package safas

import "github.com/Logicalshift/safas/pkg/source"

// NewRootEnv builds the default top-level environment: the native
// primitives (InstallBuiltins) plus the small standard library of
// convenience definitions described in SPEC_FULL.md §9 — `d8`/`d16`
// width-forcing emission wrappers and a minimal `assert` syntax. `ip`
// itself is not bound here (see DESIGN.md's Open Question 4): it is
// resolved by the evaluator's atom-lookup fallback so it stays live as
// `bit_pos` advances.
func NewRootEnv() *Env {
	env := NewEnv()
	InstallBuiltins(env)
	installStdlib(env)

	return env
}

// stdlibSource is evaluated once against a fresh root environment to
// install the library definitions below, in the teacher's idiom of
// shipping a default environment rather than leaving every program to
// redefine primitives (SPEC_FULL.md §9).
const stdlibSource = `
(def d8 (fun (v) (d (bits 8 v))))
(def d16 (fun (v) (d (bits 16 v))))
(def_syntax assert
  ((assert {cond})
   ((if <cond> (()) ((error "assertion failed"))))))
`

func installStdlib(env *Env) {
	file := source.NewFile("<stdlib>", []byte(stdlibSource))

	forms, _, err := Read(file)
	if err != nil {
		panic("corrupt built-in standard library: " + err.Error())
	}

	ev := &Evaluator{Cursor: NewCursor(), Resolver: NewResolver()}

	for _, f := range forms {
		if _, err := ev.Eval(f, env); err != nil {
			panic("corrupt built-in standard library: " + err.Error())
		}
	}
}
