package safas

import (
	"path/filepath"

	"github.com/Logicalshift/safas/pkg/diagnostic"
	"github.com/Logicalshift/safas/pkg/source"
)

// Options configures a single assembly run.
type Options struct {
	// Provider resolves `(import "path")` targets. Defaults to a
	// FileSourceProvider with no library roots (import paths are resolved
	// relative to the importing module's directory, then the current
	// working directory) if nil.
	Provider SourceProvider
	// Sink receives `print`/`warn` diagnostics. Defaults to diagnostic.NopSink
	// if nil.
	Sink diagnostic.Sink
}

// Assemble runs the full pipeline described by spec.md §2 over a single
// entry file: read, evaluate top to bottom in a fresh root environment,
// resolve deferred labels, and return the finished byte buffer. This is
// the one function both the CLI (pkg/cmd) and tests call to exercise the
// whole engine end to end.
func Assemble(file *source.File, opts Options) ([]byte, []*Error) {
	forms, _, err := Read(file)
	if err != nil {
		return nil, []*Error{err}
	}

	provider := opts.Provider
	if provider == nil {
		provider = NewFileSourceProvider()
	}

	sink := opts.Sink
	if sink == nil {
		sink = diagnostic.NopSink{}
	}

	ev := NewEvaluator(sink, NewLoader(provider, filepath.Dir(file.Name())))
	env := NewRootEnv()

	for _, f := range forms {
		if _, everr := ev.Eval(f, env); everr != nil {
			return nil, []*Error{everr}
		}
	}

	if errs := ev.Resolver.Resolve(ev, ev.Cursor); len(errs) > 0 {
		return nil, errs
	}

	return ev.Cursor.Bytes(), nil
}
