package safas

import "path/filepath"

// Loader implements spec.md §4.8's module loader: resolve → evaluate →
// cache exports, with cycle detection. Grounded on the teacher's
// source.ReadFiles + the overall resolve/parse/evaluate pipeline shape of
// pkg/cmd/compute.go, generalised behind the SourceProvider seam.
//
// dirs tracks the directory of each module currently being resolved, innermost
// last, so a nested `(import "...")` resolves relative to the directory of
// the module performing the import rather than the original entry file's
// directory, per spec.md:137.
type Loader struct {
	Provider SourceProvider
	cache    map[string]map[string]Value
	inFlight map[string]bool
	dirs     []string
}

// NewLoader constructs a loader over the given provider. entryDir is the
// directory of the program's entry file, used to resolve that file's own
// top-level imports.
func NewLoader(provider SourceProvider, entryDir string) *Loader {
	return &Loader{
		Provider: provider,
		cache:    make(map[string]map[string]Value),
		inFlight: make(map[string]bool),
		dirs:     []string{entryDir},
	}
}

// currentDir returns the directory of the module currently being resolved.
func (l *Loader) currentDir() string {
	return l.dirs[len(l.dirs)-1]
}

// Load resolves, parses and evaluates the module at path in a fresh root
// environment (sharing ev's cursor/resolver, so a library module's own
// emissions land in the same output stream as the importing program's),
// returning its export set. Results are cached per (importing directory,
// path) pair so importing the same module twice from the same place
// evaluates it once, without conflating same-named modules resolved from
// different directories.
func (l *Loader) Load(ev *Evaluator, path string) (map[string]Value, *Error) {
	fromDir := l.currentDir()
	cacheKey := fromDir + "\x00" + path

	if exports, ok := l.cache[cacheKey]; ok {
		return exports, nil
	}

	if l.inFlight[cacheKey] {
		return nil, Errorf(CycleInImportKind, "import cycle detected at %q", path)
	}

	l.inFlight[cacheKey] = true
	defer delete(l.inFlight, cacheKey)

	file, err := l.Provider.Resolve(path, fromDir)
	if err != nil {
		return nil, err
	}

	forms, _, rerr := Read(file)
	if rerr != nil {
		return nil, rerr
	}

	moduleEnv := NewRootEnv()

	l.dirs = append(l.dirs, filepath.Dir(file.Name()))
	_, everr := ev.evalBlock(forms, moduleEnv)
	l.dirs = l.dirs[:len(l.dirs)-1]

	if everr != nil {
		return nil, everr
	}

	exports, eerr := moduleEnv.Exports()
	if eerr != nil {
		return nil, eerr
	}

	l.cache[cacheKey] = exports

	return exports, nil
}
