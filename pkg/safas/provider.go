package safas

import (
	"os"
	"path/filepath"

	"github.com/Logicalshift/safas/pkg/source"
)

// SourceProvider resolves a module path (as written in `(import "path")`)
// to file contents, per spec.md §6's external-interface contract. fromDir
// is the directory of the module performing the import ("." for an entry
// file with no directory component), letting Resolve honour
// spec.md:137's "library root plus the importing module's directory"
// contract. Split out as an interface (rather than hard-coding filesystem
// access, as the teacher's source.ReadFiles does) so tests can supply
// in-memory modules.
type SourceProvider interface {
	Resolve(path string, fromDir string) (*source.File, *Error)
}

// FileSourceProvider resolves modules from disk, searching the importing
// module's own directory first and the configured library roots second,
// per SPEC_FULL.md §9's `--lib-root` contract. Grounded on the teacher's
// source.ReadFiles, generalised from "read exactly these named files" to
// "search a small path list for one name".
type FileSourceProvider struct {
	LibRoots []string
}

// NewFileSourceProvider constructs a provider searching the given roots in
// order.
func NewFileSourceProvider(libRoots ...string) *FileSourceProvider {
	return &FileSourceProvider{LibRoots: libRoots}
}

// Resolve implements SourceProvider.
func (p *FileSourceProvider) Resolve(path string, fromDir string) (*source.File, *Error) {
	candidates := make([]string, 0, len(p.LibRoots)+2)

	if filepath.IsAbs(path) {
		candidates = append(candidates, path)
	} else {
		if fromDir != "" {
			candidates = append(candidates, filepath.Join(fromDir, path))
		}

		for _, root := range p.LibRoots {
			candidates = append(candidates, filepath.Join(root, path))
		}

		candidates = append(candidates, path)
	}

	var lastErr error

	for _, c := range candidates {
		bytes, err := os.ReadFile(c)
		if err != nil {
			lastErr = err
			continue
		}

		return source.NewFile(c, bytes), nil
	}

	return nil, Errorf(IOErrorKind, "could not resolve module %q", path).Wrap(lastErr)
}

// MemorySourceProvider resolves modules from an in-memory map, used by
// tests that exercise `import` without touching a filesystem (teacher
// precedent: pkg/test/util supplies canned inputs the same way). fromDir
// is ignored: in-memory fixtures are keyed by the literal import string,
// with no directory structure to resolve relative to.
type MemorySourceProvider struct {
	Files map[string]string
}

// Resolve implements SourceProvider.
func (p *MemorySourceProvider) Resolve(path string, fromDir string) (*source.File, *Error) {
	contents, ok := p.Files[path]
	if !ok {
		return nil, Errorf(IOErrorKind, "no such module %q", path)
	}

	return source.NewFile(path, []byte(contents)), nil
}
