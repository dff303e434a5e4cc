package safas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Logicalshift/safas/pkg/safas"
	"github.com/Logicalshift/safas/pkg/source"
)

// TestFileSourceProvider_ResolvesImportsRelativeToImportingModuleDir covers
// spec.md:137's "library root plus the importing module's directory"
// contract: a module nested under lib/ imports a sibling by a path
// relative to its own directory, not the entry file's directory, and with
// no --lib-root configured at all.
func TestFileSourceProvider_ResolvesImportsRelativeToImportingModuleDir(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "lib")
	require.NoError(t, os.MkdirAll(libDir, 0o755))

	entryPath := filepath.Join(root, "entry.safas")
	require.NoError(t, os.WriteFile(entryPath, []byte(`
(import "lib/b.safas")
(d value)
`), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(libDir, "b.safas"), []byte(`
(import "c.safas")
(export value)
`), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(libDir, "c.safas"), []byte(`
(def value 7u8)
(export value)
`), 0o644))

	entryBytes, err := os.ReadFile(entryPath)
	require.NoError(t, err)

	file := source.NewFile(entryPath, entryBytes)

	out, errs := safas.Assemble(file, safas.Options{Provider: safas.NewFileSourceProvider()})
	require.Empty(t, errs)
	require.Equal(t, []byte{7}, out)
}

// TestFileSourceProvider_FallsBackToLibRoot covers the other half of the
// same contract: when a path isn't found relative to the importing
// module's own directory, a configured library root is still searched.
func TestFileSourceProvider_FallsBackToLibRoot(t *testing.T) {
	root := t.TempDir()
	libRoot := filepath.Join(root, "sharedlib")
	require.NoError(t, os.MkdirAll(libRoot, 0o755))

	entryPath := filepath.Join(root, "entry.safas")
	require.NoError(t, os.WriteFile(entryPath, []byte(`
(import "common.safas")
(d value)
`), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(libRoot, "common.safas"), []byte(`
(def value 9u8)
(export value)
`), 0o644))

	entryBytes, err := os.ReadFile(entryPath)
	require.NoError(t, err)

	file := source.NewFile(entryPath, entryBytes)

	out, errs := safas.Assemble(file, safas.Options{Provider: safas.NewFileSourceProvider(libRoot)})
	require.Empty(t, errs)
	require.Equal(t, []byte{9}, out)
}
