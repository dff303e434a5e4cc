package safas_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Logicalshift/safas/pkg/safas"
)

func TestEnv_DefineAndLookup(t *testing.T) {
	env := safas.NewEnv()
	requireOK(t, env.Define("x", safas.NewAtomVal("v")))

	v, ok := env.Lookup("x")
	require.True(t, ok)
	require.Equal(t, "v", v.AsAtom().Name)
}

func TestEnv_RedefinitionInSameFrameErrors(t *testing.T) {
	env := safas.NewEnv()
	requireOK(t, env.Define("x", safas.NewAtomVal("v")))

	err := env.Define("x", safas.NewAtomVal("w"))
	require.NotNil(t, err)
	require.Equal(t, safas.RedefinitionKind, err.Kind)
}

func TestEnv_ChildShadowsParent(t *testing.T) {
	parent := safas.NewEnv()
	requireOK(t, parent.Define("x", safas.NewAtomVal("outer")))

	child := parent.Child()
	requireOK(t, child.Define("x", safas.NewAtomVal("inner")))

	v, _ := child.Lookup("x")
	require.Equal(t, "inner", v.AsAtom().Name)

	v, _ = parent.Lookup("x")
	require.Equal(t, "outer", v.AsAtom().Name)
}

func TestEnv_DeclareLabelRejectsRebinding(t *testing.T) {
	env := safas.NewEnv()
	requireOK(t, env.DeclareLabel("l", safas.NewAtomVal("v")))

	err := env.DeclareLabel("l", safas.NewAtomVal("w"))
	require.NotNil(t, err)
	require.Equal(t, safas.RedefinitionKind, err.Kind)
}

func TestEnv_ExportsResolveLazily(t *testing.T) {
	env := safas.NewEnv()
	env.Export("later")

	_, err := env.Exports()
	require.NotNil(t, err)
	require.Equal(t, safas.UnknownNameKind, err.Kind)

	requireOK(t, env.Define("later", safas.NewAtomVal("v")))

	exports, err2 := env.Exports()
	require.Nil(t, err2)
	require.Equal(t, "v", exports["later"].AsAtom().Name)
}
