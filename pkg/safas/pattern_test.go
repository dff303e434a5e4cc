package safas_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Logicalshift/safas/pkg/safas"
)

func TestMatch_LiteralAtomHead(t *testing.T) {
	pattern := safas.NewListVal([]safas.Value{safas.NewAtomVal("one")})
	form := safas.NewListVal([]safas.Value{safas.NewAtomVal("one")})

	bindings := map[string]*safas.Binding{}
	require.True(t, safas.Match(pattern, form, bindings))
	require.Empty(t, bindings)
}

func TestMatch_CaptureBindsSubform(t *testing.T) {
	pattern := safas.NewListVal([]safas.Value{
		safas.NewAtomVal("lda"),
		&safas.CaptureVal{Kind: safas.EvalCapture, Inner: safas.NewAtomVal("operand")},
	})
	form := safas.NewListVal([]safas.Value{
		safas.NewAtomVal("lda"),
		safas.NewInteger(big.NewInt(10), 8, false),
	})

	bindings := map[string]*safas.Binding{}
	require.True(t, safas.Match(pattern, form, bindings))
	require.Contains(t, bindings, "operand")
}

func TestMatch_ArityMismatchFails(t *testing.T) {
	pattern := safas.NewListVal([]safas.Value{safas.NewAtomVal("one")})
	form := safas.NewListVal([]safas.Value{safas.NewAtomVal("one"), safas.NewAtomVal("two")})

	require.False(t, safas.Match(pattern, form, map[string]*safas.Binding{}))
}

func TestApplySyntax_FirstRuleWins(t *testing.T) {
	s := &safas.Syntax{Rules: []safas.Rule{
		{Pattern: safas.NewListVal([]safas.Value{safas.NewAtomVal("one")}), Template: []safas.Value{safas.NewAtomVal("first")}},
		{Pattern: safas.NewListVal([]safas.Value{safas.NewAtomVal("one")}), Template: []safas.Value{safas.NewAtomVal("second")}},
	}}

	ev := &safas.Evaluator{Cursor: safas.NewCursor(), Resolver: safas.NewResolver()}
	env := safas.NewEnv()

	expanded, err := safas.ApplySyntax(s, safas.NewListVal([]safas.Value{safas.NewAtomVal("one")}), ev, env)
	requireOK(t, err)
	require.Equal(t, "first", expanded[0].AsAtom().Name)
}

func TestApplySyntax_FallsThroughToBase(t *testing.T) {
	base := &safas.Syntax{Rules: []safas.Rule{
		{Pattern: safas.NewListVal([]safas.Value{safas.NewAtomVal("two")}), Template: []safas.Value{safas.NewAtomVal("from-base")}},
	}}
	ext := &safas.Syntax{Base: base}

	ev := &safas.Evaluator{Cursor: safas.NewCursor(), Resolver: safas.NewResolver()}
	env := safas.NewEnv()

	expanded, err := safas.ApplySyntax(ext, safas.NewListVal([]safas.Value{safas.NewAtomVal("two")}), ev, env)
	requireOK(t, err)
	require.Equal(t, "from-base", expanded[0].AsAtom().Name)
}

func TestApplySyntax_NoMatchFails(t *testing.T) {
	s := &safas.Syntax{Rules: []safas.Rule{
		{Pattern: safas.NewListVal([]safas.Value{safas.NewAtomVal("one")}), Template: []safas.Value{safas.NewAtomVal("x")}},
	}}

	ev := &safas.Evaluator{Cursor: safas.NewCursor(), Resolver: safas.NewResolver()}
	env := safas.NewEnv()

	_, err := safas.ApplySyntax(s, safas.NewListVal([]safas.Value{safas.NewAtomVal("other")}), ev, env)
	require.NotNil(t, err)
	require.Equal(t, safas.PatternMatchFailureKind, err.Kind)
}
