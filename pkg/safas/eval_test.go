package safas_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Logicalshift/safas/pkg/safas"
	"github.com/Logicalshift/safas/pkg/source"
)

func evalProgram(t *testing.T, program string) safas.Value {
	t.Helper()

	file := source.NewFile("<test>", []byte(program))
	forms, _, err := safas.Read(file)
	requireOK(t, err)

	ev := &safas.Evaluator{Cursor: safas.NewCursor(), Resolver: safas.NewResolver()}
	env := safas.NewRootEnv()

	var result safas.Value
	for _, f := range forms {
		v, everr := ev.Eval(f, env)
		requireOK(t, everr)
		result = v
	}

	return result
}

func TestEval_IfTruthy(t *testing.T) {
	v := evalProgram(t, `(if 1u8 (2u8) (3u8))`)
	require.Equal(t, int64(2), v.AsInteger().Value.Int64())
}

func TestEval_IfFalseyOnZero(t *testing.T) {
	v := evalProgram(t, `(if 0u8 (2u8) (3u8))`)
	require.Equal(t, int64(3), v.AsInteger().Value.Int64())
}

func TestEval_LetDoesNotLeakBindings(t *testing.T) {
	file := source.NewFile("<test>", []byte(`(let ((x 5u32)) x)`))
	forms, _, err := safas.Read(file)
	requireOK(t, err)

	ev := &safas.Evaluator{Cursor: safas.NewCursor(), Resolver: safas.NewResolver()}
	env := safas.NewRootEnv()

	_, everr := ev.Eval(forms[0], env)
	requireOK(t, everr)

	_, ok := env.Lookup("x")
	require.False(t, ok)
}

func TestEval_FunApplication(t *testing.T) {
	v := evalProgram(t, `(def double (fun (x) (* x 2u32))) (double 21u32)`)
	require.Equal(t, int64(42), v.AsInteger().Value.Int64())
}

// TestEval_DefSyntaxExpandsOnInvocation exercises a syntax applied to a
// single sibling form (per applySyntaxCall's dispatch: the enclosing call
// matches no rule, so the argument form itself is matched against the
// syntax's rules).
func TestEval_DefSyntaxExpandsOnInvocation(t *testing.T) {
	v := evalProgram(t, `(def_syntax twice ((wrap {x}) ({x} {x}))) (twice (wrap 7u32))`)
	require.Equal(t, int64(7), v.AsInteger().Value.Int64())
}

func TestEval_UnknownNameErrors(t *testing.T) {
	file := source.NewFile("<test>", []byte(`(nosuchname)`))
	forms, _, err := safas.Read(file)
	requireOK(t, err)

	ev := &safas.Evaluator{Cursor: safas.NewCursor(), Resolver: safas.NewResolver()}
	env := safas.NewRootEnv()

	_, everr := ev.Eval(forms[0], env)
	require.NotNil(t, everr)
	require.Equal(t, safas.UnknownNameKind, everr.Kind)
}

func TestEval_IPReflectsLiveBitPos(t *testing.T) {
	file := source.NewFile("<test>", []byte(`(d 1u8) ip`))
	forms, _, err := safas.Read(file)
	requireOK(t, err)

	ev := &safas.Evaluator{Cursor: safas.NewCursor(), Resolver: safas.NewResolver()}
	env := safas.NewRootEnv()

	var result safas.Value
	for _, f := range forms {
		v, everr := ev.Eval(f, env)
		requireOK(t, everr)
		result = v
	}

	require.Equal(t, int64(1), result.AsInteger().Value.Int64())
}
