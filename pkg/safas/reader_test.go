package safas_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Logicalshift/safas/pkg/safas"
	"github.com/Logicalshift/safas/pkg/source"
)

func readOne(t *testing.T, text string) safas.Value {
	t.Helper()

	file := source.NewFile("<test>", []byte(text))
	forms, _, err := safas.Read(file)
	requireOK(t, err)
	require.Len(t, forms, 1)

	return forms[0]
}

func TestRead_DecimalLiteralDefaultsToSigned32(t *testing.T) {
	v := readOne(t, "42")
	i := v.AsInteger()
	require.NotNil(t, i)
	require.Equal(t, int64(42), i.Value.Int64())
	require.Equal(t, uint(32), i.Width)
	require.True(t, i.Signed)
}

func TestRead_DecimalLiteralWithWidthSuffix(t *testing.T) {
	v := readOne(t, "10u8")
	i := v.AsInteger()
	require.NotNil(t, i)
	require.Equal(t, int64(10), i.Value.Int64())
	require.Equal(t, uint(8), i.Width)
	require.False(t, i.Signed)
}

func TestRead_NegativeDecimalLiteralSigned(t *testing.T) {
	v := readOne(t, "-5i16")
	i := v.AsInteger()
	require.NotNil(t, i)
	require.Equal(t, int64(-5), i.Value.Int64())
	require.Equal(t, uint(16), i.Width)
	require.True(t, i.Signed)
}

func TestRead_HexLiteralDefaultsToMinByteWidthUnsigned(t *testing.T) {
	v := readOne(t, "$A9")
	i := v.AsInteger()
	require.NotNil(t, i)
	require.Equal(t, int64(0xA9), i.Value.Int64())
	require.Equal(t, uint(8), i.Width)
	require.False(t, i.Signed)
}

func TestRead_HexLiteralWithExplicitWidth(t *testing.T) {
	v := readOne(t, "$1005u32")
	i := v.AsInteger()
	require.NotNil(t, i)
	require.Equal(t, int64(0x1005), i.Value.Int64())
	require.Equal(t, uint(32), i.Width)
}

func TestRead_HexLiteralWidensToNextByteMultiple(t *testing.T) {
	v := readOne(t, "$1005")
	i := v.AsInteger()
	require.NotNil(t, i)
	require.Equal(t, uint(16), i.Width)
}

func TestRead_BinaryLiteralWidthMatchesDigitCount(t *testing.T) {
	v := readOne(t, "101b")
	b := v.AsBinary()
	require.NotNil(t, b)
	require.Equal(t, uint(3), b.Count)
	require.Equal(t, int64(5), b.Bits.Int64())
}

func TestRead_PlainAtomIsNotNumeric(t *testing.T) {
	v := readOne(t, "lda")
	require.NotNil(t, v.AsAtom())
	require.Nil(t, v.AsInteger())
	require.Equal(t, "lda", v.AsAtom().Name)
}

func TestRead_StringLiteral(t *testing.T) {
	v := readOne(t, `"hello"`)
	s := v.AsStr()
	require.NotNil(t, s)
	require.Equal(t, "hello", string(s.Bytes))
}

// TestRead_LabelShorthandDesugarsToLabelWithIP covers spec.md §4.1's `(.
// name)` shorthand, which should read identically to `(label name ip)`.
func TestRead_LabelShorthandDesugarsToLabelWithIP(t *testing.T) {
	v := readOne(t, "(. target)")
	l := v.AsListVal()
	require.NotNil(t, l)
	require.Len(t, l.Elements, 3)
	require.Equal(t, "label", l.Elements[0].AsAtom().Name)
	require.Equal(t, "target", l.Elements[1].AsAtom().Name)
	require.Equal(t, "ip", l.Elements[2].AsAtom().Name)
}

func TestRead_RawCaptureBracket(t *testing.T) {
	v := readOne(t, "{x}")
	c, ok := v.(*safas.CaptureVal)
	require.True(t, ok)
	require.Equal(t, safas.RawCapture, c.Kind)
	require.Equal(t, "x", c.Inner.AsAtom().Name)
}

func TestRead_EvalCaptureBracket(t *testing.T) {
	v := readOne(t, "<x>")
	c, ok := v.(*safas.CaptureVal)
	require.True(t, ok)
	require.Equal(t, safas.EvalCapture, c.Kind)
	require.Equal(t, "x", c.Inner.AsAtom().Name)
}

func TestRead_NestedListsPreserveStructure(t *testing.T) {
	v := readOne(t, "(d (bits 8 target))")
	outer := v.AsListVal()
	require.NotNil(t, outer)
	require.Len(t, outer.Elements, 2)

	inner := outer.Elements[1].AsListVal()
	require.NotNil(t, inner)
	require.Equal(t, "bits", inner.Elements[0].AsAtom().Name)
}
