package safas_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Logicalshift/safas/pkg/safas"
)

// requireOK fails the test if err is non-nil. *safas.Error is checked
// directly rather than passed to require.NoError, which would wrap a nil
// *Error in a non-nil error interface value.
func requireOK(t *testing.T, err *safas.Error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
}

func TestCursor_EmitAdvancesByWidth(t *testing.T) {
	c := safas.NewCursor()

	requireOK(t,c.Emit(safas.NewInteger(big.NewInt(0xAB), 8, false)))
	require.Equal(t, uint64(8), c.BitPos())

	requireOK(t,c.Emit(safas.NewInteger(big.NewInt(3), 4, false)))
	require.Equal(t, uint64(12), c.BitPos())

	require.Equal(t, []byte{0xAB, 0x30}, c.Bytes())
}

func TestCursor_WidthErrorOnOverflow(t *testing.T) {
	c := safas.NewCursor()

	err := c.Emit(safas.NewInteger(big.NewInt(256), 8, false))
	require.NotNil(t, err)
	require.Equal(t, safas.WidthErrorKind, err.Kind)
}

func TestCursor_AlignAdvancesToBoundary(t *testing.T) {
	c := safas.NewCursor()
	requireOK(t,c.Emit(safas.NewInteger(big.NewInt(1), 3, false)))

	requireOK(t,c.Align(safas.NewInteger(big.NewInt(0), 1, false), 8))
	require.Equal(t, uint64(8), c.BitPos())
}

func TestCursor_AlignNoOpWhenAligned(t *testing.T) {
	c := safas.NewCursor()
	requireOK(t,c.Emit(safas.NewInteger(big.NewInt(1), 8, false)))

	requireOK(t,c.Align(safas.NewInteger(big.NewInt(0), 1, false), 8))
	require.Equal(t, uint64(8), c.BitPos())
}

func TestCursor_SetBitPosRoundTrip(t *testing.T) {
	c := safas.NewCursor()
	c.SetBitPos(128)
	require.Equal(t, uint64(128), c.BitPos())
}

func TestCursor_LastWriteWins(t *testing.T) {
	c := safas.NewCursor()
	requireOK(t,c.Emit(safas.NewInteger(big.NewInt(0xFF), 8, false)))
	c.SetBitPos(0)
	requireOK(t,c.Emit(safas.NewInteger(big.NewInt(0x01), 8, false)))
	require.Equal(t, []byte{0x01}, c.Bytes())
}
