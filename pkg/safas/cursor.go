package safas

import "math/big"

// Cursor is the bit-addressable output buffer described in spec.md §4.6: a
// byte buffer that grows on demand (doubling, per spec.md §5's resource
// policy) plus a bit_pos cursor that advances as values are emitted.
type Cursor struct {
	buf    []byte
	length uint64 // highest bit position written or reserved, in bits
	bitPos uint64
}

// NewCursor constructs an empty cursor positioned at bit 0.
func NewCursor() *Cursor {
	return &Cursor{}
}

// BitPos returns the current bit position.
func (c *Cursor) BitPos() uint64 { return c.bitPos }

// SetBitPos seeks the cursor to an absolute bit position. Per spec.md §4.6,
// seeking backward then emitting overwrites; seeking forward leaves a gap
// that reads as zero until written.
func (c *Cursor) SetBitPos(pos uint64) {
	c.bitPos = pos
	c.reserve(pos)
}

// WriteBits writes the low `width` bits of a non-negative bit pattern
// (MSB-first: the highest of those bits is written at pos) at the given
// absolute bit position, zero-extending the buffer as needed. Last write
// wins at any given bit, matching spec.md §4.6.
func (c *Cursor) WriteBits(pos uint64, width uint, pattern *big.Int) {
	c.reserve(pos + uint64(width))

	for i := uint(0); i < width; i++ {
		bitIndex := width - 1 - i
		bit := pattern.Bit(int(bitIndex))
		c.setBit(pos+uint64(i), bit == 1)
	}
}

// Emit writes v at the current bit_pos using v's own declared width,
// advancing bit_pos by that width. Strings emit their byte sequence (8 bits
// per byte); Integers/Binaries emit their raw bit pattern. Returns a
// WidthError if an Integer's value does not fit its declared width.
func (c *Cursor) Emit(v Value) *Error {
	pos := c.bitPos

	switch {
	case v.AsStr() != nil:
		s := v.AsStr()
		for _, b := range s.Bytes {
			c.WriteBits(pos, 8, big.NewInt(int64(b)))
			pos += 8
		}

		c.bitPos = pos

		return nil
	case v.AsInteger() != nil:
		n := v.AsInteger()
		if !n.FitsWidth() {
			return Errorf(WidthErrorKind, "value %s does not fit in %d bits", n.Value.String(), n.Width)
		}

		c.WriteBits(pos, n.Width, n.RawBits())
		c.bitPos = pos + uint64(n.Width)

		return nil
	case v.AsBinary() != nil:
		b := v.AsBinary()
		c.WriteBits(pos, b.Count, b.Bits)
		c.bitPos = pos + uint64(b.Count)

		return nil
	default:
		return Errorf(TypeErrorKind, "cannot emit a value of this kind: %s", v.String())
	}
}

// Align advances bit_pos to the next multiple of n bits, filling
// intervening bits with repetitions of pattern's own bit representation. If
// already aligned, this is a no-op.
func (c *Cursor) Align(pattern Value, n uint) *Error {
	if n == 0 {
		return Errorf(ArityErrorKind, "alignment must be a positive number of bits")
	}

	target := ((c.bitPos + uint64(n) - 1) / uint64(n)) * uint64(n)
	if target == c.bitPos {
		return nil
	}

	width, bits, err := patternBits(pattern)
	if err != nil {
		return err
	}

	if width == 0 {
		return Errorf(ArityErrorKind, "alignment pattern must have non-zero width")
	}

	pos := c.bitPos
	for pos < target {
		remaining := target - pos
		w := width

		if uint64(w) > remaining {
			w = uint(remaining)
		}

		// Truncate the pattern's own bits to the remaining width, keeping
		// its high-order bits so the partial repetition continues the
		// pattern from its start (unlike Binary.Rewidth, which keeps the
		// low-order bits).
		shifted := new(big.Int).Rsh(bits, uint(width)-w)
		c.WriteBits(pos, w, shifted)
		pos += uint64(w)
	}

	c.bitPos = target

	return nil
}

func patternBits(v Value) (uint, *big.Int, *Error) {
	switch {
	case v.AsInteger() != nil:
		n := v.AsInteger()
		return n.Width, n.RawBits(), nil
	case v.AsBinary() != nil:
		b := v.AsBinary()
		return b.Count, b.Bits, nil
	default:
		return 0, nil, Errorf(TypeErrorKind, "alignment pattern must be an integer or binary literal")
	}
}

// Bytes finalises the buffer: any bit position reserved but not explicitly
// written reads as zero (the buffer is always zero-initialised), and
// trailing bits are zero-padded up to a whole byte, per spec.md §6.
func (c *Cursor) Bytes() []byte {
	nbytes := (c.length + 7) / 8
	out := make([]byte, nbytes)
	copy(out, c.buf)

	return out
}

func (c *Cursor) reserve(bits uint64) {
	if bits <= c.length {
		return
	}

	needed := (bits + 7) / 8
	if uint64(len(c.buf)) < needed {
		newCap := uint64(len(c.buf))
		if newCap == 0 {
			newCap = 64
		}

		for newCap < needed {
			newCap *= 2
		}

		grown := make([]byte, newCap)
		copy(grown, c.buf)
		c.buf = grown
	}

	c.length = bits
}

func (c *Cursor) setBit(pos uint64, set bool) {
	byteIndex := pos / 8
	bitInByte := 7 - uint(pos%8)

	if set {
		c.buf[byteIndex] |= 1 << bitInByte
	} else {
		c.buf[byteIndex] &^= 1 << bitInByte
	}
}
