package chimp

// FlagBuffer unpacks the 2-bit per-value flag codes from a densely packed
// byte array. Each byte holds four flags in LSB-first pair order: bits
// [0:2) hold the first flag, [2:4) the second, [4:6) the third, [6:8) the
// fourth. The caller guarantees it will never call Extract more times than
// the encoder packed flags.
type FlagBuffer struct {
	data []byte
	idx  int
}

// SetBuffer binds the FlagBuffer to the start of a packed flag array,
// resetting the extraction cursor.
func (b *FlagBuffer) SetBuffer(data []byte) {
	b.data = data
	b.idx = 0
}

// Extract returns the next flag in stream order.
func (b *FlagBuffer) Extract() uint8 {
	byteIdx := b.idx >> 2
	shift := uint(b.idx&3) * 2
	v := (b.data[byteIdx] >> shift) & 0x3
	b.idx++

	return v
}
