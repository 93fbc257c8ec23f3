package bitstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderWriter_RoundTripFields(t *testing.T) {
	w := NewWriter()
	w.Write(0x1, 1)
	w.Write(0x2A, 6)
	w.Write(0xDEADBEEF, 32)
	w.Write(0x3, 2)
	w.Write(0xFFFFFFFFFFFFFFFF, 64)

	r := NewReader(w.Bytes())
	require.Equal(t, uint64(0x1), r.Read(1))
	require.Equal(t, uint64(0x2A), r.Read(6))
	require.Equal(t, uint64(0xDEADBEEF), r.Read(32))
	require.Equal(t, uint64(0x3), r.Read(2))
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), r.Read(64))
}

func TestReader_AlignTo(t *testing.T) {
	data := []byte{0b10110000, 0b11110000}
	r := NewReader(data)
	r.AlignTo(4)

	require.Equal(t, uint64(4), r.BitPos())
	require.Equal(t, uint64(0b0000_1111), r.Read(8))
}

func TestWriter_CrossesByteBoundary(t *testing.T) {
	w := NewWriter()
	w.Write(0b101, 3)
	w.Write(0b11111111, 8)
	w.Write(0b01, 2)

	require.Equal(t, uint64(13), w.BitLen())

	r := NewReader(w.Bytes())
	require.Equal(t, uint64(0b101), r.Read(3))
	require.Equal(t, uint64(0b11111111), r.Read(8))
	require.Equal(t, uint64(0b01), r.Read(2))
}

func TestWriter_Bytes_ZeroPadded(t *testing.T) {
	w := NewWriter()
	w.Write(0b1, 1)

	require.Len(t, w.Bytes(), 1)
	require.Equal(t, byte(0b10000000), w.Bytes()[0])
}
