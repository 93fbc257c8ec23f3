package chimpenc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvec/chimpscan/internal/chimp"
)

func TestFlagPacker_LSBFirstOrder(t *testing.T) {
	var p flagPacker
	p.push(0)
	p.push(1)
	p.push(2)
	p.push(3)

	require.Equal(t, []byte{0b11_10_01_00}, p.buf)
}

func TestLzPacker_PacksEightPerBlock(t *testing.T) {
	var p lzPacker
	for i := uint8(0); i < 9; i++ {
		p.push(i % 8)
	}

	require.Len(t, p.buf, 6) // two 3-byte blocks for 9 classes
}

func TestLeadingClassFor_PicksLargestFittingEntry(t *testing.T) {
	require.Equal(t, uint8(0), leadingClassFor(&chimp.Profile64, 0))
	require.Equal(t, uint8(0), leadingClassFor(&chimp.Profile64, 7))
	require.Equal(t, uint8(1), leadingClassFor(&chimp.Profile64, 8))
	require.Equal(t, uint8(7), leadingClassFor(&chimp.Profile64, 63))
}

func TestClzCtz(t *testing.T) {
	leading, trailing := clzCtz(0x0000_0000_0000_0001, 64)
	require.Equal(t, 63, leading)
	require.Equal(t, 0, trailing)

	leading, trailing = clzCtz(0x8000_0000_0000_0000, 64)
	require.Equal(t, 0, leading)
	require.Equal(t, 63, trailing)

	leading, trailing = clzCtz(0x0001_0000, 32)
	require.Equal(t, 15, leading)
	require.Equal(t, 16, trailing)
}

func TestEncodeSegment_HeaderMatchesTotalLength(t *testing.T) {
	values := []uint64{1, 2, 3}
	data := EncodeSegment(values, &chimp.Profile64)

	require.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(data[:chimp.HeaderSize]))
	require.GreaterOrEqual(t, len(data), chimp.HeaderSize+8)
}
