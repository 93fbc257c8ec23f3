package chimpscan

import (
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colvec/chimpscan/internal/chimp"
	"github.com/colvec/chimpscan/internal/chimpenc"
	"github.com/colvec/chimpscan/pagecache"
	"github.com/colvec/chimpscan/segment"
)

func putSegment(t *testing.T, values []uint64) (pagecache.PageCache, segment.Segment) {
	t.Helper()

	data := chimpenc.EncodeSegment(values, &chimp.Profile64)
	cache := pagecache.NewMemCache()
	cache.Put(7, data)

	return cache, segment.Segment{Block: 7, Offset: 0, Count: len(values)}
}

// Scenario 1: a single value is stored verbatim with no leading-zero
// blocks and a zero-length flag stream.
func TestScenario1_SingleValue(t *testing.T) {
	values := []uint64{math.Float64bits(1.0)}
	data := chimpenc.EncodeSegment(values, &chimp.Profile64)

	total := binary.LittleEndian.Uint32(data[0:4])
	require.Equal(t, uint32(len(data)), total)

	// Descriptor tail for the lone group: flags_byte_size=0,
	// leading_zero_block_count=0, payload_bit_offset=0.
	flagsByteSize := binary.LittleEndian.Uint16(data[len(data)-7 : len(data)-5])
	lzBlockCount := data[len(data)-5]
	payloadBitOffset := binary.LittleEndian.Uint32(data[len(data)-4:])
	require.Equal(t, uint16(0), flagsByteSize)
	require.Equal(t, uint8(0), lzBlockCount)
	require.Equal(t, uint32(0), payloadBitOffset)

	payload := binary.BigEndian.Uint64(data[4:12])
	require.Equal(t, uint64(0x3FF0000000000000), payload)

	cache := pagecache.NewMemCache()
	cache.Put(1, data)
	scanner, err := OpenFloat64(cache, segment.Segment{Block: 1, Count: 1})
	require.NoError(t, err)
	defer scanner.Close()

	out := make([]float64, 1)
	require.NoError(t, scanner.ScanInto(out))
	require.Equal(t, []float64{1.0}, out)
}

// Scenario 2: repeated values cost only the first verbatim write; every
// subsequent flag is the same-as-previous code and no extra payload bits
// are consumed.
func TestScenario2_AllEqual(t *testing.T) {
	values := []uint64{
		math.Float64bits(1.0), math.Float64bits(1.0),
		math.Float64bits(1.0), math.Float64bits(1.0),
	}
	data := chimpenc.EncodeSegment(values, &chimp.Profile64)

	total := binary.LittleEndian.Uint32(data[0:4])
	flagsByteSize := binary.LittleEndian.Uint16(data[len(data)-7 : len(data)-5])
	lzBlockCount := data[len(data)-5]
	descLen := int(flagsByteSize) + 2 + int(lzBlockCount)*3 + 1 + 4
	payloadLen := int(total) - 4 - descLen
	require.Equal(t, 8, payloadLen, "only the first verbatim value should consume payload bits")
	require.Equal(t, uint16(1), flagsByteSize)
	require.Equal(t, uint8(0), lzBlockCount)

	flagsByte := data[4+8] // immediately after the 8-byte verbatim payload
	require.Equal(t, byte(0), flagsByte)

	cache, seg := putSegment(t, values)
	scanner, err := OpenFloat64(cache, seg)
	require.NoError(t, err)
	defer scanner.Close()

	out := make([]float64, 4)
	require.NoError(t, scanner.ScanInto(out))
	require.Equal(t, []float64{1.0, 1.0, 1.0, 1.0}, out)
}

// Scenario 3: values differing in exponent force a fresh XOR field.
func TestScenario3_DifferingExponent(t *testing.T) {
	values := []uint64{math.Float64bits(1.0), math.Float64bits(2.0)}
	cache, seg := putSegment(t, values)

	scanner, err := OpenFloat64(cache, seg)
	require.NoError(t, err)
	defer scanner.Close()

	out := make([]float64, 2)
	require.NoError(t, scanner.ScanInto(out))
	require.Equal(t, []float64{1.0, 2.0}, out)
}

// Scenario 4: zero and negative zero are distinct bit patterns that must
// round-trip exactly, not compare equal as floats would.
func TestScenario4_ZeroAndNegativeZero(t *testing.T) {
	values := []uint64{
		math.Float64bits(0.0),
		math.Float64bits(math.Copysign(0, -1)),
	}
	cache, seg := putSegment(t, values)

	scanner, err := OpenFloat64(cache, seg)
	require.NoError(t, err)
	defer scanner.Close()

	out := make([]float64, 2)
	require.NoError(t, scanner.ScanInto(out))
	require.Equal(t, values[0], math.Float64bits(out[0]))
	require.Equal(t, values[1], math.Float64bits(out[1]))
	require.NotEqual(t, values[0], values[1])
}

// Scenario 5: distinct NaN payloads must survive the round trip bit for
// bit; NaN != NaN under float comparison, so this must be checked via bit
// patterns.
func TestScenario5_DistinctNaNPayloads(t *testing.T) {
	nanA := math.Float64frombits(0x7FF8000000000001)
	nanB := math.Float64frombits(0x7FF8000000000002)
	values := []uint64{math.Float64bits(nanA), math.Float64bits(nanB)}

	cache, seg := putSegment(t, values)
	scanner, err := OpenFloat64(cache, seg)
	require.NoError(t, err)
	defer scanner.Close()

	out := make([]float64, 2)
	require.NoError(t, scanner.ScanInto(out))
	require.Equal(t, values[0], math.Float64bits(out[0]))
	require.Equal(t, values[1], math.Float64bits(out[1]))
}

// Scenario 6: a segment of 1024+5 values spans two groups; after scanning
// the first full group exactly, the next scan must reload a short tail
// group and decode it correctly.
func TestScenario6_FullGroupThenShortTail(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	values := make([]uint64, chimp.SequenceSize+5)
	previous := math.Float64bits(1.0)
	for i := range values {
		previous ^= uint64(r.Intn(1 << 16))
		values[i] = previous
	}

	cache, seg := putSegment(t, values)
	scanner, err := OpenFloat64(cache, seg)
	require.NoError(t, err)
	defer scanner.Close()

	first := make([]float64, chimp.SequenceSize)
	require.NoError(t, scanner.ScanInto(first))
	require.Equal(t, chimp.SequenceSize, scanner.TotalValueCount())

	tail := make([]float64, 5)
	require.NoError(t, scanner.ScanInto(tail))

	want := make([]float64, len(values))
	for i, b := range values {
		want[i] = math.Float64frombits(b)
	}
	require.Equal(t, want[:chimp.SequenceSize], first)
	require.Equal(t, want[chimp.SequenceSize:], tail)
}

func TestFloat32Scanner_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	values := make([]float32, 200)
	previous := float32(1.5)
	for i := range values {
		if r.Intn(3) == 0 {
			previous = float32(r.NormFloat64())
		}
		values[i] = previous
	}

	raw := make([]uint32, len(values))
	for i, v := range values {
		raw[i] = math.Float32bits(v)
	}
	data := chimpenc.EncodeSegment(raw, &chimp.Profile32)

	cache := pagecache.NewMemCache()
	cache.Put(3, data)
	seg := segment.Segment{Block: 3, Count: len(values)}

	scanner, err := OpenFloat32(cache, seg)
	require.NoError(t, err)
	defer scanner.Close()

	out := make([]float32, len(values))
	require.NoError(t, scanner.ScanInto(out))
	require.Equal(t, values, out)
}

func TestFloat64Scanner_RestartAtSplitPoint(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	values := make([]uint64, 250)
	previous := math.Float64bits(10.0)
	for i := range values {
		previous ^= uint64(r.Intn(1 << 24))
		values[i] = previous
	}

	for k := 0; k <= len(values); k += 37 {
		cache, seg := putSegment(t, values)

		first, err := OpenFloat64(cache, seg)
		require.NoError(t, err)

		head := make([]float64, k)
		require.NoError(t, first.ScanInto(head))
		require.NoError(t, first.Close())

		second, err := OpenFloat64(cache, seg)
		require.NoError(t, err)

		require.NoError(t, second.Skip(k))
		tail := make([]float64, len(values)-k)
		require.NoError(t, second.ScanInto(tail))
		require.NoError(t, second.Close())

		for i, b := range values[:k] {
			require.Equal(t, b, math.Float64bits(head[i]))
		}
		for i, b := range values[k:] {
			require.Equal(t, b, math.Float64bits(tail[i]))
		}
	}
}
