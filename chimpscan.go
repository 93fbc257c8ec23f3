package chimpscan

import (
	"math"

	"github.com/colvec/chimpscan/internal/chimp"
	"github.com/colvec/chimpscan/pagecache"
	"github.com/colvec/chimpscan/segment"
)

// Float64Scanner decodes a Chimp128 segment of float64 values (Profile64:
// W=128 reference window, 7-bit reference index, 6-bit significant-bit
// field).
type Float64Scanner struct {
	state *segment.ScanState[uint64]
	bits  []uint64
}

// OpenFloat64 pins seg's backing page and positions a scanner at its first
// group, ready for ScanInto or Skip.
func OpenFloat64(cache pagecache.PageCache, seg segment.Segment) (*Float64Scanner, error) {
	state, err := segment.InitScan[uint64](cache, seg, &chimp.Profile64)
	if err != nil {
		return nil, err
	}

	return &Float64Scanner{state: state}, nil
}

// ScanInto decodes exactly len(out) values into out.
func (s *Float64Scanner) ScanInto(out []float64) error {
	if cap(s.bits) < len(out) {
		s.bits = make([]uint64, len(out))
	}
	buf := s.bits[:len(out)]

	if err := s.state.ScanInto(buf); err != nil {
		return err
	}

	for i, b := range buf {
		out[i] = math.Float64frombits(b)
	}

	return nil
}

// Skip advances the cursor by count values without materializing them.
func (s *Float64Scanner) Skip(count int) error {
	return s.state.Skip(count)
}

// TotalValueCount returns how many values have been consumed so far.
func (s *Float64Scanner) TotalValueCount() int {
	return s.state.TotalValueCount()
}

// Close releases the scanner's page handle.
func (s *Float64Scanner) Close() error {
	return s.state.Close()
}

// Float32Scanner decodes a Chimp128 segment of float32 values (Profile32:
// W=32 reference window, 5-bit reference index, 5-bit significant-bit
// field).
type Float32Scanner struct {
	state *segment.ScanState[uint32]
	bits  []uint32
}

// OpenFloat32 pins seg's backing page and positions a scanner at its first
// group, ready for ScanInto or Skip.
func OpenFloat32(cache pagecache.PageCache, seg segment.Segment) (*Float32Scanner, error) {
	state, err := segment.InitScan[uint32](cache, seg, &chimp.Profile32)
	if err != nil {
		return nil, err
	}

	return &Float32Scanner{state: state}, nil
}

// ScanInto decodes exactly len(out) values into out.
func (s *Float32Scanner) ScanInto(out []float32) error {
	if cap(s.bits) < len(out) {
		s.bits = make([]uint32, len(out))
	}
	buf := s.bits[:len(out)]

	if err := s.state.ScanInto(buf); err != nil {
		return err
	}

	for i, b := range buf {
		out[i] = math.Float32frombits(b)
	}

	return nil
}

// Skip advances the cursor by count values without materializing them.
func (s *Float32Scanner) Skip(count int) error {
	return s.state.Skip(count)
}

// TotalValueCount returns how many values have been consumed so far.
func (s *Float32Scanner) TotalValueCount() int {
	return s.state.TotalValueCount()
}

// Close releases the scanner's page handle.
func (s *Float32Scanner) Close() error {
	return s.state.Close()
}
