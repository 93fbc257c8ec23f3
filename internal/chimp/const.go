// Package chimp implements the per-value decoding state machine of the
// Chimp128 codec: the flag alphabet, the packed auxiliary buffers it reads
// from, the per-group state, and the XOR-delta decompression FSM.
//
// This package is internal because it is bit-exact codec machinery with no
// stable external contract of its own — segment.ScanState is the supported
// entry point, mirroring how mebo keeps internal/encoding/numeric_gorilla.go
// private behind the public blob package.
package chimp

// SequenceSize is the number of values in a full group (G in the spec), a
// power of two so the scan state can find group boundaries with a bit mask.
const SequenceSize = 1024

// HeaderSize is the width, in bytes, of the uint32 metadata offset stored at
// the base of every segment.
const HeaderSize = 4

// Flag codes, 2 bits wide, in the order the packed FlagBuffer yields them.
const (
	FlagSamePrevious  uint8 = 0b00 // emit previous_value verbatim
	FlagNewReference  uint8 = 0b01 // reference window + inline leading/trailing
	FlagReuseLeading  uint8 = 0b10 // reuse previous leading-zero class
	FlagFreshLeading  uint8 = 0b11 // consume one fresh leading-zero class
)
