package chimp

import "github.com/colvec/chimpscan/bitstream"

// DecompressionState is the Chimp128 per-value decoding FSM: the previous
// raw bit pattern, a ring of the most recent Profile.Window reference
// values, and the current leading/trailing zero counts. It is generic over
// the integer width U so the same code serves both the 64-bit and 32-bit
// Chimp profiles (spec §9 "Polymorphic value width").
type DecompressionState[U Width] struct {
	profile *Profile

	previousValue U
	window        []U
	windowPos     int // next ring-buffer write position

	leadingZerosCurrent  int
	trailingZerosCurrent int
}

// NewDecompressionState creates a DecompressionState bound to the given
// profile. The profile pointer is retained, not copied, since Profile64 and
// Profile32 are package-level singletons.
func NewDecompressionState[U Width](profile *Profile) *DecompressionState[U] {
	return &DecompressionState[U]{
		profile: profile,
		window:  make([]U, profile.Window),
	}
}

// Reset clears previous_value, empties the reference window, and zeros the
// current leading/trailing counts. Called at every group boundary.
func (s *DecompressionState[U]) Reset() {
	s.previousValue = 0
	for i := range s.window {
		s.window[i] = 0
	}
	s.windowPos = 0
	s.leadingZerosCurrent = 0
	s.trailingZerosCurrent = 0
}

func (s *DecompressionState[U]) pushReference(v U) {
	s.window[s.windowPos&(len(s.window)-1)] = v
	s.windowPos++
}

// LoadFirst consumes a verbatim value from the bit-stream, records it as
// previous_value and as the first reference-window entry, and returns it.
func (s *DecompressionState[U]) LoadFirst(br *bitstream.Reader) U {
	v := U(br.Read(s.profile.ValueBits))
	s.previousValue = v
	s.pushReference(v)

	return v
}

// DecompressValue decodes one value given its flag code and (for flag
// FlagFreshLeading) the leading-zero class fetched from the group state. It
// returns the decoded value and whether the caller must advance the group
// state's leading-zero cursor (true only for FlagFreshLeading).
func (s *DecompressionState[U]) DecompressValue(br *bitstream.Reader, flag uint8, lzClass uint8) (value U, refreshLeading bool) {
	switch flag {
	case FlagSamePrevious:
		value = s.previousValue

	case FlagNewReference:
		ref := br.Read(s.profile.RefIndexBits)
		lz := br.Read(3)
		sigField := br.Read(s.profile.SigBitsField)

		sig := int(sigField) + 1 // field stores s-1
		leading := s.profile.LeadingZeros[lz]
		trailing := s.profile.ValueBits - leading - sig

		x := br.Read(sig)
		refVal := s.window[int(ref)&(len(s.window)-1)]
		value = refVal ^ (U(x) << uint(trailing))

		s.leadingZerosCurrent = leading

	case FlagReuseLeading:
		payloadBits := s.profile.ValueBits - s.leadingZerosCurrent
		x := br.Read(payloadBits)
		value = s.previousValue ^ U(x)

	case FlagFreshLeading:
		leading := s.profile.LeadingZeros[lzClass]
		payloadBits := s.profile.ValueBits - leading
		x := br.Read(payloadBits)
		value = s.previousValue ^ U(x)

		s.leadingZerosCurrent = leading
		refreshLeading = true

	default:
		panic("chimp: impossible flag code")
	}

	s.previousValue = value
	s.pushReference(value)

	return value, refreshLeading
}
