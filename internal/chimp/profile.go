package chimp

// Width is the integer bit-pattern type a Chimp profile decodes into:
// uint64 for the 64-bit (float64) path, uint32 for the 32-bit (float32)
// path. See spec §9 "Polymorphic value width".
type Width interface {
	~uint32 | ~uint64
}

// Profile carries the constants that differ between the 64-bit and 32-bit
// Chimp instantiations. Exactly two Profile values exist (Profile64,
// Profile32, below); callers never construct their own.
type Profile struct {
	// ValueBits is the width of a verbatim value and of the XOR domain (64
	// or 32).
	ValueBits int
	// Window is the size of the reference window (128 for 64-bit, 32 for
	// 32-bit).
	Window int
	// RefIndexBits is the width of the flag-01 reference-index field,
	// log2(Window).
	RefIndexBits int
	// SigBitsField is the width of the flag-01 significant-bit-count field.
	// The field stores (s-1), so SigBitsField = log2(ValueBits) bits are
	// enough to represent every s in [1, ValueBits].
	SigBitsField int
	// LeadingZeros maps a 3-bit leading-zero class to a leading-zero bit
	// count. Encoder and decoder must agree on this table; it is otherwise
	// an arbitrary implementation choice (spec §3).
	LeadingZeros [8]int
}

// Profile64 is the float64 / uint64 Chimp instantiation: W=128 reference
// window, 7-bit reference index, 6-bit significant-bit field (storing s-1
// for s in [1,64]). The leading-zero table is the one spec.md §3 gives as
// typical.
var Profile64 = Profile{
	ValueBits:    64,
	Window:       128,
	RefIndexBits: 7,
	SigBitsField: 6,
	LeadingZeros: [8]int{0, 8, 12, 16, 18, 20, 22, 24},
}

// Profile32 is the float32 / uint32 Chimp instantiation: W=32 reference
// window, 5-bit reference index, 5-bit significant-bit field (storing s-1
// for s in [1,32]). spec.md does not give a 32-bit leading-zero table; this
// one is pinned here and documented as an Open Question decision in
// DESIGN.md — any fixed table is valid as long as the encoder agrees, which
// internal/chimpenc does.
var Profile32 = Profile{
	ValueBits:    32,
	Window:       32,
	RefIndexBits: 5,
	SigBitsField: 5,
	LeadingZeros: [8]int{0, 4, 6, 8, 9, 10, 11, 12},
}
