// Package format holds small enum types shared across the chimpscan packages.
package format

// ValueWidth identifies which Chimp profile (64-bit or 32-bit) a segment was
// encoded with. Neither segment.Segment nor the segment byte layout records
// it; the caller picks the profile by choosing chimpscan.OpenFloat64 or
// chimpscan.OpenFloat32.
type ValueWidth uint8

const (
	// Width64 selects the float64 / Profile64 Chimp instantiation (W=128,
	// 7-bit reference index, 6-bit significant-bit field).
	Width64 ValueWidth = 1
	// Width32 selects the float32 / Profile32 Chimp instantiation (W=32,
	// 5-bit reference index, 5-bit significant-bit field).
	Width32 ValueWidth = 2
)

func (w ValueWidth) String() string {
	switch w {
	case Width64:
		return "Width64"
	case Width32:
		return "Width32"
	default:
		return "Unknown"
	}
}

// CompressionType identifies the codec used to store a page at rest in a
// pagecache.CompressedStore. It has no bearing on the Chimp codec itself,
// which always operates on the decompressed page bytes.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1
	CompressionZstd CompressionType = 0x2
	CompressionS2   CompressionType = 0x3
	CompressionLZ4  CompressionType = 0x4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
