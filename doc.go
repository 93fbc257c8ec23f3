// Package chimpscan implements a streaming decoder for Chimp128-encoded
// floating-point column segments: the block-oriented, bit-packed,
// XOR-delta codec described in the Chimp paper and used by analytical
// column stores to hold double- and single-precision floating-point
// values at rest.
//
// The package is organized in layers, innermost first:
//
//   - bitstream: a most-significant-bit-first bit cursor over a byte slice.
//   - internal/chimp: the bit-exact per-value decoding state machine,
//     generic over value width.
//   - internal/chimpenc: a test-only encoder producing the same byte
//     layout, used to build fixtures.
//   - pagecache: the page-residency contract a caller's storage engine
//     implements, plus two reference implementations.
//   - segment: the data model (Segment) and scan state (ScanState) that
//     drive group loading and expose Scan, ScanPartial, and Skip.
//   - chimpscan (this package): thin, type-specific convenience wrappers
//     over segment for the common float64 and float32 cases.
//
// Encoding a Chimp128 segment is out of scope for this module; it only
// reads segments that some other writer (or internal/chimpenc, for tests)
// has already produced.
package chimpscan
