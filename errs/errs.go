// Package errs centralizes the sentinel errors returned across the chimpscan
// module, so callers can compare with errors.Is instead of matching strings.
package errs

import "errors"

var (
	// ErrPagePinFailed is returned when the page cache cannot pin the block
	// backing a segment, e.g. because the cache is at capacity. Construction
	// of a scan state fails with this error; no scan state is created.
	ErrPagePinFailed = errors.New("chimpscan: failed to pin page")

	// ErrInvalidSegment is returned when a segment's offset or its declared
	// metadata offset falls outside the bytes the page cache returned for its
	// block. The value count is not checked against those bytes.
	ErrInvalidSegment = errors.New("chimpscan: invalid segment layout")

	// ErrScanCountExceedsSegment is returned by Scan/ScanPartial when the
	// requested count would decode past the segment's total value count.
	ErrScanCountExceedsSegment = errors.New("chimpscan: scan count exceeds remaining values in segment")

	// ErrSkipCountExceedsSegment is returned by Skip when the requested skip
	// count would advance past the segment's total value count.
	ErrSkipCountExceedsSegment = errors.New("chimpscan: skip count exceeds remaining values in segment")

	// ErrUnknownBlock is returned by a page cache implementation when asked
	// to pin a block id it has no bytes for.
	ErrUnknownBlock = errors.New("chimpscan: unknown block id")

	// ErrUnsupportedCompression is returned by the page store when asked to
	// read or write a page with a compression type it does not recognize.
	ErrUnsupportedCompression = errors.New("chimpscan: unsupported compression type")

	// ErrScannerClosed is returned when a scanner method is called after
	// Close has released its page handle.
	ErrScannerClosed = errors.New("chimpscan: scanner already closed")
)
