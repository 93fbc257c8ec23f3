// Package segment implements the segment/group-descriptor data model and
// the scan state that drives group loading from a segment's metadata tail,
// coordinating the bit-stream reader and the Chimp group state to expose
// Scan, ScanPartial, and Skip to the upper executor (spec §2 layer 5, §4.6).
package segment

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/colvec/chimpscan/pagecache"
)

// Segment describes one stored column chunk: a contiguous byte region
// living inside a block the page cache owns. A Segment owns no memory of
// its own — its bytes are only reachable through a pagecache.PageHandle
// obtained by pinning Block.
type Segment struct {
	// Block identifies the page-cache block holding this segment's bytes.
	Block pagecache.BlockID
	// Offset is the byte offset within the block where the segment begins.
	Offset int
	// Count is the total number of decoded values the segment holds.
	Count int
}

// Fingerprint returns a stable identity hash for the segment's coordinates,
// usable as a cache key for derived state (e.g. memoized scan results) that
// should invalidate whenever the segment it was computed from changes.
func (s Segment) Fingerprint() uint64 {
	var buf [20]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(s.Block))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(s.Offset))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(s.Count))

	return xxhash.Sum64(buf[:])
}
