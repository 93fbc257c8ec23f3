package segment

import (
	"encoding/binary"

	"github.com/colvec/chimpscan/bitstream"
	"github.com/colvec/chimpscan/errs"
	"github.com/colvec/chimpscan/internal/chimp"
	"github.com/colvec/chimpscan/pagecache"
)

// ScanState is a per-query decoder handle: a page pin, a payload bit
// cursor, a Chimp group state, and a Chimp128 decompression FSM, generic
// over the integer width U (uint64 for the 64-bit profile, uint32 for the
// 32-bit profile). It is single-owner and not safe for concurrent use from
// more than one goroutine (spec §5); multiple independent ScanStates over
// the same segment are fine and share the underlying page via the page
// cache's own reference counting.
type ScanState[U chimp.Width] struct {
	segment Segment
	handle  pagecache.PageHandle
	profile *chimp.Profile

	data   []byte
	reader *bitstream.Reader

	metadataPos int // current byte offset of the metadata tail cursor

	totalValueCount int
	groupState      chimp.GroupState
	decomp          *chimp.DecompressionState[U]

	closed bool
}

// InitScan acquires a page handle for seg's block, positions the payload
// bit-stream and metadata cursor, and loads the first group — the
// consumer-facing construction entry point from spec §6.
func InitScan[U chimp.Width](cache pagecache.PageCache, seg Segment, profile *chimp.Profile) (*ScanState[U], error) {
	handle, err := cache.Pin(seg.Block)
	if err != nil {
		return nil, errs.ErrPagePinFailed
	}

	data := handle.Ptr()
	if seg.Offset < 0 || seg.Offset+chimp.HeaderSize > len(data) {
		handle.Release()

		return nil, errs.ErrInvalidSegment
	}

	metadataOffset := binary.LittleEndian.Uint32(data[seg.Offset : seg.Offset+chimp.HeaderSize])
	if seg.Offset+int(metadataOffset) > len(data) {
		handle.Release()

		return nil, errs.ErrInvalidSegment
	}

	reader := bitstream.NewReader(data)
	reader.AlignTo(uint64(seg.Offset+chimp.HeaderSize) * 8)

	ss := &ScanState[U]{
		segment:     seg,
		handle:      handle,
		profile:     profile,
		data:        data,
		reader:      reader,
		metadataPos: seg.Offset + int(metadataOffset),
		decomp:      chimp.NewDecompressionState[U](profile),
	}
	ss.loadGroup()

	return ss, nil
}

// Close releases the underlying page handle. It is safe to call more than
// once.
func (ss *ScanState[U]) Close() error {
	if ss.closed {
		return nil
	}
	ss.closed = true
	ss.handle.Release()

	return nil
}

// TotalValueCount returns how many values this scan state has decoded so
// far (including values consumed by Skip).
func (ss *ScanState[U]) TotalValueCount() int {
	return ss.totalValueCount
}

// remainingInGroup returns how many values remain before the next group
// boundary, measured from the segment-wide value count rather than the
// group state's own flag cursor — a short final group may never fill its
// flag cursor to SequenceSize, so boundary detection must key off the
// global count (spec §9 "Open question").
func (ss *ScanState[U]) remainingInGroup() int {
	return chimp.SequenceSize - (ss.totalValueCount & (chimp.SequenceSize - 1))
}

func (ss *ScanState[U]) groupFinished() bool {
	return ss.totalValueCount&(chimp.SequenceSize-1) == 0
}

// loadGroup consumes one group descriptor from the metadata tail, which
// grows downward: the cursor decrements as each field is read, in the
// order payload_bit_offset, leading_zero_block_count, leading-zero blocks,
// flags_byte_size, flags (spec §4.6, §6).
func (ss *ScanState[U]) loadGroup() {
	ss.decomp.Reset()

	ss.metadataPos -= 4
	// payload_bit_offset is a point-query hint; sequential scanning must
	// still consume it to keep the cursor aligned.
	_ = binary.LittleEndian.Uint32(ss.data[ss.metadataPos : ss.metadataPos+4])

	ss.metadataPos -= 1
	lzBlockCount := int(ss.data[ss.metadataPos])

	ss.metadataPos -= 3 * lzBlockCount
	lzBlocks := ss.data[ss.metadataPos : ss.metadataPos+3*lzBlockCount]

	ss.metadataPos -= 2
	flagsByteSize := int(binary.LittleEndian.Uint16(ss.data[ss.metadataPos : ss.metadataPos+2]))

	ss.metadataPos -= flagsByteSize
	flags := ss.data[ss.metadataPos : ss.metadataPos+flagsByteSize]

	// group_size is inferred from the packed flag byte count, which upper
	// bounds how many flags were written; it is not the authoritative
	// emit count for a short final group (spec §9 "Open question") — that
	// authority rests with Segment.Count, enforced by ScanInto/Skip's
	// bounds checks.
	groupSize := flagsByteSize * 4
	ss.groupState.Load(flags, lzBlocks, groupSize, lzBlockCount*8)
}

// scan decodes n values starting from a freshly loaded group: consumes the
// flags[0] sentinel, emits a verbatim first value, then decompresses the
// rest. Precondition: the current group has not been started.
func (ss *ScanState[U]) scan(out []U, n int) {
	_ = ss.groupState.GetFlag() // flags[0], the verbatim-store sentinel
	out[0] = ss.decomp.LoadFirst(ss.reader)

	for i := 1; i < n; i++ {
		flag := ss.groupState.GetFlag()
		lz := ss.groupState.GetLeadingZero()

		v, refresh := ss.decomp.DecompressValue(ss.reader, flag, lz)
		if refresh {
			ss.groupState.AdvanceLeadingZero()
		}
		out[i] = v
	}

	ss.totalValueCount += n
	if ss.groupFinished() && ss.totalValueCount < ss.segment.Count {
		ss.loadGroup()
	}
}

// scanPartial decodes n values continuing an already-started group.
// Precondition: the current group has been started.
func (ss *ScanState[U]) scanPartial(out []U, n int) {
	for i := 0; i < n; i++ {
		flag := ss.groupState.GetFlag()
		lz := ss.groupState.GetLeadingZero()

		v, refresh := ss.decomp.DecompressValue(ss.reader, flag, lz)
		if refresh {
			ss.groupState.AdvanceLeadingZero()
		}
		out[i] = v
	}

	ss.totalValueCount += n
	if ss.groupFinished() && ss.totalValueCount < ss.segment.Count {
		ss.loadGroup()
	}
}

// scanInto is the shared, unchecked core of ScanInto and Skip: it
// decodes exactly len(out) values, crossing as many group boundaries as
// necessary.
func (ss *ScanState[U]) scanInto(out []U) {
	remaining := len(out)
	pos := 0

	for remaining > 0 {
		chunk := remaining
		if lim := ss.remainingInGroup(); chunk > lim {
			chunk = lim
		}

		if !ss.groupState.Started() {
			ss.scan(out[pos:pos+chunk], chunk)
		} else {
			ss.scanPartial(out[pos:pos+chunk], chunk)
		}

		pos += chunk
		remaining -= chunk
	}
}

// ScanInto decodes exactly len(out) values into out, the public entry
// point matching spec §4.6's scan_into. count must not exceed the number
// of values remaining in the segment.
func (ss *ScanState[U]) ScanInto(out []U) error {
	if ss.closed {
		return errs.ErrScannerClosed
	}
	if ss.totalValueCount+len(out) > ss.segment.Count {
		return errs.ErrScanCountExceedsSegment
	}

	ss.scanInto(out)

	return nil
}

// Skip advances the cursor by count values without materializing them.
func (ss *ScanState[U]) Skip(count int) error {
	if ss.closed {
		return errs.ErrScannerClosed
	}
	if count < 0 || ss.totalValueCount+count > ss.segment.Count {
		return errs.ErrSkipCountExceedsSegment
	}

	bufSize := count
	if bufSize > chimp.SequenceSize {
		bufSize = chimp.SequenceSize
	}
	buf := make([]U, bufSize)

	remaining := count
	for remaining > 0 {
		chunk := remaining
		if chunk > len(buf) {
			chunk = len(buf)
		}
		ss.scanInto(buf[:chunk])
		remaining -= chunk
	}

	return nil
}

// Scan decodes exactly n values into out, matching spec §6's consumer
// interface function signature.
func Scan[U chimp.Width](state *ScanState[U], n int, out []U) error {
	return state.ScanInto(out[:n])
}

// ScanPartial decodes n values into out[offset:], matching spec §6's
// consumer interface function signature.
func ScanPartial[U chimp.Width](state *ScanState[U], n int, out []U, offset int) error {
	return state.ScanInto(out[offset : offset+n])
}

// Skip advances state's cursor by n values without materializing them,
// matching spec §6's consumer interface function signature.
func Skip[U chimp.Width](state *ScanState[U], n int) error {
	return state.Skip(n)
}
