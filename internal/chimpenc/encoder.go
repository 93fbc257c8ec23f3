// Package chimpenc builds byte-exact Chimp128 segments for tests. It is the
// write-side counterpart internal/chimp has no production need for (spec §1
// "Explicit non-goals" scopes encoding out of the decoder), existing purely
// so the decoder's test suite has fixtures that exercise every flag and
// both value-width profiles.
package chimpenc

import (
	"encoding/binary"
	"math/bits"

	"github.com/colvec/chimpscan/bitstream"
	"github.com/colvec/chimpscan/internal/chimp"
)

// EncodeSegment packs values into the exact byte layout internal/chimp's
// decoder expects: a 4-byte metadata-tail offset header, a forward
// bit-packed payload stream, and a metadata tail that grows backward from
// the end of the segment, one descriptor per group of up to
// chimp.SequenceSize values (spec §6).
func EncodeSegment[U chimp.Width](values []U, profile *chimp.Profile) []byte {
	payload := bitstream.NewWriter()

	var descriptors [][]byte
	for start := 0; start < len(values); start += chimp.SequenceSize {
		end := start + chimp.SequenceSize
		if end > len(values) {
			end = len(values)
		}
		descriptors = append(descriptors, encodeGroup(payload, values[start:end], profile))
	}

	// The decoder walks the metadata tail from its high-address end
	// backward, so the first group's descriptor must sit closest to the
	// end of the segment and the last group's closest to the payload.
	var metadataTail []byte
	for i := len(descriptors) - 1; i >= 0; i-- {
		metadataTail = append(metadataTail, descriptors[i]...)
	}

	payloadBytes := payload.Bytes()
	total := chimp.HeaderSize + len(payloadBytes) + len(metadataTail)

	out := make([]byte, chimp.HeaderSize, total)
	binary.LittleEndian.PutUint32(out, uint32(total))
	out = append(out, payloadBytes...)
	out = append(out, metadataTail...)

	return out
}

// flagPacker packs 2-bit flag codes four per byte, LSB-first, matching
// chimp.FlagBuffer's unpacking order.
type flagPacker struct {
	buf []byte
	idx int
}

func (p *flagPacker) push(flag uint8) {
	byteIdx := p.idx >> 2
	for len(p.buf) <= byteIdx {
		p.buf = append(p.buf, 0)
	}
	shift := uint(p.idx&3) * 2
	p.buf[byteIdx] |= flag << shift
	p.idx++
}

// lzPacker packs 3-bit leading-zero classes eight per 3-byte
// little-endian block, matching chimp.LeadingZeroBuffer's unpacking order.
type lzPacker struct {
	buf []byte
	idx int
}

func (p *lzPacker) push(class uint8) {
	blockIdx := p.idx / 8
	within := uint(p.idx % 8)
	base := blockIdx * 3
	for len(p.buf) < base+3 {
		p.buf = append(p.buf, 0)
	}

	packed := uint32(p.buf[base]) | uint32(p.buf[base+1])<<8 | uint32(p.buf[base+2])<<16
	packed |= uint32(class&0x7) << (within * 3)
	p.buf[base] = byte(packed)
	p.buf[base+1] = byte(packed >> 8)
	p.buf[base+2] = byte(packed >> 16)
	p.idx++
}

// encodeGroup appends one group's values to payload and returns its
// metadata descriptor, laid out low-address-first as flags,
// flags_byte_size, leading-zero blocks, leading_zero_block_count,
// payload_bit_offset — the reverse of the decoder's read order, since
// loadGroup consumes the descriptor from its high-address end (spec §6).
func encodeGroup[U chimp.Width](payload *bitstream.Writer, values []U, profile *chimp.Profile) []byte {
	payloadBitOffset := payload.BitLen()

	window := make([]U, profile.Window)
	windowPos := 0
	push := func(v U) {
		window[windowPos&(len(window)-1)] = v
		windowPos++
	}

	var flags flagPacker
	var lzs lzPacker
	var previous U
	leadingZerosCurrent := 0

	for i, v := range values {
		if i == 0 {
			payload.Write(uint64(v), profile.ValueBits)
			previous = v
			push(v)

			continue
		}

		xorPrev := v ^ previous
		if xorPrev == 0 {
			flags.push(chimp.FlagSamePrevious)
			push(v)
			previous = v

			continue
		}

		prevLeading, _ := clzCtz(uint64(xorPrev), profile.ValueBits)
		reuseFreshSig := profile.ValueBits - prevLeading

		bestRef := -1
		bestLeading, bestTrailing, bestSig := 0, 0, 0

		limit := windowPos
		if limit > len(window) {
			limit = len(window)
		}
		for back := 1; back <= limit; back++ {
			idx := (windowPos - back) & (len(window) - 1)
			w := window[idx]

			xorCand := v ^ w
			if xorCand == 0 {
				continue
			}

			leading, trailing := clzCtz(uint64(xorCand), profile.ValueBits)
			sig := profile.ValueBits - leading - trailing
			if sig < reuseFreshSig && (bestRef == -1 || sig < bestSig) {
				bestRef, bestLeading, bestTrailing, bestSig = idx, leading, trailing, sig
			}
		}

		switch {
		case bestRef != -1:
			class := leadingClassFor(profile, bestLeading)
			leadingUsed := profile.LeadingZeros[class]
			sig := profile.ValueBits - leadingUsed - bestTrailing
			xorCand := v ^ window[bestRef]

			flags.push(chimp.FlagNewReference)
			payload.Write(uint64(bestRef), profile.RefIndexBits)
			payload.Write(uint64(class), 3)
			payload.Write(uint64(sig-1), profile.SigBitsField)
			payload.Write(uint64(xorCand)>>uint(bestTrailing), sig)
			leadingZerosCurrent = leadingUsed

		case prevLeading >= leadingZerosCurrent:
			flags.push(chimp.FlagReuseLeading)
			payload.Write(uint64(xorPrev), profile.ValueBits-leadingZerosCurrent)

		default:
			class := leadingClassFor(profile, prevLeading)
			leadingUsed := profile.LeadingZeros[class]

			flags.push(chimp.FlagFreshLeading)
			lzs.push(class)
			payload.Write(uint64(xorPrev), profile.ValueBits-leadingUsed)
			leadingZerosCurrent = leadingUsed
		}

		push(v)
		previous = v
	}

	flagsByteSize := (flags.idx + 3) / 4
	for len(flags.buf) < flagsByteSize {
		flags.buf = append(flags.buf, 0)
	}

	lzBlockCount := (lzs.idx + 7) / 8
	for len(lzs.buf) < lzBlockCount*3 {
		lzs.buf = append(lzs.buf, 0)
	}

	desc := make([]byte, 0, flagsByteSize+2+lzBlockCount*3+1+4)
	desc = append(desc, flags.buf[:flagsByteSize]...)
	desc = binary.LittleEndian.AppendUint16(desc, uint16(flagsByteSize))
	desc = append(desc, lzs.buf[:lzBlockCount*3]...)
	desc = append(desc, byte(lzBlockCount))
	desc = binary.LittleEndian.AppendUint32(desc, uint32(payloadBitOffset))

	return desc
}

// clzCtz returns the leading- and trailing-zero counts of x treated as a
// width-bit value. x must be nonzero and fit within width bits.
func clzCtz(x uint64, width int) (leading, trailing int) {
	leading = bits.LeadingZeros64(x) - (64 - width)
	trailing = bits.TrailingZeros64(x)

	return leading, trailing
}

// leadingClassFor returns the largest table index whose leading-zero count
// does not exceed leading, so the transmitted payload always covers at
// least as many bits as the value actually needs.
func leadingClassFor(profile *chimp.Profile, leading int) uint8 {
	class := 0
	for i, v := range profile.LeadingZeros {
		if v <= leading {
			class = i
		}
	}

	return uint8(class)
}
