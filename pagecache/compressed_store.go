package pagecache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/colvec/chimpscan/errs"
	"github.com/colvec/chimpscan/format"
)

// compressedPage is a block's bytes as they sit at rest: still compressed,
// plus the algorithm needed to inflate them and a lazily-populated
// decompressed cache shared by every Pin of the block. inflateErr is cached
// alongside inflated so a block whose compressed bytes are corrupt fails the
// same way on every Pin, not just the first.
type compressedPage struct {
	compressed  []byte
	compression format.CompressionType

	once       sync.Once
	inflated   []byte
	inflateErr error
	refs       int32
}

// CompressedStore is a PageCache that keeps block bytes compressed at rest
// and inflates a block on its first Pin, caching the inflated bytes for
// subsequent pins. A decoder-only module has no payload compression of its
// own (spec §1 fixes the segment byte layout exactly), but a page store
// sitting behind the page-cache contract is exactly the kind of component
// real systems compress, and the Chimp decoder never notices — Pin always
// hands it plain decoded bytes regardless of what sits underneath.
type CompressedStore struct {
	mu    sync.RWMutex
	pages map[BlockID]*compressedPage
}

var _ PageCache = (*CompressedStore)(nil)

// NewCompressedStore creates an empty CompressedStore.
func NewCompressedStore() *CompressedStore {
	return &CompressedStore{pages: make(map[BlockID]*compressedPage)}
}

// Put compresses data with the given algorithm and registers it under
// blockID.
func (s *CompressedStore) Put(blockID BlockID, data []byte, compression format.CompressionType) error {
	compressed, err := deflatePage(data, compression)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[blockID] = &compressedPage{compressed: compressed, compression: compression}

	return nil
}

// Pin inflates (once) and pins blockID's bytes.
func (s *CompressedStore) Pin(blockID BlockID) (PageHandle, error) {
	s.mu.RLock()
	p, ok := s.pages[blockID]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.ErrUnknownBlock
	}

	p.once.Do(func() {
		p.inflated, p.inflateErr = inflatePage(p.compressed, p.compression)
	})
	if p.inflateErr != nil {
		return nil, p.inflateErr
	}

	atomic.AddInt32(&p.refs, 1)

	return &compressedHandle{page: p}, nil
}

type compressedHandle struct {
	page     *compressedPage
	released atomic.Bool
}

var _ PageHandle = (*compressedHandle)(nil)

func (h *compressedHandle) Ptr() []byte {
	return h.page.inflated
}

func (h *compressedHandle) Release() {
	if h.released.CompareAndSwap(false, true) {
		atomic.AddInt32(&h.page.refs, -1)
	}
}

// BlockIDForKey derives a stable BlockID from an arbitrary storage key (e.g.
// a file path plus block number formatted as a string) via xxHash64.
func BlockIDForKey(key string) BlockID {
	return BlockID(xxhash.Sum64String(key))
}

// pageLZ4CompressorPool pools lz4.Compressor instances across Put calls; the
// type carries internal match-finder state that is worth reusing across the
// many small pages a CompressedStore accumulates.
var pageLZ4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// pageZstdEncoderPool and pageZstdDecoderPool pool klauspost/compress/zstd
// encoders and decoders the same way: CompressedStore's Put/Pin calls come
// from many goroutines scanning independent segments, and zstd's own docs
// recommend reuse over constructing a fresh encoder/decoder per call.
var pageZstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("pagecache: failed to build zstd encoder: %v", err))
		}

		return enc
	},
}

var pageZstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("pagecache: failed to build zstd decoder: %v", err))
		}

		return dec
	},
}

// deflatePage compresses a page's raw bytes with the algorithm a caller
// picked for it in Put.
func deflatePage(data []byte, compression format.CompressionType) ([]byte, error) {
	switch compression {
	case format.CompressionNone:
		return data, nil

	case format.CompressionS2:
		if len(data) == 0 {
			return nil, nil
		}

		return s2.Encode(nil, data), nil

	case format.CompressionLZ4:
		if len(data) == 0 {
			return nil, nil
		}

		lc, _ := pageLZ4CompressorPool.Get().(*lz4.Compressor)
		defer pageLZ4CompressorPool.Put(lc)

		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lc.CompressBlock(data, dst)
		if err != nil {
			return nil, fmt.Errorf("pagecache: lz4 compress page: %w", err)
		}

		return dst[:n], nil

	case format.CompressionZstd:
		enc, _ := pageZstdEncoderPool.Get().(*zstd.Encoder)
		defer pageZstdEncoderPool.Put(enc)

		return enc.EncodeAll(data, nil), nil

	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compression)
	}
}

// inflatePage reverses deflatePage. LZ4 block compression does not record
// the decompressed size alongside the compressed bytes, so its branch uses
// an adaptive buffer sizing strategy: start at 4x the compressed size (a
// common expansion ratio for the kind of repetitive page bytes Chimp
// segments produce), double on a short-buffer error, and give up past a
// sanity limit rather than grow unbounded against a corrupt page.
func inflatePage(data []byte, compression format.CompressionType) ([]byte, error) {
	switch compression {
	case format.CompressionNone:
		return data, nil

	case format.CompressionS2:
		if len(data) == 0 {
			return nil, nil
		}

		return s2.Decode(nil, data)

	case format.CompressionLZ4:
		if len(data) == 0 {
			return nil, nil
		}

		const maxSize = 128 * 1024 * 1024 // 128MB safety limit against a corrupt page
		bufSize := len(data) * 4

		for bufSize <= maxSize {
			buf := make([]byte, bufSize)

			n, err := lz4.UncompressBlock(data, buf)
			if err == nil {
				return buf[:n], nil
			}
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2

				continue
			}

			return nil, fmt.Errorf("pagecache: lz4 decompress page: %w", err)
		}

		return nil, fmt.Errorf("pagecache: lz4 decompress page: %w", lz4.ErrInvalidSourceShortBuffer)

	case format.CompressionZstd:
		dec, _ := pageZstdDecoderPool.Get().(*zstd.Decoder)
		defer pageZstdDecoderPool.Put(dec)

		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("pagecache: zstd decompress page: %w", err)
		}

		return out, nil

	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compression)
	}
}
