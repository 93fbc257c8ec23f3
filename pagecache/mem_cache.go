package pagecache

import (
	"sync"
	"sync/atomic"

	"github.com/colvec/chimpscan/errs"
)

// page is a single cached block's bytes plus a reference count. The count
// starts at zero (not yet pinned) and is bumped on every Pin, mirroring the
// ref-count discipline cockroachdb/pebble's internal/cache uses to decide
// when a cache entry may be reclaimed (read for inspiration, not copied —
// pebble's refcnt.go additionally tracks a "free" bit and leak-detection
// hooks this reference implementation does not need).
type page struct {
	bytes []byte
	refs  int32
}

// MemCache is an in-memory PageCache: every block's bytes are supplied up
// front via Put and handed out, ref-counted, on Pin. It never evicts —
// suitable for tests, demos, and small embedded deployments where the
// working set fits in memory and eviction is unnecessary.
type MemCache struct {
	mu    sync.RWMutex
	pages map[BlockID]*page
}

var _ PageCache = (*MemCache)(nil)

// NewMemCache creates an empty MemCache.
func NewMemCache() *MemCache {
	return &MemCache{pages: make(map[BlockID]*page)}
}

// Put registers the bytes backing blockID. It is the admission path a
// writer uses after flushing a block to storage; Pin only ever sees blocks
// that have already been Put.
func (c *MemCache) Put(blockID BlockID, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pages[blockID] = &page{bytes: data}
}

// Pin acquires a handle on blockID's bytes, incrementing its reference
// count. Concurrent Pin calls for the same block share the same underlying
// bytes and each bump the count independently, so releasing one handle
// never invalidates another still-held handle.
func (c *MemCache) Pin(blockID BlockID) (PageHandle, error) {
	c.mu.RLock()
	p, ok := c.pages[blockID]
	c.mu.RUnlock()

	if !ok {
		return nil, errs.ErrUnknownBlock
	}

	atomic.AddInt32(&p.refs, 1)

	return &memHandle{page: p}, nil
}

type memHandle struct {
	page     *page
	released atomic.Bool
}

var _ PageHandle = (*memHandle)(nil)

func (h *memHandle) Ptr() []byte {
	return h.page.bytes
}

func (h *memHandle) Release() {
	if h.released.CompareAndSwap(false, true) {
		atomic.AddInt32(&h.page.refs, -1)
	}
}
