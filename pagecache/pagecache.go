// Package pagecache defines the external page-cache collaborator the Chimp
// decoder depends on (spec §1 "Explicit non-goals"): block allocation and
// page pinning live outside the decoder entirely. This package only needs
// to give the decoder a stable byte pointer for a block id and guarantee
// residency for the lifetime of a handle; it provides two reference
// implementations (MemCache, CompressedStore) that satisfy that contract
// for tests, demos, and embedding.
package pagecache

// BlockID identifies a page-sized block of storage. It carries no meaning
// to this package beyond being a map key; callers typically derive it from
// a file id and block number.
type BlockID uint64

// PageHandle is a scoped residency token over the page containing a
// segment. While held, the segment's bytes are stable at the address Ptr
// returns. Release is the only mechanism by which the page may become
// eligible for eviction.
type PageHandle interface {
	// Ptr returns the page's bytes. The slice is only valid until Release
	// is called.
	Ptr() []byte
	// Release gives up this handle's claim on the page's residency. It is
	// safe to call more than once.
	Release()
}

// PageCache returns a residency-guaranteeing handle for a block's bytes.
// Implementations must be safe for concurrent Pin calls: spec §5 requires
// that multiple concurrent scan states over the same segment share the
// underlying page via reference counts.
type PageCache interface {
	// Pin acquires a handle on the page backing blockID. It fails with a
	// resource-exhaustion error if the cache cannot admit the page (spec §7
	// "Resource exhaustion"); this is the only fallible step in
	// constructing a scan state.
	Pin(blockID BlockID) (PageHandle, error)
}
