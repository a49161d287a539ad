// Package rcstring implements the refcounted string header every
// interned, persistent, or request-local string payload shares: a
// length, a lazily-computed cached hash (0 meaning "not yet
// computed"), and the backing bytes. It is an external collaborator
// per spec.md §3.2 — specified here only to the depth the array
// engine's bucket lookup (§4.7.2) depends on.
package rcstring

import "sync/atomic"

// Flags distinguish lifetime/ownership classes of a string payload.
type Flags uint8

const (
	// FlagInterned marks a string living in the process-wide pool;
	// refcount decrements on it are no-ops.
	FlagInterned Flags = 1 << iota
	// FlagPersistent marks a string allocated via the OS allocator,
	// not a request heap.
	FlagPersistent
	// FlagPermanent marks a string that survives request shutdown.
	FlagPermanent
)

// String is a refcounted, hash-caching string payload.
type String struct {
	refcount int32
	hash     uint64
	flags    Flags
	data     []byte
}

// New constructs a non-interned string with refcount 1.
func New(s string) *String {
	return &String{refcount: 1, data: []byte(s)}
}

// Intern constructs a string whose refcount is frozen.
func Intern(s string) *String {
	return &String{refcount: 1, flags: FlagInterned, data: []byte(s)}
}

func (s *String) Bytes() []byte { return s.data }
func (s *String) String() string { return string(s.data) }
func (s *String) Len() int       { return len(s.data) }
func (s *String) Flags() Flags   { return s.flags }
func (s *String) IsInterned() bool   { return s.flags&FlagInterned != 0 }
func (s *String) IsPersistent() bool { return s.flags&FlagPersistent != 0 }
func (s *String) IsPermanent() bool  { return s.flags&FlagPermanent != 0 }

// Hash returns the cached hash, computing and storing it on first use.
// 0 is reserved to mean "uncomputed"; in the vanishingly unlikely case
// the real hash is 0, it is remapped to 1 so the cache sentinel stays
// unambiguous.
func (s *String) Hash() uint64 {
	if h := atomic.LoadUint64(&s.hash); h != 0 {
		return h
	}
	h := fnv1a(s.data)
	if h == 0 {
		h = 1
	}
	atomic.StoreUint64(&s.hash, h)
	return h
}

func fnv1a(data []byte) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for _, b := range data {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}

// Retain increments the refcount unless the string is interned, whose
// refcount is semantically frozen.
func (s *String) Retain() {
	if s.IsInterned() {
		return
	}
	atomic.AddInt32(&s.refcount, 1)
}

// Release decrements the refcount and reports whether it reached
// zero (caller should free). A no-op (returns false) on interned
// strings.
func (s *String) Release() bool {
	if s.IsInterned() {
		return false
	}
	return atomic.AddInt32(&s.refcount, -1) == 0
}

func (s *String) Refcount() int32 { return atomic.LoadInt32(&s.refcount) }

// Equal compares by interned-pointer-identity first (cheap, matches
// §4.7.2's "interned-equal or byte-equal" rule), falling back to a
// byte comparison.
func Equal(a, b *String) bool {
	if a == b {
		return true
	}
	if a.IsInterned() && b.IsInterned() {
		return false
	}
	return string(a.data) == string(b.data)
}
