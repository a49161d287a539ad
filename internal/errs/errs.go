// Package errs defines the heap's error taxonomy (§7) as plain error
// types formatted with fmt. It does not use github.com/pkg/errors;
// the packages that cross the OS boundary (internal/oschunk, heap,
// resource) wrap their own failures with it.
package errs

import "fmt"

// OutOfMemory reports that the OS refused more memory, or a heap's
// byte limit would be exceeded, after one GC retry.
type OutOfMemory struct {
	Allocated uint64
	Tried     uint64
	Limit     uint64
}

func (e *OutOfMemory) Error() string {
	return fmt.Sprintf("out of memory: allocated %d bytes, tried to allocate %d, limit %d", e.Allocated, e.Tried, e.Limit)
}

// SizeOverflow reports that nmemb*size+offset would wrap, from
// safe_alloc and its callers.
type SizeOverflow struct {
	Nmemb, Size, Offset uint64
}

func (e *SizeOverflow) Error() string {
	return fmt.Sprintf("integer overflow computing allocation size: nmemb=%d size=%d offset=%d", e.Nmemb, e.Size, e.Offset)
}

// RecursionTooDeep reports the array recursion guard (§5) tripping.
type RecursionTooDeep struct {
	Limit int
}

func (e *RecursionTooDeep) Error() string {
	return fmt.Sprintf("possible infinite recursion: nesting exceeded %d", e.Limit)
}

// CapacityOverflow reports an array's hashed capacity doubling past
// §4.7.4's maxSize ceiling, distinct from RecursionTooDeep since this
// is a hard size limit, not a recursion guard.
type CapacityOverflow struct {
	Limit int
}

func (e *CapacityOverflow) Error() string {
	return fmt.Sprintf("array capacity overflow: cannot grow past %d slots", e.Limit)
}

// Corruption reports a debug-only consistency check failing. Per §7
// this is fatal in a C runtime; here it is a returned error so callers
// (and tests) can observe it instead of the process aborting.
type Corruption struct {
	Detail string
}

func (e *Corruption) Error() string {
	return fmt.Sprintf("heap corruption detected: %s", e.Detail)
}

// Misuse reports free/realloc of a pointer the heap does not own.
type Misuse struct {
	Detail string
}

func (e *Misuse) Error() string {
	return fmt.Sprintf("allocator misuse: %s", e.Detail)
}
