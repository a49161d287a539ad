// Package resource implements the interpreter's resource registry
// (§4.6/§6), the per-request table that hands out small integer
// handles for opaque native objects (file handles, DB connections,
// stream wrappers) and guarantees they are destroyed, in reverse
// registration order, at request shutdown — a direct use of the
// array engine's packed integer-key mode, exactly as §6 calls for.
package resource

import (
	"github.com/pkg/errors"

	"coreheap/array"
	"coreheap/value"
)

// Destructor releases whatever a resource's ptr owns (closing a file
// descriptor, a socket, a prepared statement). It must be idempotent
// if Delete and Shutdown could both reach the same handle, which they
// cannot by construction here — each handle is destroyed exactly
// once.
type Destructor func(ptr interface{})

type slot struct {
	typeID     string
	ptr        interface{}
	destructor Destructor
}

// Registry owns one request's live resource handles.
type Registry struct {
	table *array.Array
	order []int64 // registration order, for reverse-order shutdown
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{table: array.New(0)}
}

// Register allocates the next integer handle and stores typeID, ptr,
// and its destructor under it.
func (r *Registry) Register(typeID string, ptr interface{}, destructor Destructor) int64 {
	s := slot{typeID: typeID, ptr: ptr, destructor: destructor}
	handle := r.nextHandle()
	cell := value.NewPointer(value.Resource, wrapSlot(s), false)
	r.table.Put(array.IntKey(handle), cell, array.ModeAdd)
	r.order = append(r.order, handle)
	return handle
}

func (r *Registry) nextHandle() int64 {
	n := int64(0)
	r.table.ForEach(false, func(e array.Entry) bool {
		if e.Key.IsInt && e.Key.Int >= n {
			n = e.Key.Int + 1
		}
		return true
	})
	return n
}

// Get returns the typeID and ptr registered under handle.
func (r *Registry) Get(handle int64) (typeID string, ptr interface{}, ok bool) {
	cell, ok := r.table.Get(array.IntKey(handle))
	if !ok {
		return "", nil, false
	}
	s := unwrapSlot(cell)
	return s.typeID, s.ptr, true
}

// Delete runs handle's destructor (if still present) and removes it
// from the table.
func (r *Registry) Delete(handle int64) error {
	cell, ok := r.table.Get(array.IntKey(handle))
	if !ok {
		return errors.Errorf("resource: no handle %d registered", handle)
	}
	s := unwrapSlot(cell)
	if s.destructor != nil {
		s.destructor(s.ptr)
	}
	r.table.Del(array.IntKey(handle))
	return nil
}

// Shutdown destroys every remaining resource in reverse registration
// order, matching the request-teardown discipline §4.6 describes for
// heap shutdown generally (last acquired, first released).
func (r *Registry) Shutdown() {
	for i := len(r.order) - 1; i >= 0; i-- {
		handle := r.order[i]
		cell, ok := r.table.Get(array.IntKey(handle))
		if !ok {
			continue
		}
		s := unwrapSlot(cell)
		if s.destructor != nil {
			s.destructor(s.ptr)
		}
		r.table.Del(array.IntKey(handle))
	}
	r.order = nil
}

// Len reports how many resources are currently live.
func (r *Registry) Len() int { return r.table.Len() }
