package array

import "coreheap/value"

// Merge implements §4.7.13: overwrite copies src's entries into dst
// regardless of whether the key already exists; otherwise dst only
// gains entries for keys it does not already have.
func (dst *Array) Merge(src *Array, overwrite bool) {
	src.ForEach(false, func(e Entry) bool {
		if overwrite {
			dst.Put(e.Key, e.Value, ModeUpdateIndirect)
			return true
		}
		dst.Put(e.Key, e.Value, ModeAdd)
		return true
	})
}

// MergeEx implements §4.7.13's gated variant: copyCtor transforms a
// src value before insertion (e.g. a refcount bump or object clone)
// and check decides whether an entry participates at all.
func (dst *Array) MergeEx(src *Array, copyCtor func(value.Cell) value.Cell, check func(Entry) bool) {
	src.ForEach(false, func(e Entry) bool {
		if check != nil && !check(e) {
			return true
		}
		v := e.Value
		if copyCtor != nil {
			v = copyCtor(v)
		}
		dst.Put(e.Key, v, ModeUpdateIndirect)
		return true
	})
}
