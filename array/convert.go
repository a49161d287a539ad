package array

import "strconv"

// ToProptable implements §4.7.14's symtable-to-proptable conversion:
// a string-keyed view where every integer key becomes its canonical
// decimal string. Returns a, unmodified, if it already has no integer
// keys.
func (a *Array) ToProptable() *Array {
	hasInt := false
	a.ForEach(false, func(e Entry) bool {
		if e.Key.IsInt {
			hasInt = true
			return false
		}
		return true
	})
	if !hasInt {
		return a
	}
	out := New(a.count)
	a.ForEach(false, func(e Entry) bool {
		k := e.Key
		if k.IsInt {
			k = Key{Str: strconv.FormatInt(k.Int, 10)}
		}
		out.Put(k, e.Value, ModeAddNew)
		return true
	})
	return out
}

// ToSymtable implements §4.7.14's proptable-to-symtable conversion:
// numeric-looking string keys are canonicalized to integers. Returns
// a, unmodified, if no string key is numeric.
func (a *Array) ToSymtable() *Array {
	hasNumeric := false
	a.ForEach(false, func(e Entry) bool {
		if !e.Key.IsInt {
			if _, ok := canonicalInt(e.Key.Str); ok {
				hasNumeric = true
				return false
			}
		}
		return true
	})
	if !hasNumeric {
		return a
	}
	out := New(a.count)
	a.ForEach(false, func(e Entry) bool {
		out.Put(StrKeyOrInt(e.Key), e.Value, ModeAddNew)
		return true
	})
	return out
}

// StrKeyOrInt re-canonicalizes a Key that may carry a numeric string,
// used when rebuilding a table across a symtable/proptable boundary.
func StrKeyOrInt(k Key) Key {
	if k.IsInt {
		return k
	}
	return StrKey(k.Str)
}
