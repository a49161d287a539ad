package array

import (
	"coreheap/internal/errs"
	"coreheap/value"
)

// ValueCompare compares two unwrapped values, used by Compare and
// MinMax as the element-level comparator §4.7.12 takes as a
// parameter.
type ValueCompare func(a, b value.Cell) int

// Compare implements §4.7.12. If ordered, both arrays are walked in
// insertion order comparing keys then values; otherwise every entry
// of a is looked up by key in b.
//
// elementCmp may itself recurse into Compare when the two cells it is
// given are nested arrays; enterApply/exitApply bracket the whole call
// the way the original's HASH_PROTECT_RECURSION does, so an array that
// is (directly or transitively) an element of itself trips
// errs.RecursionTooDeep instead of recursing forever.
func (a *Array) Compare(b *Array, elementCmp ValueCompare, ordered bool) (int, error) {
	if !a.enterApply() {
		return 0, &errs.RecursionTooDeep{Limit: maxApplyDepth}
	}
	defer a.exitApply()
	if !b.enterApply() {
		return 0, &errs.RecursionTooDeep{Limit: maxApplyDepth}
	}
	defer b.exitApply()

	if a.Len() != b.Len() {
		if a.Len() < b.Len() {
			return -1, nil
		}
		return 1, nil
	}

	if ordered {
		ia, ib := 0, 0
		for ia < a.used || ib < b.used {
			for ia < a.used && a.buckets[ia].isUndef() {
				ia++
			}
			for ib < b.used && b.buckets[ib].isUndef() {
				ib++
			}
			if ia >= a.used && ib >= b.used {
				break
			}
			if ia >= a.used || ib >= b.used {
				if ia >= a.used {
					return -1, nil
				}
				return 1, nil
			}
			ka, kb := a.keyOf(&a.buckets[ia]), b.keyOf(&b.buckets[ib])
			if c := compareKeys(ka, kb); c != 0 {
				return c, nil
			}
			if c := compareUnwrapped(a.buckets[ia].value, b.buckets[ib].value, elementCmp); c != 0 {
				return c, nil
			}
			ia++
			ib++
		}
		return 0, nil
	}

	mismatch := 0
	a.ForEach(false, func(e Entry) bool {
		bv, ok := b.Get(e.Key)
		if !ok {
			mismatch = 1
			return false
		}
		if c := compareUnwrapped(e.Value, bv, elementCmp); c != 0 {
			mismatch = c
			return false
		}
		return true
	})
	return mismatch, nil
}

func compareUnwrapped(x, y value.Cell, cmp ValueCompare) int {
	if x.Type() == value.Indirect {
		x = *x.IndirectTarget()
	}
	if y.Type() == value.Indirect {
		y = *y.IndirectTarget()
	}
	if x.IsUndef() && !y.IsUndef() {
		return -1
	}
	if !x.IsUndef() && y.IsUndef() {
		return 1
	}
	if x.IsUndef() && y.IsUndef() {
		return 0
	}
	return cmp(x, y)
}

func compareKeys(a, b Key) int {
	switch {
	case a.IsInt && b.IsInt:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case !a.IsInt && !b.IsInt:
		if len(a.Str) != len(b.Str) {
			if len(a.Str) < len(b.Str) {
				return -1
			}
			return 1
		}
		switch {
		case a.Str < b.Str:
			return -1
		case a.Str > b.Str:
			return 1
		default:
			return 0
		}
	case a.IsInt:
		// integer ranks below string, per §4.7.12's mixed-kind rule.
		return -1
	default:
		return 1
	}
}

// MinMax implements §4.7.12's extrema scan.
func (a *Array) MinMax(cmp ValueCompare, wantMax bool) (value.Cell, bool) {
	var best value.Cell
	found := false
	a.ForEach(true, func(e Entry) bool {
		if !found {
			best = e.Value
			found = true
			return true
		}
		c := cmp(e.Value, best)
		if (wantMax && c > 0) || (!wantMax && c < 0) {
			best = e.Value
		}
		return true
	})
	return best, found
}
