// Package sizeclass implements §3.4/§4.5: the 30 predefined small
// size classes, their per-run element/page counts, and the
// size-to-class lookup. The O(1) lookup-table technique (an
// 8-aligned index into a precomputed class array) is grounded on
// cloudfly-readgo/runtime/msize.go's size_to_class8/size_to_class128
// split; because this runtime's small-object ceiling (3072 bytes) is
// far narrower than upstream Go's, one 8-aligned table covers the
// whole range instead of needing a second 128-aligned table for the
// upper half.
package sizeclass

const (
	NumClasses  = 30
	MaxSmallSize = 3072
)

// Sizes are the 30 fixed class sizes in ascending order.
var Sizes = [NumClasses]int{
	8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256,
	320, 384, 448, 512, 640, 768, 896, 1024, 1280, 1536, 1792, 2048, 2560, 3072,
}

// PagesPerRun[i] and ElementsPerRun[i] describe the slab shape for
// class i, chosen (as upstream Go's mksizeclasses does) so that
// elements*size wastes no more than ~12.5% of pages*4096.
var PagesPerRun [NumClasses]int
var ElementsPerRun [NumClasses]int

var sizeToClassTable [MaxSmallSize/8 + 1]int8

func init() {
	for i, size := range Sizes {
		pages := choosePages(size)
		PagesPerRun[i] = pages
		ElementsPerRun[i] = (pages * 4096) / size
	}
	// Build the 8-aligned lookup table: sizeToClassTable[(s+7)>>3] is
	// the smallest class whose size is >= s, for 1 <= s <= MaxSmallSize.
	class := 0
	for idx := range sizeToClassTable {
		s := idx * 8
		for class < NumClasses && Sizes[class] < s {
			class++
		}
		if class == NumClasses {
			sizeToClassTable[idx] = -1
		} else {
			sizeToClassTable[idx] = int8(class)
		}
	}
}

// choosePages picks the smallest run length (in {1,2,4,8} pages) that
// keeps run-chopping waste at or below 1/8th, matching the "elements *
// size ~= pages * 4096" rule of §3.4.
func choosePages(size int) int {
	for _, pages := range []int{1, 2, 4, 8} {
		total := pages * 4096
		elems := total / size
		waste := total - elems*size
		if waste*8 <= total {
			return pages
		}
	}
	return 8
}

// ClassOf maps a nonzero request size (1..MaxSmallSize) to its class
// id. Exact per §6's "size classification round-trip" property.
func ClassOf(size int) (int, bool) {
	if size <= 0 || size > MaxSmallSize {
		return 0, false
	}
	c := sizeToClassTable[(size+7)>>3]
	if c < 0 {
		return 0, false
	}
	return int(c), true
}

// SizeOfClass returns the usable size for class id.
func SizeOfClass(class int) int { return Sizes[class] }
