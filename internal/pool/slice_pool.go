package pool

import "sync"

// Unit slice pools used when wide strings are converted between their
// wire form and Go strings.
var (
	uint16SlicePool = sync.Pool{
		New: func() any { return &[]uint16{} },
	}
	runeSlicePool = sync.Pool{
		New: func() any { return &[]rune{} },
	}
)

func getSlice[T any](p *sync.Pool, size int) ([]T, func()) {
	ptr, _ := p.Get().(*[]T)

	slice := *ptr
	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { p.Put(ptr) }
}

// GetUint16Slice returns a slice of exactly size UTF-16 units.
//
// The caller must call the returned cleanup function once the slice is no
// longer referenced:
//
//	units, cleanup := pool.GetUint16Slice(n)
//	defer cleanup()
func GetUint16Slice(size int) ([]uint16, func()) {
	return getSlice[uint16](&uint16SlicePool, size)
}

// GetRuneSlice returns a slice of exactly size code points. Same contract
// as GetUint16Slice.
func GetRuneSlice(size int) ([]rune, func()) {
	return getSlice[rune](&runeSlicePool, size)
}
