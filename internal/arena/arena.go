// Package arena implements a chunked bump allocator for byte- and
// string-backed storage used while building a single compilation
// phase's AST, HIR, type, and symbol data.
//
// Go's garbage collector already reclaims individually-freed objects,
// so Arena does not attempt to replace `new`/struct-literal allocation
// for typed nodes (AST/HIR/Type structs are ordinary heap values,
// collected once the Arena itself and every node reachable from it
// become unreachable at phase end). What the arena does own is the
// contract the source specifies explicitly: *moving* loose strings and
// slices into phase-scoped, single-owner storage via MoveString and
// MoveSlice, and releasing all of it in one call at the phase boundary.
package arena

// defaultChunkSize is the minimum size new chunks are grown to.
const defaultChunkSize = 8 << 20 // 8 MiB

// chunk is one contiguous block of the arena's byte storage.
type chunk struct {
	buf  []byte
	used int
	prev *chunk
}

// Arena is a linear, bump-pointer byte allocator. The zero value is
// not usable; use New.
type Arena struct {
	curr  *chunk
	first *chunk
}

// New creates an Arena with one chunk of at least size bytes
// (defaultChunkSize if size <= 0).
func New(size int) *Arena {
	if size <= 0 {
		size = defaultChunkSize
	}
	c := &chunk{buf: make([]byte, 0, size)}
	return &Arena{curr: c, first: c}
}

// Alloc returns n contiguous bytes of arena-owned storage. If n does
// not fit in the current chunk, a new chunk is appended, sized to fit
// n when n exceeds the default chunk size.
func (a *Arena) Alloc(n int) []byte {
	if cap(a.curr.buf)-len(a.curr.buf) < n {
		size := defaultChunkSize
		if n > size {
			size = n
		}
		c := &chunk{buf: make([]byte, 0, size), prev: a.curr}
		a.curr = c
	}
	start := len(a.curr.buf)
	a.curr.buf = a.curr.buf[:start+n]
	a.curr.used = start + n
	return a.curr.buf[start : start+n : start+n]
}

// Reset rewinds the arena to its first chunk, discarding every later
// chunk and zeroing the used length of the chunks that remain.
func (a *Arena) Reset() {
	a.first.buf = a.first.buf[:0]
	a.first.used = 0
	a.first.prev = nil
	a.curr = a.first
}

// Release drops every chunk. The Arena must not be used afterward
// except via a fresh call to New.
func (a *Arena) Release() {
	a.curr = nil
	a.first = nil
}

// MoveString copies s into arena-owned storage and returns a string
// converted from that copy. The conversion copies again, so the
// returned string shares no memory with the arena and stays valid
// after Reset or Release.
func (a *Arena) MoveString(s string) string {
	if len(s) == 0 {
		return ""
	}
	buf := a.Alloc(len(s))
	copy(buf, s)
	return string(buf)
}

// MoveSlice copies v into a newly allocated Go slice and returns it,
// then sets every element of v to its zero value. The copy is not
// placed in a's chunks (a is not used), and v's length is left
// unchanged.
func MoveSlice[T any](a *Arena, v []T) []T {
	if len(v) == 0 {
		return nil
	}
	out := make([]T, len(v))
	copy(out, v)
	var zero T
	for i := range v {
		v[i] = zero
	}
	return out
}
