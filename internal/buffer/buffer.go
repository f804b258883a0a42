// Package buffer implements the fixed-capacity byte buffer shared by
// PacketData, RawPacket and RawFrame. Go has no const-generic array
// length, so the shared behavior is a single hand-written type
// parameterized by a runtime capacity rather than three independent
// copies of the same method set.
package buffer

import "fmt"

// Buffer is a fixed-capacity, zero-allocation-after-construction byte
// buffer. The backing array never grows past the capacity it was built
// with.
type Buffer struct {
	data []byte
}

// New returns an empty Buffer with the given capacity.
func New(capacity int) Buffer {
	return Buffer{data: make([]byte, 0, capacity)}
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int {
	return len(b.data)
}

// IsEmpty reports whether the buffer holds no bytes.
func (b *Buffer) IsEmpty() bool {
	return len(b.data) == 0
}

// Available returns the remaining capacity.
func (b *Buffer) Available() int {
	return cap(b.data) - len(b.data)
}

// Clear empties the buffer without releasing its backing array.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
}

// AsSlice returns the active prefix of the buffer. The returned slice
// aliases the buffer's storage and must not be retained across a
// mutating call.
func (b *Buffer) AsSlice() []byte {
	return b.data
}

// SetSlice replaces the buffer's contents, panicking if s is longer
// than the buffer's capacity.
func (b *Buffer) SetSlice(s []byte) {
	if len(s) > cap(b.data) {
		panic(fmt.Sprintf("range end index %d out of range for data of length %d", len(s)-1, cap(b.data)))
	}
	b.data = append(b.data[:0], s...)
}

// At returns the byte at index i, panicking if i is out of bounds.
func (b *Buffer) At(i int) byte {
	if i < 0 || i >= len(b.data) {
		panic(fmt.Sprintf("index out of bounds: the len is %d but the index is %d", len(b.data), i))
	}
	return b.data[i]
}

// Slice returns data[start:end], with the canonical out-of-range panic
// messages.
func (b *Buffer) Slice(start, end int) []byte {
	length := len(b.data)
	if start > length {
		panic(fmt.Sprintf("range start index %d out of range for data of length %d", start, length))
	}
	if end > length {
		panic(fmt.Sprintf("range end index %d out of range for data of length %d", end-1, length))
	}
	return b.data[start:end]
}

// SliceInclusive returns data[start:end+1], checked more strictly than
// Slice: both bounds must be strictly less than the length.
func (b *Buffer) SliceInclusive(start, end int) []byte {
	length := len(b.data)
	if start >= length {
		panic(fmt.Sprintf("range start/end index %d out of range for data of length %d", start, length))
	}
	if end >= length {
		panic(fmt.Sprintf("range start/end index %d out of range for data of length %d", end, length))
	}
	return b.data[start : end+1]
}

// SliceFrom returns data[start:].
func (b *Buffer) SliceFrom(start int) []byte {
	length := len(b.data)
	if start > length {
		panic(fmt.Sprintf("range start index %d out of range for data of length %d", start, length))
	}
	return b.data[start:]
}

// Push appends a single byte, returning false and leaving the buffer
// unchanged when there's no remaining capacity.
func (b *Buffer) Push(v byte) (ok bool) {
	if len(b.data) >= cap(b.data) {
		return false
	}
	b.data = append(b.data, v)
	return true
}

// PushAll appends every byte of s, stopping (and reporting false) the
// moment capacity runs out. Bytes already appended before the failure
// remain in the buffer.
func (b *Buffer) PushAll(s []byte) (ok bool) {
	for _, v := range s {
		if !b.Push(v) {
			return false
		}
	}
	return true
}

// Equal reports whether two buffers hold identical active prefixes.
func (b *Buffer) Equal(other *Buffer) bool {
	if len(b.data) != len(other.data) {
		return false
	}
	for i, v := range b.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// ToBytes returns an owned copy of the active prefix.
func (b *Buffer) ToBytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}
