// Package packetdata implements PacketData, the 256-byte payload buffer
// used for ReceiveData/TransmitData bodies.
package packetdata

import (
	"fmt"

	"github.com/robertgauld/cmri/internal/buffer"
)

// MaxLen is PacketData's fixed capacity.
const MaxLen = 256

// maxBitIndex is the highest bit index SetBit will grow the buffer to
// reach (2048 bits = 256 bytes).
const maxBitIndex = 2047

// PacketData is a fixed-capacity (256 byte) buffer with bit-level
// accessors, used for node I/O data.
type PacketData struct {
	buf buffer.Buffer
}

// BodyTooLongError is returned when more than MaxLen bytes are supplied.
type BodyTooLongError struct {
	Length int
}

func (e BodyTooLongError) Error() string {
	return fmt.Sprintf("body too long: %d bytes (max %d)", e.Length, MaxLen)
}

// New returns a zero-filled PacketData of exactly length bytes. It
// panics if length exceeds MaxLen.
func New(length int) PacketData {
	if length > MaxLen {
		panic(fmt.Sprintf("length %d exceeds PacketData capacity %d", length, MaxLen))
	}
	p := PacketData{buf: buffer.New(MaxLen)}
	zeros := make([]byte, length)
	p.buf.SetSlice(zeros)
	return p
}

// FromBytes builds a PacketData from a byte slice, failing with
// BodyTooLongError if it exceeds MaxLen.
func FromBytes(data []byte) (PacketData, error) {
	if len(data) > MaxLen {
		return PacketData{}, BodyTooLongError{Length: len(data)}
	}
	p := PacketData{buf: buffer.New(MaxLen)}
	p.buf.SetSlice(data)
	return p, nil
}

// Len returns the number of bytes currently stored.
func (p *PacketData) Len() int { return p.buf.Len() }

// IsEmpty reports whether the buffer holds no bytes.
func (p *PacketData) IsEmpty() bool { return p.buf.IsEmpty() }

// AsSlice returns the active bytes.
func (p PacketData) AsSlice() []byte { return p.buf.AsSlice() }

// At returns the byte at index i.
func (p *PacketData) At(i int) byte { return p.buf.At(i) }

func (p *PacketData) ensureBuf() {
	if p.buf.Cap() == 0 {
		p.buf = buffer.New(MaxLen)
	}
}

// GetBit returns the value of bit i, panicking if the containing byte
// is beyond the current length.
func (p *PacketData) GetBit(i int) bool {
	p.ensureBuf()
	byteIndex := i / 8
	b := p.buf.At(byteIndex)
	return b&(1<<uint(i%8)) != 0
}

// SetBit sets bit i to v, lazily growing the buffer's length (not
// capacity) to reach it. It panics if i exceeds 2047.
func (p *PacketData) SetBit(i int, v bool) {
	p.ensureBuf()
	if i > maxBitIndex {
		panic(fmt.Sprintf("bit index %d exceeds maximum %d", i, maxBitIndex))
	}
	byteIndex := i / 8
	for p.buf.Len() <= byteIndex {
		p.buf.Push(0)
	}
	slice := p.buf.AsSlice()
	if v {
		slice[byteIndex] |= 1 << uint(i%8)
	} else {
		slice[byteIndex] &^= 1 << uint(i%8)
	}
}

// ToggleBit flips bit i, panicking if the containing byte is beyond the
// current length.
func (p *PacketData) ToggleBit(i int) {
	p.SetBit(i, !p.GetBit(i))
}

// Push appends a single byte, returning the byte back if there's no
// room left.
func (p *PacketData) Push(b byte) (byte, bool) {
	p.ensureBuf()
	if !p.buf.Push(b) {
		return b, false
	}
	return 0, true
}

// PushAll appends every byte of s. If s does not fit, nothing is
// appended and the remaining capacity is returned with false.
func (p *PacketData) PushAll(s []byte) (int, bool) {
	p.ensureBuf()
	if remaining := p.buf.Cap() - p.buf.Len(); len(s) > remaining {
		return remaining, false
	}
	for _, b := range s {
		p.buf.Push(b)
	}
	return 0, true
}

// Equal reports whether two PacketData values hold the same bytes.
func (p *PacketData) Equal(other *PacketData) bool {
	return p.buf.Equal(&other.buf)
}
