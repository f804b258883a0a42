package packet

import (
	"github.com/robertgauld/cmri/internal/address"
	"github.com/robertgauld/cmri/internal/buffer"
)

// RawPacketMaxLen is RawPacket's fixed capacity: a unit address byte, a
// message type byte, and up to 256 body bytes.
const RawPacketMaxLen = 258

// RawPacket is the binary representation of a packet before framing and
// escaping are applied.
type RawPacket struct {
	buf buffer.Buffer
}

// NewRawPacket returns an empty RawPacket.
func NewRawPacket() RawPacket {
	return RawPacket{buf: buffer.New(RawPacketMaxLen)}
}

// RawPacketFromBytes builds a RawPacket from a byte slice, failing with
// TooLongError if it exceeds RawPacketMaxLen.
func RawPacketFromBytes(data []byte) (RawPacket, error) {
	if len(data) > RawPacketMaxLen {
		return RawPacket{}, TooLongError{}
	}
	r := RawPacket{buf: buffer.New(RawPacketMaxLen)}
	r.buf.SetSlice(data)
	return r, nil
}

func (r *RawPacket) ensureBuf() {
	if r.buf.Cap() == 0 {
		r.buf = buffer.New(RawPacketMaxLen)
	}
}

// Len returns the number of bytes currently stored.
func (r *RawPacket) Len() int { r.ensureBuf(); return r.buf.Len() }

// AsSlice returns the active bytes.
func (r *RawPacket) AsSlice() []byte { r.ensureBuf(); return r.buf.AsSlice() }

// Address returns the address the packet is sent to/from, if the unit
// address byte decodes validly.
func (r *RawPacket) Address() (address.Address, bool) {
	r.ensureBuf()
	if r.buf.Len() == 0 {
		return address.Address{}, false
	}
	a, err := address.FromUnitAddress(r.buf.At(0))
	return a, err == nil
}

// MessageType returns the message type byte, if present and a
// recognized (or, under experimenter mode, any uppercase ASCII) type.
func (r *RawPacket) MessageType(allowExperimenter bool) (byte, bool) {
	r.ensureBuf()
	if r.buf.Len() < 2 {
		return 0, false
	}
	b := r.buf.At(1)
	if b == msgInitialization || b == msgPollRequest || b == msgReceiveData || b == msgTransmitData {
		return b, true
	}
	if allowExperimenter && b >= 'A' && b <= 'Z' {
		return b, true
	}
	return 0, false
}

// Body returns the packet body (everything after the address and
// message type bytes).
func (r *RawPacket) Body() []byte {
	r.ensureBuf()
	return r.buf.SliceFrom(2)
}

// Push appends a single byte.
func (r *RawPacket) Push(b byte) bool {
	r.ensureBuf()
	return r.buf.Push(b)
}

// PushAll appends every byte of s.
func (r *RawPacket) PushAll(s []byte) bool {
	r.ensureBuf()
	return r.buf.PushAll(s)
}

// TryDecode decodes this RawPacket into a Packet.
func (r *RawPacket) TryDecode(allowExperimenter bool) (Packet, error) {
	r.ensureBuf()
	if r.buf.Len() < 2 {
		return Packet{}, TooShortError{}
	}

	addr, err := address.FromUnitAddress(r.buf.At(0))
	if err != nil {
		return Packet{}, err
	}

	payload, err := TryDecodePayload(r.buf.SliceFrom(1), allowExperimenter)
	if err != nil {
		return Packet{}, err
	}

	return Packet{address: addr, payload: payload}, nil
}
