package packet

import (
	"github.com/robertgauld/cmri/internal/address"
	"github.com/robertgauld/cmri/internal/frame"
)

// InvalidPacketError wraps a packet decode failure encountered while
// decoding a RawFrame: the frame's own SYN/STX/ETX structure was valid,
// but the packet bytes it carried weren't.
type InvalidPacketError struct {
	Err error
}

func (e InvalidPacketError) Error() string { return "invalid packet: " + e.Err.Error() }
func (e InvalidPacketError) Unwrap() error { return e.Err }

// TryAsRawFrame applies escaping and framing to this RawPacket, ready
// for sending onto a CMRInet network.
func (r *RawPacket) TryAsRawFrame() (frame.RawFrame, error) {
	r.ensureBuf()
	if r.buf.Len() < 2 {
		return frame.RawFrame{}, TooShortError{}
	}

	addr, err := address.FromUnitAddress(r.buf.At(0))
	if err != nil {
		return frame.RawFrame{}, err
	}

	rf := frame.New()
	rf.Begin(addr, r.buf.At(1))
	for _, b := range r.buf.SliceFrom(2) {
		if _, err := rf.Push(b); err != nil {
			return frame.RawFrame{}, err
		}
	}
	if err := rf.Finish(); err != nil {
		return frame.RawFrame{}, err
	}
	return rf, nil
}

// EncodeFrame serializes the packet straight to its framed wire form.
func (p Packet) EncodeFrame() (frame.RawFrame, error) {
	raw := p.EncodePacket()
	return raw.TryAsRawFrame()
}

// TryDecodeFrame unescapes rf and decodes the result into a Packet.
func TryDecodeFrame(rf *frame.RawFrame, allowExperimenter bool) (Packet, error) {
	body, err := rf.Unescape()
	if err != nil {
		return Packet{}, err
	}

	raw, err := RawPacketFromBytes(body)
	if err != nil {
		return Packet{}, InvalidPacketError{Err: err}
	}

	packet, err := raw.TryDecode(allowExperimenter)
	if err != nil {
		return Packet{}, InvalidPacketError{Err: err}
	}
	return packet, nil
}
