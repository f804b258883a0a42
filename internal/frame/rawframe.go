package frame

import (
	"github.com/robertgauld/cmri/internal/address"
	"github.com/robertgauld/cmri/internal/buffer"
)

// Framing byte values.
const (
	syn byte = 0xFF
	stx byte = 0x02
	etx byte = 0x03
	dle byte = 0x10
)

// MaxLen is RawFrame's fixed capacity: a maximally escaped RawPacket
// (unit address and message type, never escaped, plus 256 body bytes,
// each possibly doubled) plus the 3-byte preamble and the trailing ETX.
const MaxLen = 518

// rawPacketMaxLen mirrors packet.RawPacketMaxLen without importing the
// packet package, which would create an import cycle (packet depends on
// frame to build/decode frames, not the other way around).
const rawPacketMaxLen = 258

type receiveState int

const (
	stateWaitingForSyn receiveState = iota
	stateWaitingForSynSyn
	stateWaitingForSynSynStx
	stateReceiving
	stateReceivingEscaped
	stateReceived
)

// RawFrame holds a packet as it appears on the wire: SYN SYN STX
// <escaped packet bytes> ETX.
type RawFrame struct {
	buf          buffer.Buffer
	receiveState receiveState
	packetLen    int
}

// New returns an empty RawFrame, ready to either Begin building a frame
// to send, or Receive bytes from a connection.
func New() RawFrame {
	return RawFrame{buf: buffer.New(MaxLen)}
}

// FromBytes builds a RawFrame directly from already-framed bytes
// (received out of band, or under test), failing with TooShortError if
// shorter than 4 bytes or TooLongError if longer than MaxLen.
func FromBytes(data []byte) (RawFrame, error) {
	if len(data) < 4 {
		return RawFrame{}, TooShortError{}
	}
	if len(data) > MaxLen {
		return RawFrame{}, TooLongError{}
	}
	f := New()
	f.buf.SetSlice(data)
	return f, nil
}

func (f *RawFrame) ensureBuf() {
	if f.buf.Cap() == 0 {
		f.buf = buffer.New(MaxLen)
	}
}

// AsSlice returns the frame's active bytes.
func (f *RawFrame) AsSlice() []byte { f.ensureBuf(); return f.buf.AsSlice() }

// Len returns the number of bytes currently held.
func (f *RawFrame) Len() int { f.ensureBuf(); return f.buf.Len() }

// Address returns the node address of the packet the frame carries, if
// the unit address byte at offset 3 decodes validly.
func (f *RawFrame) Address() (uint8, bool) {
	f.ensureBuf()
	if f.buf.Len() <= 3 {
		return 0, false
	}
	a, err := address.FromUnitAddress(f.buf.At(3))
	if err != nil {
		return 0, false
	}
	return a.NodeAddress(), true
}

// MessageType returns the message type byte at offset 4, if present
// and recognized (or, under experimenter mode, any uppercase ASCII
// letter).
func (f *RawFrame) MessageType(allowExperimenter bool) (byte, bool) {
	f.ensureBuf()
	if f.buf.Len() <= 4 {
		return 0, false
	}
	b := f.buf.At(4)
	if b == 'I' || b == 'P' || b == 'R' || b == 'T' {
		return b, true
	}
	if allowExperimenter && b >= 'A' && b <= 'Z' {
		return b, true
	}
	return 0, false
}

// Begin starts building a frame for transmission: writes the SYN SYN
// STX preamble, the unit address, and the message type byte.
func (f *RawFrame) Begin(addr address.Address, messageType byte) {
	f.ensureBuf()
	f.buf.Clear()
	f.buf.PushAll([]byte{syn, syn, stx, addr.UnitAddress(), messageType})
}

// Push appends a body byte, escaping it with a leading DLE if it
// collides with a framing byte. Returns the number of bytes actually
// written (1 or 2).
func (f *RawFrame) Push(value byte) (int, error) {
	f.ensureBuf()
	escape := value == syn || value == stx || value == dle || value == etx
	count := 1
	if escape {
		count = 2
	}
	if f.buf.Available() < count {
		return 0, FullError{}
	}
	if escape {
		f.buf.Push(dle)
	}
	f.buf.Push(value)
	return count, nil
}

// Finish appends the trailing ETX byte, completing a frame built with
// Begin/Push.
func (f *RawFrame) Finish() error {
	f.ensureBuf()
	if f.buf.Available() < 1 {
		return FullError{}
	}
	f.buf.Push(etx)
	return nil
}

// Receive feeds a single byte received from a CMRInet connection into
// the frame's synchronisation state machine. It returns true once a
// complete frame (SYN SYN STX ... ETX) has been assembled.
func (f *RawFrame) Receive(b byte) (bool, error) {
	f.ensureBuf()

	if f.receiveState == stateReceived {
		return false, AlreadyCompleteError{}
	}

	accept := func(next receiveState) {
		f.buf.Push(b)
		f.receiveState = next
	}

	switch f.receiveState {
	case stateWaitingForSyn:
		if b == syn {
			accept(stateWaitingForSynSyn)
		}
		return false, nil

	case stateWaitingForSynSyn:
		if b == syn {
			accept(stateWaitingForSynSynStx)
		} else {
			f.Reset()
		}
		return false, nil

	case stateWaitingForSynSynStx:
		switch b {
		case stx:
			accept(stateReceiving)
		case syn:
			// Still seeing consecutive SYN bytes; stay put.
		default:
			f.Reset()
		}
		return false, nil

	case stateReceiving:
		switch b {
		case etx:
			accept(stateReceived)
			if f.buf.Len() < 6 {
				f.Reset()
				return false, TooShortError{}
			}
			return true, nil
		case dle:
			accept(stateReceivingEscaped)
			return false, nil
		default:
			if f.packetLen >= rawPacketMaxLen {
				f.Reset()
				return false, TooLongError{}
			}
			f.packetLen++
			accept(stateReceiving)
			return false, nil
		}

	case stateReceivingEscaped:
		accept(stateReceiving)
		return false, nil
	}

	return false, nil
}

// Reset clears the frame, ready to receive a new one, including the
// escaped-body byte counter: leaving it set would make the next frame
// fail with TooLongError immediately, before a single body byte of it
// had been counted.
func (f *RawFrame) Reset() {
	f.ensureBuf()
	f.buf.Clear()
	f.receiveState = stateWaitingForSyn
	f.packetLen = 0
}

// Unescape validates the frame's SYN SYN STX ... ETX structure and
// returns the unescaped packet bytes (unit address, message type, and
// body) with the framing and DLE-escaping stripped.
func (f *RawFrame) Unescape() ([]byte, error) {
	f.ensureBuf()

	if f.buf.Len() < 4 {
		return nil, TooShortError{}
	}
	raw := f.buf.AsSlice()
	if raw[0] != syn || raw[1] != syn {
		return nil, MissingSynchronisationError{}
	}
	if raw[2] != stx {
		return nil, MissingStartError{}
	}
	if raw[len(raw)-1] != etx {
		return nil, MissingEndError{}
	}
	if len(raw) < 6 {
		return nil, TooShortError{}
	}

	out := make([]byte, 0, rawPacketMaxLen)
	escaped := false
	for _, b := range raw[3 : len(raw)-1] {
		if b == dle && !escaped {
			escaped = true
			continue
		}
		escaped = false
		if len(out) >= rawPacketMaxLen {
			return nil, TooLongError{}
		}
		out = append(out, b)
	}
	return out, nil
}
