package packet

import (
	"github.com/robertgauld/cmri/internal/nodeconfig"
	"github.com/robertgauld/cmri/internal/packetdata"
)

// Kind identifies which Payload variant is held.
type Kind uint8

const (
	KindInitialization Kind = iota
	KindPollRequest
	KindReceiveData
	KindTransmitData
	KindUnknown
)

// message type bytes.
const (
	msgInitialization = 'I'
	msgPollRequest    = 'P'
	msgReceiveData    = 'R'
	msgTransmitData   = 'T'
)

// Payload is a CMRInet message body, a tagged union over the five
// variants. Like NodeSort, it's modeled as a struct holding every
// variant's storage rather than an interface, since Go has no sum
// types and this keeps decode/encode branch-free on the happy path.
type Payload struct {
	kind        Kind
	nodeSort    nodeconfig.NodeSort
	data        packetdata.PacketData
	messageType byte // only meaningful for KindUnknown
}

// newInitializationPayload builds an Initialization payload from a
// decoded NodeSort.
func newInitializationPayload(nodeSort nodeconfig.NodeSort) Payload {
	return Payload{kind: KindInitialization, nodeSort: nodeSort}
}

// newPollRequestPayload builds a PollRequest payload.
func newPollRequestPayload() Payload {
	return Payload{kind: KindPollRequest}
}

// newReceiveDataPayload builds a ReceiveData payload carrying data.
func newReceiveDataPayload(data packetdata.PacketData) Payload {
	return Payload{kind: KindReceiveData, data: data}
}

// newTransmitDataPayload builds a TransmitData payload carrying data.
func newTransmitDataPayload(data packetdata.PacketData) Payload {
	return Payload{kind: KindTransmitData, data: data}
}

// newUnknownPayload builds an experimenter Unknown payload. messageType
// must be an uppercase ASCII letter.
func newUnknownPayload(messageType byte, body []byte) (Payload, error) {
	if messageType < 'A' || messageType > 'Z' {
		return Payload{}, InvalidMessageTypeError{Value: messageType}
	}
	data, err := packetdata.FromBytes(body)
	if err != nil {
		return Payload{}, err
	}
	return Payload{kind: KindUnknown, messageType: messageType, data: data}, nil
}

// Kind reports which variant is held.
func (p Payload) Kind() Kind { return p.kind }

// NodeSort returns the node sort for an Initialization payload.
func (p Payload) NodeSort() (nodeconfig.NodeSort, bool) {
	if p.kind != KindInitialization {
		return nodeconfig.NodeSort{}, false
	}
	return p.nodeSort, true
}

// ReceiveData returns the data for a ReceiveData payload.
func (p Payload) ReceiveData() (packetdata.PacketData, bool) {
	if p.kind != KindReceiveData {
		return packetdata.PacketData{}, false
	}
	return p.data, true
}

// TransmitData returns the data for a TransmitData payload.
func (p Payload) TransmitData() (packetdata.PacketData, bool) {
	if p.kind != KindTransmitData {
		return packetdata.PacketData{}, false
	}
	return p.data, true
}

// Unknown returns the message type and body for an experimenter
// Unknown payload.
func (p Payload) Unknown() (byte, []byte, bool) {
	if p.kind != KindUnknown {
		return 0, nil, false
	}
	return p.messageType, p.data.AsSlice(), true
}

// TryDecodePayload decodes raw (everything after the unit address
// byte) into a Payload.
func TryDecodePayload(raw []byte, allowExperimenter bool) (Payload, error) {
	if len(raw) == 0 {
		return Payload{}, TooShortError{}
	}

	switch raw[0] {
	case msgInitialization:
		nodeSort, err := nodeconfig.TryDecode(raw[1:], allowExperimenter)
		if err != nil {
			switch err.(type) {
			case nodeconfig.InvalidNodeTypeError, nodeconfig.InvalidConfigurationError:
				// Already a self-describing, already-wrapped nodeconfig
				// error; passing it through avoids a second
				// InvalidConfigurationError layer around it.
				return Payload{}, err
			default:
				return Payload{}, InvalidConfigurationError{Err: err}
			}
		}
		return newInitializationPayload(nodeSort), nil
	case msgPollRequest:
		return newPollRequestPayload(), nil
	case msgReceiveData:
		data, err := packetdata.FromBytes(raw[1:])
		if err != nil {
			return Payload{}, err
		}
		return newReceiveDataPayload(data), nil
	case msgTransmitData:
		data, err := packetdata.FromBytes(raw[1:])
		if err != nil {
			return Payload{}, err
		}
		return newTransmitDataPayload(data), nil
	default:
		if allowExperimenter && raw[0] >= 'A' && raw[0] <= 'Z' {
			return newUnknownPayload(raw[0], raw[1:])
		}
		return Payload{}, InvalidMessageTypeError{Value: raw[0]}
	}
}

// Encode returns the wire bytes of this payload, message type byte
// first.
func (p Payload) Encode() packetdata.PacketData {
	out := packetdata.New(0)
	switch p.kind {
	case KindInitialization:
		out.Push(msgInitialization)
		body := p.nodeSort.Encode()
		out.PushAll(body.AsSlice())
	case KindPollRequest:
		out.Push(msgPollRequest)
	case KindReceiveData:
		out.Push(msgReceiveData)
		out.PushAll(p.data.AsSlice())
	case KindTransmitData:
		out.Push(msgTransmitData)
		out.PushAll(p.data.AsSlice())
	case KindUnknown:
		out.Push(p.messageType)
		out.PushAll(p.data.AsSlice())
	}
	return out
}
