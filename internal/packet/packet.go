package packet

import (
	"github.com/robertgauld/cmri/internal/address"
	"github.com/robertgauld/cmri/internal/nodeconfig"
	"github.com/robertgauld/cmri/internal/packetdata"
)

// Packet is a fully decoded CMRInet message: the address it's addressed
// to/from, plus its payload.
type Packet struct {
	address address.Address
	payload Payload
}

// NewInitialization builds an Initialization packet.
func NewInitialization(addr address.Address, nodeSort nodeconfig.NodeSort) Packet {
	return Packet{address: addr, payload: newInitializationPayload(nodeSort)}
}

// NewPollRequest builds a PollRequest packet.
func NewPollRequest(addr address.Address) Packet {
	return Packet{address: addr, payload: newPollRequestPayload()}
}

// NewReceiveData builds a ReceiveData packet.
func NewReceiveData(addr address.Address, data packetdata.PacketData) Packet {
	return Packet{address: addr, payload: newReceiveDataPayload(data)}
}

// NewTransmitData builds a TransmitData packet.
func NewTransmitData(addr address.Address, data packetdata.PacketData) Packet {
	return Packet{address: addr, payload: newTransmitDataPayload(data)}
}

// NewUnknown builds an experimenter Unknown packet. messageType must be
// an uppercase ASCII letter.
func NewUnknown(addr address.Address, messageType byte, body []byte) (Packet, error) {
	payload, err := newUnknownPayload(messageType, body)
	if err != nil {
		return Packet{}, err
	}
	return Packet{address: addr, payload: payload}, nil
}

// Address returns the packet's address.
func (p Packet) Address() address.Address { return p.address }

// Payload returns the packet's payload.
func (p Packet) Payload() Payload { return p.payload }

// EncodePacket serializes the packet to its RawPacket form: unit address
// byte, then the payload's encoded bytes.
func (p Packet) EncodePacket() RawPacket {
	raw := NewRawPacket()
	raw.Push(p.address.UnitAddress())
	raw.PushAll(p.payload.Encode().AsSlice())
	return raw
}
