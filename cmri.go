// Package cmri re-exports the CMRInet wire protocol codec: addressing,
// node configuration, packets, and wire framing. The implementation
// lives in internal/ packages; this file is the module's public face.
package cmri

import (
	"github.com/robertgauld/cmri/internal/address"
	"github.com/robertgauld/cmri/internal/frame"
	"github.com/robertgauld/cmri/internal/nodeconfig"
	"github.com/robertgauld/cmri/internal/packet"
	"github.com/robertgauld/cmri/internal/packetdata"
)

// Bauds lists the serial bit rates a CMRInet bus is normally run at.
// Connection's serial factory accepts any rate; nothing in this module
// checks a configured baud against this list.
var Bauds = [5]uint32{9600, 19200, 28800, 57600, 115200}

// DefaultBaud is the bit rate used when none is configured.
const DefaultBaud uint32 = 19200

// Re-exported core types, so callers of this module don't need to
// import the internal packages directly.
type (
	Address           = address.Address
	NodeConfiguration = nodeconfig.NodeConfiguration
	NodeSort          = nodeconfig.NodeSort
	PacketData        = packetdata.PacketData
	Payload           = packet.Payload
	Packet            = packet.Packet
	RawPacket         = packet.RawPacket
	RawFrame          = frame.RawFrame
)

// Re-exported constructors.
var (
	NewAddressFromNode = address.FromNodeAddress
	NewAddressFromUnit = address.FromUnitAddress

	NewPacketData = packetdata.New
	PacketDataFromBytes = packetdata.FromBytes

	NewInitialization = packet.NewInitialization
	NewPollRequest    = packet.NewPollRequest
	NewReceiveData    = packet.NewReceiveData
	NewTransmitData   = packet.NewTransmitData
	NewUnknownPacket  = packet.NewUnknown

	NewRawFrame   = frame.New
	RawFrameFromBytes = frame.FromBytes

	TryDecodeFrame = packet.TryDecodeFrame
)
