// Package packet implements CMRInet's Payload/Packet/RawPacket layer:
// the message body above framing and below node configuration.
package packet

import (
	"fmt"

	"github.com/robertgauld/cmri/internal/address"
	"github.com/robertgauld/cmri/internal/nodeconfig"
)

// TooShortError is returned when a raw packet is too short to hold an
// address and a message type byte.
type TooShortError struct{}

func (TooShortError) Error() string { return "packet too short" }

// TooLongError is returned when more bytes than RawPacket's capacity
// are supplied.
type TooLongError struct{}

func (TooLongError) Error() string { return "packet too long" }

// InvalidMessageTypeError is returned when the message type byte isn't
// recognized ('I', 'P', 'R', 'T', or, under experimenter mode, any
// other uppercase ASCII letter).
type InvalidMessageTypeError struct {
	Value byte
}

func (e InvalidMessageTypeError) Error() string {
	return fmt.Sprintf("invalid message type: 0x%02X", e.Value)
}

// InvalidConfigurationError wraps a nodeconfig decode failure
// encountered while decoding an Initialization payload.
type InvalidConfigurationError struct {
	Err error
}

func (e InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e InvalidConfigurationError) Unwrap() error { return e.Err }

// reexported so callers decoding a RawPacket don't need to import
// address/nodeconfig directly for the common failure cases.
type (
	InvalidUnitAddressError = address.InvalidUnitAddressError
	InvalidNodeTypeError    = nodeconfig.InvalidNodeTypeError
)
