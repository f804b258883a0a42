package nodeconfig

import (
	"encoding/binary"

	"github.com/robertgauld/cmri/internal/packetdata"
)

// SminiConfiguration configures a SMINI node: a fixed 24 input bits and
// 48 output bits, any adjacent pairs of which may be configured as LED
// oscillating pairs.
type SminiConfiguration struct {
	transmitDelay    uint16
	oscillatingCount uint8
	oscillatingPairs [6]byte
}

const (
	sminiInputBytes  = 3
	sminiOutputBytes = 6
)

// NewSminiConfiguration builds a SminiConfiguration, validating that
// every run of set bits in oscillatingPairs has even length (adjacent
// pairs only).
func NewSminiConfiguration(transmitDelay uint16, oscillatingPairs [6]byte) (SminiConfiguration, error) {
	count, err := oscillatingPairsCount(oscillatingPairs)
	if err != nil {
		return SminiConfiguration{}, err
	}
	return SminiConfiguration{
		transmitDelay:    transmitDelay,
		oscillatingCount: count,
		oscillatingPairs: oscillatingPairs,
	}, nil
}

// oscillatingPairsCount returns half the number of set bits across all
// six bytes, failing if any run of set bits has odd length.
func oscillatingPairsCount(pairs [6]byte) (uint8, error) {
	var check uint64
	for _, b := range pairs {
		check = check<<8 | uint64(b)
	}

	var count, streak int
	for i := 0; i < 48; i++ {
		if check&(1<<uint(i)) != 0 {
			count++
			streak++
			continue
		}
		if streak%2 != 0 {
			return 0, NonAdjacentError{}
		}
		streak = 0
	}
	if streak%2 != 0 {
		return 0, NonAdjacentError{}
	}
	return uint8(count / 2), nil
}

// OscillatingPairs returns [Card0PortA, Card0PortB, Card0PortC,
// Card1PortA, Card1PortB, Card1PortC]. When both outputs of a pair are
// set the port oscillates, letting a red/green bicolour LED show yellow.
func (c SminiConfiguration) OscillatingPairs() [6]byte { return c.oscillatingPairs }

func (c SminiConfiguration) TransmitDelay() uint16 { return c.transmitDelay }
func (c SminiConfiguration) InputBytes() uint16    { return sminiInputBytes }
func (c SminiConfiguration) OutputBytes() uint16   { return sminiOutputBytes }

// DecodeSminiConfiguration decodes a SMINI body. raw[0] must be NdpSmini.
// The oscillating-pairs count byte at raw[3] only signals whether the
// six pair bytes follow; it is never trusted over the recomputed count.
func DecodeSminiConfiguration(raw []byte) (SminiConfiguration, error) {
	if raw[0] != NdpSmini {
		return SminiConfiguration{}, InvalidNodeTypeError{Value: raw[0]}
	}

	if len(raw) < 4 || (raw[3] > 0 && len(raw) < 10) {
		return SminiConfiguration{}, TooShortError{}
	}

	var pairs [6]byte
	if raw[3] != 0 {
		copy(pairs[:], raw[4:10])
	}

	c, err := NewSminiConfiguration(binary.BigEndian.Uint16(raw[1:3]), pairs)
	if err != nil {
		return SminiConfiguration{}, InvalidConfigurationError{Err: err}
	}
	return c, nil
}

// Encode serializes the configuration to its wire form. The oscillating
// pair bytes are omitted entirely when no pairs are set.
func (c SminiConfiguration) Encode() packetdata.PacketData {
	raw := packetdata.New(0)
	raw.Push(NdpSmini)

	var td [2]byte
	binary.BigEndian.PutUint16(td[:], c.transmitDelay)
	raw.Push(td[0])
	raw.Push(td[1])

	if c.oscillatingCount == 0 {
		raw.Push(0)
		return raw
	}

	raw.Push(c.oscillatingCount)
	for _, b := range c.oscillatingPairs {
		raw.Push(b)
	}
	return raw
}
