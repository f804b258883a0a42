package nodeconfig

import (
	"encoding/binary"

	"github.com/robertgauld/cmri/internal/packetdata"
)

// UsicConfiguration configures a classic USIC, or a SUSIC running in its
// 24-bit-card compatibility mode.
type UsicConfiguration struct {
	transmitDelay uint16
	cards         NodeCards
}

// SusicConfiguration configures a SUSIC with 32-bit cards.
type SusicConfiguration struct {
	transmitDelay uint16
	cards         NodeCards
}

const (
	usicBytesPerCard  = 24 / 8
	susicBytesPerCard = 32 / 8
)

// NewUsicConfiguration builds a UsicConfiguration, validating cards per
// NewNodeCards.
func NewUsicConfiguration(transmitDelay uint16, cards []NodeCard) (UsicConfiguration, error) {
	nc, err := NewNodeCards(cards)
	if err != nil {
		return UsicConfiguration{}, err
	}
	return UsicConfiguration{transmitDelay: transmitDelay, cards: nc}, nil
}

// NewSusicConfiguration builds a SusicConfiguration, validating cards per
// NewNodeCards.
func NewSusicConfiguration(transmitDelay uint16, cards []NodeCard) (SusicConfiguration, error) {
	nc, err := NewNodeCards(cards)
	if err != nil {
		return SusicConfiguration{}, err
	}
	return SusicConfiguration{transmitDelay: transmitDelay, cards: nc}, nil
}

// Cards returns the configured I/O cards.
func (c UsicConfiguration) Cards() []NodeCard { return c.cards.AsSlice() }

// Cards returns the configured I/O cards.
func (c SusicConfiguration) Cards() []NodeCard { return c.cards.AsSlice() }

func (c UsicConfiguration) TransmitDelay() uint16 { return c.transmitDelay }
func (c UsicConfiguration) InputBytes() uint16 {
	return uint16(c.cards.InputCards()) * usicBytesPerCard
}
func (c UsicConfiguration) OutputBytes() uint16 {
	return uint16(c.cards.OutputCards()) * usicBytesPerCard
}

func (c SusicConfiguration) TransmitDelay() uint16 { return c.transmitDelay }
func (c SusicConfiguration) InputBytes() uint16 {
	return uint16(c.cards.InputCards()) * susicBytesPerCard
}
func (c SusicConfiguration) OutputBytes() uint16 {
	return uint16(c.cards.OutputCards()) * susicBytesPerCard
}

// DecodeUsicConfiguration decodes a USIC/classic-SUSIC body. raw[0] must
// be NdpUsic.
func DecodeUsicConfiguration(raw []byte) (UsicConfiguration, error) {
	transmitDelay, cards, err := decodeSic(NdpUsic, raw)
	if err != nil {
		return UsicConfiguration{}, err
	}
	return UsicConfiguration{transmitDelay: transmitDelay, cards: cards}, nil
}

// DecodeSusicConfiguration decodes a 32-bit-card SUSIC body. raw[0] must
// be NdpSusic.
func DecodeSusicConfiguration(raw []byte) (SusicConfiguration, error) {
	transmitDelay, cards, err := decodeSic(NdpSusic, raw)
	if err != nil {
		return SusicConfiguration{}, err
	}
	return SusicConfiguration{transmitDelay: transmitDelay, cards: cards}, nil
}

// Encode serializes the configuration to its wire form.
func (c UsicConfiguration) Encode() packetdata.PacketData {
	return encodeSic(NdpUsic, c.transmitDelay, c.cards)
}

// Encode serializes the configuration to its wire form.
func (c SusicConfiguration) Encode() packetdata.PacketData {
	return encodeSic(NdpSusic, c.transmitDelay, c.cards)
}

// decodeSic implements the shared USIC/SUSIC wire layout: NDP byte,
// big-endian transmit delay, a card-group count (ignored on decode), then
// 2-bit-packed card types, 4 cards per byte.
func decodeSic(ndp byte, raw []byte) (uint16, NodeCards, error) {
	if raw[0] != ndp {
		return 0, NodeCards{}, InvalidNodeTypeError{Value: raw[0]}
	}

	var cards [maxCards]NodeCard
	for index, b := range raw[4:] {
		for i := 0; i < 4; i++ {
			card, err := NodeCardFromByte((b >> uint(2*i)) & 0b11)
			if err != nil {
				return 0, NodeCards{}, InvalidConfigurationError{Err: err}
			}
			slot := index*4 + i
			if slot >= maxCards {
				if card == CardNone {
					continue
				}
				return 0, NodeCards{}, InvalidConfigurationError{Err: TooManyCardsError{Count: slot + 1}}
			}
			cards[slot] = card
		}
	}

	nc, err := NewNodeCards(cards[:])
	if err != nil {
		return 0, NodeCards{}, InvalidConfigurationError{Err: err}
	}

	return binary.BigEndian.Uint16(raw[1:3]), nc, nil
}

func encodeSic(ndp byte, transmitDelay uint16, cards NodeCards) packetdata.PacketData {
	raw := packetdata.New(0)
	raw.Push(ndp)

	var td [2]byte
	binary.BigEndian.PutUint16(td[:], transmitDelay)
	raw.Push(td[0])
	raw.Push(td[1])

	countIndex := raw.Len()
	raw.Push(0)

	active := cards.AsSlice()
	for start := 0; start < len(active); start += 4 {
		end := start + 4
		if end > len(active) {
			end = len(active)
		}
		var b byte
		for i, card := range active[start:end] {
			b |= card.Byte() << uint(2*i)
		}
		if b == 0 {
			break
		}
		raw.AsSlice()[countIndex]++
		raw.Push(b)
		if b&0b1100_0000 == 0 {
			break
		}
	}

	return raw
}
