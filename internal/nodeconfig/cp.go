package nodeconfig

import (
	"encoding/binary"

	"github.com/robertgauld/cmri/internal/packetdata"
)

// CpOptions is the options bitmask carried by CPNODE/CPMEGA nodes. Most
// bits have no documented meaning beyond the three named below; they are
// preserved verbatim on a round trip.
type CpOptions uint16

const (
	OptUseCmriX                   CpOptions = 1 << 0
	OptCanSendEotOnNoInputsChanged CpOptions = 1 << 1
	OptUseBcc                      CpOptions = 1 << 2
	OptBit3                        CpOptions = 1 << 3
	OptBit4                        CpOptions = 1 << 4
	OptBit5                        CpOptions = 1 << 5
	OptBit6                        CpOptions = 1 << 6
	OptBit7                        CpOptions = 1 << 7
	OptBit8                        CpOptions = 1 << 8
	OptBit9                        CpOptions = 1 << 9
	OptBit10                       CpOptions = 1 << 10
	OptBit11                       CpOptions = 1 << 11
	OptBit12                       CpOptions = 1 << 12
	OptBit13                       CpOptions = 1 << 13
	OptBit14                       CpOptions = 1 << 14
	OptBit15                       CpOptions = 1 << 15
)

// Has reports whether every bit in flag is set.
func (o CpOptions) Has(flag CpOptions) bool { return o&flag == flag }

// With returns o with flag set.
func (o CpOptions) With(flag CpOptions) CpOptions { return o | flag }

// CpnodeOptions is the options bitmask for a CPNODE.
type CpnodeOptions = CpOptions

// CpmegaOptions is the options bitmask for a CPMEGA.
type CpmegaOptions = CpOptions

// CpnodeConfiguration configures a CPNODE, which carries 16-144
// input/output bits across byte-counted cards.
type CpnodeConfiguration struct {
	transmitDelay uint16
	options       CpnodeOptions
	inputBytes    uint8
	outputBytes   uint8
}

// CpmegaConfiguration configures a CPMEGA, which carries 0-192
// input/output bits across byte-counted cards.
type CpmegaConfiguration struct {
	transmitDelay uint16
	options       CpmegaOptions
	inputBytes    uint8
	outputBytes   uint8
}

const (
	cpnodeMinBits = 16
	cpnodeMaxBits = 144
	cpmegaMinBits = 0
	cpmegaMaxBits = 192
)

// NewCpnodeConfiguration builds a CpnodeConfiguration, validating that
// the total input+output bit count falls within [16,144].
func NewCpnodeConfiguration(transmitDelay uint16, options CpnodeOptions, inputBytes, outputBytes uint8) (CpnodeConfiguration, error) {
	bits := (int(inputBytes) + int(outputBytes)) * 8
	if bits < cpnodeMinBits || bits > cpnodeMaxBits {
		return CpnodeConfiguration{}, InvalidInputOutputBitsCountError{Bits: bits, MinBits: cpnodeMinBits, MaxBits: cpnodeMaxBits}
	}
	return CpnodeConfiguration{transmitDelay: transmitDelay, options: options, inputBytes: inputBytes, outputBytes: outputBytes}, nil
}

// NewCpmegaConfiguration builds a CpmegaConfiguration, validating that
// the total input+output bit count falls within [0,192].
func NewCpmegaConfiguration(transmitDelay uint16, options CpmegaOptions, inputBytes, outputBytes uint8) (CpmegaConfiguration, error) {
	bits := (int(inputBytes) + int(outputBytes)) * 8
	if bits < cpmegaMinBits || bits > cpmegaMaxBits {
		return CpmegaConfiguration{}, InvalidInputOutputBitsCountError{Bits: bits, MinBits: cpmegaMinBits, MaxBits: cpmegaMaxBits}
	}
	return CpmegaConfiguration{transmitDelay: transmitDelay, options: options, inputBytes: inputBytes, outputBytes: outputBytes}, nil
}

func (c CpnodeConfiguration) Options() CpnodeOptions { return c.options }
func (c CpnodeConfiguration) TransmitDelay() uint16  { return c.transmitDelay }
func (c CpnodeConfiguration) InputBytes() uint16     { return uint16(c.inputBytes) }
func (c CpnodeConfiguration) OutputBytes() uint16    { return uint16(c.outputBytes) }

func (c CpmegaConfiguration) Options() CpmegaOptions { return c.options }
func (c CpmegaConfiguration) TransmitDelay() uint16  { return c.transmitDelay }
func (c CpmegaConfiguration) InputBytes() uint16     { return uint16(c.inputBytes) }
func (c CpmegaConfiguration) OutputBytes() uint16    { return uint16(c.outputBytes) }

// DecodeCpnodeConfiguration decodes a CPNODE body. raw[0] must be
// NdpCpnode. Bytes 7-12 (the six trailing 0xFF bytes) are not validated.
func DecodeCpnodeConfiguration(raw []byte) (CpnodeConfiguration, error) {
	if raw[0] != NdpCpnode {
		return CpnodeConfiguration{}, InvalidNodeTypeError{Value: raw[0]}
	}
	c, err := NewCpnodeConfiguration(
		binary.BigEndian.Uint16(raw[1:3]),
		CpOptions(binary.LittleEndian.Uint16(raw[3:5])),
		raw[5],
		raw[6],
	)
	if err != nil {
		return CpnodeConfiguration{}, InvalidConfigurationError{Err: err}
	}
	return c, nil
}

// DecodeCpmegaConfiguration decodes a CPMEGA body. raw[0] must be
// NdpCpmega. Bytes 7-12 (the six trailing 0xFF bytes) are not validated.
func DecodeCpmegaConfiguration(raw []byte) (CpmegaConfiguration, error) {
	if raw[0] != NdpCpmega {
		return CpmegaConfiguration{}, InvalidNodeTypeError{Value: raw[0]}
	}
	c, err := NewCpmegaConfiguration(
		binary.BigEndian.Uint16(raw[1:3]),
		CpOptions(binary.LittleEndian.Uint16(raw[3:5])),
		raw[5],
		raw[6],
	)
	if err != nil {
		return CpmegaConfiguration{}, InvalidConfigurationError{Err: err}
	}
	return c, nil
}

// Encode serializes the configuration to its wire form: NDP byte,
// big-endian transmit delay, little-endian options, input/output byte
// counts, then six trailing 0xFF bytes.
func (c CpnodeConfiguration) Encode() packetdata.PacketData {
	return encodeCp(NdpCpnode, c.transmitDelay, c.options, c.inputBytes, c.outputBytes)
}

// Encode serializes the configuration to its wire form: NDP byte,
// big-endian transmit delay, little-endian options, input/output byte
// counts, then six trailing 0xFF bytes.
func (c CpmegaConfiguration) Encode() packetdata.PacketData {
	return encodeCp(NdpCpmega, c.transmitDelay, c.options, c.inputBytes, c.outputBytes)
}

func encodeCp(ndp byte, transmitDelay uint16, options CpOptions, inputBytes, outputBytes uint8) packetdata.PacketData {
	raw := packetdata.New(0)
	raw.Push(ndp)

	var td [2]byte
	binary.BigEndian.PutUint16(td[:], transmitDelay)
	raw.Push(td[0])
	raw.Push(td[1])

	var opt [2]byte
	binary.LittleEndian.PutUint16(opt[:], uint16(options))
	raw.Push(opt[0])
	raw.Push(opt[1])

	raw.Push(inputBytes)
	raw.Push(outputBytes)
	for i := 0; i < 6; i++ {
		raw.Push(0xFF)
	}

	return raw
}
