package nodeconfig

import (
	"fmt"

	"github.com/robertgauld/cmri/internal/packetdata"
)

// Kind identifies which configuration a NodeSort is carrying.
type Kind uint8

const (
	KindUsic Kind = iota
	KindSusic
	KindSmini
	KindCpnode
	KindCpmega
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindUsic:
		return "USIC"
	case KindSusic:
		return "SUSIC"
	case KindSmini:
		return "SMINI"
	case KindCpnode:
		return "CPNODE"
	case KindCpmega:
		return "CPMEGA"
	default:
		return "Unknown"
	}
}

// NodeSort is a tagged union over the five node configuration types,
// plus (when decoded in experimenter mode) an Unknown variant carrying
// the raw, unparsed body.
type NodeSort struct {
	kind   Kind
	usic   UsicConfiguration
	susic  SusicConfiguration
	smini  SminiConfiguration
	cpnode CpnodeConfiguration
	cpmega CpmegaConfiguration
	body   packetdata.PacketData
}

// NewUsicNodeSort wraps a UsicConfiguration in a NodeSort.
func NewUsicNodeSort(c UsicConfiguration) NodeSort { return NodeSort{kind: KindUsic, usic: c} }

// NewSusicNodeSort wraps a SusicConfiguration in a NodeSort.
func NewSusicNodeSort(c SusicConfiguration) NodeSort { return NodeSort{kind: KindSusic, susic: c} }

// NewSminiNodeSort wraps a SminiConfiguration in a NodeSort.
func NewSminiNodeSort(c SminiConfiguration) NodeSort { return NodeSort{kind: KindSmini, smini: c} }

// NewCpnodeNodeSort wraps a CpnodeConfiguration in a NodeSort.
func NewCpnodeNodeSort(c CpnodeConfiguration) NodeSort { return NodeSort{kind: KindCpnode, cpnode: c} }

// NewCpmegaNodeSort wraps a CpmegaConfiguration in a NodeSort.
func NewCpmegaNodeSort(c CpmegaConfiguration) NodeSort { return NodeSort{kind: KindCpmega, cpmega: c} }

// Kind reports which configuration this NodeSort carries.
func (n NodeSort) Kind() Kind { return n.kind }

// Configuration returns the common NodeConfiguration view. It panics for
// the Unknown variant, matching the fact that an unrecognized node type
// carries no known configuration.
func (n NodeSort) Configuration() NodeConfiguration {
	switch n.kind {
	case KindUsic:
		return n.usic
	case KindSusic:
		return n.susic
	case KindSmini:
		return n.smini
	case KindCpnode:
		return n.cpnode
	case KindCpmega:
		return n.cpmega
	default:
		panic(fmt.Sprintf("unknown node type 0x%02X", n.body.At(0)))
	}
}

// Usic returns the USIC configuration and whether this NodeSort holds one.
func (n NodeSort) Usic() (UsicConfiguration, bool) { return n.usic, n.kind == KindUsic }

// Susic returns the SUSIC configuration and whether this NodeSort holds one.
func (n NodeSort) Susic() (SusicConfiguration, bool) { return n.susic, n.kind == KindSusic }

// Smini returns the SMINI configuration and whether this NodeSort holds one.
func (n NodeSort) Smini() (SminiConfiguration, bool) { return n.smini, n.kind == KindSmini }

// Cpnode returns the CPNODE configuration and whether this NodeSort holds one.
func (n NodeSort) Cpnode() (CpnodeConfiguration, bool) { return n.cpnode, n.kind == KindCpnode }

// Cpmega returns the CPMEGA configuration and whether this NodeSort holds one.
func (n NodeSort) Cpmega() (CpmegaConfiguration, bool) { return n.cpmega, n.kind == KindCpmega }

// Body returns the raw, undecoded body for the Unknown variant.
func (n NodeSort) Body() []byte { return n.body.AsSlice() }

// NewUnknownNodeSort wraps an unrecognized body in a NodeSort. TryDecode
// produces this variant when allowExperimenter is set and the NDP byte
// is an unrecognized ASCII letter.
func NewUnknownNodeSort(body []byte) (NodeSort, error) {
	pd, err := packetdata.FromBytes(body)
	if err != nil {
		return NodeSort{}, err
	}
	return NodeSort{kind: KindUnknown, body: pd}, nil
}

// TryDecode decodes an unescaped Initialization payload body into a
// NodeSort. When allowExperimenter is true, any NDP byte that is an
// ASCII letter but doesn't match a known node type decodes to the
// Unknown variant instead of failing.
func TryDecode(raw []byte, allowExperimenter bool) (NodeSort, error) {
	if len(raw) == 0 {
		return NodeSort{}, TooShortError{}
	}

	switch raw[0] {
	case NdpCpnode:
		c, err := DecodeCpnodeConfiguration(raw)
		if err != nil {
			return NodeSort{}, err
		}
		return NewCpnodeNodeSort(c), nil
	case NdpCpmega:
		c, err := DecodeCpmegaConfiguration(raw)
		if err != nil {
			return NodeSort{}, err
		}
		return NewCpmegaNodeSort(c), nil
	case NdpSmini:
		c, err := DecodeSminiConfiguration(raw)
		if err != nil {
			return NodeSort{}, err
		}
		return NewSminiNodeSort(c), nil
	case NdpUsic:
		c, err := DecodeUsicConfiguration(raw)
		if err != nil {
			return NodeSort{}, err
		}
		return NewUsicNodeSort(c), nil
	case NdpSusic:
		c, err := DecodeSusicConfiguration(raw)
		if err != nil {
			return NodeSort{}, err
		}
		return NewSusicNodeSort(c), nil
	default:
		if allowExperimenter && isASCIILetter(raw[0]) {
			return NewUnknownNodeSort(raw)
		}
		return NodeSort{}, InvalidNodeTypeError{Value: raw[0]}
	}
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Encode serializes the NodeSort back to its wire body.
func (n NodeSort) Encode() packetdata.PacketData {
	switch n.kind {
	case KindUsic:
		return n.usic.Encode()
	case KindSusic:
		return n.susic.Encode()
	case KindSmini:
		return n.smini.Encode()
	case KindCpnode:
		return n.cpnode.Encode()
	case KindCpmega:
		return n.cpmega.Encode()
	default:
		return n.body
	}
}

// String renders the node type name. For the Unknown variant it
// distinguishes an experimenter (uppercase ASCII) NDP byte from any
// other unrecognized one, matching the asymmetry in TryDecode: node-type
// decoding accepts any ASCII letter, but this display only calls out
// uppercase letters as "Experimental".
func (n NodeSort) String() string {
	switch n.kind {
	case KindCpnode, KindCpmega, KindSmini, KindUsic, KindSusic:
		return n.kind.String()
	default:
		b := n.body.At(0)
		if b >= 'A' && b <= 'Z' {
			return fmt.Sprintf("Experimental (%c)", b)
		}
		return fmt.Sprintf("Unknown (%d)", b)
	}
}
