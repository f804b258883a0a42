package nodeconfig

// NodeCard is the state of one I/O card slot in a USIC/SUSIC node.
type NodeCard uint8

// The three valid NodeCard bit patterns. 0b11 has no meaning on the wire.
const (
	CardNone   NodeCard = 0b00
	CardInput  NodeCard = 0b01
	CardOutput NodeCard = 0b10
)

// NodeCardFromByte converts a 2-bit wire pattern to a NodeCard, failing
// on the undefined 0b11 pattern.
func NodeCardFromByte(b byte) (NodeCard, error) {
	switch b & 0b11 {
	case 0b00:
		return CardNone, nil
	case 0b01:
		return CardInput, nil
	case 0b10:
		return CardOutput, nil
	default:
		return 0, InvalidCardTypeError{}
	}
}

// Byte returns the 2-bit wire pattern for a NodeCard.
func (c NodeCard) Byte() byte { return byte(c) }

// maxCards is the largest number of I/O cards a USIC/SUSIC can carry.
const maxCards = 64

// NodeCards is a validated, ordered sequence of up to 64 I/O cards, with
// the running counts of input and output cards precomputed. Only the
// non-None prefix is ever stored: a None card marks the end of the real
// cards and is never itself retained, matching the wire format where
// trailing None groups are simply omitted.
type NodeCards struct {
	cards       [maxCards]NodeCard
	inputCards  uint8
	outputCards uint8
}

// NewNodeCards builds a NodeCards from up to 64 cards, validating that no
// Input or Output card follows a None card.
func NewNodeCards(cards []NodeCard) (NodeCards, error) {
	if len(cards) > maxCards {
		return NodeCards{}, TooManyCardsError{Count: len(cards)}
	}

	var nc NodeCards
	noneSeen := false
	for _, card := range cards {
		switch card {
		case CardNone:
			noneSeen = true
		case CardInput, CardOutput:
			if noneSeen {
				return NodeCards{}, CardAfterNoneError{}
			}
			nc.push(card)
		}
	}
	return nc, nil
}

func (nc *NodeCards) push(card NodeCard) {
	index := int(nc.inputCards) + int(nc.outputCards)
	switch card {
	case CardInput:
		nc.inputCards++
	case CardOutput:
		nc.outputCards++
	}
	nc.cards[index] = card
}

// Len returns the number of real (non-None) cards stored.
func (nc NodeCards) Len() int { return int(nc.inputCards) + int(nc.outputCards) }

// IsEmpty reports whether there are no cards at all.
func (nc NodeCards) IsEmpty() bool { return nc.inputCards == 0 && nc.outputCards == 0 }

// AsSlice returns the active (non-None) cards.
func (nc NodeCards) AsSlice() []NodeCard {
	return nc.cards[:nc.Len()]
}

// InputCards returns the number of input cards.
func (nc NodeCards) InputCards() uint8 { return nc.inputCards }

// OutputCards returns the number of output cards.
func (nc NodeCards) OutputCards() uint8 { return nc.outputCards }

// Equal reports whether two NodeCards hold the same card sequence.
func (nc NodeCards) Equal(other NodeCards) bool {
	a, b := nc.AsSlice(), other.AsSlice()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
