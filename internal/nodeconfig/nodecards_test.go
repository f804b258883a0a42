package nodeconfig

import "testing"

func TestNewNodeCardsCountsInputAndOutputCards(t *testing.T) {
	cards, err := NewNodeCards([]NodeCard{CardInput, CardOutput, CardOutput})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cards.InputCards() != 1 || cards.OutputCards() != 2 {
		t.Fatalf("got input=%d output=%d", cards.InputCards(), cards.OutputCards())
	}
}

func TestNewNodeCardsTooMany(t *testing.T) {
	cards := make([]NodeCard, 65)
	_, err := NewNodeCards(cards)
	if _, ok := err.(TooManyCardsError); !ok {
		t.Fatalf("expected TooManyCardsError, got %v", err)
	}
}

func TestNewNodeCardsCardAfterNone(t *testing.T) {
	_, err := NewNodeCards([]NodeCard{CardNone, CardInput})
	if _, ok := err.(CardAfterNoneError); !ok {
		t.Fatalf("expected CardAfterNoneError, got %v", err)
	}
}

func TestNodeCardFromByte(t *testing.T) {
	cases := map[byte]NodeCard{0b00: CardNone, 0b01: CardInput, 0b10: CardOutput}
	for b, want := range cases {
		got, err := NodeCardFromByte(b)
		if err != nil || got != want {
			t.Fatalf("NodeCardFromByte(%b) = %v, %v; want %v", b, got, err, want)
		}
	}
	if _, err := NodeCardFromByte(0b11); err == nil {
		t.Fatal("expected error for 0b11")
	}
}

func TestNodeCardsAsSliceOmitsTrailingNone(t *testing.T) {
	cards, err := NewNodeCards([]NodeCard{CardInput, CardOutput, CardNone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := cards.AsSlice()
	want := []NodeCard{CardInput, CardOutput}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}
