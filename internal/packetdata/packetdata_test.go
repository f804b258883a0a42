package packetdata

import "testing"

func TestNewZeroFilled(t *testing.T) {
	p := New(4)
	if p.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", p.Len())
	}
	for i, b := range p.AsSlice() {
		if b != 0 {
			t.Errorf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestFromBytesTooLong(t *testing.T) {
	_, err := FromBytes(make([]byte, MaxLen+1))
	if err == nil {
		t.Fatal("expected BodyTooLongError, got nil")
	}
	if _, ok := err.(BodyTooLongError); !ok {
		t.Fatalf("expected BodyTooLongError, got %T", err)
	}
}

func TestSetBitGrowsLength(t *testing.T) {
	var p PacketData
	p.SetBit(17, true)
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	if !p.GetBit(17) {
		t.Error("bit 17 should be set")
	}
	for _, i := range []int{0, 1, 16, 18, 23} {
		if p.GetBit(i) {
			t.Errorf("bit %d should be clear", i)
		}
	}
}

func TestToggleBit(t *testing.T) {
	var p PacketData
	p.SetBit(0, false)
	p.ToggleBit(0)
	if !p.GetBit(0) {
		t.Error("bit 0 should be set after toggle")
	}
	p.ToggleBit(0)
	if p.GetBit(0) {
		t.Error("bit 0 should be clear after second toggle")
	}
}

func TestSetBitPanicsBeyondMax(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for bit index 2048")
		}
	}()
	var p PacketData
	p.SetBit(2048, true)
}

func TestPushAllStopsAtCapacity(t *testing.T) {
	p, _ := FromBytes(make([]byte, MaxLen))
	remaining, ok := p.PushAll([]byte{1, 2, 3})
	if ok {
		t.Fatal("expected PushAll to fail at capacity")
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestEqual(t *testing.T) {
	a, _ := FromBytes([]byte{1, 2, 3})
	b, _ := FromBytes([]byte{1, 2, 3})
	c, _ := FromBytes([]byte{1, 2, 4})
	if !a.Equal(&b) {
		t.Error("a and b should be equal")
	}
	if a.Equal(&c) {
		t.Error("a and c should not be equal")
	}
}
