package frame

import (
	"reflect"
	"testing"

	"github.com/robertgauld/cmri/internal/address"
)

func nodeAddr(t *testing.T, n uint8) address.Address {
	t.Helper()
	a, err := address.FromNodeAddress(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestBegin(t *testing.T) {
	f := New()
	f.Begin(nodeAddr(t, 0), 'T')
	want := []byte{syn, syn, stx, 65, 'T'}
	if !reflect.DeepEqual(f.AsSlice(), want) {
		t.Fatalf("got %v, want %v", f.AsSlice(), want)
	}
}

func TestBeginOverwritesExistingContent(t *testing.T) {
	f, err := FromBytes([]byte{1, 2, 4, 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Begin(nodeAddr(t, 1), 'T')
	want := []byte{syn, syn, stx, 66, 'T'}
	if !reflect.DeepEqual(f.AsSlice(), want) {
		t.Fatalf("got %v, want %v", f.AsSlice(), want)
	}
}

func TestPushAndFinish(t *testing.T) {
	f := New()
	f.Begin(nodeAddr(t, 0), 'T')
	if _, err := f.Push(16); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xFF, 0xFF, 0x02, 65, 'T', 0x10, 16, 0x03}
	if !reflect.DeepEqual(f.AsSlice(), want) {
		t.Fatalf("got %v, want %v", f.AsSlice(), want)
	}
}

func TestReceiveWaitsForSyn(t *testing.T) {
	f := New()
	complete, err := f.Receive(5)
	if err != nil || complete {
		t.Fatalf("got complete=%v err=%v", complete, err)
	}
	if f.Len() != 0 || f.receiveState != stateWaitingForSyn {
		t.Fatalf("expected no progress, got len=%d state=%v", f.Len(), f.receiveState)
	}

	complete, err = f.Receive(syn)
	if err != nil || complete {
		t.Fatalf("got complete=%v err=%v", complete, err)
	}
	if f.Len() != 1 || f.receiveState != stateWaitingForSynSyn {
		t.Fatalf("got len=%d state=%v", f.Len(), f.receiveState)
	}
}

func TestReceiveFullFrame(t *testing.T) {
	f := New()
	data := []byte{0xFF, 0xFF, 0x02, 65, 'P'}
	for _, b := range data {
		complete, err := f.Receive(b)
		if err != nil || complete {
			t.Fatalf("byte=%v: got complete=%v err=%v", b, complete, err)
		}
	}
	complete, err := f.Receive(0x03)
	if err != nil || !complete {
		t.Fatalf("got complete=%v err=%v", complete, err)
	}
	want := []byte{0xFF, 0xFF, 0x02, 65, 'P', 0x03}
	if !reflect.DeepEqual(f.AsSlice(), want) {
		t.Fatalf("got %v, want %v", f.AsSlice(), want)
	}

	if _, err := f.Receive(0xFF); err != (AlreadyCompleteError{}) {
		t.Fatalf("got %v, want AlreadyCompleteError", err)
	}
}

func TestReceiveEscaping(t *testing.T) {
	f := New()
	for _, b := range []byte{syn, syn, stx, 65, 'T'} {
		if _, err := f.Receive(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	complete, err := f.Receive(dle)
	if err != nil || complete {
		t.Fatalf("got complete=%v err=%v", complete, err)
	}
	if f.receiveState != stateReceivingEscaped {
		t.Fatalf("got state %v", f.receiveState)
	}

	complete, err = f.Receive(etx)
	if err != nil || complete {
		t.Fatalf("got complete=%v err=%v", complete, err)
	}
	if f.receiveState != stateReceiving {
		t.Fatalf("got state %v", f.receiveState)
	}
}

func TestReceiveTooShort(t *testing.T) {
	f := New()
	for _, b := range []byte{syn, syn, stx, 65} {
		if _, err := f.Receive(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := f.Receive(etx); err != (TooShortError{}) {
		t.Fatalf("got %v, want TooShortError", err)
	}
	if f.Len() != 0 || f.receiveState != stateWaitingForSyn {
		t.Fatalf("expected reset, got len=%d state=%v", f.Len(), f.receiveState)
	}
}

func TestReceiveTooLongResetsPacketLen(t *testing.T) {
	f := New()
	for _, b := range []byte{syn, syn, stx, 65, 'T'} {
		if _, err := f.Receive(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i := 0; i < 256; i++ {
		if _, err := f.Receive(0); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	if _, err := f.Receive(0); err != (TooLongError{}) {
		t.Fatalf("got %v, want TooLongError", err)
	}
	if f.Len() != 0 || f.receiveState != stateWaitingForSyn || f.packetLen != 0 {
		t.Fatalf("expected full reset, got len=%d state=%v packetLen=%d", f.Len(), f.receiveState, f.packetLen)
	}

	// A subsequent frame must not immediately fail with TooLong just
	// because the previous frame overflowed.
	for _, b := range []byte{syn, syn, stx, 65, 'P', etx} {
		if _, err := f.Receive(b); err != nil {
			t.Fatalf("unexpected error resuming after overflow: %v", err)
		}
	}
}

func TestUnescape(t *testing.T) {
	f, err := FromBytes([]byte{syn, syn, stx, 65, 'T', 0x00, 0x00, etx})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := f.Unescape()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{65, 'T', 0x00, 0x00}
	if !reflect.DeepEqual(body, want) {
		t.Fatalf("got %v, want %v", body, want)
	}
}

func TestUnescapeUnescapesSpecialBytes(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
		want []byte
	}{
		{"stx", []byte{syn, syn, stx, 65, 'T', dle, 0x02, 0x00, etx}, []byte{65, 'T', 0x02, 0x00}},
		{"etx", []byte{syn, syn, stx, 65, 'T', dle, 0x03, 0x00, etx}, []byte{65, 'T', 0x03, 0x00}},
		{"dle", []byte{syn, syn, stx, 65, 'T', dle, 0x10, 0x00, etx}, []byte{65, 'T', 0x10, 0x00}},
	}
	for _, c := range cases {
		f, err := FromBytes(c.raw)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		body, err := f.Unescape()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.name, err)
		}
		if !reflect.DeepEqual(body, c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, body, c.want)
		}
	}
}

func TestUnescapeStructuralErrors(t *testing.T) {
	if _, err := (&RawFrame{}).Unescape(); err != (TooShortError{}) {
		t.Fatalf("got %v, want TooShortError", err)
	}

	f, _ := FromBytes([]byte{stx, 65, 'P', etx})
	if _, err := f.Unescape(); err != (MissingSynchronisationError{}) {
		t.Fatalf("got %v, want MissingSynchronisationError", err)
	}

	f, _ = FromBytes([]byte{syn, syn, 65, 'P', etx})
	if _, err := f.Unescape(); err != (MissingStartError{}) {
		t.Fatalf("got %v, want MissingStartError", err)
	}

	f, _ = FromBytes([]byte{syn, syn, stx, 65, 'P'})
	if _, err := f.Unescape(); err != (MissingEndError{}) {
		t.Fatalf("got %v, want MissingEndError", err)
	}
}

func TestAddressAndMessageType(t *testing.T) {
	f, err := FromBytes([]byte{syn, syn, stx, 67, 'P', etx})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, ok := f.Address()
	if !ok || a != 2 {
		t.Fatalf("got %d, %v", a, ok)
	}
	mt, ok := f.MessageType(false)
	if !ok || mt != 'P' {
		t.Fatalf("got %c, %v", mt, ok)
	}

	f, _ = FromBytes([]byte{syn, syn, stx, 200, 'P', etx})
	if _, ok := f.Address(); ok {
		t.Fatal("expected invalid address")
	}
}
