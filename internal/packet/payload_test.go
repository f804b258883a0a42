package packet

import "testing"

func TestTryDecodePayloadUnknownExperimenter(t *testing.T) {
	raw := []byte{'Z', 0x01, 0x02, 0x03}

	if _, err := TryDecodePayload(raw, false); err == nil {
		t.Fatal("expected error when experimenter messages are not allowed")
	}

	p, err := TryDecodePayload(raw, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Kind() != KindUnknown {
		t.Fatalf("got kind %v, want KindUnknown", p.Kind())
	}

	msgType, body, ok := p.Unknown()
	if !ok {
		t.Fatal("Unknown() returned ok=false for a KindUnknown payload")
	}
	if msgType != 'Z' {
		t.Fatalf("message type = %c, want Z", msgType)
	}
	if string(body) != string([]byte{0x01, 0x02, 0x03}) {
		t.Fatalf("body = %v, want %v", body, []byte{0x01, 0x02, 0x03})
	}

	encoded := p.Encode()
	want := []byte{'Z', 0x01, 0x02, 0x03}
	if string(encoded.AsSlice()) != string(want) {
		t.Fatalf("encoded = %v, want %v", encoded.AsSlice(), want)
	}
}

func TestTryDecodePayloadInvalidMessageType(t *testing.T) {
	cases := []struct {
		name              string
		raw               []byte
		allowExperimenter bool
	}{
		{"non-letter, experimenter disallowed", []byte{0x01}, false},
		{"non-letter, experimenter allowed", []byte{0x01}, true},
		{"lowercase letter", []byte{'z'}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := TryDecodePayload(c.raw, c.allowExperimenter)
			if _, ok := err.(InvalidMessageTypeError); !ok {
				t.Fatalf("got %v (%T), want InvalidMessageTypeError", err, err)
			}
		})
	}
}

func TestTryDecodePayloadTooShort(t *testing.T) {
	if _, err := TryDecodePayload(nil, false); err != (TooShortError{}) {
		t.Fatalf("got %v, want TooShortError", err)
	}
}

func TestPayloadAccessorsReturnFalseForWrongKind(t *testing.T) {
	p := newPollRequestPayload()

	if _, ok := p.NodeSort(); ok {
		t.Error("NodeSort() should be false for a PollRequest payload")
	}
	if _, ok := p.ReceiveData(); ok {
		t.Error("ReceiveData() should be false for a PollRequest payload")
	}
	if _, ok := p.TransmitData(); ok {
		t.Error("TransmitData() should be false for a PollRequest payload")
	}
	if _, _, ok := p.Unknown(); ok {
		t.Error("Unknown() should be false for a PollRequest payload")
	}
}

func TestPayloadEncodePollRequest(t *testing.T) {
	p := newPollRequestPayload()
	got := p.Encode().AsSlice()
	want := []byte{'P'}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
