package connection

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/robertgauld/cmri/internal/address"
	"github.com/robertgauld/cmri/internal/frame"
)

// newTestConnection wraps one net.Conn half of a net.Pipe in a
// Connection; the pipe supports deadlines, the same shape a TCP
// connection provides.
func newTestConnection(t *testing.T, side net.Conn) *Connection {
	t.Helper()
	return &Connection{name: "test", stream: side, rf: frame.New()}
}

func TestSendWritesFramedBytes(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := newTestConnection(t, client)

	addr, err := address.FromNodeAddress(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rf := frame.New()
	rf.Begin(addr, 'P')
	if err := rf.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Send(context.Background(), rf) }()

	got := make([]byte, rf.Len())
	if _, err := io.ReadFull(server, got); err != nil {
		t.Fatalf("read from server side: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	want := []byte{0xFF, 0xFF, 0x02, 65, 'P', 0x03}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReceiveAssemblesFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := newTestConnection(t, client)

	go func() {
		server.Write([]byte{0xFF, 0xFF, 0x02, 65, 'P', 0x03})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rf, err := c.Receive(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0xFF, 0xFF, 0x02, 65, 'P', 0x03}
	if string(rf.AsSlice()) != string(want) {
		t.Fatalf("got %v, want %v", rf.AsSlice(), want)
	}
}

func TestReceiveTwiceDoesNotCorruptFirstFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := newTestConnection(t, client)

	first := []byte{0xFF, 0xFF, 0x02, 65, 'P', 0x03}
	second := []byte{0xFF, 0xFF, 0x02, 66, 'P', 0x03}

	go func() {
		server.Write(first)
		server.Write(second)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rf1, err := c.Receive(ctx)
	if err != nil {
		t.Fatalf("unexpected error on first Receive: %v", err)
	}
	got1 := append([]byte(nil), rf1.AsSlice()...)

	rf2, err := c.Receive(ctx)
	if err != nil {
		t.Fatalf("unexpected error on second Receive: %v", err)
	}

	if string(rf1.AsSlice()) != string(got1) {
		t.Fatalf("first frame mutated by second Receive: got %v, want %v", rf1.AsSlice(), got1)
	}
	if string(rf1.AsSlice()) != string(first) {
		t.Fatalf("first frame corrupted: got %v, want %v", rf1.AsSlice(), first)
	}
	if string(rf2.AsSlice()) != string(second) {
		t.Fatalf("second frame: got %v, want %v", rf2.AsSlice(), second)
	}
}

func TestReceiveRespectsCancellation(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := newTestConnection(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Receive(ctx); err == nil {
		t.Fatal("expected error for an already-cancelled context")
	}
}

func TestParsePortBaud(t *testing.T) {
	cases := []struct {
		in       string
		wantPort string
		wantBaud uint32
		wantErr  bool
	}{
		{"/dev/ttyUSB0@19200", "/dev/ttyUSB0", 19200, false},
		{"/dev/ttyUSB0", "/dev/ttyUSB0", 0, false},
		{"/dev/ttyUSB0@notanumber", "", 0, true},
		{"COM3@9600", "COM3", 9600, false},
	}
	for _, c := range cases {
		port, baud, err := ParsePortBaud(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("%q: got err %v, wantErr %v", c.in, err, c.wantErr)
		}
		if err != nil {
			continue
		}
		if port != c.wantPort || baud != c.wantBaud {
			t.Fatalf("%q: got (%q, %d), want (%q, %d)", c.in, port, baud, c.wantPort, c.wantBaud)
		}
	}
}
