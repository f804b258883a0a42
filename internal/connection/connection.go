// Package connection adapts the CMRInet codec to a byte-stream
// transport: serial or TCP. One byte in drives the RawFrame receive
// state machine; one frame out becomes bytes on the wire.
package connection

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"go.bug.st/serial"

	"github.com/robertgauld/cmri/internal/errors"
	"github.com/robertgauld/cmri/internal/frame"
	"github.com/robertgauld/cmri/internal/logging"
)

// readTimeout bounds each blocking read so Receive can notice a
// cancelled context between bytes instead of blocking forever.
const readTimeout = 100 * time.Millisecond

// deadlineSetter is implemented by net.Conn; go.bug.st/serial's Port
// does not support per-call deadlines, only a fixed read timeout set
// once at open time, so a type assertion is used to apply deadlines
// only where the underlying stream supports them.
type deadlineSetter interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

// Connection is a single-threaded, single-goroutine adapter between a
// byte-stream transport and the CMRInet frame codec.
type Connection struct {
	name   string
	stream io.ReadWriteCloser
	logger *logging.Logger
	rf     frame.RawFrame
}

// NewSerialConnection opens a serial port for CMRInet traffic: 8 data
// bits, no parity, one stop bit, no flow control, matching the
// CMRInet physical layer. baud is passed to the port as given; it is
// neither checked against cmri.Bauds nor logged.
func NewSerialConnection(port string, baud uint32, logger *logging.Logger) (*Connection, error) {
	mode := &serial.Mode{
		BaudRate: int(baud),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, errors.WrapConnectionError(err, port)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, errors.WrapConnectionError(err, port)
	}
	return &Connection{
		name:   port,
		stream: p,
		logger: logger,
		rf:     frame.New(),
	}, nil
}

// NewTCPConnection dials a TCP CMRInet bridge (e.g. a hub exposing the
// bus over the network rather than a local serial port).
func NewTCPConnection(ctx context.Context, address string, logger *logging.Logger) (*Connection, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.WrapConnectionError(err, address)
	}
	return &Connection{
		name:   address,
		stream: conn,
		logger: logger,
		rf:     frame.New(),
	}, nil
}

// Name returns the port path or network address this connection was
// opened with, for logging and error messages.
func (c *Connection) Name() string { return c.name }

func (c *Connection) applyDeadline(ctx context.Context) {
	ds, ok := c.stream.(deadlineSetter)
	if !ok {
		return
	}
	if deadline, ok := ctx.Deadline(); ok {
		ds.SetReadDeadline(deadline)
		ds.SetWriteDeadline(deadline)
		return
	}
	ds.SetReadDeadline(time.Time{})
	ds.SetWriteDeadline(time.Time{})
}

// Send writes every byte of rf to the transport.
func (c *Connection) Send(ctx context.Context, rf frame.RawFrame) error {
	c.applyDeadline(ctx)
	n, err := c.stream.Write(rf.AsSlice())
	if c.logger != nil {
		var unit uint8
		if node, ok := rf.Address(); ok {
			unit = node + 65
		}
		msgType, _ := rf.MessageType(true)
		c.logger.LogFrame("send", unit, msgType, n, err == nil, err)
	}
	if err != nil {
		return errors.WrapConnectionError(err, c.name)
	}
	return nil
}

// Receive reads bytes from the transport, feeding them to a private
// receive-state RawFrame, until a complete frame is assembled or ctx
// is done. A cancelled Receive leaves the internal state machine in a
// well-defined partial state; the next call resumes feeding it.
func (c *Connection) Receive(ctx context.Context) (frame.RawFrame, error) {
	buf := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return frame.RawFrame{}, err
		}

		c.applyDeadline(ctx)
		n, err := c.stream.Read(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return frame.RawFrame{}, errors.WrapConnectionError(err, c.name)
		}
		if n == 0 {
			continue
		}

		complete, err := c.rf.Receive(buf[0])
		if err != nil {
			if _, ok := err.(frame.AlreadyCompleteError); ok {
				return frame.RawFrame{}, err
			}
			if c.logger != nil {
				c.logger.LogFrame("receive", 0, 0, c.rf.Len(), false, err)
			}
			continue
		}
		if !complete {
			continue
		}

		// c.rf's buffer backs an internal array that the next Receive
		// call reuses; copy the completed frame out before resetting
		// so a caller retaining the returned value across calls isn't
		// silently corrupted by bytes written underneath it.
		result, err := frame.FromBytes(c.rf.AsSlice())
		c.rf.Reset()
		if err != nil {
			return frame.RawFrame{}, err
		}
		if c.logger != nil {
			var unit uint8
			if node, ok := result.Address(); ok {
				unit = node + 65
			}
			msgType, _ := result.MessageType(true)
			c.logger.LogFrame("receive", unit, msgType, result.Len(), true, nil)
		}
		return result, nil
	}
}

// Shutdown closes the underlying transport.
func (c *Connection) Shutdown() error {
	return c.stream.Close()
}

type timeoutError interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	te, ok := err.(timeoutError)
	return ok && te.Timeout()
}

// ParsePortBaud splits a "port@baud" connection string (e.g.
// "/dev/ttyUSB0@19200") into its port and baud parts. If no "@baud"
// suffix is present, baud is 0 (caller should apply a default).
func ParsePortBaud(s string) (port string, baud uint32, err error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '@' {
			port = s[:i]
			var v uint64
			v, err = parseUint(s[i+1:])
			if err != nil {
				return "", 0, fmt.Errorf("invalid baud in %q: %w", s, err)
			}
			return port, uint32(v), nil
		}
	}
	return s, 0, nil
}

func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty baud")
	}
	var v uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
		v = v*10 + uint64(r-'0')
	}
	return v, nil
}
