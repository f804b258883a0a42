package errors

import (
	"fmt"
	"strings"
)

// ConnectionError provides user-friendly error messages with context and hints
type ConnectionError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e ConnectionError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e ConnectionError) Unwrap() error {
	return e.Err
}

// WrapConnectionError wraps a transport-level error (serial open/read/write,
// TCP dial) with user-friendly context.
func WrapConnectionError(err error, target string) error {
	if err == nil {
		return nil
	}

	return ConnectionError{
		Message: fmt.Sprintf("Failed to communicate with %s", target),
		Reason:  extractConnectionReason(err),
		Hint:    "The node may be offline, or the port/baud may not match its wiring",
		Try:     fmt.Sprintf("check that %s exists and is not held open by another program", target),
		Err:     err,
	}
}

// WrapFrameError wraps a frame decode failure with user-friendly context,
// including the raw bytes that failed to decode for diagnosis.
func WrapFrameError(err error, raw []byte) error {
	if err == nil {
		return nil
	}

	return ConnectionError{
		Message: "CMRInet frame decode failed",
		Reason:  extractFrameReason(err),
		Hint:    "Check node wiring for stray bytes, and that all nodes share a baud rate",
		Try:     fmt.Sprintf("cmrictl decode-frame %x", raw),
		Err:     err,
	}
}

func extractConnectionReason(err error) string {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		return "Connection timeout - node may be offline or unreachable"
	case strings.Contains(errStr, "permission denied"):
		return "Serial port busy or permission denied"
	case strings.Contains(errStr, "connection refused"):
		return "Connection refused - no listener on this address/port"
	case strings.Contains(errStr, "no such file"):
		return "Serial port does not exist"
	case strings.Contains(errStr, "connection reset"):
		return "Connection reset - peer closed the connection unexpectedly"
	}

	return "Connection failed"
}

func extractFrameReason(err error) string {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "synchronisation"):
		return "Frame missing its leading SYN SYN bytes"
	case strings.Contains(errStr, "start"):
		return "Frame missing its STX byte"
	case strings.Contains(errStr, "end") || strings.Contains(errStr, "truncated"):
		return "Frame truncated before ETX"
	case strings.Contains(errStr, "too long"):
		return "Frame exceeds the maximum packet body size"
	case strings.Contains(errStr, "too short"):
		return "Frame too short to contain a valid packet"
	case strings.Contains(errStr, "address"):
		return "Unit address outside the valid 65-192 range"
	}

	return "Frame decode error"
}
