// Package frame implements RawFrame: the escaped, SYN/SYN/STX/.../ETX
// wire framing wrapped around a RawPacket for transmission over a
// CMRInet serial or TCP byte stream.
package frame

// TooShortError is returned when a frame is too short to possibly hold
// a valid packet.
type TooShortError struct{}

func (TooShortError) Error() string { return "frame too short" }

// TooLongError is returned when a frame exceeds RawFrame's capacity, or
// (during escaped receive) when the unescaped packet body would exceed
// a RawPacket's capacity.
type TooLongError struct{}

func (TooLongError) Error() string { return "frame too long" }

// MissingSynchronisationError is returned when a frame doesn't start
// with two SYN bytes.
type MissingSynchronisationError struct{}

func (MissingSynchronisationError) Error() string { return "frame missing synchronisation bytes" }

// MissingStartError is returned when the SYN SYN preamble isn't
// followed by an STX byte.
type MissingStartError struct{}

func (MissingStartError) Error() string { return "frame missing start byte" }

// MissingEndError is returned when a frame doesn't end with an ETX
// byte.
type MissingEndError struct{}

func (MissingEndError) Error() string { return "frame missing end byte" }

// AlreadyCompleteError is returned by Receive once a frame has already
// been completed by a prior ETX byte.
type AlreadyCompleteError struct{}

func (AlreadyCompleteError) Error() string { return "frame already complete" }

// FullError is returned by Push/Finish when there's no room left to
// accommodate a (possibly escaped) byte.
type FullError struct{}

func (FullError) Error() string { return "frame full" }
