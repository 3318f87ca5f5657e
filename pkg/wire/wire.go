// Package wire implements the fixed-layout binary protocol spoken between
// the blackjack server and its clients. All messages are big-endian and
// open with a magic cookie and a one-byte type tag.
package wire

import (
	"errors"
	"strings"
)

// MagicCookie opens every message on the wire
const MagicCookie = 0xABCDDCBA

// message type tags
const (
	TypeOffer   = 0x2
	TypeRequest = 0x3
	TypePayload = 0x4
)

// frame sizes in bytes
const (
	OfferSize    = 39
	RequestSize  = 38
	DecisionSize = 10
	PayloadSize  = 9
)

const nameLen = 32

// ErrInvalidFrame is returned when a frame has the wrong length,
// cookie, type tag or field contents
var ErrInvalidFrame = errors.New("invalid frame")

// Result is the round state carried in a server payload
type Result uint8

// result codes
const (
	ResultNotOver Result = iota
	ResultTie
	ResultLoss // client lost (dealer won)
	ResultWin  // client won (dealer lost)
)

func (r Result) String() string {
	switch r {
	case ResultNotOver:
		return "not-over"
	case ResultTie:
		return "tie"
	case ResultLoss:
		return "loss"
	case ResultWin:
		return "win"
	}

	return "unknown"
}

// padName truncates a name to 32 bytes and pads it with NULs
func padName(name string) []byte {
	b := make([]byte, nameLen)
	copy(b, name)
	return b
}

// parseName cuts at the first NUL and drops invalid UTF-8
func parseName(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}

	return strings.ToValidUTF8(s, "")
}
