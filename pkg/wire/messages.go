package wire

import (
	"encoding/binary"
	"fmt"

	"oneboard-server/pkg/deck"
)

// Offer is broadcast by the server over UDP so clients can discover it
type Offer struct {
	TCPPort    uint16
	ServerName string
}

// EncodeOffer builds the 39-byte offer frame
func EncodeOffer(o Offer) []byte {
	buf := make([]byte, OfferSize)
	binary.BigEndian.PutUint32(buf[0:4], MagicCookie)
	buf[4] = TypeOffer
	binary.BigEndian.PutUint16(buf[5:7], o.TCPPort)
	copy(buf[7:], padName(o.ServerName))
	return buf
}

// DecodeOffer parses an offer frame. Any malformed input returns
// ErrInvalidFrame and a zero Offer.
func DecodeOffer(data []byte) (Offer, error) {
	if err := checkHeader(data, OfferSize, TypeOffer); err != nil {
		return Offer{}, err
	}

	return Offer{
		TCPPort:    binary.BigEndian.Uint16(data[5:7]),
		ServerName: parseName(data[7:]),
	}, nil
}

// Request is the first message a client sends over TCP
type Request struct {
	Rounds     uint8
	ClientName string
}

// EncodeRequest builds the 38-byte request frame.
// Rounds must already be clamped to 1-255 by the caller.
func EncodeRequest(r Request) []byte {
	buf := make([]byte, RequestSize)
	binary.BigEndian.PutUint32(buf[0:4], MagicCookie)
	buf[4] = TypeRequest
	buf[5] = r.Rounds
	copy(buf[6:], padName(r.ClientName))
	return buf
}

// DecodeRequest parses a request frame
func DecodeRequest(data []byte) (Request, error) {
	if err := checkHeader(data, RequestSize, TypeRequest); err != nil {
		return Request{}, err
	}

	return Request{
		Rounds:     data[5],
		ClientName: parseName(data[6:]),
	}, nil
}

// Decision is a client's move, exactly five ASCII bytes on the wire
type Decision string

// the only two legal decisions
const (
	DecisionHit   Decision = "Hittt"
	DecisionStand Decision = "Stand"
)

// EncodeDecision builds the 10-byte decision frame.
// The decision must be one of DecisionHit or DecisionStand.
func EncodeDecision(d Decision) []byte {
	buf := make([]byte, DecisionSize)
	binary.BigEndian.PutUint32(buf[0:4], MagicCookie)
	buf[4] = TypePayload
	copy(buf[5:], d)
	return buf
}

// DecodeDecision parses a decision frame. The five decision bytes must
// match DecisionHit or DecisionStand exactly; anything else is invalid.
func DecodeDecision(data []byte) (Decision, error) {
	if err := checkHeader(data, DecisionSize, TypePayload); err != nil {
		return "", err
	}

	d := Decision(data[5:10])
	if d != DecisionHit && d != DecisionStand {
		return "", fmt.Errorf("%w: unknown decision %q", ErrInvalidFrame, string(data[5:10]))
	}

	return d, nil
}

// Payload is a card or round result sent from the server to a client.
// The card is only meaningful when Result is ResultNotOver; terminal
// results carry an arbitrary card the receiver must ignore.
type Payload struct {
	Result Result
	Card   deck.Card
}

// EncodePayload builds the 9-byte server payload frame
func EncodePayload(p Payload) []byte {
	buf := make([]byte, PayloadSize)
	binary.BigEndian.PutUint32(buf[0:4], MagicCookie)
	buf[4] = TypePayload
	buf[5] = byte(p.Result)
	binary.BigEndian.PutUint16(buf[6:8], uint16(int16(p.Card.Rank)))
	buf[8] = byte(int8(p.Card.Suit))
	return buf
}

// DecodePayload parses a server payload frame
func DecodePayload(data []byte) (Payload, error) {
	if err := checkHeader(data, PayloadSize, TypePayload); err != nil {
		return Payload{}, err
	}

	if data[5] > byte(ResultWin) {
		return Payload{}, fmt.Errorf("%w: unknown result %#x", ErrInvalidFrame, data[5])
	}

	return Payload{
		Result: Result(data[5]),
		Card: deck.Card{
			Rank: int(int16(binary.BigEndian.Uint16(data[6:8]))),
			Suit: deck.Suit(int8(data[8])),
		},
	}, nil
}

func checkHeader(data []byte, size int, typeTag byte) error {
	if len(data) != size {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidFrame, len(data), size)
	}

	if cookie := binary.BigEndian.Uint32(data[0:4]); cookie != MagicCookie {
		return fmt.Errorf("%w: bad magic cookie %#x", ErrInvalidFrame, cookie)
	}

	if data[4] != typeTag {
		return fmt.Errorf("%w: bad message type %#x", ErrInvalidFrame, data[4])
	}

	return nil
}
