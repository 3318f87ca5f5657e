package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadRequest(t *testing.T) {
	a := assert.New(t)

	frame := EncodeRequest(Request{Rounds: 5, ClientName: "reader"})

	req, err := ReadRequest(bytes.NewReader(frame))
	a.NoError(err)
	a.Equal(uint8(5), req.Rounds)
	a.Equal("reader", req.ClientName)

	// short read never yields a partial message
	_, err = ReadRequest(bytes.NewReader(frame[:10]))
	a.ErrorIs(err, io.ErrUnexpectedEOF)

	_, err = ReadRequest(bytes.NewReader(nil))
	a.ErrorIs(err, io.EOF)
}

func TestReadDecision_ConsumesExactlyOneFrame(t *testing.T) {
	a := assert.New(t)

	var buf bytes.Buffer
	buf.Write(EncodeDecision(DecisionHit))
	buf.Write(EncodeDecision(DecisionStand))

	d, err := ReadDecision(&buf)
	a.NoError(err)
	a.Equal(DecisionHit, d)

	d, err = ReadDecision(&buf)
	a.NoError(err)
	a.Equal(DecisionStand, d)

	a.Zero(buf.Len())
}

func TestReadPayloadAndOffer(t *testing.T) {
	a := assert.New(t)

	p, err := ReadPayload(bytes.NewReader(EncodePayload(Payload{Result: ResultTie})))
	a.NoError(err)
	a.Equal(ResultTie, p.Result)

	o, err := ReadOffer(bytes.NewReader(EncodeOffer(Offer{TCPPort: 9, ServerName: "s"})))
	a.NoError(err)
	a.Equal(uint16(9), o.TCPPort)
}
