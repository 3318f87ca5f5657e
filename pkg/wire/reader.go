package wire

import "io"

// readFrame reads exactly size bytes. A short read or EOF surfaces as an
// error so a connection can never be left mid-frame.
func readFrame(r io.Reader, size int) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadOffer reads and decodes one offer frame
func ReadOffer(r io.Reader) (Offer, error) {
	buf, err := readFrame(r, OfferSize)
	if err != nil {
		return Offer{}, err
	}

	return DecodeOffer(buf)
}

// ReadRequest reads and decodes one request frame
func ReadRequest(r io.Reader) (Request, error) {
	buf, err := readFrame(r, RequestSize)
	if err != nil {
		return Request{}, err
	}

	return DecodeRequest(buf)
}

// ReadDecision reads and decodes one decision frame
func ReadDecision(r io.Reader) (Decision, error) {
	buf, err := readFrame(r, DecisionSize)
	if err != nil {
		return "", err
	}

	return DecodeDecision(buf)
}

// ReadPayload reads and decodes one server payload frame
func ReadPayload(r io.Reader) (Payload, error) {
	buf, err := readFrame(r, PayloadSize)
	if err != nil {
		return Payload{}, err
	}

	return DecodePayload(buf)
}
