package discovery

import (
	"fmt"
	"net"

	"github.com/sirupsen/logrus"

	"oneboard-server/pkg/wire"
)

// Listener waits for offer frames on a UDP port
type Listener struct {
	pc *net.UDPConn
}

// NewListener binds the UDP port. Use ":13122" to listen on the default
// discovery port on every interface.
func NewListener(addr string) (*Listener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}

	pc, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	return &Listener{pc: pc}, nil
}

// Port returns the bound UDP port
func (l *Listener) Port() int {
	return l.pc.LocalAddr().(*net.UDPAddr).Port
}

// Next blocks until a valid offer arrives, returning it along with the
// sender's address. Malformed datagrams are skipped.
func (l *Listener) Next() (*net.UDPAddr, wire.Offer, error) {
	buf := make([]byte, 1024)

	for {
		n, src, err := l.pc.ReadFromUDP(buf)
		if err != nil {
			return nil, wire.Offer{}, err
		}

		offer, err := wire.DecodeOffer(buf[:n])
		if err != nil {
			logrus.WithError(err).WithField("src", src.String()).Debug("ignoring datagram")
			continue
		}

		return src, offer, nil
	}
}

// Close releases the UDP socket
func (l *Listener) Close() error {
	return l.pc.Close()
}
