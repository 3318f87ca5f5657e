// Package discovery handles server discovery: the server broadcasts offer
// frames over UDP and clients listen for the first valid one.
package discovery

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"oneboard-server/pkg/wire"
)

// DefaultPort is the UDP port clients listen on for offers
const DefaultPort = 13122

// DefaultInterval is how often the offer is re-broadcast
const DefaultInterval = time.Second

// BroadcastAddr returns the limited-broadcast address for the port
func BroadcastAddr(port int) string {
	return fmt.Sprintf("255.255.255.255:%d", port)
}

// Broadcaster periodically sends one pre-built offer frame. Send failures
// are logged and ignored; discovery is best-effort.
type Broadcaster struct {
	frame    []byte
	addr     string
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewBroadcaster returns a broadcaster for the offer
func NewBroadcaster(offer wire.Offer, addr string, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		frame:    wire.EncodeOffer(offer),
		addr:     addr,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start opens the UDP socket and begins broadcasting
func (b *Broadcaster) Start() error {
	conn, err := net.Dial("udp4", b.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", b.addr, err)
	}

	logrus.WithField("addr", b.addr).Info("broadcasting offers")
	go b.runLoop(conn)
	return nil
}

func (b *Broadcaster) runLoop(conn net.Conn) {
	defer close(b.done)
	defer conn.Close()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		if _, err := conn.Write(b.frame); err != nil {
			logrus.WithError(err).Debug("offer send failed")
		}

		select {
		case <-b.stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the broadcast and waits for the run loop to exit
func (b *Broadcaster) Stop() {
	close(b.stop)
	<-b.done
}
